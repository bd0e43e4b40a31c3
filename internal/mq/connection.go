package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Mergington/internal/telemetry"
)

// ErrNoChannel — соединение ещё не установлено или переподключается.
// Publisher возвращает её сразу: событие о записи не ждёт брокер.
var ErrNoChannel = errors.New("no channel available")

const (
	initialBackoff    = time.Second
	defaultMaxBackoff = 30 * time.Second
	heartbeat         = 10 * time.Second
)

// ConnectionState — состояние соединения с брокером.
type ConnectionState int

const (
	StateConnecting ConnectionState = iota
	StateConnected
	StateReconnecting
	StateClosed
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ConnectionConfig — параметры соединения процесса с RabbitMQ.
type ConnectionConfig struct {
	URL string

	// Name — имя процесса (mergington-api, mergington-notifier, ...).
	// Передаётся брокеру как connection_name и служит label метрик.
	Name string

	Logger *slog.Logger

	// MaxBackoff — верхняя граница задержки между попытками. По умолчанию 30s.
	MaxBackoff time.Duration
}

// Connection держит одно AMQP соединение и один канал процесса.
//
// После разрыва соединение восстанавливается в фоне с растущей задержкой.
// Пока идёт переподключение, публикация событий о списках сразу получает
// ErrNoChannel, а consumers ждут сигнала Reconnected.
type Connection struct {
	cfg    ConnectionConfig
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	state   ConnectionState

	done        chan struct{}
	reconnected chan struct{}
}

// Dial подключается к RabbitMQ и запускает наблюдение за соединением.
func Dial(cfg ConnectionConfig) (*Connection, error) {
	c := newConnection(cfg)

	conn, ch, err := c.dial()
	if err != nil {
		c.setState(StateClosed)
		return nil, err
	}
	c.install(conn, ch)
	c.logger.Info("connected to RabbitMQ", "url", redactURL(cfg.URL))

	go c.supervise(conn, ch)
	return c, nil
}

func newConnection(cfg ConnectionConfig) *Connection {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.Name == "" {
		cfg.Name = "mergington"
	}

	c := &Connection{
		cfg:         cfg,
		logger:      cfg.Logger.With("broker", "rabbitmq"),
		done:        make(chan struct{}),
		reconnected: make(chan struct{}, 1),
	}
	c.setStateLocked(StateConnecting)
	return c
}

// dial открывает соединение и канал, не трогая состояние Connection.
func (c *Connection) dial() (*amqp.Connection, *amqp.Channel, error) {
	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName(c.cfg.Name)

	conn, err := amqp.DialConfig(c.cfg.URL, amqp.Config{
		Heartbeat:  heartbeat,
		Locale:     "en_US",
		Properties: props,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return conn, ch, nil
}

// install делает conn и ch текущими. false — Connection уже закрыт.
func (c *Connection) install(conn *amqp.Connection, ch *amqp.Channel) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return false
	}
	c.conn = conn
	c.channel = ch
	c.setStateLocked(StateConnected)
	return true
}

// supervise ждёт разрыва conn или ch и восстанавливает оба.
// Закрытый брокером канал (например, после ошибки публикации)
// тоже ведёт к переподключению: отдельно канал не переоткрывается.
func (c *Connection) supervise(conn *amqp.Connection, ch *amqp.Channel) {
	for {
		connLost := conn.NotifyClose(make(chan *amqp.Error, 1))
		chLost := ch.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-c.done:
			return
		case err := <-connLost:
			if err != nil {
				c.logger.Warn("connection lost", "code", err.Code, "reason", err.Reason)
			}
		case err := <-chLost:
			if err != nil {
				c.logger.Warn("channel closed by broker", "code", err.Code, "reason", err.Reason)
			}
			_ = conn.Close()
		}

		c.setState(StateReconnecting)

		conn, ch = c.redial()
		if conn == nil {
			return
		}
	}
}

// redial повторяет попытки до успеха или Close. nil — Connection закрыт.
func (c *Connection) redial() (*amqp.Connection, *amqp.Channel) {
	delay := initialBackoff

	for attempt := 1; ; attempt++ {
		select {
		case <-c.done:
			return nil, nil
		case <-time.After(delay):
		}

		conn, ch, err := c.dial()
		if err != nil {
			delay = nextBackoff(delay, c.cfg.MaxBackoff)
			c.logger.Warn("reconnect failed", "attempt", attempt, "next_delay", delay, "error", err)
			continue
		}

		if !c.install(conn, ch) {
			_ = conn.Close()
			return nil, nil
		}

		telemetry.BrokerReconnects.WithLabelValues(c.cfg.Name).Inc()
		c.logger.Info("reconnected to RabbitMQ", "attempts", attempt)

		select {
		case c.reconnected <- struct{}{}:
		default:
		}
		return conn, ch
	}
}

// nextBackoff удваивает задержку, не превышая limit.
func nextBackoff(delay, limit time.Duration) time.Duration {
	return min(delay*2, limit)
}

func (c *Connection) setState(s ConnectionState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return
	}
	c.setStateLocked(s)
}

func (c *Connection) setStateLocked(s ConnectionState) {
	c.state = s
	up := 0.0
	if s == StateConnected {
		up = 1
	}
	telemetry.BrokerConnected.WithLabelValues(c.cfg.Name).Set(up)
}

// State возвращает текущее состояние соединения.
func (c *Connection) State() ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsConnected сообщает, можно ли сейчас публиковать и потреблять.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == StateConnected && c.conn != nil && !c.conn.IsClosed()
}

// Channel возвращает текущий канал или nil.
func (c *Connection) Channel() *amqp.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// Reconnected сигналит после каждого успешного переподключения.
func (c *Connection) Reconnected() <-chan struct{} {
	return c.reconnected
}

// WithChannel выполняет fn с текущим каналом.
func (c *Connection) WithChannel(ctx context.Context, fn func(ch *amqp.Channel) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.RLock()
	ch, state := c.channel, c.state
	c.mu.RUnlock()

	if ch == nil || state != StateConnected {
		return fmt.Errorf("%w: %s", ErrNoChannel, state)
	}
	return fn(ch)
}

// Close закрывает канал и соединение. Повторный вызов ничего не делает.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return nil
	}
	c.setStateLocked(StateClosed)
	close(c.done)

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	c.channel = nil
	c.conn = nil

	c.logger.Info("RabbitMQ connection closed")
	return errors.Join(errs...)
}

// redactURL скрывает пароль в URL для логов.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid-url"
	}
	return u.Redacted()
}
