package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shaiso/Mergington/internal/mq"
)

const (
	defaultWebhookTimeout = 10 * time.Second
	defaultMaxAttempts    = 3
	defaultInitialDelay   = 500 * time.Millisecond
	defaultMaxDelay       = 10 * time.Second
)

// WebhookSender отправляет уведомления POST-запросом с JSON телом
// (например, в почтовый шлюз школы).
//
// Сетевые ошибки и ответы 5xx повторяются с экспоненциальной задержкой.
// Ответ 4xx означает, что шлюз отверг уведомление: ошибка помечается
// mq.Permanent и сообщение уходит в DLQ.
type WebhookSender struct {
	url          string
	client       *http.Client
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// WebhookConfig — конфигурация WebhookSender.
type WebhookConfig struct {
	URL string

	// MaxAttempts — попыток на одно уведомление (default: 3).
	MaxAttempts int

	// Timeout одного запроса (default: 10s).
	Timeout time.Duration

	InitialDelay time.Duration // default: 500ms
	MaxDelay     time.Duration // default: 10s
}

// NewWebhookSender создаёт WebhookSender.
func NewWebhookSender(cfg WebhookConfig) *WebhookSender {
	s := &WebhookSender{
		url:          cfg.URL,
		client:       &http.Client{Timeout: cfg.Timeout},
		maxAttempts:  cfg.MaxAttempts,
		initialDelay: cfg.InitialDelay,
		maxDelay:     cfg.MaxDelay,
	}
	if s.client.Timeout <= 0 {
		s.client.Timeout = defaultWebhookTimeout
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = defaultMaxAttempts
	}
	if s.initialDelay <= 0 {
		s.initialDelay = defaultInitialDelay
	}
	if s.maxDelay <= 0 {
		s.maxDelay = defaultMaxDelay
	}
	return s
}

// Send реализует Sender.
func (s *WebhookSender) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return mq.Permanent(fmt.Errorf("marshal notification: %w", err))
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		lastErr = s.post(ctx, body)
		if lastErr == nil || mq.IsPermanent(lastErr) {
			return lastErr
		}
		if attempt == s.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff(attempt)):
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *WebhookSender) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return mq.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("webhook HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return mq.Permanent(err)
	}
	return err
}

// backoff — задержка перед попыткой attempt+1: initialDelay * 2^(attempt-1), не больше maxDelay.
func (s *WebhookSender) backoff(attempt int) time.Duration {
	delay := s.initialDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= s.maxDelay {
			return s.maxDelay
		}
	}
	return min(delay, s.maxDelay)
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
