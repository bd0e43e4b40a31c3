package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchedulerLockKey — ключ advisory lock для лидерства scheduler.
const SchedulerLockKey int64 = 424242

// AdvisoryLock — лидерство через pg_try_advisory_lock.
//
// Advisory lock принадлежит сессии, поэтому держим отдельное
// соединение из пула, пока лидерство не отпущено.
type AdvisoryLock struct {
	pool *pgxpool.Pool
	key  int64

	mu   sync.Mutex
	conn *pgxpool.Conn
}

// NewAdvisoryLock создаёт AdvisoryLock.
func NewAdvisoryLock(pool *pgxpool.Pool, key int64) *AdvisoryLock {
	return &AdvisoryLock{pool: pool, key: key}
}

// TryLead пытается стать лидером (или подтверждает лидерство).
func (l *AdvisoryLock) TryLead(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		// Соединение живо — лидерство сохраняется
		if err := l.conn.Ping(ctx); err == nil {
			return true, nil
		}
		l.conn.Release()
		l.conn = nil
	}

	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire conn: %w", err)
	}

	var ok bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", l.key).Scan(&ok); err != nil {
		conn.Release()
		return false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !ok {
		conn.Release()
		return false, nil
	}

	l.conn = conn
	return true, nil
}

// Release отпускает лидерство.
func (l *AdvisoryLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}
	defer func() {
		l.conn.Release()
		l.conn = nil
	}()

	if _, err := l.conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", l.key); err != nil {
		return fmt.Errorf("advisory unlock: %w", err)
	}
	return nil
}
