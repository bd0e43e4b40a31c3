package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Mergington/internal/domain"
)

// activitiesSchema — таблица документов занятий.
// position сохраняет порядок вставки для List.
const activitiesSchema = `
CREATE TABLE IF NOT EXISTS activities (
    name       TEXT PRIMARY KEY,
    doc        JSONB NOT NULL,
    position   BIGSERIAL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresActivityStore — хранилище документов занятий в PostgreSQL.
//
// Документ (ActivityDetails) лежит в колонке doc целиком, ключ — name.
// Изменение списка участников выполняется в транзакции с SELECT ... FOR UPDATE.
type PostgresActivityStore struct {
	pool *pgxpool.Pool
}

// NewPostgresActivityStore создаёт новый PostgresActivityStore.
func NewPostgresActivityStore(pool *pgxpool.Pool) *PostgresActivityStore {
	return &PostgresActivityStore{pool: pool}
}

// EnsureSchema создаёт таблицу, если её нет.
func (s *PostgresActivityStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, activitiesSchema); err != nil {
		return fmt.Errorf("create activities schema: %w", err)
	}
	return nil
}

// List возвращает все занятия в порядке вставки.
func (s *PostgresActivityStore) List(ctx context.Context) ([]domain.Activity, error) {
	query := `
		SELECT name, doc
		FROM activities
		ORDER BY position
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var name string
		var doc []byte
		if err := rows.Scan(&name, &doc); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}

		activity, err := activityFromDoc(name, doc)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

// Get возвращает занятие по имени.
func (s *PostgresActivityStore) Get(ctx context.Context, name string) (*domain.Activity, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM activities WHERE name = $1`, name).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}

	activity, err := activityFromDoc(name, doc)
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// AddParticipant добавляет email в список участников.
func (s *PostgresActivityStore) AddParticipant(ctx context.Context, name, email string) error {
	return s.mutate(ctx, name, addParticipant(email))
}

// RemoveParticipant удаляет email из списка участников.
func (s *PostgresActivityStore) RemoveParticipant(ctx context.Context, name, email string) error {
	return s.mutate(ctx, name, removeParticipant(email))
}

// mutate читает документ под блокировкой строки, применяет fn и сохраняет результат.
// Если fn вернула ошибку, транзакция откатывается и ошибка возвращается как есть.
func (s *PostgresActivityStore) mutate(ctx context.Context, name string, fn mutation) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var doc []byte
		err := tx.QueryRow(ctx, `
			SELECT doc FROM activities
			WHERE name = $1
			FOR UPDATE
		`, name).Scan(&doc)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock activity: %w", err)
		}

		updated, err := applyToDoc(name, doc, fn)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE activities SET doc = $2 WHERE name = $1`, name, updated); err != nil {
			return fmt.Errorf("update activity: %w", err)
		}
		return nil
	})
}

// Count возвращает количество занятий.
func (s *PostgresActivityStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return count, nil
}

// InsertMany вставляет занятия одним batch; существующие имена пропускаются.
func (s *PostgresActivityStore) InsertMany(ctx context.Context, activities []domain.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range activities {
		doc, err := json.Marshal(a.Details())
		if err != nil {
			return fmt.Errorf("marshal activity %q: %w", a.Name, err)
		}
		batch.Queue(`
			INSERT INTO activities (name, doc)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, a.Name, doc)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert activities: %w", err)
	}
	return nil
}

// applyToDoc применяет fn к документу занятия и возвращает новый документ.
func applyToDoc(name string, doc []byte, fn mutation) ([]byte, error) {
	activity, err := activityFromDoc(name, doc)
	if err != nil {
		return nil, err
	}

	if err := fn(&activity); err != nil {
		return nil, err
	}

	updated, err := json.Marshal(activity.Details())
	if err != nil {
		return nil, fmt.Errorf("marshal activity: %w", err)
	}
	return updated, nil
}

// activityFromDoc собирает domain.Activity из ключа и JSONB документа.
func activityFromDoc(name string, doc []byte) (domain.Activity, error) {
	var details domain.ActivityDetails
	if err := json.Unmarshal(doc, &details); err != nil {
		return domain.Activity{}, fmt.Errorf("unmarshal activity %q: %w", name, err)
	}

	participants := details.Participants
	if participants == nil {
		participants = []string{}
	}

	return domain.Activity{
		Name:            name,
		Description:     details.Description,
		Schedule:        details.Schedule,
		MaxParticipants: details.MaxParticipants,
		Participants:    participants,
	}, nil
}
