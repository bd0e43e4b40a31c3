package repo

import (
	"context"
	"slices"

	"github.com/shaiso/Mergington/internal/domain"
)

// ActivityStore — хранилище документов занятий.
//
// Реализации:
//   - MongoActivityStore    — MongoDB, основной вариант
//   - PostgresActivityStore — PostgreSQL, документ в JSONB
//   - MemoryActivityStore   — в памяти, для разработки и тестов
//
// AddParticipant и RemoveParticipant атомарны относительно друг друга:
// параллельные записи одного email не создают дубликатов.
type ActivityStore interface {
	// List возвращает все занятия в стабильном порядке.
	List(ctx context.Context) ([]domain.Activity, error)

	// Get возвращает занятие по имени или ErrNotFound.
	Get(ctx context.Context, name string) (*domain.Activity, error)

	// AddParticipant добавляет email в конец списка.
	// Ошибки: ErrNotFound, ErrAlreadyExists.
	AddParticipant(ctx context.Context, name, email string) error

	// RemoveParticipant удаляет email из списка.
	// Ошибки: ErrNotFound, ErrParticipantNotFound.
	RemoveParticipant(ctx context.Context, name, email string) error

	// Count возвращает количество занятий.
	Count(ctx context.Context) (int64, error)

	// InsertMany добавляет занятия; уже существующие имена пропускаются.
	InsertMany(ctx context.Context, activities []domain.Activity) error
}

// mutation — изменение списка участников одного занятия.
// Хранилища с чтением-изменением-записью применяют её под своей блокировкой.
type mutation func(a *domain.Activity) error

// addParticipant дописывает email в конец списка, если его там нет.
func addParticipant(email string) mutation {
	return func(a *domain.Activity) error {
		if a.HasParticipant(email) {
			return ErrAlreadyExists
		}
		a.Participants = append(a.Participants, email)
		return nil
	}
}

// removeParticipant удаляет первое вхождение email.
func removeParticipant(email string) mutation {
	return func(a *domain.Activity) error {
		idx := slices.Index(a.Participants, email)
		if idx < 0 {
			return ErrParticipantNotFound
		}
		a.Participants = slices.Delete(a.Participants, idx, idx+1)
		return nil
	}
}
