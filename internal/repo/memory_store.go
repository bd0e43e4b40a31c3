package repo

import (
	"context"
	"sync"

	"github.com/shaiso/Mergington/internal/domain"
)

// MemoryActivityStore хранит занятия в памяти процесса.
// Используется для локальной разработки (STORE_DRIVER=memory) и в тестах.
type MemoryActivityStore struct {
	mu         sync.RWMutex
	activities map[string]*domain.Activity
	order      []string
}

// NewMemoryActivityStore создаёт пустое хранилище.
func NewMemoryActivityStore() *MemoryActivityStore {
	return &MemoryActivityStore{
		activities: make(map[string]*domain.Activity),
	}
}

// List возвращает копии занятий в порядке вставки.
func (s *MemoryActivityStore) List(_ context.Context) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Activity, 0, len(s.order))
	for _, name := range s.order {
		result = append(result, s.activities[name].Clone())
	}
	return result, nil
}

// Get возвращает копию занятия.
func (s *MemoryActivityStore) Get(_ context.Context, name string) (*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[name]
	if !ok {
		return nil, ErrNotFound
	}
	c := a.Clone()
	return &c, nil
}

// AddParticipant добавляет email в конец списка.
func (s *MemoryActivityStore) AddParticipant(_ context.Context, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return ErrNotFound
	}
	return addParticipant(email)(a)
}

// RemoveParticipant удаляет email из списка.
func (s *MemoryActivityStore) RemoveParticipant(_ context.Context, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return ErrNotFound
	}
	return removeParticipant(email)(a)
}

// Count возвращает количество занятий.
func (s *MemoryActivityStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.order)), nil
}

// InsertMany добавляет копии занятий, пропуская существующие имена.
func (s *MemoryActivityStore) InsertMany(_ context.Context, activities []domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range activities {
		if _, ok := s.activities[a.Name]; ok {
			continue
		}
		c := a.Clone()
		s.activities[a.Name] = &c
		s.order = append(s.order, a.Name)
	}
	return nil
}
