package repo

import (
	"errors"
	"fmt"
)

// Общие ошибки хранилищ.
var (
	// ErrNotFound — занятие не найдено.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — участник уже записан на занятие.
	ErrAlreadyExists = errors.New("already exists")

	// ErrParticipantNotFound — email отсутствует в списке участников.
	// Оборачивает ErrNotFound: errors.Is(err, ErrNotFound) тоже вернёт true.
	ErrParticipantNotFound = fmt.Errorf("participant %w", ErrNotFound)
)
