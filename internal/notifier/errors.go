package notifier

import "errors"

// Ошибки обработки событий.
var (
	// ErrEmptyRecipient — в событии нет email участника.
	ErrEmptyRecipient = errors.New("event has no recipient")

	// ErrEmptyActivity — в событии нет имени занятия.
	ErrEmptyActivity = errors.New("event has no activity")
)
