package domain

import (
	"errors"
	"slices"
	"strings"
)

// Activity — внеклассное занятие со своим списком участников.
//
// Activity хранится как один документ; ключ документа — имя занятия.
// Документ создаётся один раз (seed) и дальше меняется только
// добавлением и удалением email в Participants.
type Activity struct {
	// Name — уникальное имя занятия (например, "Chess Club").
	Name string `json:"name"`

	// Description — описание занятия.
	Description string `json:"description"`

	// Schedule — расписание в свободной форме ("Fridays, 3:30 PM - 5:00 PM").
	Schedule string `json:"schedule"`

	// MaxParticipants — вместимость. Носит справочный характер,
	// при записи не проверяется.
	MaxParticipants int `json:"max_participants"`

	// Participants — email участников в порядке записи.
	// Один email встречается в списке не больше одного раза.
	Participants []string `json:"participants"`
}

// ActivityDetails — содержимое документа без ключа.
// Именно так занятие выглядит в ответе GET /activities.
type ActivityDetails struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Details возвращает содержимое документа без имени.
func (a Activity) Details() ActivityDetails {
	participants := a.Participants
	if participants == nil {
		participants = []string{}
	}
	return ActivityDetails{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
	}
}

// HasParticipant проверяет, записан ли email на занятие.
func (a Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Clone возвращает копию с собственным срезом участников.
func (a Activity) Clone() Activity {
	a.Participants = slices.Clone(a.Participants)
	if a.Participants == nil {
		a.Participants = []string{}
	}
	return a
}

// FreeSpots возвращает количество свободных мест (может быть отрицательным,
// так как вместимость не ограничивает запись).
func (a Activity) FreeSpots() int {
	return a.MaxParticipants - len(a.Participants)
}

// Ошибки валидации email.
var (
	ErrEmailRequired = errors.New("email is required")
	ErrEmailInvalid  = errors.New("email is invalid")
)

// RequireEmail проверяет только наличие email.
// Удаление использует её: решать, есть ли такой участник, должно хранилище.
func RequireEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	return nil
}

// ValidateEmail проверяет email нового участника.
// Проверка минимальная: непустая строка без пробелов, содержащая '@'.
func ValidateEmail(email string) error {
	if err := RequireEmail(email); err != nil {
		return err
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return ErrEmailInvalid
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrEmailInvalid
	}
	return nil
}
