package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (5 полей, без секунд).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseCron разбирает cron-выражение.
func ParseCron(cronExpr string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}
	return schedule, nil
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(cronExpr string) error {
	_, err := ParseCron(cronExpr)
	return err
}

// LoadLocation загружает timezone. Невалидный timezone — UTC.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CalculateNextDue вычисляет следующее время снимка после from.
// Выражение интерпретируется в timezone loc, результат — в UTC.
func CalculateNextDue(schedule cron.Schedule, from time.Time, loc *time.Location) time.Time {
	return schedule.Next(from.In(loc)).UTC()
}
