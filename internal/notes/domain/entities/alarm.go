package entities

import (
	"strings"
	"time"
)

// Alarm - напоминание, принадлежащее не более чем одной заметке.
type Alarm struct {
	ID        int64
	Time      time.Time
	Recurring bool
	Pattern   string
}

// NewAlarm создает будильник. Для повторяющегося будильника pattern обязателен.
func NewAlarm(at time.Time, recurring bool, pattern string) (*Alarm, error) {
	a := &Alarm{Time: at, Recurring: recurring, Pattern: strings.TrimSpace(pattern)}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate проверяет инварианты будильника.
func (a *Alarm) Validate() error {
	if a == nil {
		return ErrNilEntity
	}
	if a.Time.IsZero() {
		return ErrZeroAlarmTime
	}
	if a.Recurring && strings.TrimSpace(a.Pattern) == "" {
		return ErrMissingRecurrence
	}
	if !a.Recurring && a.Pattern != "" {
		return ErrUnexpectedPattern
	}
	return nil
}

// Reschedule меняет время и повторение, сохраняя id.
func (a *Alarm) Reschedule(at time.Time, recurring bool, pattern string) error {
	next := Alarm{ID: a.ID, Time: at, Recurring: recurring, Pattern: strings.TrimSpace(pattern)}
	if err := next.Validate(); err != nil {
		return err
	}
	*a = next
	return nil
}

// Key возвращает естественный ключ: время и правило повторения.
func (a *Alarm) Key() string {
	return a.Time.UTC().Format(time.RFC3339Nano) + "|" + a.recurrence()
}

func (a *Alarm) recurrence() string {
	if !a.Recurring {
		return "once"
	}
	return a.Pattern
}

// Equal сравнивает по id, если оба назначены, иначе по времени и правилу повторения.
func (a *Alarm) Equal(other *Alarm) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.ID != UnassignedID && other.ID != UnassignedID {
		return a.ID == other.ID
	}
	return a.Time.Equal(other.Time) && a.recurrence() == other.recurrence()
}
