package wellness

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMalformedReminder = errors.New("malformed reminder")
	ErrEmptyActivity     = fmt.Errorf("%w: activity is required", ErrMalformedReminder)
	ErrInvalidTime       = fmt.Errorf("%w: time must be HH:MM", ErrMalformedReminder)
	ErrNoDays            = fmt.Errorf("%w: at least one day is required", ErrMalformedReminder)
	ErrUnknownWeekday    = fmt.Errorf("%w: unknown weekday", ErrMalformedReminder)
)

// Reminder is a recurring alert for an activity at a time of day on a set of
// weekdays. Values built by NewReminder are always well formed.
type Reminder struct {
	ID       string
	Activity string
	Time     TimeOfDay
	Days     []Weekday
	Enabled  bool
}

// NewReminder validates form input. New reminders start enabled.
func NewReminder(id, activity, clock string, days []string) (Reminder, error) {
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return Reminder{}, ErrEmptyActivity
	}
	tod, err := ParseTimeOfDay(clock)
	if err != nil {
		return Reminder{}, err
	}
	if len(days) == 0 {
		return Reminder{}, ErrNoDays
	}
	parsed, err := ParseWeekdays(days)
	if err != nil {
		return Reminder{}, err
	}
	return Reminder{
		ID:       id,
		Activity: activity,
		Time:     tod,
		Days:     parsed,
		Enabled:  true,
	}, nil
}

// DueAt reports whether r fires in the minute containing now, evaluated in
// now's location.
func (r Reminder) DueAt(now time.Time) bool {
	return r.Enabled &&
		r.Time == TimeOfDayOf(now) &&
		containsWeekday(r.Days, WeekdayOf(now))
}

// DueReminders returns the reminders that fire in the minute containing now,
// in input order. Calling it twice within one minute returns the same
// reminders twice.
func DueReminders(reminders []Reminder, now time.Time) []Reminder {
	var due []Reminder
	for _, r := range reminders {
		if r.DueAt(now) {
			due = append(due, r)
		}
	}
	return due
}
