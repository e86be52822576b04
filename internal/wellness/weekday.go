package wellness

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday is a day of the week, Sunday first. Its numeric value matches
// time.Weekday so conversion from a local instant is direct.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayLabels = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// AllWeekdays returns the week in display order.
func AllWeekdays() []Weekday {
	return []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// WeekdayOf returns the weekday of t in t's own location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayLabels[d]
}

// ParseWeekday resolves one of the seven fixed labels. "Sab" is accepted for
// clients that strip accents.
func ParseWeekday(label string) (Weekday, error) {
	label = strings.TrimSpace(label)
	for i, l := range weekdayLabels {
		if label == l {
			return Weekday(i), nil
		}
	}
	if label == "Sab" {
		return Saturday, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, label)
}

func (d Weekday) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWeekday, int(d))
	}
	return json.Marshal(d.String())
}

func (d *Weekday) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return err
	}
	parsed, err := ParseWeekday(label)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseWeekdays parses labels into a set ordered Sunday first. Duplicates
// collapse.
func ParseWeekdays(labels []string) ([]Weekday, error) {
	var seen [7]bool
	for _, l := range labels {
		d, err := ParseWeekday(l)
		if err != nil {
			return nil, err
		}
		seen[d] = true
	}
	days := make([]Weekday, 0, len(labels))
	for i, ok := range seen {
		if ok {
			days = append(days, Weekday(i))
		}
	}
	return days, nil
}

// WeekdayLabels renders days as their labels.
func WeekdayLabels(days []Weekday) []string {
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.String()
	}
	return labels
}

func containsWeekday(days []Weekday, d Weekday) bool {
	for _, x := range days {
		if x == d {
			return true
		}
	}
	return false
}
