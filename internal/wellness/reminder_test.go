package wellness

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-10-19 is a Monday.
func monday(hour, min, sec int) time.Time {
	return time.Date(2026, 10, 19, hour, min, sec, 0, saoPaulo)
}

func mustReminder(t *testing.T, id, clock string, days ...string) Reminder {
	t.Helper()
	r, err := NewReminder(id, "Caminhada", clock, days)
	require.NoError(t, err)
	return r
}

func TestDueReminders_MatchesMinuteAndDay(t *testing.T) {
	r := mustReminder(t, "r1", "07:00", "Seg")

	for _, sec := range []int{0, 1, 30, 59} {
		due := DueReminders([]Reminder{r}, monday(7, 0, sec))
		require.Len(t, due, 1, "second %d", sec)
		assert.Equal(t, "r1", due[0].ID)
	}

	assert.Empty(t, DueReminders([]Reminder{r}, monday(7, 1, 0)))
	assert.Empty(t, DueReminders([]Reminder{r}, monday(6, 59, 59)))
	assert.Empty(t, DueReminders([]Reminder{r}, monday(7, 0, 0).AddDate(0, 0, 1)))
}

func TestDueReminders_NeverReturnsDisabled(t *testing.T) {
	r := mustReminder(t, "r1", "07:00", "Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb")
	r.Enabled = false

	for d := 0; d < 7; d++ {
		assert.Empty(t, DueReminders([]Reminder{r}, monday(7, 0, 0).AddDate(0, 0, d)))
	}
}

func TestDueReminders_KeepsOrderAndRepeats(t *testing.T) {
	a := mustReminder(t, "a", "18:30", "Seg", "Qua")
	b := mustReminder(t, "b", "18:30", "Seg")
	c := mustReminder(t, "c", "18:31", "Seg")

	now := monday(18, 30, 10)
	first := DueReminders([]Reminder{a, b, c}, now)
	second := DueReminders([]Reminder{a, b, c}, now.Add(20*time.Second))

	assert.Equal(t, []string{"a", "b"}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestDueReminders_EvaluatesInNowLocation(t *testing.T) {
	r := mustReminder(t, "r1", "07:00", "Seg")
	// 10:00 UTC Monday is 07:00 in São Paulo.
	utc := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	assert.Empty(t, DueReminders([]Reminder{r}, utc))
	assert.Len(t, DueReminders([]Reminder{r}, utc.In(saoPaulo)), 1)
}

func TestNewReminder_RejectsMalformed(t *testing.T) {
	cases := []struct {
		name     string
		activity string
		clock    string
		days     []string
		want     error
	}{
		{"empty activity", "  ", "07:00", []string{"Seg"}, ErrEmptyActivity},
		{"bad time", "Yoga", "7h", []string{"Seg"}, ErrInvalidTime},
		{"out of range", "Yoga", "24:10", []string{"Seg"}, ErrInvalidTime},
		{"no days", "Yoga", "07:00", nil, ErrNoDays},
		{"unknown day", "Yoga", "07:00", []string{"Monday"}, ErrUnknownWeekday},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReminder("x", tc.activity, tc.clock, tc.days)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrMalformedReminder)
		})
	}
}

func TestNewReminder_NormalizesDays(t *testing.T) {
	r, err := NewReminder("x", " Musculação ", "6:05", []string{"Sex", "Seg", "Sex", "Sab"})
	require.NoError(t, err)
	assert.Equal(t, "Musculação", r.Activity)
	assert.Equal(t, "06:05", r.Time.String())
	assert.Equal(t, []Weekday{Monday, Friday, Saturday}, r.Days)
	assert.True(t, r.Enabled)
}

func TestWeekday_LabelsAndJSON(t *testing.T) {
	assert.Equal(t, []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}, WeekdayLabels(AllWeekdays()))
	assert.Equal(t, Sunday, WeekdayOf(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)))

	b, err := json.Marshal([]Weekday{Monday, Saturday})
	require.NoError(t, err)
	assert.JSONEq(t, `["Seg","Sáb"]`, string(b))

	var days []Weekday
	require.NoError(t, json.Unmarshal([]byte(`["Dom","Qui"]`), &days))
	assert.Equal(t, []Weekday{Sunday, Thursday}, days)

	assert.Error(t, json.Unmarshal([]byte(`["Xyz"]`), &days))
}

func ids(rs []Reminder) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
