package reminders

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.NewDB(t, &Reminder{}))
}

func TestCreate_ValidatesAndNormalizes(t *testing.T) {
	s := newTestService(t)
	userID := uuid.New()

	r, err := s.Create(userID, CreateReminderRequest{
		Activity: " Caminhada ",
		Time:     "07:00",
		Days:     []string{"Sex", "Seg", "Seg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Caminhada", r.Activity)
	assert.Equal(t, "07:00", r.Time)
	assert.Equal(t, DayList{wellness.Monday, wellness.Friday}, r.Days)
	assert.True(t, r.Enabled)

	stored, err := s.List(userID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, DayList{wellness.Monday, wellness.Friday}, stored[0].Days)
}

func TestCreate_RejectsMalformed(t *testing.T) {
	s := newTestService(t)
	userID := uuid.New()

	cases := map[string]struct {
		req  CreateReminderRequest
		want error
	}{
		"empty activity": {CreateReminderRequest{Activity: " ", Time: "07:00", Days: []string{"Seg"}}, wellness.ErrEmptyActivity},
		"bad time":       {CreateReminderRequest{Activity: "Yoga", Time: "25:00", Days: []string{"Seg"}}, wellness.ErrInvalidTime},
		"no days":        {CreateReminderRequest{Activity: "Yoga", Time: "07:00"}, wellness.ErrNoDays},
		"unknown day":    {CreateReminderRequest{Activity: "Yoga", Time: "07:00", Days: []string{"Mon"}}, wellness.ErrUnknownWeekday},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Create(userID, tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, wellness.ErrMalformedReminder)
		})
	}

	rows, err := s.List(userID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestToggleAndDelete_AreScopedToOwner(t *testing.T) {
	s := newTestService(t)
	owner, stranger := uuid.New(), uuid.New()

	r, err := s.Create(owner, CreateReminderRequest{Activity: "Yoga", Time: "18:30", Days: []string{"Ter"}})
	require.NoError(t, err)

	_, err = s.Toggle(stranger, r.ID)
	assert.ErrorIs(t, err, ErrReminderNotFound)
	assert.ErrorIs(t, s.Delete(stranger, r.ID), ErrReminderNotFound)

	toggled, err := s.Toggle(owner, r.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	enabled, err := s.Enabled()
	require.NoError(t, err)
	assert.Empty(t, enabled)

	toggled, err = s.Toggle(owner, r.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Enabled)

	require.NoError(t, s.Delete(owner, r.ID))
	assert.ErrorIs(t, s.Delete(owner, r.ID), ErrReminderNotFound)
}

func TestDueAt_EvaluatesInLocation(t *testing.T) {
	s := newTestService(t)
	userID := uuid.New()

	morning, err := s.Create(userID, CreateReminderRequest{Activity: "Caminhada", Time: "07:00", Days: []string{"Seg", "Qua"}})
	require.NoError(t, err)
	_, err = s.Create(userID, CreateReminderRequest{Activity: "Yoga", Time: "07:00", Days: []string{"Ter"}})
	require.NoError(t, err)
	off, err := s.Create(userID, CreateReminderRequest{Activity: "Natação", Time: "07:00", Days: []string{"Seg"}})
	require.NoError(t, err)
	_, err = s.Toggle(userID, off.ID)
	require.NoError(t, err)

	// 10:00:42 UTC on Monday is 07:00:42 in São Paulo.
	at := time.Date(2026, 10, 19, 10, 0, 42, 0, time.UTC)

	due, err := s.DueAt(userID, at, saoPaulo)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, morning.ID, due[0].ID)

	due, err = s.DueAt(userID, at, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDayList_ScanRoundTrip(t *testing.T) {
	days := DayList{wellness.Sunday, wellness.Saturday}
	v, err := days.Value()
	require.NoError(t, err)
	assert.Equal(t, "Dom,Sáb", v)

	var scanned DayList
	require.NoError(t, scanned.Scan([]byte("Dom,Sáb")))
	assert.Equal(t, days, scanned)

	assert.Error(t, scanned.Scan("Dom,Xyz"))
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}
