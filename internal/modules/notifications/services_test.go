package notifications

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/testutil"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var firedAt = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *notify.Hub) {
	t.Helper()
	hub := notify.NewHub(4)
	t.Cleanup(hub.Close)
	return NewService(testutil.NewDB(t, &Preference{}, &Notification{}), hub), hub
}

func walk(t *testing.T) wellness.Reminder {
	t.Helper()
	r, err := wellness.NewReminder(uuid.NewString(), "Caminhada", "07:00", []string{"Seg"})
	require.NoError(t, err)
	return r
}

func TestPermission_DefaultsAndValidates(t *testing.T) {
	s, _ := newTestService(t)
	userID := uuid.New()

	p, err := s.Permission(userID)
	require.NoError(t, err)
	assert.Equal(t, PermissionDefault, p)

	assert.ErrorIs(t, s.SetPermission(userID, "maybe"), ErrInvalidPermission)

	require.NoError(t, s.SetPermission(userID, PermissionGranted))
	require.NoError(t, s.SetPermission(userID, PermissionDenied))
	p, err = s.Permission(userID)
	require.NoError(t, err)
	assert.Equal(t, PermissionDenied, p)
}

func TestDispatch_OnlyWhenGranted(t *testing.T) {
	for _, perm := range []string{"", PermissionDefault, PermissionDenied} {
		t.Run("permission "+perm, func(t *testing.T) {
			s, hub := newTestService(t)
			userID := uuid.New()
			if perm != "" {
				require.NoError(t, s.SetPermission(userID, perm))
			}
			sub := hub.Subscribe(userID)

			require.NoError(t, s.Dispatch(context.Background(), userID, walk(t), firedAt))

			inbox, err := s.Inbox(userID, 20, 0)
			require.NoError(t, err)
			assert.Zero(t, inbox.Total)
			select {
			case <-sub.C:
				t.Fatal("no alert expected without permission")
			default:
			}
		})
	}
}

func TestDispatch_GrantedPersistsAndPublishes(t *testing.T) {
	s, hub := newTestService(t)
	userID := uuid.New()
	require.NoError(t, s.SetPermission(userID, PermissionGranted))
	sub := hub.Subscribe(userID)
	r := walk(t)

	require.NoError(t, s.Dispatch(context.Background(), userID, r, firedAt))

	alert := <-sub.C
	assert.Equal(t, "Caminhada", alert.Title)
	assert.Equal(t, r.ID, alert.ReminderID)

	inbox, err := s.Inbox(userID, 20, 0)
	require.NoError(t, err)
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, int64(1), inbox.Unread)
	assert.Equal(t, alert.ID, inbox.Notifications[0].ID)

	n, err := s.MarkRead(userID, alert.ID)
	require.NoError(t, err)
	require.NotNil(t, n.ReadAt)

	_, err = s.MarkRead(uuid.New(), alert.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	inbox, err = s.Inbox(userID, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, inbox.Unread)
}

func TestWriteEvents(t *testing.T) {
	hub := notify.NewHub(4)
	userID := uuid.New()
	sub := hub.Subscribe(userID)
	keepAlive := make(chan time.Time, 1)

	alertID := uuid.New()
	hub.Publish(notify.Alert{ID: alertID, UserID: userID, Title: "Yoga"})
	keepAlive <- time.Now()
	go func() {
		// Give the writer a chance to drain both before closing.
		time.Sleep(50 * time.Millisecond)
		hub.Unsubscribe(sub)
	}()

	var buf bytes.Buffer
	require.NoError(t, writeEvents(bufio.NewWriter(&buf), sub, keepAlive))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, ": connected\n\n"))
	assert.Contains(t, out, "id: "+alertID.String()+"\nevent: reminder\ndata: {")
	assert.Contains(t, out, `"title":"Yoga"`)
	assert.Contains(t, out, ": ping\n\n")
}
