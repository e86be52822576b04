package reminders

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLocator struct{ loc *time.Location }

func (f fixedLocator) Location(uuid.UUID) (*time.Location, error) { return f.loc, nil }

func newTestApp(t *testing.T, userID uuid.UUID) *fiber.App {
	t.Helper()
	app := fiber.New()
	New(newTestService(t), fixedLocator{loc: saoPaulo}).
		RegisterRoutes(app.Group("/api/p", testutil.AsUser(userID)))
	return app
}

func TestHandlers_ReminderLifecycle(t *testing.T) {
	app := newTestApp(t, uuid.New())

	status := testutil.Do(t, app, http.MethodPost, "/api/p/reminders",
		CreateReminderRequest{Activity: "Yoga", Time: "7h", Days: []string{"Seg"}}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var created Reminder
	status = testutil.Do(t, app, http.MethodPost, "/api/p/reminders",
		CreateReminderRequest{Activity: "Yoga", Time: "07:00", Days: []string{"Seg"}}, &created)
	require.Equal(t, fiber.StatusCreated, status)

	var due DueResponse
	status = testutil.Do(t, app, http.MethodGet, "/api/p/reminders/due?at=2026-10-19T10:00:15Z", nil, &due)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, due.Reminders, 1)
	assert.Equal(t, created.ID, due.Reminders[0].ID)
	assert.Equal(t, "2026-10-19T07:00:15-03:00", due.At)

	status = testutil.Do(t, app, http.MethodGet, "/api/p/reminders/due?at=2026-10-19T10:00:15Z&tz=UTC", nil, &due)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, due.Reminders)

	status = testutil.Do(t, app, http.MethodGet, "/api/p/reminders/due?at=yesterday", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = testutil.Do(t, app, http.MethodGet, "/api/p/reminders/due?at=2026-10-19T10:00:15Z&tz=Local", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var toggled Reminder
	status = testutil.Do(t, app, http.MethodPatch, "/api/p/reminders/"+created.ID.String()+"/toggle", nil, &toggled)
	require.Equal(t, fiber.StatusOK, status)
	assert.False(t, toggled.Enabled)

	status = testutil.Do(t, app, http.MethodDelete, "/api/p/reminders/"+created.ID.String(), nil, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status = testutil.Do(t, app, http.MethodDelete, "/api/p/reminders/"+created.ID.String(), nil, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status = testutil.Do(t, app, http.MethodDelete, "/api/p/reminders/not-a-uuid", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandlers_DueHonorsTimezoneHeader(t *testing.T) {
	app := newTestApp(t, uuid.New())

	status := testutil.Do(t, app, http.MethodPost, "/api/p/reminders",
		CreateReminderRequest{Activity: "Caminhada", Time: "10:00", Days: []string{"Seg"}}, nil)
	require.Equal(t, fiber.StatusCreated, status)

	req, err := http.NewRequest(http.MethodGet, "/api/p/reminders/due?at=2026-10-19T10:00:00Z", nil)
	require.NoError(t, err)
	req.Header.Set("X-Timezone", "UTC")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var due DueResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&due))
	assert.Equal(t, "UTC", due.Timezone)
	require.Len(t, due.Reminders, 1)
	assert.Equal(t, "Caminhada", due.Reminders[0].Activity)

	req, err = http.NewRequest(http.MethodGet, "/api/p/reminders/due", nil)
	require.NoError(t, err)
	req.Header.Set("X-Timezone", "Local")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
