package diary

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, userID uuid.UUID) *fiber.App {
	t.Helper()
	s, _ := newTestService(t, fakeSettings{goal: 2000, loc: saoPaulo})
	app := fiber.New()
	New(s).RegisterRoutes(app.Group("/api/p", testutil.AsUser(userID)))
	return app
}

func TestHandlers_FoodLifecycle(t *testing.T) {
	app := newTestApp(t, uuid.New())

	status := testutil.Do(t, app, http.MethodPost, "/api/p/foods", CreateFoodRequest{Name: "Pão", Calories: -5}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var entry FoodEntry
	status = testutil.Do(t, app, http.MethodPost, "/api/p/foods", CreateFoodRequest{Name: "Pão", Calories: 150}, &entry)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Pão", entry.Name)

	var list FoodListResponse
	status = testutil.Do(t, app, http.MethodGet, "/api/p/foods?limit=500", nil, &list)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, 100, list.Limit)

	var cleared ClearResponse
	status = testutil.Do(t, app, http.MethodDelete, "/api/p/foods", nil, &cleared)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, int64(1), cleared.Deleted)
}

func TestHandlers_AnalyzeMultipart(t *testing.T) {
	app := newTestApp(t, uuid.New())

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "prato.jpg")
	require.NoError(t, err)
	_, err = part.Write(append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/p/foods/analyze", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var entry FoodEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entry))
	assert.Contains(t, entry.ImageRef, "data:image/jpeg;base64,")
	assert.Greater(t, entry.Calories, 0.0)
}

func TestHandlers_AnalyzeURL(t *testing.T) {
	app := newTestApp(t, uuid.New())

	var entry FoodEntry
	status := testutil.Do(t, app, http.MethodPost, "/api/p/foods/analyze", AnalyzeURLRequest{ImageURL: "https://cdn.example.com/a.png"}, &entry)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "https://cdn.example.com/a.png", entry.ImageRef)

	status = testutil.Do(t, app, http.MethodPost, "/api/p/foods/analyze", AnalyzeURLRequest{}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandlers_SummaryTimezoneOverride(t *testing.T) {
	app := newTestApp(t, uuid.New())

	var summary TodaySummary
	status := testutil.Do(t, app, http.MethodGet, "/api/p/summary/today", nil, &summary)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "BRT", summary.Timezone)
	assert.Equal(t, 2000, summary.DailyGoal)

	status = testutil.Do(t, app, http.MethodGet, "/api/p/summary/today?tz=UTC", nil, &summary)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "UTC", summary.Timezone)

	status = testutil.Do(t, app, http.MethodGet, "/api/p/summary/today?tz=Bad/Zone", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var week WeekSummary
	status = testutil.Do(t, app, http.MethodGet, "/api/p/summary/week", nil, &week)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, week.Days, 7)
}
