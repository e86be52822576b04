package notifications

import (
	"net/http"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers_Permission(t *testing.T) {
	s, _ := newTestService(t)
	app := fiber.New()
	New(s).RegisterRoutes(app.Group("/api/p", testutil.AsUser(uuid.New())))

	var resp PermissionResponse
	status := testutil.Do(t, app, http.MethodGet, "/api/p/notifications/permission", nil, &resp)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, PermissionDefault, resp.Permission)

	status = testutil.Do(t, app, http.MethodPut, "/api/p/notifications/permission", PermissionRequest{Permission: "yes"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = testutil.Do(t, app, http.MethodPut, "/api/p/notifications/permission", PermissionRequest{Permission: PermissionGranted}, &resp)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, PermissionGranted, resp.Permission)

	var inbox InboxResponse
	status = testutil.Do(t, app, http.MethodGet, "/api/p/notifications", nil, &inbox)
	require.Equal(t, fiber.StatusOK, status)
	assert.Zero(t, inbox.Total)

	status = testutil.Do(t, app, http.MethodPatch, "/api/p/notifications/"+uuid.NewString()+"/read", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
