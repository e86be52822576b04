package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// SchedulerStatus reports whether the reminder loop is running.
type SchedulerStatus interface {
	Running() bool
}

type HealthHandler struct {
	scheduler SchedulerStatus
}

func NewHealthHandler(scheduler SchedulerStatus) *HealthHandler {
	return &HealthHandler{scheduler: scheduler}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	schedulerStatus := "stopped"
	if h.scheduler != nil && h.scheduler.Running() {
		schedulerStatus = "running"
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Scheduler: schedulerStatus,
	})
}
