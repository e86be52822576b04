package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetConfig returns every public setting decoded by type.
func (h *SettingsHandler) GetConfig(c *fiber.Ctx) error {
	result, err := h.settings.All()
	if err != nil {
		return internalError(c, "Failed to fetch configuration")
	}
	return c.JSON(result)
}

func (h *SettingsHandler) Tips(c *fiber.Ctx) error {
	tips, err := h.settings.Tips()
	if err != nil {
		slog.Warn("tips setting unreadable, serving defaults", "error", err)
	}
	return c.JSON(fiber.Map{"tips": tips})
}

func (h *SettingsHandler) Plans(c *fiber.Ctx) error {
	plans, err := h.settings.Plans()
	if err != nil {
		slog.Warn("plans setting unreadable, serving defaults", "error", err)
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// SetConfigKey creates or updates a setting (admin only).
func (h *SettingsHandler) SetConfigKey(c *fiber.Ctx) error {
	var payload struct {
		Value string `json:"value"`
		Type  string `json:"type"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}

	st, err := h.settings.Set(c.Params("key"), payload.Value, payload.Type)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSetting) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to save config")
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Config updated successfully",
		"config":  st,
	})
}

// DeleteConfigKey removes a setting (admin only).
func (h *SettingsHandler) DeleteConfigKey(c *fiber.Ctx) error {
	if err := h.settings.Delete(c.Params("key")); err != nil {
		if errors.Is(err, services.ErrSettingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Config not found",
			})
		}
		return internalError(c, "Failed to delete config")
	}
	return c.JSON(dto.MessageResponse{Message: "Config deleted successfully"})
}

// Maintenance answers 503 on the user API while maintenance_mode is on.
func (h *SettingsHandler) Maintenance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if h.settings.MaintenanceMode() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Service under maintenance",
			})
		}
		return c.Next()
	}
}
