package reminders

import (
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locator resolves the timezone a user's reminders are evaluated in.
type Locator interface {
	Location(userID uuid.UUID) (*time.Location, error)
}

type Handler struct {
	service *Service
	locator Locator
	now     func() time.Time
}

func NewHandler(service *Service, locator Locator, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{service: service, locator: locator, now: now}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	reminder, err := h.service.Create(userID, req)
	if err != nil {
		if errors.Is(err, wellness.ErrMalformedReminder) {
			return badRequest(c, err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create reminder",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(reminder)
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reminders, err := h.service.List(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch reminders",
		})
	}
	return c.JSON(fiber.Map{"reminders": reminders})
}

func (h *Handler) Toggle(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid reminder ID")
	}

	reminder, err := h.service.Toggle(userID, reminderID)
	if err != nil {
		return mapError(c, err, "Failed to toggle reminder")
	}
	return c.JSON(reminder)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid reminder ID")
	}

	if err := h.service.Delete(userID, reminderID); err != nil {
		return mapError(c, err, "Failed to delete reminder")
	}
	return c.JSON(dto.MessageResponse{Message: "Reminder deleted"})
}

// Due previews which of the caller's reminders fire at ?at= (RFC 3339,
// default now) in ?tz= or X-Timezone, else the caller's timezone.
func (h *Handler) Due(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	at := h.now()
	if raw := c.Query("at"); raw != "" {
		if at, err = time.Parse(time.RFC3339, raw); err != nil {
			return badRequest(c, "at must be an RFC 3339 timestamp")
		}
	}

	var loc *time.Location
	if tz := requestedTimezone(c); tz != "" {
		if loc, err = wellness.LoadLocation(tz); err != nil {
			return badRequest(c, "tz must be a valid IANA timezone name")
		}
	} else if loc, err = h.locator.Location(userID); err != nil {
		return mapError(c, err, "Failed to resolve timezone")
	}

	due, err := h.service.DueAt(userID, at, loc)
	if err != nil {
		return mapError(c, err, "Failed to evaluate reminders")
	}
	return c.JSON(DueResponse{
		At:        at.In(loc).Format(time.RFC3339),
		Timezone:  loc.String(),
		Reminders: due,
	})
}

func mapError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, ErrReminderNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func requestedTimezone(c *fiber.Ctx) string {
	if tz := strings.TrimSpace(c.Query("tz")); tz != "" {
		return tz
	}
	return strings.TrimSpace(c.Get("X-Timezone"))
}
