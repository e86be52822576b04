package profile

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	p, err := h.service.GetProfile(userID)
	if err != nil {
		return mapError(c, err, "Failed to fetch profile")
	}
	return c.JSON(p)
}

func (h *Handler) UpdateGoal(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	p, err := h.service.UpdateGoal(userID, req.DailyGoal)
	if err != nil {
		return mapError(c, err, "Failed to update goal")
	}
	return c.JSON(p)
}

func (h *Handler) UpdateTimezone(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req UpdateTimezoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	p, err := h.service.UpdateTimezone(userID, req.Timezone)
	if err != nil {
		return mapError(c, err, "Failed to update timezone")
	}
	return c.JSON(p)
}

func (h *Handler) GetBMI(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.service.BMI(userID)
	if err != nil {
		return mapError(c, err, "Failed to compute BMI")
	}
	return c.JSON(resp)
}

func (h *Handler) GetQuestionnaire(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	state, err := h.service.Questionnaire(userID)
	if err != nil {
		return mapError(c, err, "Failed to load questionnaire")
	}
	return c.JSON(state)
}

func (h *Handler) Answer(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	state, err := h.service.Answer(userID, req)
	if err != nil {
		return mapError(c, err, "Failed to save answer")
	}
	if state.Complete {
		return c.Status(fiber.StatusCreated).JSON(state)
	}
	return c.JSON(state)
}

func (h *Handler) Back(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	state, err := h.service.Back(userID)
	if err != nil {
		return mapError(c, err, "Failed to go back")
	}
	return c.JSON(state)
}

func (h *Handler) Reset(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.service.ResetQuestionnaire(userID); err != nil {
		return mapError(c, err, "Failed to reset questionnaire")
	}
	return c.JSON(dto.MessageResponse{Message: "Questionnaire restarted"})
}

func mapError(c *fiber.Ctx, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	msg := fallback
	switch {
	case errors.Is(err, ErrProfileNotFound):
		status, msg = fiber.StatusNotFound, err.Error()
	case errors.Is(err, onboarding.ErrOutOfOrder):
		status, msg = fiber.StatusConflict, err.Error()
	case errors.Is(err, wellness.ErrInvalidGoal),
		errors.Is(err, ErrInvalidTimezone),
		errors.Is(err, onboarding.ErrEmptyAnswer),
		errors.Is(err, onboarding.ErrInvalidAnswer),
		errors.Is(err, onboarding.ErrComplete):
		status, msg = fiber.StatusBadRequest, err.Error()
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}
