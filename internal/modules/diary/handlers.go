package diary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/gofiber/fiber/v2"
)

const analyzeTimeout = 30 * time.Second

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateFood(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateFoodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.service.LogFood(userID, req)
	if err != nil {
		return mapError(c, err, "Failed to log food")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Analyze accepts either a multipart "image" upload or a JSON image_url and
// logs the estimated meal.
func (h *Handler) Analyze(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), analyzeTimeout)
	defer cancel()

	var entry *FoodEntry
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("image")
		if err != nil {
			return badRequest(c, "image file is required")
		}
		if fh.Size > MaxImageBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
				Error: true, Message: ErrImageTooLarge.Error(),
			})
		}
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "Could not read image")
		}
		image, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
		f.Close()
		if err != nil {
			return badRequest(c, "Could not read image")
		}
		entry, err = h.service.AnalyzeImage(ctx, userID, image)
		if err != nil {
			return mapError(c, err, "Failed to analyze image")
		}
	} else {
		var req AnalyzeURLRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		entry, err = h.service.AnalyzeURL(ctx, userID, req.ImageURL)
		if err != nil {
			return mapError(c, err, "Failed to analyze image")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *Handler) ListFoods(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	limit, offset := pagination(c)
	entries, total, err := h.service.ListFoods(userID, limit, offset)
	if err != nil {
		return mapError(c, err, "Failed to fetch food history")
	}

	return c.JSON(FoodListResponse{Entries: entries, Total: total, Limit: limit, Offset: offset})
}

func (h *Handler) ClearFoods(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	n, err := h.service.ClearFoods(userID)
	if err != nil {
		return mapError(c, err, "Failed to clear food history")
	}
	slog.Info("food history cleared", "user_id", userID, "deleted", n)
	return c.JSON(ClearResponse{Deleted: n})
}

func (h *Handler) CreateActivity(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.service.LogActivity(userID, req)
	if err != nil {
		return mapError(c, err, "Failed to log activity")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *Handler) ListActivities(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	limit, offset := pagination(c)
	entries, total, err := h.service.ListActivities(userID, limit, offset)
	if err != nil {
		return mapError(c, err, "Failed to fetch activities")
	}

	return c.JSON(ActivityListResponse{Entries: entries, Total: total, Limit: limit, Offset: offset})
}

func (h *Handler) ClearActivities(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	n, err := h.service.ClearActivities(userID)
	if err != nil {
		return mapError(c, err, "Failed to clear activities")
	}
	return c.JSON(ClearResponse{Deleted: n})
}

func (h *Handler) Today(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	loc, err := h.service.Location(userID, requestedTimezone(c))
	if err != nil {
		return mapError(c, err, "Failed to resolve timezone")
	}

	summary, err := h.service.Today(userID, loc)
	if err != nil {
		return mapError(c, err, "Failed to compute summary")
	}
	return c.JSON(summary)
}

func (h *Handler) Week(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	loc, err := h.service.Location(userID, requestedTimezone(c))
	if err != nil {
		return mapError(c, err, "Failed to resolve timezone")
	}

	summary, err := h.service.Week(userID, loc)
	if err != nil {
		return mapError(c, err, "Failed to compute summary")
	}
	return c.JSON(summary)
}

// requestedTimezone reads ?tz= and falls back to the X-Timezone header.
func requestedTimezone(c *fiber.Ctx) string {
	if tz := strings.TrimSpace(c.Query("tz")); tz != "" {
		return tz
	}
	return strings.TrimSpace(c.Get("X-Timezone"))
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func mapError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, ErrInvalidFood),
		errors.Is(err, ErrInvalidActivity),
		errors.Is(err, ErrUnsupportedType),
		errors.Is(err, ErrInvalidImageURL),
		errors.Is(err, ErrInvalidTimezone),
		errors.Is(err, analysis.ErrEmptyImage):
		return badRequest(c, err.Error())
	case errors.Is(err, ErrImageTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{
			Error: true, Message: "Analysis timed out",
		})
	case errors.Is(err, wellness.ErrInvalidGoal):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	slog.Error(fallback, "error", err)
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
