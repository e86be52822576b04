package notifications

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/notify"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const keepAliveEvery = 25 * time.Second

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetPermission(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	permission, err := h.service.Permission(userID)
	if err != nil {
		return internalError(c, "Failed to load permission")
	}
	return c.JSON(PermissionResponse{Permission: permission})
}

func (h *Handler) SetPermission(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.service.SetPermission(userID, req.Permission); err != nil {
		if errors.Is(err, ErrInvalidPermission) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to save permission")
	}
	return c.JSON(PermissionResponse{Permission: req.Permission})
}

func (h *Handler) Inbox(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	resp, err := h.service.Inbox(userID, limit, offset)
	if err != nil {
		return internalError(c, "Failed to fetch notifications")
	}
	return c.JSON(resp)
}

func (h *Handler) MarkRead(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notification ID")
	}

	n, err := h.service.MarkRead(userID, id)
	if err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c, "Failed to update notification")
	}
	return c.JSON(n)
}

// Stream is a server-sent event stream of the caller's alerts.
func (h *Handler) Stream(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	sub := h.service.Subscribe(userID)
	gauge := metrics.Get().StreamSubscribers
	gauge.Inc()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer gauge.Dec()
		defer h.service.Unsubscribe(sub)

		ticker := time.NewTicker(keepAliveEvery)
		defer ticker.Stop()
		_ = writeEvents(w, sub, ticker.C)
	}))
	return nil
}

// writeEvents copies alerts to w until the subscription closes or a write
// fails, sending a comment line on every keep-alive tick.
func writeEvents(w *bufio.Writer, sub *notify.Subscription, keepAlive <-chan time.Time) error {
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for {
		select {
		case alert, ok := <-sub.C:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(alert)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: reminder\ndata: %s\n\n", alert.ID, payload); err != nil {
				return err
			}
		case <-keepAlive:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}
