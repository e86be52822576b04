package reminders

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Module struct {
	service *Service
	locator Locator
	now     func() time.Time
}

func New(service *Service, locator Locator) *Module {
	return &Module{service: service, locator: locator, now: time.Now}
}

func (m *Module) ID() string { return "reminders" }

func (m *Module) Models() []interface{} {
	return []interface{}{
		&Reminder{},
	}
}

func (m *Module) RegisterRoutes(router fiber.Router) {
	handler := NewHandler(m.service, m.locator, m.now)

	router.Post("/reminders", handler.Create)
	router.Get("/reminders", handler.List)
	router.Get("/reminders/due", handler.Due)
	router.Patch("/reminders/:id/toggle", handler.Toggle)
	router.Delete("/reminders/:id", handler.Delete)
}
