package notifications

import "github.com/gofiber/fiber/v2"

type Module struct {
	service *Service
}

func New(service *Service) *Module {
	return &Module{service: service}
}

func (m *Module) ID() string { return "notifications" }

func (m *Module) Models() []interface{} {
	return []interface{}{
		&Preference{},
		&Notification{},
	}
}

func (m *Module) RegisterRoutes(router fiber.Router) {
	handler := NewHandler(m.service)

	router.Get("/notifications/permission", handler.GetPermission)
	router.Put("/notifications/permission", handler.SetPermission)
	router.Get("/notifications/stream", handler.Stream)
	router.Get("/notifications", handler.Inbox)
	router.Patch("/notifications/:id/read", handler.MarkRead)
}
