package diary

import "github.com/gofiber/fiber/v2"

type Module struct {
	service *Service
}

func New(service *Service) *Module {
	return &Module{service: service}
}

func (m *Module) ID() string { return "diary" }

func (m *Module) Models() []interface{} {
	return []interface{}{
		&FoodEntry{},
		&ActivityEntry{},
	}
}

func (m *Module) RegisterRoutes(router fiber.Router) {
	handler := NewHandler(m.service)

	router.Post("/foods", handler.CreateFood)
	router.Post("/foods/analyze", handler.Analyze)
	router.Get("/foods", handler.ListFoods)
	router.Delete("/foods", handler.ClearFoods)

	router.Post("/activities", handler.CreateActivity)
	router.Get("/activities", handler.ListActivities)
	router.Delete("/activities", handler.ClearActivities)

	router.Get("/summary/today", handler.Today)
	router.Get("/summary/week", handler.Week)
}
