package profile

import "github.com/gofiber/fiber/v2"

type Module struct {
	service *Service
}

func New(service *Service) *Module {
	return &Module{service: service}
}

func (m *Module) ID() string { return "profile" }

func (m *Module) Models() []interface{} {
	return []interface{}{
		&Profile{},
		&QuestionnaireDraft{},
	}
}

func (m *Module) RegisterRoutes(router fiber.Router) {
	handler := NewHandler(m.service)

	router.Get("/profile", handler.GetProfile)
	router.Put("/profile/goal", handler.UpdateGoal)
	router.Put("/profile/timezone", handler.UpdateTimezone)
	router.Get("/profile/bmi", handler.GetBMI)

	router.Get("/questionnaire", handler.GetQuestionnaire)
	router.Post("/questionnaire/answer", handler.Answer)
	router.Post("/questionnaire/back", handler.Back)
	router.Delete("/questionnaire", handler.Reset)
}
