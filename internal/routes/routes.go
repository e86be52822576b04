package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	Settings *handlers.SettingsHandler
	Pages    *handlers.PagesHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers, mods []modules.Module) {
	app.Get("/", h.Pages.Landing)
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Public configuration and content
	api.Get("/config", h.Settings.GetConfig)
	api.Get("/content/tips", h.Settings.Tips)
	api.Get("/content/plans", h.Settings.Plans)

	api.Get("/legal/privacy", h.Pages.PrivacyPolicy)
	api.Get("/legal/terms", h.Pages.TermsOfService)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// JWT is applied per route so it never leaks onto the public routes above.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), h.Auth.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), h.Auth.DeleteAccount)
	api.Get("/me", middleware.JWTProtected(cfg), h.Auth.Me)

	// Admin settings management
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Put("/config/:key", h.Settings.SetConfigKey)
	admin.Delete("/config/:key", h.Settings.DeleteConfigKey)

	protected := api.Group("/p", middleware.JWTProtected(cfg), h.Settings.Maintenance())
	for _, m := range mods {
		m.RegisterRoutes(protected)
	}
}
