package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules/diary"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules/notifications"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules/profile"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules/reminders"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/scheduler"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const appName = "NutriLife"

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	db := database.DB

	if err := database.MigrateShared(db); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also persisted to system_logs
	dbLogHandler := logging.NewDBHandler(db, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout),
		dbLogHandler,
	)))

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	logging.StartCleanup(cleanupCtx, db, cfg.LogRetentionDays)

	// Settings
	settingsService := services.NewSettingsService(db)
	if err := settingsService.SeedDefaults(appName, cfg.DefaultDailyGoal); err != nil {
		slog.Error("settings seed failed", "error", err)
	}

	// Feature services
	profileService := profile.NewService(db, cfg.Location(), func() int {
		return settingsService.DefaultDailyGoal(cfg.DefaultDailyGoal)
	})
	analyzer := analysis.NewMockAnalyzer(analysis.WithDelay(cfg.AnalysisDelay))
	diaryService := diary.NewService(db, analyzer, profileService)
	reminderService := reminders.NewService(db)
	hub := notify.NewHub(16)
	notificationService := notifications.NewService(db, hub)

	mods := []modules.Module{
		profile.New(profileService),
		diary.New(diaryService),
		reminders.New(reminderService, profileService),
		notifications.New(notificationService),
	}

	owned := modules.Models(mods...)
	if err := database.MigrateModels(db, owned); err != nil {
		slog.Error("module migration failed", "error", err)
		os.Exit(1)
	}
	for _, m := range mods {
		slog.Info("module migrated", "module", m.ID(), "models", len(m.Models()))
	}

	authService := services.NewAuthService(db, cfg, owned...)

	// Reminder loop
	reminderScheduler, err := scheduler.NewReminderScheduler(
		reminderService,
		profileService,
		notificationService,
		scheduler.WithInterval(cfg.ReminderInterval),
		scheduler.WithDedupe(cfg.ReminderDedupe),
	)
	if err != nil {
		slog.Error("scheduler init failed", "error", err)
		os.Exit(1)
	}
	if err := reminderScheduler.Start(); err != nil {
		slog.Error("scheduler start failed", "error", err)
		os.Exit(1)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app. Body limit leaves room for a 4 MiB photo plus multipart framing.
	app := fiber.New(fiber.Config{
		BodyLimit:    5 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, db, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, profileService),
		Health:   handlers.NewHealthHandler(reminderScheduler),
		Settings: handlers.NewSettingsHandler(settingsService),
		Pages:    handlers.NewPagesHandler(appName),
	}, mods)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err := <-listenErr:
		slog.Error("server failed to start", "error", err)
	}

	reminderScheduler.Stop()
	// Closing the hub ends open SSE streams so Shutdown does not wait on them.
	hub.Close()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stopCleanup()
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
