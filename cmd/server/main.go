package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/studyloop/studyplan-api/internal/calendar"
	"github.com/studyloop/studyplan-api/internal/config"
	"github.com/studyloop/studyplan-api/internal/database"
	"github.com/studyloop/studyplan-api/internal/handlers"
	"github.com/studyloop/studyplan-api/internal/middleware"
	"github.com/studyloop/studyplan-api/internal/storage"
	"github.com/studyloop/studyplan-api/internal/types"

	_ "github.com/studyloop/studyplan-api/docs/api" // Swagger docs
)

// @title StudyPlan API
// @version 1.0.0
// @description Go Fiber data service for the studyloop study-plan web app
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/studyloop/studyplan-api

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Select storage backend
	var store storage.Storage
	switch cfg.StorageDriver {
	case "memory":
		log.Println("Using in-memory storage (records do not survive restarts)")
		store = storage.NewMemStorage()
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close(db)

		// Migration failure aborts startup: running against an inconsistent
		// schema is worse than not running.
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		store = storage.NewGormStorage(db)
	}

	// Calendar integration client
	calClient := calendar.New(cfg.CalendarURL)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("studyplan_api")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	userHandler := &handlers.UserHandler{Store: store}
	planHandler := &handlers.PlanHandler{Store: store}
	taskHandler := &handlers.TaskHandler{Store: store}
	weekHandler := &handlers.WeekHandler{Store: store}
	calendarHandler := &handlers.CalendarHandler{Store: store, Client: calClient}
	healthHandler := &handlers.HealthHandler{Cfg: cfg, Store: store}

	// User routes
	api.Post("/users", userHandler.CreateUser)
	api.Get("/users/:id", userHandler.GetUser)
	api.Get("/users", userHandler.LookupUser)

	// Study plan routes (cross-user listing is admin-scoped when Authorizer is configured)
	api.Get("/study-plans", middleware.AuthAdmin(cfg), planHandler.ListStudyPlans)
	api.Post("/study-plans", planHandler.CreateStudyPlan)
	api.Get("/study-plans/:id", planHandler.GetStudyPlan)
	api.Patch("/study-plans/:id", planHandler.UpdateStudyPlan)
	api.Delete("/study-plans/:id", planHandler.DeleteStudyPlan)

	// Study task routes
	api.Get("/study-plans/:id/tasks", taskHandler.GetTasksByPlan)
	api.Post("/tasks", taskHandler.CreateStudyTasks)
	api.Get("/tasks/:id", taskHandler.GetStudyTask)
	api.Patch("/tasks/:id", taskHandler.UpdateStudyTask)
	api.Post("/tasks/:id/complete", taskHandler.CompleteStudyTask)
	api.Delete("/tasks/:id", taskHandler.DeleteStudyTask)

	// Study week routes
	api.Get("/study-plans/:id/weeks", weekHandler.GetWeeksByPlan)
	api.Post("/weeks", weekHandler.CreateStudyWeek)
	api.Get("/weeks/:id", weekHandler.GetStudyWeek)
	api.Patch("/weeks/:id", weekHandler.UpdateStudyWeek)
	api.Delete("/weeks/:id", weekHandler.DeleteStudyWeek)

	// Calendar integration routes
	api.Get("/calendar/auth-url", calendarHandler.GetAuthURL)
	api.Get("/calendar/status", calendarHandler.GetAuthStatus)
	api.Post("/calendar/export", calendarHandler.ExportPlan)
	api.Post("/calendar/disable-sync", calendarHandler.DisableSync)

	// Health
	api.Get("/health", healthHandler.GetHealth)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Check for middleware-raised errors
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
