package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	"github.com/dialogue-eval/ratingsdb/internal/config"
	"github.com/dialogue-eval/ratingsdb/internal/database"
	"github.com/dialogue-eval/ratingsdb/internal/handlers"
	"github.com/dialogue-eval/ratingsdb/internal/loader"
	"github.com/dialogue-eval/ratingsdb/internal/middleware"

	_ "github.com/dialogue-eval/ratingsdb/docs/api" // Swagger docs
)

// @title Dialogue Ratings API
// @version 1.0.0
// @description Backend for collecting human quality ratings on generated dialogues

// @host localhost:5001
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Populate dialogues from the source directory. A missing directory is
	// not fatal; the service can run against previously loaded rows.
	if _, err := loader.LoadDialogues(db, cfg.DialoguesDir); err != nil {
		log.Printf("Dialogue bootstrap skipped: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("ratingsdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret}
	dialogueHandler := &handlers.DialogueHandler{DB: db}
	ratingHandler := &handlers.RatingHandler{DB: db}
	adminHandler := &handlers.AdminHandler{DB: db}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	requireUser := middleware.RequireUser(cfg.JWTSecret)
	requireAdmin := middleware.RequireAdmin(db, cfg.JWTSecret)

	// API routes under /api
	api := app.Group("/api")

	api.Get("/health", healthHandler.Get)

	// Auth routes
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Dialogue routes
	api.Get("/dialogue/random", requireUser, dialogueHandler.Random)
	api.Get("/dialogue/:dialogueId", requireUser, dialogueHandler.Get)

	// Rating routes
	api.Post("/rating", requireUser, ratingHandler.Submit)
	api.Get("/ratings/history", requireUser, ratingHandler.History)
	api.Get("/ratings/:dialogueId", requireUser, ratingHandler.Get)

	// Admin routes
	admin := api.Group("/admin", requireAdmin)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/users", adminHandler.Users)
	admin.Get("/ratings", adminHandler.Ratings)
	admin.Get("/dialogues", adminHandler.Dialogues)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resource not found",
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
	log.Printf("Server running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}
