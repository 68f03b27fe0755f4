package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"jabuspark/backend/config"
	"jabuspark/backend/middleware"
	"jabuspark/backend/routes"
	"jabuspark/backend/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := utils.InitLogger(os.Getenv("JABUSPARK_LOG_MODE"))
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", "error", err)
	}
	if err := utils.Migrate(db); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 52 * 1024 * 1024,
	})

	// Preflight is answered here, before any handler touches the DB.
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	routes.SetupRoutes(app, db, cfg, logger)

	logger.Info("listening", "port", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}
