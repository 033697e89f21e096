package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/TimKoenig/FolioDesk/internal/pkg/cache"
	"github.com/TimKoenig/FolioDesk/internal/pkg/config"
	"github.com/TimKoenig/FolioDesk/internal/pkg/database"
	"github.com/TimKoenig/FolioDesk/internal/pkg/env"
	"github.com/TimKoenig/FolioDesk/internal/pkg/router"
)

func main() {
	app := NewApplication()
	cfg := config.Get()
	err := app.Listen(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	config.Setup()
	database.SetupDatabase()
	cache.SetupCache()

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "FolioDesk",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
