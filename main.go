package main

import (
	"context"
	"learnhub/config"
	evidenceController "learnhub/controllers/evidence"
	"learnhub/database"
	authRoutes "learnhub/routers/authRoutes"
	courseRoutes "learnhub/routers/courseRoutes"
	internshipRoutes "learnhub/routers/internshipRoutes"
	"learnhub/services"
	"learnhub/utils"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	cache, err := database.ConnectRedis(context.Background())
	if err != nil {
		slog.Warn("redis unavailable, certificate verification is uncached", "error", err)
		cache = nil
	}
	services.Init(db, cache)
	evidenceController.Store = utils.NewEvidenceStore()

	scheduler := utils.InitializeNotificationSchedulers(db)

	app := fiber.New(fiber.Config{BodyLimit: 6 * 1024 * 1024})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Locally stored payment evidence
	app.Static("/uploads/evidence", config.AppConfig.EvidenceDir)

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	internshipRoutes.SetupInternshipRoutes(app)
	internshipRoutes.SetupAdminInternshipRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down...")
		<-scheduler.Stop().Done()
		if cache != nil {
			cache.Close()
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}
	}()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Fatal(err)
	}
}
