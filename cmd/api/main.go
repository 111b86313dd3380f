package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/sdgmon/portal-go/internal/api/middleware"
	"github.com/sdgmon/portal-go/internal/api/routes"
	"github.com/sdgmon/portal-go/internal/config"
	"github.com/sdgmon/portal-go/internal/config/db"
	"github.com/sdgmon/portal-go/internal/cron"
	"github.com/sdgmon/portal-go/internal/domain/audit"
	"github.com/sdgmon/portal-go/internal/domain/record"
	"github.com/sdgmon/portal-go/internal/domain/user"
)

func main() {
	// Load configuration from environment variables and .env file
	config.LoadConfig()

	// Initialize JWT signing key
	middleware.Init()

	// Initialize database connection
	db.Init()

	// Auto migrate database schemas
	if err := db.DB.AutoMigrate(
		&user.User{},
		&record.Record{},
		&audit.AuditLog{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())

	services := routes.RegisterRoutes(router, db.DB)

	// Background audit retention cleanup
	cron.StartCleanupTask(services.Audit)

	port := ":" + config.ServerPort
	log.Printf("Starting API server on %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
}
