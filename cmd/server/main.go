package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aurora-messenger/backend/internal/models"
	"aurora-messenger/backend/pkg/config"
	"aurora-messenger/backend/pkg/di"
	"aurora-messenger/backend/pkg/logger"
	"aurora-messenger/backend/pkg/router"
	"aurora-messenger/backend/pkg/secrets"
	"aurora-messenger/backend/shared/observability"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logConfig.Level = level
	}
	logConfig.JSON = os.Getenv("LOG_FORMAT") != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting aurora messenger", "version", os.Getenv("APP_VERSION"))

	// Secrets manager (Vault when enabled, env fallback otherwise)
	if err := secrets.Init(log); err != nil {
		log.LogError(err, "Failed to initialize secrets manager")
		os.Exit(1)
	}

	cfg := config.New()

	// Observability: prometheus meter provider plus stdout tracing
	mp := observability.SetupPrometheusMetrics()
	shutdownTracing := observability.SetupTracing("aurora-messenger")
	defer shutdownTracing()

	// Initialize database
	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&models.User{}, &models.Message{}); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Conversation lookups scan both directions of a pair, so index both.
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_sender_receiver ON messages(sender, receiver)").Error; err != nil {
		log.LogError(err, "Failed to create message index", "index", "idx_messages_sender_receiver")
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_receiver_sender ON messages(receiver, sender)").Error; err != nil {
		log.LogError(err, "Failed to create message index", "index", "idx_messages_receiver_sender")
	}

	// Initialize dependency injection container
	diConfig := di.DefaultConfig()
	diConfig.LoggerConfig = logConfig
	diConfig.JWTSecret = secrets.GetSecretWithDefault(context.Background(), "jwt.secret", cfg.JWT.Secret)
	diConfig.JWTExpiry = cfg.JWT.Expiry

	container, err := di.New(db, diConfig)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	// Initialize and setup router
	r := router.New(container)
	r.SetupRoutes()

	// Add OpenAPI validation if schema file is available
	if schemaPath := os.Getenv("OPENAPI_SCHEMA_PATH"); schemaPath != "" {
		r.AddOpenAPIValidation(schemaPath)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	if err := mp.Shutdown(ctx); err != nil {
		log.LogError(err, "Meter provider shutdown failed")
	}

	log.Info("Server exited gracefully")
}
