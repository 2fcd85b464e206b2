package di

import (
	"time"

	"aurora-messenger/backend/internal/service"
	"aurora-messenger/backend/internal/ws"
	"aurora-messenger/backend/pkg/cache"
	"aurora-messenger/backend/pkg/config"
	"aurora-messenger/backend/pkg/jwt"
	"aurora-messenger/backend/pkg/logger"
	"aurora-messenger/backend/pkg/resilience"
	"aurora-messenger/backend/shared/observability"
	"aurora-messenger/backend/shared/redis"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB             *gorm.DB
	Logger         *logger.Logger
	JWTService     *jwt.Service
	UserService    *service.UserService
	MessageService *service.MessageService
	MessageStore   *service.MessageStoreAdapter
	Metrics        *observability.Metrics
	Registry       *ws.Registry
	Relay          *ws.Relay
}

// Config holds the configuration for the container
type Config struct {
	LoggerConfig logger.Config
	JWTSecret    string
	JWTExpiry    time.Duration
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		LoggerConfig: logger.DefaultConfig(),
		JWTSecret:    "",
		JWTExpiry:    0, // Use default
	}
}

// New creates a new dependency injection container
func New(db *gorm.DB, cfg *Config) (*Container, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	log := logger.New(cfg.LoggerConfig)
	appCfg := config.Get()

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTExpiry)

	var searchCache *cache.Cache
	if appCfg.Cache.Enabled {
		searchCache = cache.NewCache()
	}

	userService := service.NewUserService(db, searchCache)
	messageService := service.NewMessageService(db)

	breaker := resilience.NewCircuitBreaker(resilience.DefaultConfig("message-log"), log)
	messageStore := service.NewMessageStoreAdapter(messageService, breaker)

	metrics := observability.NewMetrics()

	// Presence is optional; the registry treats a nil announcer as
	// disabled.
	var presence ws.PresenceAnnouncer
	if store := redis.NewPresenceStore(); store != nil {
		presence = store
	}

	registry := ws.NewRegistry(presence, metrics, log)
	relay := ws.NewRelay(registry, messageStore, metrics, log)

	return &Container{
		DB:             db,
		Logger:         log,
		JWTService:     jwtService,
		UserService:    userService,
		MessageService: messageService,
		MessageStore:   messageStore,
		Metrics:        metrics,
		Registry:       registry,
		Relay:          relay,
	}, nil
}
