package router

import (
	"aurora-messenger/backend/internal/api"
	"aurora-messenger/backend/internal/ws"
	"aurora-messenger/backend/pkg/config"
	"aurora-messenger/backend/pkg/di"
	"aurora-messenger/backend/pkg/errors"
	"aurora-messenger/backend/pkg/logger"
	"aurora-messenger/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)

	cfg := config.Get()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	r.Engine.Use(corsMiddleware())

	authHandler := api.NewAuthHandler(r.Container.UserService, r.Container.JWTService, r.Logger)
	searchHandler := api.NewSearchHandler(r.Container.UserService, r.Logger)
	messageHandler := api.NewMessageHandler(r.Container.MessageService, r.Logger)

	jwtAuth := middleware.JWTAuthMiddleware(r.Container.JWTService, r.Logger)

	r.Engine.POST("/register", authHandler.Register)
	r.Engine.POST("/login", authHandler.Login)
	r.Engine.GET("/search/:query", searchHandler.Search)

	// Conversation history requires a token from /login.
	r.Engine.GET("/messages/:peer", jwtAuth, messageHandler.Conversation)

	// Bidirectional event stream.
	r.Engine.GET("/ws/:username", ws.ServeWs(r.Container.Registry, r.Container.Relay, r.Container.Metrics, r.Logger))

	// Prometheus export.
	r.Engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.setupHealthRoutes()
}

// Enhance CORS middleware to explicitly allow WebSocket-specific headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Authorization, Origin, Upgrade, Connection, Cache-Control")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Upgrade, Connection")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
