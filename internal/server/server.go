// internal/server/server.go
// HTTP server setup with dependency injection

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"courtsched/internal/api"
	"courtsched/internal/audit"
	"courtsched/internal/auth"
	"courtsched/internal/cache"
	"courtsched/internal/config"
	"courtsched/internal/database"
	"courtsched/internal/live"
	"courtsched/internal/middleware"
	"courtsched/internal/scheduling"
	"courtsched/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	router *gin.Engine
	logger *log.Logger
	server *http.Server
	hub    *live.Hub
}

// New creates a new server with all dependencies
func New(cfg *config.Config, db *database.Connections, logger *log.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	st := store.New(db.MongoDB, logger)
	c := cache.New(db.Redis, logger)
	auditLog := audit.New(db.MySQL)
	authStore := auth.NewStore(db.MySQL)
	authService := auth.NewService(authStore, cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)

	hub := live.NewHub(logger)
	go hub.Run()

	schedulingService := scheduling.NewService(st, c, auditLog, hub, logger, cfg.Schedule.RescheduleLockTTL)

	router := setupRouter(cfg, db, c, authService, authStore, schedulingService, hub, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		config: cfg,
		router: router,
		logger: logger,
		server: srv,
		hub:    hub,
	}
}

// setupRouter configures all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *database.Connections,
	c *cache.Cache,
	authService *auth.Service,
	authStore *auth.Store,
	schedulingService *scheduling.Service,
	hub *live.Hub,
	logger *log.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimiter(c))

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  cfg.Environment != "production",
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))

	// Maintenance mode middleware
	if cfg.Features.MaintenanceMode {
		router.Use(middleware.MaintenanceMode())
	}

	// Health check (always available)
	router.GET("/health", api.HealthCheck(cfg, db))

	// API routes
	v1 := router.Group("/api/v1")
	{
		api.RegisterAuthRoutes(v1, authService, authStore)
		api.RegisterScheduleRoutes(v1, authService, schedulingService)
		if cfg.Features.EnableWebSocket {
			api.RegisterLiveRoutes(v1, authService, hub)
		}
	}

	return router
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Println("Shutting down server...")
	return s.server.Shutdown(ctx)
}
