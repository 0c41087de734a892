package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"badgr/internal/api/handlers"
	"badgr/internal/api/middleware"
	"badgr/internal/config"
	"badgr/internal/events"
	"badgr/internal/logger"
	"badgr/internal/services/shopify"
	"badgr/internal/store"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config    *config.Config
	logger    *logger.Logger
	store     store.Store
	publisher events.Publisher
	router    *gin.Engine
	server    *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, s store.Store, publisher events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins...))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(s)
	widgetHandler := handlers.NewWidgetHandler(s, logger)
	optionsHandler := handlers.NewOptionsHandler(s, logger, cfg.AssetBasePath)
	trackHandler := handlers.NewTrackHandler(publisher, logger)
	webhookHandler := handlers.NewWebhookHandler(s, logger, shopify.NewWebhookVerifier(cfg.ShopifyWebhookSecret))

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)

	// Routes
	api := router.Group("/api")
	{
		api.GET("/test-db", healthHandler.TestDB)

		// Widget configurations
		widgets := api.Group("/widgets")
		{
			widgets.GET("", widgetHandler.List)
			widgets.POST("", widgetHandler.Create)
			widgets.GET("/stats/summary", widgetHandler.Stats)
			widgets.POST("/track", trackHandler.Track)
			widgets.GET("/:shopId", widgetHandler.Get)
			widgets.PUT("/:shopId", widgetHandler.Update)
			widgets.DELETE("/:shopId", widgetHandler.Delete)
			widgets.PATCH("/:shopId/toggle", widgetHandler.Toggle)
			widgets.POST("/:widgetId/options", optionsHandler.Generate)
		}

		// Shopify webhooks
		webhooks := api.Group("/webhooks")
		{
			webhooks.POST("/app-uninstalled", webhookHandler.AppUninstalled)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Route not found",
		})
	})

	return &Server{
		config:    cfg,
		logger:    logger,
		store:     s,
		publisher: publisher,
		router:    router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on %s", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router for serverless entrypoints.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
