package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aescanero/wdcsim/internal/application/relay"
	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the HTTP API server
type Server struct {
	router        *gin.Engine
	server        *http.Server
	relay         *relay.Manager
	jars          JarProvider
	metrics       ports.MetricsCollector
	maxRecentURLs int
	logger        *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	Addr          string
	Relay         *relay.Manager
	Jars          JarProvider
	Metrics       ports.MetricsCollector
	Gatherer      prometheus.Gatherer
	MaxRecentURLs int
	Logger        *zap.Logger

	// AllowedOrigins may call the API cross-origin with credentials
	AllowedOrigins []string
}

// WebSocketHandler streams relay messages over a websocket
type WebSocketHandler interface {
	HandleSessionStream(*gin.Context)
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	s := &Server{
		router:        router,
		relay:         cfg.Relay,
		jars:          cfg.Jars,
		metrics:       cfg.Metrics,
		maxRecentURLs: cfg.MaxRecentURLs,
		logger:        cfg.Logger,
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s.setupRoutes(gatherer)

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures API routes
func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Simulator defaults and constants
		v1.GET("/defaults", s.handleGetDefaults)
		v1.GET("/constants", s.handleGetConstants)
		v1.GET("/event-names", s.handleGetEventNames)
		v1.GET("/phases", s.handleGetPhases)
		v1.GET("/vis-options", s.handleGetVisOptions)

		// Preferences
		v1.PUT("/preferences", s.handleUpdatePreferences)
		v1.DELETE("/preferences", s.handleClearPreferences)

		// Relay sessions
		v1.POST("/sessions", s.handleOpenSession)
		v1.GET("/sessions/:id", s.handleGetSession)
		v1.DELETE("/sessions/:id", s.handleCloseSession)
		v1.POST("/sessions/:id/messages", s.handlePublishMessage)
	}
}

// SetupWebSocket adds the relay websocket route
func (s *Server) SetupWebSocket(handler WebSocketHandler) {
	s.router.GET("/api/v1/sessions/:id/ws", handler.HandleSessionStream)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}

// requestLogger is a middleware for request logging
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()))
	}
}
