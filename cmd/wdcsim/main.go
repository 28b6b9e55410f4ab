package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/wdcsim/internal/application/relay"
	"github.com/aescanero/wdcsim/internal/config"
	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/aescanero/wdcsim/pkg/adapters/cookies/browser"
	cookieredis "github.com/aescanero/wdcsim/pkg/adapters/cookies/redis"
	eventsmemory "github.com/aescanero/wdcsim/pkg/adapters/events/memory"
	eventsredis "github.com/aescanero/wdcsim/pkg/adapters/events/redis"
	"github.com/aescanero/wdcsim/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/wdcsim/pkg/api/grpc"
	"github.com/aescanero/wdcsim/pkg/api/http"
	"github.com/aescanero/wdcsim/pkg/api/websocket"

	promclient "github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting WDC simulator backend",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("preference_backend", cfg.PreferenceBackend),
		zap.String("event_bus", cfg.EventBus))

	// Redis is only dialled when a redis backend is selected
	var redisClient *goredis.Client
	if cfg.UsesRedis() {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// Initialize adapters
	cookieOpts := browser.Options{
		Path:   cfg.Cookies.Path,
		Domain: cfg.Cookies.Domain,
		MaxAge: cfg.Cookies.MaxAge,
		Secure: cfg.Cookies.Secure,
	}

	var jars http.JarProvider = &http.BrowserJars{Options: cookieOpts}
	if cfg.PreferenceBackend == config.BackendRedis {
		jars = &http.RedisJars{
			Store:         cookieredis.NewStore(redisClient, cfg.Cookies.PreferenceTTL, logger),
			SessionCookie: cfg.Cookies.SessionCookie,
			Options:       cookieOpts,
		}
	}

	var eventBus ports.EventBus = eventsmemory.NewInMemoryEventBus(logger)
	if cfg.EventBus == config.EventBusRedis {
		eventBus = eventsredis.NewStreamsEventBus(redisClient, cfg.Relay.StreamMaxLen, logger)
	}

	metricsCollector := prometheus.NewCollector(promclient.DefaultRegisterer)

	// Initialize application components
	relayMgr := relay.NewManager(
		eventBus,
		metricsCollector,
		relay.NewValidator(cfg.Relay.MaxPayloadBytes),
		logger,
		cfg.Timeouts.SessionIdleTimeout,
	)

	sweeper := relay.NewSweeper(relayMgr, cfg.Relay.SweepInterval, logger)
	sweeper.Start()

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Addr:           cfg.GetHTTPAddr(),
		Relay:          relayMgr,
		Jars:           jars,
		Metrics:        metricsCollector,
		MaxRecentURLs:  cfg.Cookies.MaxRecentURLs,
		Logger:         logger,
		AllowedOrigins: cfg.CORSOrigins,
	})

	// Add WebSocket handler to HTTP server
	wsHandler := websocket.NewHandler(relayMgr, metricsCollector, logger)
	httpServer.SetupWebSocket(wsHandler)

	grpcServer, err := grpc.NewServer(&grpc.Config{
		Addr:   cfg.GetGRPCAddr(),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("failed to create gRPC server", zap.Error(err))
	}

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := grpcServer.Start(); err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	logger.Info("WDC simulator backend started",
		zap.String("http_addr", cfg.GetHTTPAddr()),
		zap.String("grpc_addr", cfg.GetGRPCAddr()))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := grpcServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("gRPC server shutdown error", zap.Error(err))
	}

	sweeper.Stop()

	if err := relayMgr.Shutdown(shutdownCtx); err != nil {
		logger.Error("relay shutdown error", zap.Error(err))
	}

	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("WDC simulator backend shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
