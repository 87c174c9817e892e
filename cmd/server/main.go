package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appintegration "github.com/shopbridge/backend/internal/application/integration"
	"github.com/shopbridge/backend/internal/domain/integration"
	"github.com/shopbridge/backend/internal/infrastructure/config"
	"github.com/shopbridge/backend/internal/infrastructure/logger"
	"github.com/shopbridge/backend/internal/infrastructure/queue"
	"github.com/shopbridge/backend/internal/infrastructure/shopify"
	"github.com/shopbridge/backend/internal/interfaces/http/handler"
	"github.com/shopbridge/backend/internal/interfaces/http/middleware"
	"github.com/shopbridge/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shopbridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("driver", cfg.Shopify.Driver),
	)

	// Platform transport clients
	shopifyCfg := shopify.NewConfig(cfg.Shopify.ShopDomain, cfg.Shopify.AccessToken, integration.Driver(cfg.Shopify.Driver))
	shopifyCfg.APIVersion = cfg.Shopify.APIVersion
	shopifyCfg.TimeoutSeconds = cfg.Shopify.TimeoutSeconds
	shopifyCfg.PageSize = cfg.Shopify.PageSize

	orderClient, err := shopify.NewOrderClient(shopifyCfg, log)
	if err != nil {
		log.Fatal("Failed to build order client", zap.Error(err))
	}
	productClient, err := shopify.NewProductClient(shopifyCfg, log)
	if err != nil {
		log.Fatal("Failed to build product client", zap.Error(err))
	}

	driver := integration.Driver(cfg.Shopify.Driver)
	orderTransformer := shopify.NewOrderTransformer(driver)
	productTransformer := shopify.NewProductTransformer(driver)

	// Message handlers
	orderHandler := appintegration.NewOrderSyncHandler(orderClient, orderTransformer, log)
	productHandler := appintegration.NewProductSyncHandler(productClient, productTransformer, log)

	// Queue backend
	var syncQueue integration.SyncQueue
	var startQueue func(context.Context) error
	var stopQueue func(context.Context) error

	switch cfg.Queue.Backend {
	case "redis":
		redisQueue, err := queue.NewRedisQueue(queue.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, orderHandler, productHandler, log)
		if err != nil {
			log.Fatal("Failed to connect queue backend", zap.Error(err))
		}
		defer func() {
			if err := redisQueue.Close(); err != nil {
				log.Error("Error closing queue backend", zap.Error(err))
			}
		}()
		syncQueue = redisQueue
		startQueue = redisQueue.Start
		stopQueue = redisQueue.Stop
	default:
		memQueue := queue.NewMemoryQueue(orderHandler, productHandler, log)
		syncQueue = memQueue
		startQueue = memQueue.Start
		stopQueue = memQueue.Stop
	}

	if err := startQueue(context.Background()); err != nil {
		log.Fatal("Failed to start queue", zap.Error(err))
	}

	// Application services
	orderMapper := appintegration.NewOrderMapper()
	productMapper := appintegration.NewProductMapper()
	syncService := appintegration.NewOrderSyncService(orderClient, orderMapper, syncQueue, log)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	systemHandler := handler.NewSystemHandler()
	engine.GET("/health", systemHandler.Health)

	syncHandler := handler.NewSyncHandler(orderMapper, productMapper, syncQueue, syncService,
		cfg.Sync.MinHoursAgo, cfg.Sync.MaxHoursAgo, log)
	router.NewRouter(engine).Register(syncHandler).Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := stopQueue(ctx); err != nil {
		log.Error("Queue shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
