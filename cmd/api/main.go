package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"finboard/internal/config"
	"finboard/internal/database"
	"finboard/internal/forex"
	"finboard/internal/handlers"
	"finboard/internal/ledger"
	"finboard/internal/logger"
	"finboard/internal/middleware"
	"finboard/internal/persistence"
	"finboard/internal/search"
	"finboard/internal/services"
	"finboard/internal/storage"
	"finboard/internal/validator"

	_ "finboard/internal/docs" // Import swagger docs
)

// @title           Finboard API
// @version         1.0
// @description     Finboard is a personal finance dashboard API: record income and expenses, search and sort them, and follow totals, budget and spending trend in USD, EUR or RWF.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey APIKey
// @in header
// @name X-API-Key
// @description Required on state-changing requests when the server has an API key configured.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	kv, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	// Initialize services
	store := ledger.New(ledger.WithSettings(cfg.DefaultSettings()))
	adapter := persistence.New(kv, cfg.StorageKey, cfg.DefaultSettings())
	matcher := search.NewMatcher(cfg.PatternCacheSize, cfg.PatternCacheTTL, cfg.SearchPatternTimeout)
	rates := forex.NewClient(&http.Client{Timeout: cfg.RequestTimeout}, cfg.ForexBaseURL, cfg.ForexCacheTTL)
	dashboard := services.NewDashboardService(store, adapter, matcher,
		services.WithRateSource(rates),
		services.WithAudit(services.NewAuditService()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PatternCacheTTL > 0 {
		go pruneLoop(ctx, matcher, cfg.PatternCacheTTL)
	}

	if err := dashboard.Load(ctx); err != nil {
		log.Warnw("Starting with empty finance data", "error", err)
	}
	if cfg.ForexRefreshOnStart {
		if _, err := dashboard.RefreshRates(ctx); err != nil {
			log.Warnw("Keeping configured exchange rates", "error", err)
		}
	}

	// Initialize Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSOrigin))
	router.NoRoute(middleware.NotFound)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": cfg.StorageDriver})
	})

	// API v1 group
	v1 := router.Group("/api/v1")
	v1.Use(middleware.WriteProtection(cfg.APIKey))
	handlers.RegisterRoutes(v1, dashboard)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting finboard server on port %s (storage: %s)", cfg.Port, cfg.StorageDriver)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
	}
	if err := dashboard.Flush(shutdownCtx); err != nil {
		return fmt.Errorf("failed to flush finance data: %w", err)
	}
	return nil
}

// pruneLoop drops expired compiled search patterns until ctx is done.
func pruneLoop(ctx context.Context, matcher *search.Matcher, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := matcher.Prune(); n > 0 {
				logger.Get().Debugw("Pruned search patterns", "count", n)
			}
		}
	}
}

// openStorage builds the key-value medium selected by STORAGE_DRIVER.
func openStorage(cfg *config.Config) (storage.KV, func(), error) {
	log := logger.Get()
	noop := func() {}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		return storage.NewMemoryKV(), noop, nil

	case config.StorageFile:
		kv, err := storage.NewFileKV(cfg.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return kv, noop, nil

	default:
		dbManager, err := database.NewManager(cfg.Database())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database manager: %w", err)
		}
		if err := dbManager.Migrate(); err != nil {
			_ = dbManager.Close()
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		closeDB := func() {
			if err := dbManager.Close(); err != nil {
				log.Warnw("Failed to close database", "error", err)
			}
		}
		return storage.NewSQLKV(dbManager.DB()), closeDB, nil
	}
}
