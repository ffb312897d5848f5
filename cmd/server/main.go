package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vidgate/internal/config"
	"vidgate/internal/handlers"
	"vidgate/internal/models"
	"vidgate/internal/repository"
	"vidgate/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var handler slog.Handler
	if cfg.AppEnv == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
	if err != nil {
		logger.Warn("Failed to connect to Redis, falling back to in-process caches", "error", err)
		rdb = nil
	}

	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, ""); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	} else {
		// Dev and test databases are schema-managed in place
		if err := db.AutoMigrate(
			&models.User{}, &models.Link{}, &models.GlobalSettings{},
			&models.RedirectURL{}, &models.TimedRedirectURL{}, &models.Script{},
			&models.Visit{}, &models.DailyStat{}, &models.OnlineSession{},
			&models.AuditLog{},
		); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	auditService := services.NewAuditService(db, logger)
	geoIPService := services.NewGeoIPService(cfg, logger)
	visitService := services.NewVisitService(db, logger, geoIPService)
	linkService := services.NewLinkService(db, rdb, logger, auditService)
	settingsService := services.NewSettingsService(db, logger)
	scriptService := services.NewScriptService(db, logger)
	dashboardService := services.NewDashboardService(db, rdb, logger)

	var historyStore services.HistoryStore
	if rdb != nil {
		historyStore = services.NewRedisHistoryStore(rdb)
	} else {
		historyStore = services.NewMemoryHistoryStore()
	}
	smartEvaluator := services.NewSmartEvaluator(historyStore, logger)
	pipeline := services.NewRedirectPipeline(services.NewLuckyEvaluator(), smartEvaluator, logger)
	cleanupService := services.NewCleanupService(visitService, historyStore, logger)

	rateLimiter := services.NewIPRateLimiter(20, 40, logger)

	h := handlers.NewHandler(
		cfg, logger, db, rdb,
		linkService, settingsService, scriptService,
		visitService, dashboardService, auditService, cleanupService,
		pipeline, smartEvaluator,
	)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := h.SetupRouter(rateLimiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go auditService.Start(workerCtx)
	go visitService.Start(workerCtx)
	go cleanupService.Start(workerCtx, 10*time.Minute)
	go geoIPService.Init()
	rateLimiter.StartCleanup(workerCtx, 10*time.Minute)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	workerCancel()
	geoIPService.Close()
	// Give workers a moment to drain
	time.Sleep(100 * time.Millisecond)

	logger.Info("Server exiting")
	return nil
}
