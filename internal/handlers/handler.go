package handlers

import (
	"log/slog"

	"vidgate/internal/config"
	"vidgate/internal/services"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handler struct {
	cfg              config.Config
	logger           *slog.Logger
	db               *gorm.DB
	rdb              *redis.Client
	linkService      *services.LinkService
	settingsService  *services.SettingsService
	scriptService    *services.ScriptService
	visitService     *services.VisitService
	dashboardService *services.DashboardService
	auditService     *services.AuditService
	cleanupService   *services.CleanupService
	pipeline         *services.RedirectPipeline
	smart            *services.SmartEvaluator
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	rdb *redis.Client,
	linkService *services.LinkService,
	settingsService *services.SettingsService,
	scriptService *services.ScriptService,
	visitService *services.VisitService,
	dashboardService *services.DashboardService,
	auditService *services.AuditService,
	cleanupService *services.CleanupService,
	pipeline *services.RedirectPipeline,
	smart *services.SmartEvaluator,
) *Handler {
	return &Handler{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		rdb:              rdb,
		linkService:      linkService,
		settingsService:  settingsService,
		scriptService:    scriptService,
		visitService:     visitService,
		dashboardService: dashboardService,
		auditService:     auditService,
		cleanupService:   cleanupService,
		pipeline:         pipeline,
		smart:            smart,
	}
}
