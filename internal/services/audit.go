package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"vidgate/internal/models"

	"gorm.io/gorm"
)

// AuditService writes audit entries through a buffered channel so request
// handlers never wait on the database for bookkeeping.
type AuditService struct {
	db      *gorm.DB
	logger  *slog.Logger
	entries chan models.AuditLog
}

func NewAuditService(db *gorm.DB, logger *slog.Logger) *AuditService {
	return &AuditService{
		db:      db,
		logger:  logger,
		entries: make(chan models.AuditLog, 100),
	}
}

func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.entries:
			if err := s.db.Create(&entry).Error; err != nil {
				s.logger.Error("Failed to write audit log", "action", entry.Action, "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

func (s *AuditService) LogAction(userID *uint, action, entityID string, details interface{}, ip string) {
	detailBytes, _ := json.Marshal(details)

	entry := models.AuditLog{
		UserID:    userID,
		Action:    action,
		EntityID:  entityID,
		Details:   string(detailBytes),
		IPAddress: ip,
		Timestamp: time.Now(),
	}

	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping log", "action", action)
	}
}
