package services

import (
	"context"
	"log/slog"
	"time"
)

// CleanupService purges rows past their time windows: stale online sessions
// and expired smart-redirect history. It runs both on a background ticker and
// on demand via the housekeeping endpoint.
type CleanupService struct {
	visits  *VisitService
	history HistoryStore
	logger  *slog.Logger
}

func NewCleanupService(visits *VisitService, history HistoryStore, logger *slog.Logger) *CleanupService {
	return &CleanupService{visits: visits, history: history, logger: logger}
}

func (s *CleanupService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Cleanup worker starting", "interval", interval)
	for {
		select {
		case <-ticker.C:
			if err := s.Purge(ctx); err != nil {
				s.logger.Error("Scheduled cleanup failed", "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Cleanup worker stopping")
			return
		}
	}
}

// Purge is best-effort: each target is attempted even when another fails.
func (s *CleanupService) Purge(ctx context.Context) error {
	var firstErr error

	if err := s.visits.PurgeStaleSessions(time.Now()); err != nil {
		s.logger.Error("Failed to purge stale sessions", "error", err)
		firstErr = err
	}

	if err := s.history.PurgeExpired(ctx); err != nil {
		s.logger.Error("Failed to purge redirect history", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
