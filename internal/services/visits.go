package services

import (
	"context"
	"log/slog"
	"time"

	"vidgate/internal/models"

	"github.com/mssola/user_agent"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sessions idle for longer than this are treated as offline.
const presenceWindow = 30 * time.Minute

// VisitEvent is one qualifying page view, queued for the background worker.
type VisitEvent struct {
	LinkID    uint
	SessionID string
	IPAddress string
	UserAgent string
	Referrer  string
}

// VisitService records views, presence and enriched visit rows. Recording is
// fire-and-forget: a full queue drops the event, and backend errors are
// logged and swallowed so tracking never blocks content delivery.
type VisitService struct {
	db     *gorm.DB
	logger *slog.Logger
	geoIP  *GeoIPService
	events chan VisitEvent
}

func NewVisitService(db *gorm.DB, logger *slog.Logger, geoIP *GeoIPService) *VisitService {
	return &VisitService{
		db:     db,
		logger: logger,
		geoIP:  geoIP,
		events: make(chan VisitEvent, 1000),
	}
}

func (s *VisitService) Start(ctx context.Context) {
	s.logger.Info("Visit worker starting")
	for {
		select {
		case ev := <-s.events:
			s.process(ev)
		case <-ctx.Done():
			s.logger.Info("Visit worker stopping")
			return
		}
	}
}

func (s *VisitService) RecordVisitAsync(ev VisitEvent) {
	select {
	case s.events <- ev:
		// Sent
	default:
		s.logger.Warn("Visit channel full, dropping visit event")
	}
}

// process runs the three independent writes for one visit. Failure of one
// never blocks the others.
func (s *VisitService) process(ev VisitEvent) {
	now := time.Now().UTC()

	if err := s.IncrementDailyViews(ev.LinkID, now); err != nil {
		s.logger.Error("Failed to increment daily views", "link_id", ev.LinkID, "error", err)
	}

	if ev.SessionID != "" {
		if err := s.TouchSession(ev.LinkID, ev.SessionID, now); err != nil {
			s.logger.Error("Failed to upsert online session", "link_id", ev.LinkID, "error", err)
		}
	}

	visit := s.enrich(ev, now)
	if err := s.db.Create(&visit).Error; err != nil {
		s.logger.Error("Failed to record visit", "link_id", ev.LinkID, "error", err)
	}
}

// IncrementDailyViews bumps the (link, UTC date) counter with a single
// conditional upsert so concurrent visits never race.
func (s *VisitService) IncrementDailyViews(linkID uint, now time.Time) error {
	stat := models.DailyStat{
		LinkID: linkID,
		Date:   now.UTC().Format("2006-01-02"),
		Views:  1,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "link_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"views": gorm.Expr("views + 1")}),
	}).Create(&stat).Error
}

// TouchSession upserts the (link, session) presence row.
func (s *VisitService) TouchSession(linkID uint, sessionID string, now time.Time) error {
	session := models.OnlineSession{
		LinkID:     linkID,
		SessionID:  sessionID,
		LastActive: now,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "link_id"}, {Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_active": now}),
	}).Create(&session).Error
}

// RecordBatch collapses a batch of events: one view increment per link, one
// session touch per unique (link, session) pair. Errors are logged only.
func (s *VisitService) RecordBatch(events []VisitEvent) int {
	now := time.Now().UTC()

	type group struct {
		sessions map[string]bool
	}
	byLink := make(map[uint]*group)
	for _, ev := range events {
		if ev.LinkID == 0 || ev.SessionID == "" {
			continue
		}
		g, ok := byLink[ev.LinkID]
		if !ok {
			g = &group{sessions: make(map[string]bool)}
			byLink[ev.LinkID] = g
		}
		g.sessions[ev.SessionID] = true
	}

	processed := 0
	for linkID, g := range byLink {
		if err := s.IncrementDailyViews(linkID, now); err != nil {
			s.logger.Error("Batch view increment failed", "link_id", linkID, "error", err)
		}
		for sessionID := range g.sessions {
			if err := s.TouchSession(linkID, sessionID, now); err != nil {
				s.logger.Error("Batch session touch failed", "link_id", linkID, "error", err)
			}
			processed++
		}
	}
	return processed
}

// RecordButtonClicks atomically bumps the outbound button counters on a link.
func (s *VisitService) RecordButtonClicks(linkID uint, telegram, web int64) error {
	if telegram == 0 && web == 0 {
		return nil
	}
	updates := map[string]interface{}{}
	if telegram > 0 {
		updates["telegram_clicks"] = gorm.Expr("telegram_clicks + ?", telegram)
	}
	if web > 0 {
		updates["web_clicks"] = gorm.Expr("web_clicks + ?", web)
	}
	return s.db.Model(&models.Link{}).Where("id = ?", linkID).Updates(updates).Error
}

// OnlineCount approximates current viewers of a link.
func (s *VisitService) OnlineCount(linkID uint) int64 {
	var count int64
	cutoff := time.Now().UTC().Add(-presenceWindow)
	s.db.Model(&models.OnlineSession{}).
		Where("link_id = ? AND last_active >= ?", linkID, cutoff).
		Count(&count)
	return count
}

// PurgeStaleSessions removes presence rows older than the window.
func (s *VisitService) PurgeStaleSessions(now time.Time) error {
	cutoff := now.UTC().Add(-presenceWindow)
	return s.db.Where("last_active < ?", cutoff).Delete(&models.OnlineSession{}).Error
}

func (s *VisitService) enrich(ev VisitEvent, now time.Time) models.Visit {
	visit := models.Visit{
		LinkID:    ev.LinkID,
		Timestamp: now,
		Platform:  ev.UserAgent,
		Referrer:  ev.Referrer,
	}

	ua := user_agent.New(ev.UserAgent)
	browserName, browserVer := ua.Browser()
	visit.Browser = browserName + " " + browserVer
	visit.OS = ua.OS()

	if ua.Mobile() {
		visit.DeviceType = "Mobile"
	} else if ua.Bot() {
		visit.DeviceType = "Bot"
	} else {
		visit.DeviceType = "Desktop"
	}

	if s.geoIP != nil {
		visit.Country = s.geoIP.Country(ev.IPAddress)
	}

	visit.IPAddress = maskIP(ev.IPAddress)
	return visit
}

// maskIP zeroes the last IPv4 octet for storage (GDPR).
func maskIP(ip string) string {
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == '.' {
			return ip[:i] + ".0"
		}
		if ip[i] == ':' {
			return "IPv6 (Masked)"
		}
	}
	return ip
}
