package services

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"vidgate/internal/config"
	"vidgate/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Link{}, &models.GlobalSettings{},
		&models.RedirectURL{}, &models.TimedRedirectURL{}, &models.Script{},
		&models.Visit{}, &models.DailyStat{}, &models.OnlineSession{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestVisitService(t *testing.T) (*VisitService, *gorm.DB) {
	db := newTestDB(t)
	logger := newTestLogger()
	geoIP := NewGeoIPService(config.Config{}, logger)
	return NewVisitService(db, logger, geoIP), db
}

func TestVisitService_IncrementDailyViews(t *testing.T) {
	s, db := newTestVisitService(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, s.IncrementDailyViews(1, now))
	assert.NoError(t, s.IncrementDailyViews(1, now))
	assert.NoError(t, s.IncrementDailyViews(1, now))

	var stat models.DailyStat
	assert.NoError(t, db.Where("link_id = ? AND date = ?", 1, "2025-06-01").First(&stat).Error)
	assert.Equal(t, int64(3), stat.Views)

	// Next day gets its own row
	assert.NoError(t, s.IncrementDailyViews(1, now.Add(24*time.Hour)))
	var count int64
	db.Model(&models.DailyStat{}).Where("link_id = ?", 1).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestVisitService_IncrementDailyViews_ManyVisits(t *testing.T) {
	s, db := newTestVisitService(t)
	now := time.Now().UTC()

	for i := 0; i < 20; i++ {
		assert.NoError(t, s.IncrementDailyViews(7, now))
	}

	var stat models.DailyStat
	assert.NoError(t, db.Where("link_id = ?", 7).First(&stat).Error)
	assert.Equal(t, int64(20), stat.Views)
}

func TestVisitService_TouchSession(t *testing.T) {
	s, db := newTestVisitService(t)

	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, s.TouchSession(1, "sess-a", t1))

	t2 := t1.Add(5 * time.Minute)
	assert.NoError(t, s.TouchSession(1, "sess-a", t2))

	// Same (link, session) stays one row with refreshed last_active
	var count int64
	db.Model(&models.OnlineSession{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var session models.OnlineSession
	db.First(&session)
	assert.WithinDuration(t, t2, session.LastActive, time.Second)

	// Different session is a second row
	assert.NoError(t, s.TouchSession(1, "sess-b", t2))
	db.Model(&models.OnlineSession{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestVisitService_ProcessEnrichesVisit(t *testing.T) {
	s, db := newTestVisitService(t)

	s.process(VisitEvent{
		LinkID:    3,
		SessionID: "sess-1",
		IPAddress: "192.168.1.55",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Referrer:  "https://t.me/somechannel",
	})

	var visit models.Visit
	assert.NoError(t, db.First(&visit).Error)
	assert.Equal(t, uint(3), visit.LinkID)
	assert.Contains(t, visit.Browser, "Chrome")
	assert.Equal(t, "Desktop", visit.DeviceType)
	assert.Equal(t, "192.168.1.0", visit.IPAddress) // masked

	var stat models.DailyStat
	assert.NoError(t, db.Where("link_id = ?", 3).First(&stat).Error)
	assert.Equal(t, int64(1), stat.Views)

	var session models.OnlineSession
	assert.NoError(t, db.Where("link_id = ? AND session_id = ?", 3, "sess-1").First(&session).Error)
}

func TestVisitService_RecordBatch(t *testing.T) {
	s, db := newTestVisitService(t)

	processed := s.RecordBatch([]VisitEvent{
		{LinkID: 1, SessionID: "a"},
		{LinkID: 1, SessionID: "a"}, // duplicate session collapses
		{LinkID: 1, SessionID: "b"},
		{LinkID: 2, SessionID: "c"},
		{LinkID: 0, SessionID: "x"}, // invalid, skipped
		{LinkID: 3, SessionID: ""},  // invalid, skipped
	})
	assert.Equal(t, 3, processed)

	// One increment per link, not per event
	var stat models.DailyStat
	assert.NoError(t, db.Where("link_id = ?", 1).First(&stat).Error)
	assert.Equal(t, int64(1), stat.Views)

	var sessions int64
	db.Model(&models.OnlineSession{}).Count(&sessions)
	assert.Equal(t, int64(3), sessions)
}

func TestVisitService_RecordButtonClicks(t *testing.T) {
	s, db := newTestVisitService(t)
	link := models.Link{UserID: 1, Slug: "abcdemp4", VideoURL: "https://v.example/x.webm"}
	db.Create(&link)

	assert.NoError(t, s.RecordButtonClicks(link.ID, 2, 1))
	assert.NoError(t, s.RecordButtonClicks(link.ID, 0, 0)) // no-op

	var got models.Link
	db.First(&got, link.ID)
	assert.Equal(t, int64(2), got.TelegramClicks)
	assert.Equal(t, int64(1), got.WebClicks)
}

func TestVisitService_OnlineCountAndPurge(t *testing.T) {
	s, db := newTestVisitService(t)
	now := time.Now().UTC()

	s.TouchSession(1, "live", now.Add(-1*time.Minute))
	s.TouchSession(1, "stale", now.Add(-45*time.Minute))

	assert.Equal(t, int64(1), s.OnlineCount(1))

	assert.NoError(t, s.PurgeStaleSessions(now))
	var count int64
	db.Model(&models.OnlineSession{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMaskIP(t *testing.T) {
	assert.Equal(t, "192.168.1.0", maskIP("192.168.1.55"))
	assert.Equal(t, "IPv6 (Masked)", maskIP("2001:db8::1"))
	assert.Equal(t, "localhost", maskIP("localhost"))
}
