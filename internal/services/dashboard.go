package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"vidgate/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	dashboardCacheTTL      = 30 * time.Second
	dashboardStaleCacheTTL = 30 * time.Minute
)

type LinkStats struct {
	LinkID         uint   `json:"link_id"`
	Slug           string `json:"slug"`
	TotalViews     int64  `json:"total_views"`
	ViewsToday     int64  `json:"views_today"`
	Online         int64  `json:"online"`
	TelegramClicks int64  `json:"telegram_clicks"`
	WebClicks      int64  `json:"web_clicks"`
}

type DashboardStats struct {
	TotalLinks int64       `json:"total_links"`
	TotalViews int64       `json:"total_views"`
	ViewsToday int64       `json:"views_today"`
	OnlineNow  int64       `json:"online_now"`
	Links      []LinkStats `json:"links"`
}

// DashboardService aggregates per-account view counters. Results are cached
// briefly in Redis; on a backend error a stale copy is served rather than
// failing the request.
type DashboardService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *slog.Logger
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client, logger *slog.Logger) *DashboardService {
	return &DashboardService{db: db, rdb: rdb, logger: logger}
}

func (s *DashboardService) Stats(ctx context.Context, userID uint) (*DashboardStats, error) {
	cacheKey := fmt.Sprintf("dashboard:stats:%d", userID)

	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	stats, err := s.compute(userID)
	if err != nil {
		// Serve slightly stale data over an error page
		if stale := s.fromCache(ctx, cacheKey+":stale"); stale != nil {
			s.logger.Warn("Serving stale dashboard stats", "user_id", userID, "error", err)
			return stale, nil
		}
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.rdb.Set(ctx, cacheKey, data, dashboardCacheTTL)
			s.rdb.Set(ctx, cacheKey+":stale", data, dashboardStaleCacheTTL)
		}
	}

	return stats, nil
}

func (s *DashboardService) fromCache(ctx context.Context, key string) *DashboardStats {
	if s.rdb == nil {
		return nil
	}
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *DashboardService) compute(userID uint) (*DashboardStats, error) {
	var links []models.Link
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&links).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	onlineCutoff := now.Add(-presenceWindow)

	stats := &DashboardStats{TotalLinks: int64(len(links))}

	for _, link := range links {
		ls := LinkStats{
			LinkID:         link.ID,
			Slug:           link.Slug,
			TelegramClicks: link.TelegramClicks,
			WebClicks:      link.WebClicks,
		}

		s.db.Model(&models.DailyStat{}).
			Where("link_id = ?", link.ID).
			Select("COALESCE(SUM(views), 0)").
			Scan(&ls.TotalViews)

		s.db.Model(&models.DailyStat{}).
			Where("link_id = ? AND date = ?", link.ID, today).
			Select("COALESCE(SUM(views), 0)").
			Scan(&ls.ViewsToday)

		s.db.Model(&models.OnlineSession{}).
			Where("link_id = ? AND last_active >= ?", link.ID, onlineCutoff).
			Count(&ls.Online)

		stats.TotalViews += ls.TotalViews
		stats.ViewsToday += ls.ViewsToday
		stats.OnlineNow += ls.Online
		stats.Links = append(stats.Links, ls)
	}

	return stats, nil
}

// DailyHistory returns the last N days of views for a link, oldest first.
func (s *DashboardService) DailyHistory(linkID uint, days int) ([]models.DailyStat, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	var rows []models.DailyStat
	err := s.db.Where("link_id = ? AND date >= ?", linkID, cutoff).
		Order("date asc").
		Find(&rows).Error
	return rows, err
}
