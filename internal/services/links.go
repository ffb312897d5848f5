package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"vidgate/internal/models"
	"vidgate/pkg/utils"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	linkCacheTTL       = 10 * time.Minute
	randomSlugCacheTTL = 60 * time.Second
	randomSlugCacheKey = "slugs:recent"
	randomSlugLimit    = 100
)

var ErrLinkNotFound = errors.New("link not found")

type CreateLinkDTO struct {
	UserID          uint
	VideoURL        string
	DestinationURL  string
	RedirectEnabled bool
	TelegramURL     string
	WebURL          string
	LuckyEnabled    bool
	LuckyPercentage int
	LuckyMode       string
	IPAddress       string // for the audit log
}

type UpdateLinkDTO struct {
	VideoURL        *string
	DestinationURL  *string
	RedirectEnabled *bool
	TelegramURL     *string
	WebURL          *string
	LuckyEnabled    *bool
	LuckyPercentage *int
	LuckyMode       *string
}

// LinkService owns link CRUD and the slug → link lookup used by every public
// visit. Lookups go through Redis when available. Slugs are immutable after
// creation.
type LinkService struct {
	db            *gorm.DB
	rdb           *redis.Client
	logger        *slog.Logger
	auditService  *AuditService
	slugGenerator func() string
}

func NewLinkService(db *gorm.DB, rdb *redis.Client, logger *slog.Logger, auditService *AuditService) *LinkService {
	return &LinkService{
		db:            db,
		rdb:           rdb,
		logger:        logger,
		auditService:  auditService,
		slugGenerator: utils.GenerateSlug,
	}
}

func (s *LinkService) CreateLink(dto CreateLinkDTO) (*models.Link, error) {
	var slug string
	for {
		slug = s.slugGenerator()
		var existing models.Link
		err := s.db.Where("slug = ?", slug).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	link := models.Link{
		UserID:          dto.UserID,
		Slug:            slug,
		VideoURL:        dto.VideoURL,
		DestinationURL:  dto.DestinationURL,
		RedirectEnabled: dto.RedirectEnabled,
		TelegramURL:     dto.TelegramURL,
		WebURL:          dto.WebURL,
		LuckyEnabled:    dto.LuckyEnabled,
		LuckyPercentage: dto.LuckyPercentage,
		LuckyMode:       dto.LuckyMode,
		CreatedAt:       time.Now(),
	}

	if err := s.db.Create(&link).Error; err != nil {
		return nil, err
	}

	s.auditService.LogAction(&dto.UserID, "CREATE_LINK", link.Slug, map[string]interface{}{
		"video_url": dto.VideoURL,
	}, dto.IPAddress)

	return &link, nil
}

// GetBySlug looks up a link by its public slug, serving from the Redis cache
// when possible.
func (s *LinkService) GetBySlug(ctx context.Context, slug string) (*models.Link, error) {
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, "link:"+slug).Result()
		if err == nil {
			var cached models.Link
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var link models.Link
	if err := s.db.Where("slug = ?", slug).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(link); err == nil {
			s.rdb.Set(ctx, "link:"+slug, data, linkCacheTTL)
		}
	}

	return &link, nil
}

func (s *LinkService) GetOwned(userID, linkID uint) (*models.Link, error) {
	var link models.Link
	if err := s.db.Where("id = ? AND user_id = ?", linkID, userID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (s *LinkService) ListLinks(userID uint) ([]models.Link, error) {
	var links []models.Link
	err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&links).Error
	return links, err
}

// UpdateLink applies the provided fields; the slug never changes.
func (s *LinkService) UpdateLink(ctx context.Context, userID, linkID uint, dto UpdateLinkDTO) (*models.Link, error) {
	link, err := s.GetOwned(userID, linkID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.VideoURL != nil {
		updates["video_url"] = *dto.VideoURL
	}
	if dto.DestinationURL != nil {
		updates["destination_url"] = *dto.DestinationURL
	}
	if dto.RedirectEnabled != nil {
		updates["redirect_enabled"] = *dto.RedirectEnabled
	}
	if dto.TelegramURL != nil {
		updates["telegram_url"] = *dto.TelegramURL
	}
	if dto.WebURL != nil {
		updates["web_url"] = *dto.WebURL
	}
	if dto.LuckyEnabled != nil {
		updates["lucky_enabled"] = *dto.LuckyEnabled
	}
	if dto.LuckyPercentage != nil {
		updates["lucky_percentage"] = *dto.LuckyPercentage
	}
	if dto.LuckyMode != nil {
		updates["lucky_mode"] = *dto.LuckyMode
	}

	if len(updates) > 0 {
		if err := s.db.Model(link).Updates(updates).Error; err != nil {
			return nil, err
		}
		s.invalidate(ctx, link.Slug)
	}

	return link, nil
}

func (s *LinkService) DeleteLink(ctx context.Context, userID, linkID uint) error {
	link, err := s.GetOwned(userID, linkID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(link).Error; err != nil {
		return err
	}
	s.invalidate(ctx, link.Slug)

	s.auditService.LogAction(&userID, "DELETE_LINK", link.Slug, nil, "")
	return nil
}

// RandomSlug returns a random recent slug other than current, for the
// "watch another" rotation. The slug list is cached briefly.
func (s *LinkService) RandomSlug(ctx context.Context, current string) (string, error) {
	var slugs []string

	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, randomSlugCacheKey).Result(); err == nil {
			json.Unmarshal([]byte(val), &slugs)
		}
	}

	if len(slugs) == 0 {
		var links []models.Link
		if err := s.db.Select("slug").Order("created_at desc").Limit(randomSlugLimit).Find(&links).Error; err != nil {
			return "", err
		}
		for _, l := range links {
			slugs = append(slugs, l.Slug)
		}
		if s.rdb != nil && len(slugs) > 0 {
			if data, err := json.Marshal(slugs); err == nil {
				s.rdb.Set(ctx, randomSlugCacheKey, data, randomSlugCacheTTL)
			}
		}
	}

	candidates := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if slug != current {
			candidates = append(candidates, slug)
		}
	}
	if len(candidates) == 0 {
		return "", ErrLinkNotFound
	}
	return utils.PickRandom(candidates), nil
}

func (s *LinkService) invalidate(ctx context.Context, slug string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, "link:"+slug).Err(); err != nil {
		s.logger.Warn("Failed to invalidate link cache", "slug", slug, "error", err)
	}
}
