package services

import (
	"errors"
	"log/slog"

	"vidgate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsService owns the per-account GlobalSettings row and the two
// destination URL lists. GlobalSettings are upserted on user_id: created on
// first save, updated thereafter, never duplicated.
type SettingsService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewSettingsService(db *gorm.DB, logger *slog.Logger) *SettingsService {
	return &SettingsService{db: db, logger: logger}
}

// GetGlobalSettings returns nil (no error) when the user has never saved
// settings; callers treat that as all features off.
func (s *SettingsService) GetGlobalSettings(userID uint) (*models.GlobalSettings, error) {
	var settings models.GlobalSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *SettingsService) upsert(userID uint, assignments map[string]interface{}, row *models.GlobalSettings) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(row).Error
}

func (s *SettingsService) SaveButtons(userID uint, telegramURL, webURL string) error {
	return s.upsert(userID, map[string]interface{}{
		"telegram_url": telegramURL,
		"web_url":      webURL,
	}, &models.GlobalSettings{UserID: userID, TelegramURL: telegramURL, WebURL: webURL})
}

func (s *SettingsService) SaveLucky(userID uint, enabled bool, percentage int, mode string) error {
	if mode != models.LuckyModeRandom && mode != models.LuckyModeDaily {
		return errors.New("invalid lucky mode")
	}
	if percentage < 0 || percentage > 100 {
		return errors.New("percentage out of range")
	}
	return s.upsert(userID, map[string]interface{}{
		"lucky_enabled":    enabled,
		"lucky_percentage": percentage,
		"lucky_mode":       mode,
	}, &models.GlobalSettings{UserID: userID, LuckyEnabled: enabled, LuckyPercentage: percentage, LuckyMode: mode})
}

func (s *SettingsService) SaveTimed(userID uint, enabled bool, delaySeconds int) error {
	if delaySeconds < 0 {
		return errors.New("delay out of range")
	}
	return s.upsert(userID, map[string]interface{}{
		"timed_redirect_enabled": enabled,
		"timed_redirect_delay":   delaySeconds,
	}, &models.GlobalSettings{UserID: userID, TimedRedirectEnabled: enabled, TimedRedirectDelay: delaySeconds})
}

// EnabledRedirectURLs returns the primary destination list (lucky / smart /
// end-of-playback). Disabled entries never participate in selection.
func (s *SettingsService) EnabledRedirectURLs(userID uint) ([]string, error) {
	var rows []models.RedirectURL
	if err := s.db.Where("user_id = ? AND enabled = ?", userID, true).Find(&rows).Error; err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(rows))
	for _, r := range rows {
		urls = append(urls, r.URL)
	}
	return urls, nil
}

// EnabledTimedRedirectURLs returns the countdown-only destination list.
func (s *SettingsService) EnabledTimedRedirectURLs(userID uint) ([]string, error) {
	var rows []models.TimedRedirectURL
	if err := s.db.Where("user_id = ? AND enabled = ?", userID, true).Find(&rows).Error; err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(rows))
	for _, r := range rows {
		urls = append(urls, r.URL)
	}
	return urls, nil
}

func (s *SettingsService) ListRedirectURLs(userID uint) ([]models.RedirectURL, error) {
	var rows []models.RedirectURL
	err := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&rows).Error
	return rows, err
}

func (s *SettingsService) CreateRedirectURL(userID uint, url string) (*models.RedirectURL, error) {
	row := models.RedirectURL{UserID: userID, URL: url, Enabled: true}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *SettingsService) ToggleRedirectURL(userID, id uint, enabled bool) error {
	res := s.db.Model(&models.RedirectURL{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("enabled", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *SettingsService) DeleteRedirectURL(userID, id uint) error {
	return s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.RedirectURL{}).Error
}

func (s *SettingsService) ListTimedRedirectURLs(userID uint) ([]models.TimedRedirectURL, error) {
	var rows []models.TimedRedirectURL
	err := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&rows).Error
	return rows, err
}

func (s *SettingsService) CreateTimedRedirectURL(userID uint, url string) (*models.TimedRedirectURL, error) {
	row := models.TimedRedirectURL{UserID: userID, URL: url, Enabled: true}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *SettingsService) ToggleTimedRedirectURL(userID, id uint, enabled bool) error {
	res := s.db.Model(&models.TimedRedirectURL{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("enabled", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *SettingsService) DeleteTimedRedirectURL(userID, id uint) error {
	return s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.TimedRedirectURL{}).Error
}
