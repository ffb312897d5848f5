package services

import (
	"errors"
	"log/slog"

	"vidgate/internal/models"

	"gorm.io/gorm"
)

// ScriptService manages the user's injected snippets.
type ScriptService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewScriptService(db *gorm.DB, logger *slog.Logger) *ScriptService {
	return &ScriptService{db: db, logger: logger}
}

// EnabledScripts returns the snippets injected into a landing payload,
// oldest first.
func (s *ScriptService) EnabledScripts(userID uint) ([]models.Script, error) {
	var scripts []models.Script
	err := s.db.Where("user_id = ? AND enabled = ?", userID, true).
		Order("created_at asc").
		Find(&scripts).Error
	return scripts, err
}

func (s *ScriptService) ListScripts(userID uint) ([]models.Script, error) {
	var scripts []models.Script
	err := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&scripts).Error
	return scripts, err
}

func (s *ScriptService) CreateScript(userID uint, location, content string) (*models.Script, error) {
	if location != models.ScriptLocationHead && location != models.ScriptLocationBody {
		return nil, errors.New("invalid script location")
	}
	script := models.Script{UserID: userID, Location: location, Content: content, Enabled: true}
	if err := s.db.Create(&script).Error; err != nil {
		return nil, err
	}
	return &script, nil
}

func (s *ScriptService) ToggleScript(userID, id uint, enabled bool) error {
	res := s.db.Model(&models.Script{}).
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

func (s *ScriptService) DeleteScript(userID, id uint) error {
	return s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Script{}).Error
}
