package models

import (
	"time"
)

const (
	LuckyModeRandom = "random"
	LuckyModeDaily  = "daily"
)

// GlobalSettings holds the per-account defaults: outbound button URLs, the
// lucky-redirect toggle and the timed-redirect toggle. One row per user,
// upserted on save.
type GlobalSettings struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	TelegramURL string `gorm:"type:text" json:"telegram_url,omitempty"`
	WebURL      string `gorm:"type:text" json:"web_url,omitempty"`

	LuckyEnabled    bool   `gorm:"default:false" json:"lucky_enabled"`
	LuckyPercentage int    `gorm:"default:10" json:"lucky_percentage"`
	LuckyMode       string `gorm:"size:10;default:'random'" json:"lucky_mode"`

	TimedRedirectEnabled bool `gorm:"default:false" json:"timed_redirect_enabled"`
	TimedRedirectDelay   int  `gorm:"default:5" json:"timed_redirect_delay"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GlobalSettings) TableName() string {
	return "global_settings"
}
