package models

import (
	"time"
)

// Link is a public slug serving a hosted video page. The slug is generated at
// creation time and never changes afterwards.
type Link struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UserID         uint   `gorm:"not null;index" json:"user_id"`
	User           *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Slug           string `gorm:"unique;not null;size:20;index" json:"slug"`
	VideoURL       string `gorm:"not null;type:text" json:"video_url"`
	DestinationURL string `gorm:"type:text" json:"destination_url,omitempty"`

	// Redirect gate for the smart/end-of-playback mechanisms.
	RedirectEnabled bool `gorm:"default:false" json:"redirect_enabled"`

	// Outbound buttons. Empty values fall back to the account's GlobalSettings.
	TelegramURL    string `gorm:"type:text" json:"telegram_url,omitempty"`
	WebURL         string `gorm:"type:text" json:"web_url,omitempty"`
	TelegramClicks int64  `gorm:"default:0" json:"telegram_clicks"`
	WebClicks      int64  `gorm:"default:0" json:"web_clicks"`

	// Optional per-link lucky override. When LuckyEnabled is set the link's
	// own percentage/mode replace the account-level lucky settings entirely.
	LuckyEnabled    bool   `gorm:"default:false" json:"lucky_enabled"`
	LuckyPercentage int    `gorm:"default:0" json:"lucky_percentage"`
	LuckyMode       string `gorm:"size:10" json:"lucky_mode,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Visits []Visit `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"visits,omitempty"`
}

func (Link) TableName() string {
	return "links"
}
