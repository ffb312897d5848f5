package models

import (
	"time"
)

// RedirectURL is the primary destination list, shared by the lucky, smart and
// end-of-playback mechanisms. Only enabled entries participate in selection.
type RedirectURL struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	URL       string    `gorm:"not null;type:text" json:"url"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (RedirectURL) TableName() string {
	return "redirect_urls"
}

// TimedRedirectURL is the separate destination list used exclusively by the
// timed (countdown) redirect. Independent lifecycle from RedirectURL.
type TimedRedirectURL struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	URL       string    `gorm:"not null;type:text" json:"url"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TimedRedirectURL) TableName() string {
	return "timed_redirect_urls"
}
