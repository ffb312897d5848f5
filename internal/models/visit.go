package models

import (
	"time"
)

// Visit is one enriched page view. The raw user agent is carried in Platform
// until the visit worker parses it into Browser/OS/DeviceType.
type Visit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LinkID     uint      `gorm:"not null;index" json:"link_id"`
	Timestamp  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
	IPAddress  string    `gorm:"size:45" json:"ip_address,omitempty"`
	Country    string    `gorm:"size:100;default:'Unknown'" json:"country"`
	Browser    string    `gorm:"size:50" json:"browser"`
	OS         string    `gorm:"size:100" json:"os"`
	DeviceType string    `gorm:"size:50" json:"device_type"`
	Platform   string    `gorm:"size:255" json:"platform"`
	Referrer   string    `gorm:"size:255;default:'Direct'" json:"referrer"`
}

func (Visit) TableName() string {
	return "visits"
}

// DailyStat is the per-link per-day view counter. Incremented atomically via a
// single conditional upsert; never decremented. Dates are UTC, YYYY-MM-DD.
type DailyStat struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	LinkID uint   `gorm:"not null;uniqueIndex:idx_link_date" json:"link_id"`
	Date   string `gorm:"size:10;not null;uniqueIndex:idx_link_date" json:"date"`
	Views  int64  `gorm:"default:0" json:"views"`
}

func (DailyStat) TableName() string {
	return "daily_stats"
}

// OnlineSession approximates concurrent viewers of a link. Rows idle for more
// than the presence window are treated as offline and purged.
type OnlineSession struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LinkID     uint      `gorm:"not null;uniqueIndex:idx_link_session" json:"link_id"`
	SessionID  string    `gorm:"size:64;not null;uniqueIndex:idx_link_session" json:"session_id"`
	LastActive time.Time `gorm:"index" json:"last_active"`
}

func (OnlineSession) TableName() string {
	return "online_sessions"
}
