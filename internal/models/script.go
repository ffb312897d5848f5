package models

import (
	"time"
)

const (
	ScriptLocationHead = "head"
	ScriptLocationBody = "body"
)

// Script is a user-managed snippet injected into the landing payload, either
// into the document head or the body.
type Script struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Location  string    `gorm:"size:10;not null" json:"location"`
	Content   string    `gorm:"not null;type:text" json:"content"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Script) TableName() string {
	return "scripts"
}
