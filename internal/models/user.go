package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"unique;not null;size:120" json:"email"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	Role         string    `gorm:"size:10;default:'user'" json:"role"`
	APIKey       string    `gorm:"unique;index;size:36" json:"api_key"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Links        []Link    `gorm:"foreignKey:UserID" json:"links,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
