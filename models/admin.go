package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin represents an operator account with access to the back-office surface
type Admin struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Username     string     `gorm:"uniqueIndex;not null;size:60" json:"username"`
	PasswordHash string     `gorm:"not null;size:255" json:"-"`
	IsActive     *bool      `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for Admin
func (Admin) TableName() string {
	return "admins"
}

// BeforeCreate hook for Admin
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}

// CanLogin reports whether the account may authenticate
func (a *Admin) CanLogin() bool {
	return a.IsActive == nil || *a.IsActive
}

// AdminFilter represents filters for querying admins
type AdminFilter struct {
	ID       *uint      `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	Username *string    `json:"username,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}
