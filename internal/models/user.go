package models

import (
	"time"

	"agriconnect/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:30;not null;index" json:"role"` // ADMIN | FARMER | CONSUMER | WAREHOUSE_MANAGER | AGENT
	IsStaff      bool           `gorm:"default:false" json:"is_staff"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	Phone        string         `gorm:"size:20" json:"phone"`
	Country      string         `gorm:"size:100" json:"country"`
	Region       string         `gorm:"size:100" json:"region"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user can access the admin dashboard.
// Mirrors the staff-or-ADMIN-role check used across all admin endpoints.
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.Role == domain.RoleAdmin
}

func (u *User) IsFarmer() bool { return u.Role == domain.RoleFarmer }
