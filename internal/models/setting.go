package models

import (
	"time"

	"gorm.io/gorm"
)

// SystemSetting stores admin-configurable platform settings, unique per
// (category, key).
type SystemSetting struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Category    string         `gorm:"size:20;not null;uniqueIndex:idx_setting_category_key" json:"category"`
	Key         string         `gorm:"size:100;not null;uniqueIndex:idx_setting_category_key" json:"key"`
	Value       string         `gorm:"type:text;not null" json:"value"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	IsPublic    bool           `gorm:"default:false" json:"is_public"` // readable without admin privileges
	CreatedByID uint           `gorm:"index" json:"created_by_id"`
	UpdatedByID uint           `json:"updated_by_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"-"`
}

func (SystemSetting) TableName() string { return "system_settings" }

// AdminPreference holds per-admin dashboard preferences. One row per user.
type AdminPreference struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	DashboardLayout      string    `gorm:"type:text" json:"dashboard_layout"`      // JSON widget layout
	NotificationSettings string    `gorm:"type:text" json:"notification_settings"` // JSON
	ThemeSettings        string    `gorm:"type:text" json:"theme_settings"`        // JSON
	DefaultFilters       string    `gorm:"type:text" json:"default_filters"`       // JSON
	Timezone             string    `gorm:"size:50;default:'UTC'" json:"timezone"`
	Language             string    `gorm:"size:10;default:'en'" json:"language"`
	ItemsPerPage         int       `gorm:"default:25" json:"items_per_page"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (AdminPreference) TableName() string { return "admin_preferences" }
