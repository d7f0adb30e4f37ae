package models

import (
	"time"

	"gorm.io/gorm"
)

// ModerationItem is a queued piece of content awaiting review.
// Queue order is priority ASC (1 is most urgent), then newest first.
type ModerationItem struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ContentType     string         `gorm:"size:20;not null;index" json:"content_type"` // USER_PROFILE | PRODUCT | REVIEW | ...
	ContentID       string         `gorm:"size:100;not null" json:"content_id"`
	ContentTitle    string         `gorm:"size:200" json:"content_title"`
	ContentPreview  string         `gorm:"type:text" json:"content_preview"`
	SubmittedByID   uint           `gorm:"not null;index" json:"submitted_by_id"`
	Status          string         `gorm:"size:20;default:'PENDING';index" json:"status"` // PENDING | APPROVED | REJECTED | FLAGGED | SPAM
	ModeratedByID   *uint          `json:"moderated_by_id"`
	ModerationNotes string         `gorm:"type:text" json:"moderation_notes"`
	Priority        int            `gorm:"default:5;index" json:"priority"` // 1..10
	AutoFlagged     bool           `gorm:"default:false" json:"auto_flagged"`
	FlagReasons     string         `gorm:"type:text" json:"flag_reasons"` // JSON list
	SubmittedAt     time.Time      `gorm:"index" json:"submitted_at"`
	ModeratedAt     *time.Time     `json:"moderated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	SubmittedBy *User `gorm:"foreignKey:SubmittedByID" json:"submitted_by,omitempty"`
	ModeratedBy *User `gorm:"foreignKey:ModeratedByID" json:"-"`
}

func (ModerationItem) TableName() string { return "content_moderation_queue" }

// ContentPolicy is a published moderation guideline. Rules are JSON and
// only interpreted by auto-flagging tooling outside this service.
type ContentPolicy struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PolicyType      string         `gorm:"size:20;not null" json:"policy_type"` // GENERAL | PRODUCT | REVIEWS | IMAGES | SPAM | SAFETY
	Title           string         `gorm:"size:200;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Rules           string         `gorm:"type:text;not null" json:"rules"` // JSON
	AutoEnforcement bool           `gorm:"default:false" json:"auto_enforcement"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedByID     uint           `gorm:"not null" json:"created_by_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"-"`
}

func (ContentPolicy) TableName() string { return "content_policies" }
