package models

import "time"

// UserActivityLog is an append-only record of user-facing activity.
type UserActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index:idx_activity_user_ts" json:"user_id"`
	ActivityType string    `gorm:"size:20;not null;index" json:"activity_type"` // LOGIN | LOGOUT | PROFILE_UPDATE | ...
	Description  string    `gorm:"size:200" json:"description"`
	Details      string    `gorm:"type:text" json:"details"` // JSON
	IPAddress    string    `gorm:"size:45" json:"ip_address"`
	UserAgent    string    `gorm:"size:512" json:"user_agent"`
	SessionID    string    `gorm:"size:100" json:"session_id"`
	Timestamp    time.Time `gorm:"index:idx_activity_user_ts" json:"timestamp"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserActivityLog) TableName() string { return "user_activity_logs" }

// UserSecurityEvent records a security incident tied to a user account.
type UserSecurityEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	EventType       string     `gorm:"size:20;not null;index" json:"event_type"` // SUSPICIOUS_LOGIN | MULTIPLE_FAILURES | ...
	Severity        string     `gorm:"size:10;not null;index" json:"severity"`   // LOW | MEDIUM | HIGH | CRITICAL
	Description     string     `gorm:"size:200" json:"description"`
	Details         string     `gorm:"type:text" json:"details"` // JSON
	IPAddress       string     `gorm:"size:45" json:"ip_address"`
	IsResolved      bool       `gorm:"default:false;index" json:"is_resolved"`
	ResolvedByID    *uint      `json:"resolved_by_id"`
	ResolutionNotes string     `gorm:"type:text" json:"resolution_notes"`
	OccurredAt      time.Time  `gorm:"index" json:"occurred_at"`
	ResolvedAt      *time.Time `json:"resolved_at"`

	User       *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ResolvedBy *User `gorm:"foreignKey:ResolvedByID" json:"-"`
}

func (UserSecurityEvent) TableName() string { return "user_security_events" }

// AdminActionLog is the append-only audit trail of administrative actions.
type AdminActionLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AdminUserID  uint      `gorm:"not null;index" json:"admin_user_id"`
	ActionType   string    `gorm:"size:20;not null;index" json:"action_type"` // USER_UPDATE | SETTING_CHANGE | CONTENT_MODERATE | ...
	TargetUserID *uint     `gorm:"index" json:"target_user_id"`
	Description  string    `gorm:"size:200" json:"description"`
	Details      string    `gorm:"type:text" json:"details"` // JSON
	IPAddress    string    `gorm:"size:45" json:"ip_address"`
	Timestamp    time.Time `gorm:"index" json:"timestamp"`

	AdminUser  *User `gorm:"foreignKey:AdminUserID" json:"admin_user,omitempty"`
	TargetUser *User `gorm:"foreignKey:TargetUserID" json:"-"`
}

func (AdminActionLog) TableName() string { return "admin_action_logs" }
