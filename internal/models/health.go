package models

import "time"

// SystemHealthCheck records one check of a platform dependency.
type SystemHealthCheck struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ServiceName    string    `gorm:"size:100;not null;index" json:"service_name"`
	ServiceType    string    `gorm:"size:20;not null" json:"service_type"` // DATABASE | REDIS | EMAIL | ...
	Status         string    `gorm:"size:20;not null;index" json:"status"` // HEALTHY | WARNING | CRITICAL | DOWN
	ResponseTimeMs float64   `json:"response_time_ms"`
	ErrorMessage   string    `gorm:"type:text" json:"error_message"`
	Metadata       string    `gorm:"type:text" json:"metadata"` // JSON
	CheckedAt      time.Time `gorm:"index" json:"checked_at"`
}

func (SystemHealthCheck) TableName() string { return "system_health_checks" }

// MaintenanceLog records system maintenance windows and their outcome.
type MaintenanceLog struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	MaintenanceType  string     `gorm:"size:20;not null" json:"maintenance_type"` // UPDATE | PATCH | MIGRATION | ...
	Title            string     `gorm:"size:200;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	PerformedByID    uint       `gorm:"not null" json:"performed_by_id"`
	StartedAt        time.Time  `gorm:"not null;index" json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	WasSuccessful    bool       `gorm:"default:true" json:"was_successful"`
	AffectedServices string     `gorm:"type:text" json:"affected_services"` // JSON list
	DowntimeMinutes  int        `gorm:"default:0" json:"downtime_minutes"`
	Notes            string     `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time  `json:"created_at"`

	PerformedBy *User `gorm:"foreignKey:PerformedByID" json:"-"`
}

func (MaintenanceLog) TableName() string { return "maintenance_logs" }
