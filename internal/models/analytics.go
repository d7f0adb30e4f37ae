package models

import "time"

// AnalyticsSnapshot is a daily rollup of platform totals, one row per date.
type AnalyticsSnapshot struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Date              string    `gorm:"type:date;uniqueIndex;not null" json:"date"` // YYYY-MM-DD
	TotalUsers        int64     `json:"total_users"`
	ActiveUsers       int64     `json:"active_users"`
	NewRegistrations  int64     `json:"new_registrations"`
	TotalOrders       int64     `json:"total_orders"`
	TotalRevenue      float64   `gorm:"type:decimal(15,2)" json:"total_revenue"`
	TotalProducts     int64     `json:"total_products"`
	TotalTransactions int64     `json:"total_transactions"`
	APIRequests       int64     `json:"api_requests"`
	ErrorsCount       int64     `json:"errors_count"`
	ConversionRate    float64   `json:"conversion_rate"`
	Metadata          string    `gorm:"type:text" json:"metadata"` // JSON
	CreatedAt         time.Time `json:"created_at"`
}

func (AnalyticsSnapshot) TableName() string { return "analytics_snapshots" }

// AnalyticsReport is an admin-defined report configuration. The query
// config is a JSON document interpreted when the report is generated.
type AnalyticsReport struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"size:200;not null" json:"name"`
	ReportType        string     `gorm:"size:20;not null" json:"report_type"` // USER | SALES | PRODUCT | ENGAGEMENT | FINANCIAL | CUSTOM
	Description       string     `gorm:"type:text" json:"description"`
	QueryConfig       string     `gorm:"type:text;not null" json:"query_config"` // JSON filters
	IsScheduled       bool       `gorm:"default:false" json:"is_scheduled"`
	ScheduleFrequency string     `gorm:"size:20" json:"schedule_frequency"` // daily, weekly, monthly
	CreatedByID       uint       `gorm:"not null" json:"created_by_id"`
	IsPublic          bool       `gorm:"default:false" json:"is_public"`
	LastGenerated     *time.Time `json:"last_generated"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"-"`
}

func (AnalyticsReport) TableName() string { return "analytics_reports" }
