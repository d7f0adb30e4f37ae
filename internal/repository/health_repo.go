package repository

import (
	"time"

	"agriconnect/internal/models"

	"gorm.io/gorm"
)

type HealthRepository struct {
	db *gorm.DB
}

func NewHealthRepository(db *gorm.DB) *HealthRepository {
	return &HealthRepository{db: db}
}

func (r *HealthRepository) Record(c *models.SystemHealthCheck) error {
	if c.CheckedAt.IsZero() {
		c.CheckedAt = time.Now()
	}
	return r.db.Create(c).Error
}

func (r *HealthRepository) List(serviceType, status string, page, limit int) ([]models.SystemHealthCheck, int64, error) {
	q := r.db.Model(&models.SystemHealthCheck{})
	if serviceType != "" {
		q = q.Where("service_type = ?", serviceType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.SystemHealthCheck
	err := q.Order("checked_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// CurrentStatus returns the latest check per service name.
func (r *HealthRepository) CurrentStatus() ([]models.SystemHealthCheck, error) {
	var names []string
	if err := r.db.Model(&models.SystemHealthCheck{}).Distinct("service_name").Pluck("service_name", &names).Error; err != nil {
		return nil, err
	}
	out := make([]models.SystemHealthCheck, 0, len(names))
	for _, name := range names {
		var c models.SystemHealthCheck
		if err := r.db.Where("service_name = ?", name).Order("checked_at DESC").First(&c).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *HealthRepository) CreateMaintenance(m *models.MaintenanceLog) error {
	return r.db.Create(m).Error
}

func (r *HealthRepository) GetMaintenance(id uint) (*models.MaintenanceLog, error) {
	var m models.MaintenanceLog
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *HealthRepository) ListMaintenance(maintenanceType string, page, limit int) ([]models.MaintenanceLog, int64, error) {
	q := r.db.Model(&models.MaintenanceLog{})
	if maintenanceType != "" {
		q = q.Where("maintenance_type = ?", maintenanceType)
	}
	var total int64
	q.Count(&total)
	var list []models.MaintenanceLog
	err := q.Order("started_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *HealthRepository) UpdateMaintenance(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.MaintenanceLog{}).Where("id = ?", id).Updates(fields).Error
}

type MaintenanceStats struct {
	Total           int64   `json:"total"`
	Successful      int64   `json:"successful"`
	Failed          int64   `json:"failed"`
	TotalDowntime   int64   `json:"total_downtime_minutes"`
	AvgDowntime     float64 `json:"avg_downtime_minutes"`
	Last30DaysCount int64   `json:"last_30_days_count"`
}

func (r *HealthRepository) MaintenanceStatistics() (*MaintenanceStats, error) {
	var s MaintenanceStats
	m := r.db.Model(&models.MaintenanceLog{})
	m.Count(&s.Total)
	r.db.Model(&models.MaintenanceLog{}).Where("was_successful = ?", true).Count(&s.Successful)
	s.Failed = s.Total - s.Successful

	var agg struct {
		Sum int64
		Avg float64
	}
	if err := r.db.Model(&models.MaintenanceLog{}).
		Select("COALESCE(SUM(downtime_minutes),0) as sum, COALESCE(AVG(downtime_minutes),0) as avg").
		Scan(&agg).Error; err != nil {
		return nil, err
	}
	s.TotalDowntime = agg.Sum
	s.AvgDowntime = agg.Avg

	cutoff := time.Now().AddDate(0, 0, -30)
	r.db.Model(&models.MaintenanceLog{}).Where("started_at >= ?", cutoff).Count(&s.Last30DaysCount)
	return &s, nil
}
