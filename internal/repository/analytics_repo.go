package repository

import (
	"time"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) CreateSnapshot(s *models.AnalyticsSnapshot) error {
	return r.db.Create(s).Error
}

// UpsertSnapshot inserts or replaces the snapshot for its date.
func (r *AnalyticsRepository) UpsertSnapshot(s *models.AnalyticsSnapshot) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_users", "active_users", "new_registrations", "total_orders",
			"total_revenue", "total_products", "total_transactions",
			"api_requests", "errors_count", "conversion_rate", "metadata",
		}),
	}).Create(s).Error
}

func (r *AnalyticsRepository) GetSnapshot(id uint) (*models.AnalyticsSnapshot, error) {
	var s models.AnalyticsSnapshot
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AnalyticsRepository) ListSnapshots(from, to string, page, limit int) ([]models.AnalyticsSnapshot, int64, error) {
	q := r.db.Model(&models.AnalyticsSnapshot{})
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	var total int64
	q.Count(&total)
	var list []models.AnalyticsSnapshot
	err := q.Order("date DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *AnalyticsRepository) DeleteSnapshot(id uint) error {
	return r.db.Delete(&models.AnalyticsSnapshot{}, id).Error
}

// ComputeTotals derives today's platform totals from the live tables.
func (r *AnalyticsRepository) ComputeTotals(date time.Time) (*models.AnalyticsSnapshot, error) {
	s := &models.AnalyticsSnapshot{Date: date.Format("2006-01-02")}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	r.db.Model(&models.User{}).Count(&s.TotalUsers)
	r.db.Model(&models.User{}).Where("last_login_at >= ?", dayStart.AddDate(0, 0, -30)).Count(&s.ActiveUsers)
	r.db.Model(&models.User{}).Where("created_at >= ?", dayStart).Count(&s.NewRegistrations)
	r.db.Model(&models.Order{}).Count(&s.TotalOrders)
	r.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&s.TotalProducts)
	r.db.Model(&models.BlockchainTransaction{}).Count(&s.TotalTransactions)

	var rev struct{ Total float64 }
	if err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount),0) as total").
		Where("status = ?", domain.OrderDelivered).
		Scan(&rev).Error; err != nil {
		return nil, err
	}
	s.TotalRevenue = rev.Total

	if s.TotalUsers > 0 {
		var buyers int64
		r.db.Model(&models.Order{}).Distinct("buyer_id").Count(&buyers)
		s.ConversionRate = float64(buyers) / float64(s.TotalUsers)
	}
	return s, nil
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type RevenuePoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// UserGrowthSeries returns daily registration counts for the trailing days.
func (r *AnalyticsRepository) UserGrowthSeries(days int) ([]TimeSeriesPoint, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var rows []TimeSeriesPoint
	err := r.db.Model(&models.User{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ?", cutoff).
		Group("DATE(created_at)").Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

// RevenueSeries returns daily delivered-order revenue for the trailing days.
func (r *AnalyticsRepository) RevenueSeries(days int) ([]RevenuePoint, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var rows []RevenuePoint
	err := r.db.Model(&models.Order{}).
		Select("DATE(created_at) as date, COALESCE(SUM(total_amount),0) as amount").
		Where("created_at >= ? AND status = ?", cutoff, domain.OrderDelivered).
		Group("DATE(created_at)").Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

// Reports

func (r *AnalyticsRepository) CreateReport(rep *models.AnalyticsReport) error {
	return r.db.Create(rep).Error
}

func (r *AnalyticsRepository) GetReport(id uint) (*models.AnalyticsReport, error) {
	var rep models.AnalyticsReport
	if err := r.db.First(&rep, id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *AnalyticsRepository) ListReports(reportType string, createdBy uint, page, limit int) ([]models.AnalyticsReport, int64, error) {
	q := r.db.Model(&models.AnalyticsReport{})
	if reportType != "" {
		q = q.Where("report_type = ?", reportType)
	}
	if createdBy != 0 {
		// Non-owners only see shared reports.
		q = q.Where("created_by_id = ? OR is_public = ?", createdBy, true)
	}
	var total int64
	q.Count(&total)
	var list []models.AnalyticsReport
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *AnalyticsRepository) UpdateReport(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.AnalyticsReport{}).Where("id = ?", id).Updates(fields).Error
}

func (r *AnalyticsRepository) DeleteReport(id uint) error {
	return r.db.Delete(&models.AnalyticsReport{}, id).Error
}

func (r *AnalyticsRepository) TouchReportGenerated(id uint) error {
	return r.db.Model(&models.AnalyticsReport{}).Where("id = ?", id).
		Update("last_generated", time.Now()).Error
}
