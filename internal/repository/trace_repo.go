package repository

import (
	"time"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"

	"gorm.io/gorm"
)

type TraceRepository struct {
	db *gorm.DB
}

func NewTraceRepository(db *gorm.DB) *TraceRepository {
	return &TraceRepository{db: db}
}

// Transactions (recorded verbatim from the external chain client)

func (r *TraceRepository) CreateTransaction(tx *models.BlockchainTransaction) error {
	if tx.Status == "" {
		tx.Status = domain.TxPending
	}
	return r.db.Create(tx).Error
}

func (r *TraceRepository) GetTransactionByHash(hash string) (*models.BlockchainTransaction, error) {
	var tx models.BlockchainTransaction
	if err := r.db.Where("transaction_hash = ?", hash).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TraceRepository) ListTransactions(status string, page, limit int) ([]models.BlockchainTransaction, int64, error) {
	q := r.db.Model(&models.BlockchainTransaction{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.BlockchainTransaction
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// ConfirmTransaction records chain confirmation data supplied by the
// caller.
func (r *TraceRepository) ConfirmTransaction(hash string, blockNumber int64, blockHash string, gasUsed int64, confirmations int) (*models.BlockchainTransaction, error) {
	tx, err := r.GetTransactionByHash(hash)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	updates := map[string]interface{}{
		"status":             domain.TxConfirmed,
		"block_number":       blockNumber,
		"block_hash":         blockHash,
		"gas_used":           gasUsed,
		"confirmation_count": confirmations,
		"confirmed_at":       now,
	}
	if err := r.db.Model(tx).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetTransactionByHash(hash)
}

// Product traces

func (r *TraceRepository) CreateTrace(t *models.ProductTrace) error {
	return r.db.Create(t).Error
}

func (r *TraceRepository) GetTrace(id uint) (*models.ProductTrace, error) {
	var t models.ProductTrace
	err := r.db.Preload("Product").Preload("Farm").
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp ASC") }).
		First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTraceByQR resolves an active trace from its QR payload, loading the
// farm, certifications and ordered event timeline for the consumer view.
func (r *TraceRepository) GetTraceByQR(qrData string) (*models.ProductTrace, error) {
	var t models.ProductTrace
	err := r.db.Preload("Product").Preload("Farm.Certifications").
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp ASC") }).
		Where("qr_code_data = ? AND is_active = ?", qrData, true).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TraceRepository) GetTraceByBatch(batch string) (*models.ProductTrace, error) {
	var t models.ProductTrace
	err := r.db.Preload("Product").Preload("Farm").
		Where("batch_number = ?", batch).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TraceRepository) ListTraces(farmID uint, activeOnly bool, page, limit int) ([]models.ProductTrace, int64, error) {
	q := r.db.Model(&models.ProductTrace{})
	if farmID != 0 {
		q = q.Where("farm_id = ?", farmID)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var total int64
	q.Count(&total)
	var list []models.ProductTrace
	err := q.Preload("Product").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *TraceRepository) UpdateTrace(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.ProductTrace{}).Where("id = ?", id).Updates(fields).Error
}

// RecordView bumps the consumer view counter and last-viewed timestamp.
func (r *TraceRepository) RecordView(id uint) error {
	return r.db.Model(&models.ProductTrace{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"consumer_view_count": gorm.Expr("consumer_view_count + 1"),
			"last_viewed_at":      time.Now(),
		}).Error
}

// Supply chain events

func (r *TraceRepository) CreateEvent(e *models.SupplyChainEvent) error {
	if e.Status == "" {
		e.Status = domain.EventInitiated
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return r.db.Create(e).Error
}

func (r *TraceRepository) GetEvent(id uint) (*models.SupplyChainEvent, error) {
	var e models.SupplyChainEvent
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *TraceRepository) ListEvents(traceID uint, eventType, status string, page, limit int) ([]models.SupplyChainEvent, int64, error) {
	q := r.db.Model(&models.SupplyChainEvent{})
	if traceID != 0 {
		q = q.Where("trace_id = ?", traceID)
	}
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.SupplyChainEvent
	err := q.Order("timestamp ASC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *TraceRepository) UpdateEvent(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.SupplyChainEvent{}).Where("id = ?", id).Updates(fields).Error
}

// VerifyEvent records the externally supplied blockchain hash and marks
// the event verified. No hash validation happens here.
func (r *TraceRepository) VerifyEvent(id uint, blockchainHash string, txID *uint) (*models.SupplyChainEvent, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"blockchain_hash": blockchainHash,
		"status":          domain.EventVerified,
		"verified_at":     now,
	}
	if txID != nil {
		updates["transaction_id"] = *txID
	}
	if err := r.db.Model(&models.SupplyChainEvent{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetEvent(id)
}

// Consumer scans

func (r *TraceRepository) CreateScan(s *models.ConsumerScan) error {
	if s.ScannedAt.IsZero() {
		s.ScannedAt = time.Now()
	}
	return r.db.Create(s).Error
}

func (r *TraceRepository) GetScanByUID(uid string) (*models.ConsumerScan, error) {
	var s models.ConsumerScan
	if err := r.db.Where("scan_uid = ?", uid).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *TraceRepository) SaveScanFeedback(uid string, rating int, comment string) error {
	return r.db.Model(&models.ConsumerScan{}).Where("scan_uid = ?", uid).
		Updates(map[string]interface{}{
			"feedback_rating":  rating,
			"feedback_comment": comment,
		}).Error
}

func (r *TraceRepository) ListScans(traceID uint, page, limit int) ([]models.ConsumerScan, int64, error) {
	q := r.db.Model(&models.ConsumerScan{})
	if traceID != 0 {
		q = q.Where("trace_id = ?", traceID)
	}
	var total int64
	q.Count(&total)
	var list []models.ConsumerScan
	err := q.Order("scanned_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// Dashboard

type EventTypeCount struct {
	EventType string `json:"event_type"`
	Count     int64  `json:"count"`
}

type TraceabilityStats struct {
	TotalFarms     int64            `json:"total_farms"`
	VerifiedFarms  int64            `json:"verified_farms"`
	TotalTraces    int64            `json:"total_traces"`
	ActiveTraces   int64            `json:"active_traces"`
	TotalEvents    int64            `json:"total_events"`
	EventsByType   []EventTypeCount `json:"events_by_type"`
	ScansLast30    int64            `json:"scans_last_30_days"`
	PendingTxCount int64            `json:"pending_transactions"`
}

func (r *TraceRepository) DashboardStats() (*TraceabilityStats, error) {
	var s TraceabilityStats
	r.db.Model(&models.Farm{}).Count(&s.TotalFarms)
	r.db.Model(&models.Farm{}).Where("is_verified = ?", true).Count(&s.VerifiedFarms)
	r.db.Model(&models.ProductTrace{}).Count(&s.TotalTraces)
	r.db.Model(&models.ProductTrace{}).Where("is_active = ?", true).Count(&s.ActiveTraces)
	r.db.Model(&models.SupplyChainEvent{}).Count(&s.TotalEvents)
	r.db.Model(&models.ConsumerScan{}).Where("scanned_at >= ?", time.Now().AddDate(0, 0, -30)).Count(&s.ScansLast30)
	r.db.Model(&models.BlockchainTransaction{}).Where("status = ?", domain.TxPending).Count(&s.PendingTxCount)

	err := r.db.Model(&models.SupplyChainEvent{}).
		Select("event_type, COUNT(*) as count").
		Group("event_type").Order("count DESC").
		Scan(&s.EventsByType).Error
	return &s, err
}
