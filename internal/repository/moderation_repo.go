package repository

import (
	"time"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"

	"gorm.io/gorm"
)

type ModerationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

func (r *ModerationRepository) Create(item *models.ModerationItem) error {
	if item.SubmittedAt.IsZero() {
		item.SubmittedAt = time.Now()
	}
	if item.Status == "" {
		item.Status = domain.ModerationPending
	}
	return r.db.Create(item).Error
}

func (r *ModerationRepository) GetByID(id uint) (*models.ModerationItem, error) {
	var item models.ModerationItem
	if err := r.db.Preload("SubmittedBy").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns queue items, most urgent first (priority ASC, newest
// submissions first within a priority).
func (r *ModerationRepository) List(contentType, status, search string, autoFlagged *bool, page, limit int) ([]models.ModerationItem, int64, error) {
	q := r.db.Model(&models.ModerationItem{})
	if contentType != "" {
		q = q.Where("content_type = ?", contentType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if search != "" {
		q = q.Where("content_title LIKE ? OR content_preview LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if autoFlagged != nil {
		q = q.Where("auto_flagged = ?", *autoFlagged)
	}
	var total int64
	q.Count(&total)
	var list []models.ModerationItem
	err := q.Order("priority ASC, submitted_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// Moderate stamps the moderation decision on an item.
func (r *ModerationRepository) Moderate(id uint, status string, moderatorID uint, notes string) (*models.ModerationItem, error) {
	item, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	updates := map[string]interface{}{
		"status":           status,
		"moderated_by_id":  moderatorID,
		"moderation_notes": notes,
		"moderated_at":     now,
	}
	if err := r.db.Model(&models.ModerationItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	item.Status = status
	item.ModeratedByID = &moderatorID
	item.ModerationNotes = notes
	item.ModeratedAt = &now
	return item, nil
}

func (r *ModerationRepository) Update(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.ModerationItem{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ModerationRepository) Delete(id uint) error {
	return r.db.Delete(&models.ModerationItem{}, id).Error
}

type ModerationStats struct {
	TotalPending  int64                `json:"total_pending"`
	TotalApproved int64                `json:"total_approved"`
	TotalRejected int64                `json:"total_rejected"`
	AutoFlagged   int64                `json:"auto_flagged"`
	HighPriority  int64                `json:"high_priority"`
	ByContentType []ContentTypeCount   `json:"by_content_type"`
	RecentPending []models.ModerationItem `json:"recent_submissions"`
}

type ContentTypeCount struct {
	ContentType string `json:"content_type"`
	Count       int64  `json:"count"`
}

func (r *ModerationRepository) Statistics() (*ModerationStats, error) {
	var s ModerationStats
	r.db.Model(&models.ModerationItem{}).Where("status = ?", domain.ModerationPending).Count(&s.TotalPending)
	r.db.Model(&models.ModerationItem{}).Where("status = ?", domain.ModerationApproved).Count(&s.TotalApproved)
	r.db.Model(&models.ModerationItem{}).Where("status = ?", domain.ModerationRejected).Count(&s.TotalRejected)
	r.db.Model(&models.ModerationItem{}).Where("auto_flagged = ?", true).Count(&s.AutoFlagged)
	r.db.Model(&models.ModerationItem{}).Where("priority >= ?", 8).Count(&s.HighPriority)

	if err := r.db.Model(&models.ModerationItem{}).
		Select("content_type, COUNT(*) as count").
		Group("content_type").Order("count DESC").
		Scan(&s.ByContentType).Error; err != nil {
		return nil, err
	}
	err := r.db.Where("status = ?", domain.ModerationPending).
		Order("priority ASC, submitted_at DESC").Limit(10).Find(&s.RecentPending).Error
	return &s, err
}

// Policies

func (r *ModerationRepository) CreatePolicy(p *models.ContentPolicy) error {
	return r.db.Create(p).Error
}

func (r *ModerationRepository) GetPolicy(id uint) (*models.ContentPolicy, error) {
	var p models.ContentPolicy
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ModerationRepository) ListPolicies(policyType string, activeOnly bool, page, limit int) ([]models.ContentPolicy, int64, error) {
	q := r.db.Model(&models.ContentPolicy{})
	if policyType != "" {
		q = q.Where("policy_type = ?", policyType)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var total int64
	q.Count(&total)
	var list []models.ContentPolicy
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *ModerationRepository) UpdatePolicy(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.ContentPolicy{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ModerationRepository) DeletePolicy(id uint) error {
	return r.db.Delete(&models.ContentPolicy{}, id).Error
}
