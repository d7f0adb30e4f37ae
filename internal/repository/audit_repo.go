package repository

import (
	"time"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"

	"gorm.io/gorm"
)

// AuditRepository covers the three append-only log tables: user activity,
// security events, and admin actions.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) LogActivity(l *models.UserActivityLog) error {
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	return r.db.Create(l).Error
}

func (r *AuditRepository) ListActivity(userID uint, activityType string, page, limit int) ([]models.UserActivityLog, int64, error) {
	q := r.db.Model(&models.UserActivityLog{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if activityType != "" {
		q = q.Where("activity_type = ?", activityType)
	}
	var total int64
	q.Count(&total)
	var list []models.UserActivityLog
	err := q.Order("timestamp DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// CountActivitySince counts activity rows recorded at or after the cutoff.
func (r *AuditRepository) CountActivitySince(cutoff time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.UserActivityLog{}).Where("timestamp >= ?", cutoff).Count(&n).Error
	return n, err
}

// CountRecentFailures counts MULTIPLE_FAILURES-worthy login failures from
// one IP within the window. Used to escalate repeated bad logins into a
// security event.
func (r *AuditRepository) CountRecentFailures(ip string, window time.Duration) (int64, error) {
	var n int64
	err := r.db.Model(&models.UserActivityLog{}).
		Where("activity_type = ? AND ip_address = ? AND timestamp >= ?",
			domain.ActivityViolation, ip, time.Now().Add(-window)).
		Count(&n).Error
	return n, err
}

func (r *AuditRepository) LogSecurityEvent(e *models.UserSecurityEvent) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return r.db.Create(e).Error
}

func (r *AuditRepository) GetSecurityEvent(id uint) (*models.UserSecurityEvent, error) {
	var e models.UserSecurityEvent
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *AuditRepository) ListSecurityEvents(eventType, severity string, resolved *bool, page, limit int) ([]models.UserSecurityEvent, int64, error) {
	q := r.db.Model(&models.UserSecurityEvent{})
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	if severity != "" {
		q = q.Where("severity = ?", severity)
	}
	if resolved != nil {
		q = q.Where("is_resolved = ?", *resolved)
	}
	var total int64
	q.Count(&total)
	var list []models.UserSecurityEvent
	err := q.Order("occurred_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// ResolveSecurityEvent marks an event resolved with notes.
func (r *AuditRepository) ResolveSecurityEvent(id, resolvedBy uint, notes string) (*models.UserSecurityEvent, error) {
	e, err := r.GetSecurityEvent(id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	updates := map[string]interface{}{
		"is_resolved":      true,
		"resolved_by_id":   resolvedBy,
		"resolution_notes": notes,
		"resolved_at":      now,
	}
	if err := r.db.Model(&models.UserSecurityEvent{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	e.IsResolved = true
	e.ResolvedByID = &resolvedBy
	e.ResolutionNotes = notes
	e.ResolvedAt = &now
	return e, nil
}

func (r *AuditRepository) CountOpenCritical() (int64, error) {
	var n int64
	err := r.db.Model(&models.UserSecurityEvent{}).
		Where("is_resolved = ? AND severity IN ?", false, []string{domain.SeverityHigh, domain.SeverityCritical}).
		Count(&n).Error
	return n, err
}

func (r *AuditRepository) LogAdminAction(l *models.AdminActionLog) error {
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	return r.db.Create(l).Error
}

func (r *AuditRepository) ListAdminActions(adminID uint, actionType string, page, limit int) ([]models.AdminActionLog, int64, error) {
	q := r.db.Model(&models.AdminActionLog{})
	if adminID != 0 {
		q = q.Where("admin_user_id = ?", adminID)
	}
	if actionType != "" {
		q = q.Where("action_type = ?", actionType)
	}
	var total int64
	q.Count(&total)
	var list []models.AdminActionLog
	err := q.Order("timestamp DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

type AdminActionSummary struct {
	ActionType string `json:"action_type"`
	Count      int64  `json:"count"`
}

// AdminActionsSummary returns action counts per type for the trailing
// number of days.
func (r *AuditRepository) AdminActionsSummary(days int) ([]AdminActionSummary, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var rows []AdminActionSummary
	err := r.db.Model(&models.AdminActionLog{}).
		Select("action_type, COUNT(*) as count").
		Where("timestamp >= ?", cutoff).
		Group("action_type").Order("count DESC").
		Scan(&rows).Error
	return rows, err
}
