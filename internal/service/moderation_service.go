package service

import (
	"errors"
	"fmt"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"
)

var ErrAlreadyModerated = errors.New("item has already been moderated")

type ModerationService struct {
	modRepo   *repository.ModerationRepository
	auditRepo *repository.AuditRepository
}

func NewModerationService(modRepo *repository.ModerationRepository, auditRepo *repository.AuditRepository) *ModerationService {
	return &ModerationService{modRepo: modRepo, auditRepo: auditRepo}
}

func (s *ModerationService) Approve(id, moderatorID uint, notes, ip string) (*models.ModerationItem, error) {
	return s.decide(id, domain.ModerationApproved, moderatorID, notes, ip)
}

func (s *ModerationService) Reject(id, moderatorID uint, notes, ip string) (*models.ModerationItem, error) {
	return s.decide(id, domain.ModerationRejected, moderatorID, notes, ip)
}

func (s *ModerationService) Flag(id, moderatorID uint, notes, ip string) (*models.ModerationItem, error) {
	return s.decide(id, domain.ModerationFlagged, moderatorID, notes, ip)
}

func (s *ModerationService) MarkSpam(id, moderatorID uint, notes, ip string) (*models.ModerationItem, error) {
	return s.decide(id, domain.ModerationSpam, moderatorID, notes, ip)
}

// decide stamps the decision and writes the CONTENT_MODERATE audit row.
// Only PENDING and FLAGGED items can still be decided.
func (s *ModerationService) decide(id uint, status string, moderatorID uint, notes, ip string) (*models.ModerationItem, error) {
	item, err := s.modRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ModerationPending && item.Status != domain.ModerationFlagged {
		return nil, ErrAlreadyModerated
	}
	item, err = s.modRepo.Moderate(id, status, moderatorID, notes)
	if err != nil {
		return nil, err
	}
	target := item.SubmittedByID
	s.auditRepo.LogAdminAction(&models.AdminActionLog{
		AdminUserID:  moderatorID,
		ActionType:   domain.ActionContentModerate,
		TargetUserID: &target,
		Description:  fmt.Sprintf("%s %s %s", status, item.ContentType, item.ContentID),
		IPAddress:    ip,
	})
	return item, nil
}

// BulkModerate applies one decision to several queue items. Items that
// were already decided are skipped and reported back.
func (s *ModerationService) BulkModerate(ids []uint, status string, moderatorID uint, notes, ip string) (moderated, skipped []uint, err error) {
	for _, id := range ids {
		if _, err := s.decide(id, status, moderatorID, notes, ip); err != nil {
			skipped = append(skipped, id)
			continue
		}
		moderated = append(moderated, id)
	}
	return moderated, skipped, nil
}
