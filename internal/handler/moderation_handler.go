package handler

import (
	"errors"
	"net/http"
	"strconv"

	"agriconnect/internal/domain"
	"agriconnect/internal/middleware"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"
	"agriconnect/internal/response"
	"agriconnect/internal/service"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	svc       *service.ModerationService
	modRepo   *repository.ModerationRepository
	auditRepo *repository.AuditRepository
}

func NewModerationHandler(svc *service.ModerationService, modRepo *repository.ModerationRepository, auditRepo *repository.AuditRepository) *ModerationHandler {
	return &ModerationHandler{svc: svc, modRepo: modRepo, auditRepo: auditRepo}
}

type SubmitContentRequest struct {
	ContentType    string `json:"content_type" binding:"required,oneof=USER_PROFILE PRODUCT REVIEW COMMENT IMAGE RECIPE ADVERTISEMENT"`
	ContentID      string `json:"content_id" binding:"required,max=100"`
	ContentTitle   string `json:"content_title" binding:"max=200"`
	ContentPreview string `json:"content_preview"`
	Priority       int    `json:"priority" binding:"omitempty,min=1,max=10"`
	AutoFlagged    bool   `json:"auto_flagged"`
	FlagReasons    string `json:"flag_reasons"` // JSON list
}

func (h *ModerationHandler) Submit(c *gin.Context) {
	var req SubmitContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item := &models.ModerationItem{
		ContentType:    req.ContentType,
		ContentID:      req.ContentID,
		ContentTitle:   req.ContentTitle,
		ContentPreview: req.ContentPreview,
		SubmittedByID:  middleware.GetUserID(c),
		AutoFlagged:    req.AutoFlagged,
		FlagReasons:    req.FlagReasons,
	}
	if req.Priority != 0 {
		item.Priority = req.Priority
	}
	if err := h.modRepo.Create(item); err != nil {
		internalErr(c, "could not queue content")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ModerationHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	var autoFlagged *bool
	if v := c.Query("auto_flagged"); v != "" {
		b, _ := strconv.ParseBool(v)
		autoFlagged = &b
	}
	list, total, err := h.modRepo.List(c.Query("content_type"), c.Query("status"), c.Query("search"), autoFlagged, page, limit)
	if err != nil {
		internalErr(c, "could not list moderation queue")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *ModerationHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.modRepo.GetByID(id)
	if err != nil {
		notFound(c, "moderation item")
		return
	}
	c.JSON(http.StatusOK, item)
}

type ModerateRequest struct {
	Notes string `json:"notes"`
}

func (h *ModerationHandler) Approve(c *gin.Context) {
	h.decide(c, h.svc.Approve)
}

func (h *ModerationHandler) Reject(c *gin.Context) {
	h.decide(c, h.svc.Reject)
}

func (h *ModerationHandler) Flag(c *gin.Context) {
	h.decide(c, h.svc.Flag)
}

func (h *ModerationHandler) MarkSpam(c *gin.Context) {
	h.decide(c, h.svc.MarkSpam)
}

func (h *ModerationHandler) decide(c *gin.Context, fn func(id, moderatorID uint, notes, ip string) (*models.ModerationItem, error)) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ModerateRequest
	_ = c.ShouldBindJSON(&req)
	item, err := fn(id, middleware.GetUserID(c), req.Notes, c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrAlreadyModerated) {
			response.Err(c, http.StatusConflict,
				"Already moderated", response.CodeConflict,
				"This item has already received a moderation decision.", nil)
			return
		}
		notFound(c, "moderation item")
		return
	}
	c.JSON(http.StatusOK, item)
}

type BulkModerateRequest struct {
	IDs    []uint `json:"ids" binding:"required,min=1"`
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED FLAGGED SPAM"`
	Notes  string `json:"notes"`
}

func (h *ModerationHandler) BulkModerate(c *gin.Context) {
	var req BulkModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	moderated, skipped, err := h.svc.BulkModerate(req.IDs, req.Status, middleware.GetUserID(c), req.Notes, c.ClientIP())
	if err != nil {
		internalErr(c, "bulk moderation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"moderated": moderated, "skipped": skipped})
}

func (h *ModerationHandler) Statistics(c *gin.Context) {
	stats, err := h.modRepo.Statistics()
	if err != nil {
		internalErr(c, "could not compute moderation statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Policies

type PolicyRequest struct {
	PolicyType      string `json:"policy_type" binding:"required,oneof=GENERAL PRODUCT REVIEWS IMAGES SPAM SAFETY"`
	Title           string `json:"title" binding:"required,max=200"`
	Description     string `json:"description"`
	Rules           string `json:"rules" binding:"required"` // JSON
	AutoEnforcement bool   `json:"auto_enforcement"`
	IsActive        *bool  `json:"is_active"`
}

func (h *ModerationHandler) CreatePolicy(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p := &models.ContentPolicy{
		PolicyType:      req.PolicyType,
		Title:           req.Title,
		Description:     req.Description,
		Rules:           req.Rules,
		AutoEnforcement: req.AutoEnforcement,
		IsActive:        true,
		CreatedByID:     middleware.GetUserID(c),
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := h.modRepo.CreatePolicy(p); err != nil {
		internalErr(c, "could not create policy")
		return
	}
	h.auditRepo.LogAdminAction(&models.AdminActionLog{
		AdminUserID: middleware.GetUserID(c),
		ActionType:  domain.ActionPolicyUpdate,
		Description: "created policy: " + p.Title,
		IPAddress:   c.ClientIP(),
	})
	c.JSON(http.StatusCreated, p)
}

func (h *ModerationHandler) ListPolicies(c *gin.Context) {
	page, limit := pagination(c)
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))
	list, total, err := h.modRepo.ListPolicies(c.Query("policy_type"), activeOnly, page, limit)
	if err != nil {
		internalErr(c, "could not list policies")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *ModerationHandler) GetPolicy(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.modRepo.GetPolicy(id)
	if err != nil {
		notFound(c, "policy")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ModerationHandler) UpdatePolicy(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.modRepo.GetPolicy(id); err != nil {
		notFound(c, "policy")
		return
	}
	fields := map[string]interface{}{
		"policy_type":      req.PolicyType,
		"title":            req.Title,
		"description":      req.Description,
		"rules":            req.Rules,
		"auto_enforcement": req.AutoEnforcement,
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if err := h.modRepo.UpdatePolicy(id, fields); err != nil {
		internalErr(c, "could not update policy")
		return
	}
	h.auditRepo.LogAdminAction(&models.AdminActionLog{
		AdminUserID: middleware.GetUserID(c),
		ActionType:  domain.ActionPolicyUpdate,
		Description: "updated policy: " + req.Title,
		IPAddress:   c.ClientIP(),
	})
	p, _ := h.modRepo.GetPolicy(id)
	c.JSON(http.StatusOK, p)
}

func (h *ModerationHandler) DeletePolicy(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.modRepo.GetPolicy(id)
	if err != nil {
		notFound(c, "policy")
		return
	}
	if err := h.modRepo.DeletePolicy(id); err != nil {
		internalErr(c, "could not delete policy")
		return
	}
	h.auditRepo.LogAdminAction(&models.AdminActionLog{
		AdminUserID: middleware.GetUserID(c),
		ActionType:  domain.ActionPolicyUpdate,
		Description: "deleted policy: " + p.Title,
		IPAddress:   c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "policy deleted"})
}
