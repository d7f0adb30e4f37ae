package handler

import (
	"errors"
	"net/http"

	"agriconnect/internal/domain"
	"agriconnect/internal/middleware"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"
	"agriconnect/internal/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SettingHandler struct {
	settingRepo *repository.SettingRepository
	auditRepo   *repository.AuditRepository
}

func NewSettingHandler(settingRepo *repository.SettingRepository, auditRepo *repository.AuditRepository) *SettingHandler {
	return &SettingHandler{settingRepo: settingRepo, auditRepo: auditRepo}
}

type CreateSettingRequest struct {
	Category    string `json:"category" binding:"required,oneof=GENERAL SECURITY EMAIL SMS PAYMENT API FEATURE NOTIFICATION"`
	Key         string `json:"key" binding:"required,max=100"`
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type UpdateSettingRequest struct {
	Value       *string `json:"value"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	IsPublic    *bool   `json:"is_public"`
}

type BulkSettingEntry struct {
	Category string `json:"category" binding:"required"`
	Key      string `json:"key" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

type BulkSettingsRequest struct {
	Settings []BulkSettingEntry `json:"settings" binding:"required,min=1,dive"`
}

func (h *SettingHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := h.settingRepo.List(c.Query("category"), c.Query("search"), page, limit)
	if err != nil {
		internalErr(c, "could not list settings")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *SettingHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	s, err := h.settingRepo.GetByID(id)
	if err != nil {
		notFound(c, "setting")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SettingHandler) Create(c *gin.Context) {
	var req CreateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.settingRepo.Get(req.Category, req.Key); err == nil {
		response.Err(c, http.StatusConflict,
			"Setting already exists", response.CodeConflict,
			"A setting with this category and key already exists.", nil)
		return
	}
	adminID := middleware.GetUserID(c)
	s := &models.SystemSetting{
		Category:    req.Category,
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
		IsActive:    true,
		IsPublic:    req.IsPublic,
		CreatedByID: adminID,
		UpdatedByID: adminID,
	}
	if err := h.settingRepo.Create(s); err != nil {
		internalErr(c, "could not create setting")
		return
	}
	h.logChange(c, "created setting "+s.Category+"."+s.Key)
	c.JSON(http.StatusCreated, s)
}

func (h *SettingHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.settingRepo.GetByID(id)
	if err != nil {
		notFound(c, "setting")
		return
	}
	fields := map[string]interface{}{"updated_by_id": middleware.GetUserID(c)}
	if req.Value != nil {
		fields["value"] = *req.Value
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.IsPublic != nil {
		fields["is_public"] = *req.IsPublic
	}
	if err := h.settingRepo.Update(id, fields); err != nil {
		internalErr(c, "could not update setting")
		return
	}
	h.logChange(c, "updated setting "+s.Category+"."+s.Key)
	s, _ = h.settingRepo.GetByID(id)
	c.JSON(http.StatusOK, s)
}

func (h *SettingHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	s, err := h.settingRepo.GetByID(id)
	if err != nil {
		notFound(c, "setting")
		return
	}
	if err := h.settingRepo.Delete(id); err != nil {
		internalErr(c, "could not delete setting")
		return
	}
	h.logChange(c, "deleted setting "+s.Category+"."+s.Key)
	c.JSON(http.StatusOK, gin.H{"message": "setting deleted"})
}

// BulkUpdate applies several value changes in one transaction; an unknown
// category/key pair rolls the whole batch back.
func (h *SettingHandler) BulkUpdate(c *gin.Context) {
	var req BulkSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updates := make([]models.SystemSetting, 0, len(req.Settings))
	for _, e := range req.Settings {
		updates = append(updates, models.SystemSetting{Category: e.Category, Key: e.Key, Value: e.Value})
	}
	if err := h.settingRepo.BulkSet(updates, middleware.GetUserID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Err(c, http.StatusNotFound,
				"Setting not found", response.CodeNotFound,
				"One or more settings in the batch do not exist; no changes were applied.", nil)
			return
		}
		internalErr(c, "bulk update failed")
		return
	}
	h.logChange(c, "bulk updated settings")
	c.JSON(http.StatusOK, gin.H{"message": "settings updated", "count": len(updates)})
}

func (h *SettingHandler) Export(c *gin.Context) {
	grouped, err := h.settingRepo.ExportAll()
	if err != nil {
		internalErr(c, "could not export settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": grouped})
}

// Public returns the is_public settings without requiring admin access.
func (h *SettingHandler) Public(c *gin.Context) {
	values, err := h.settingRepo.PublicValues()
	if err != nil {
		internalErr(c, "could not load public settings")
		return
	}
	c.JSON(http.StatusOK, values)
}

func (h *SettingHandler) GetPreferences(c *gin.Context) {
	p, err := h.settingRepo.GetPreferences(middleware.GetUserID(c))
	if err != nil {
		internalErr(c, "could not load preferences")
		return
	}
	c.JSON(http.StatusOK, p)
}

type PreferencesRequest struct {
	DashboardLayout      *string `json:"dashboard_layout"`
	NotificationSettings *string `json:"notification_settings"`
	ThemeSettings        *string `json:"theme_settings"`
	DefaultFilters       *string `json:"default_filters"`
	Timezone             *string `json:"timezone"`
	Language             *string `json:"language"`
	ItemsPerPage         *int    `json:"items_per_page"`
}

func (h *SettingHandler) UpdatePreferences(c *gin.Context) {
	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	fields := map[string]interface{}{}
	if req.DashboardLayout != nil {
		fields["dashboard_layout"] = *req.DashboardLayout
	}
	if req.NotificationSettings != nil {
		fields["notification_settings"] = *req.NotificationSettings
	}
	if req.ThemeSettings != nil {
		fields["theme_settings"] = *req.ThemeSettings
	}
	if req.DefaultFilters != nil {
		fields["default_filters"] = *req.DefaultFilters
	}
	if req.Timezone != nil {
		fields["timezone"] = *req.Timezone
	}
	if req.Language != nil {
		fields["language"] = *req.Language
	}
	if req.ItemsPerPage != nil {
		fields["items_per_page"] = *req.ItemsPerPage
	}
	p, err := h.settingRepo.SavePreferences(middleware.GetUserID(c), fields)
	if err != nil {
		internalErr(c, "could not save preferences")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *SettingHandler) logChange(c *gin.Context, desc string) {
	h.auditRepo.LogAdminAction(&models.AdminActionLog{
		AdminUserID: middleware.GetUserID(c),
		ActionType:  domain.ActionSettingChange,
		Description: desc,
		IPAddress:   c.ClientIP(),
	})
}
