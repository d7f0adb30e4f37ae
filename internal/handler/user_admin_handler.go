package handler

import (
	"net/http"
	"strconv"

	"agriconnect/internal/domain"
	"agriconnect/internal/middleware"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"
	"agriconnect/internal/response"

	"github.com/gin-gonic/gin"
)

// UserAdminHandler covers the dashboard's user management section:
// listing, editing, bulk actions and the per-user audit trails.
type UserAdminHandler struct {
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditRepository
}

func NewUserAdminHandler(userRepo *repository.UserRepository, auditRepo *repository.AuditRepository) *UserAdminHandler {
	return &UserAdminHandler{userRepo: userRepo, auditRepo: auditRepo}
}

func (h *UserAdminHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		b, _ := strconv.ParseBool(v)
		isActive = &b
	}
	list, total, err := h.userRepo.List(c.Query("search"), c.Query("role"), isActive, page, limit)
	if err != nil {
		internalErr(c, "could not list users")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *UserAdminHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, err := h.userRepo.GetByID(id)
	if err != nil {
		notFound(c, "user")
		return
	}
	c.JSON(http.StatusOK, u)
}

type UpdateUserRequest struct {
	Role       *string `json:"role" binding:"omitempty,oneof=ADMIN FARMER CONSUMER WAREHOUSE_MANAGER AGENT"`
	IsActive   *bool   `json:"is_active"`
	IsVerified *bool   `json:"is_verified"`
	IsStaff    *bool   `json:"is_staff"`
	Phone      *string `json:"phone"`
	Country    *string `json:"country"`
	Region     *string `json:"region"`
}

func (h *UserAdminHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.userRepo.GetByID(id); err != nil {
		notFound(c, "user")
		return
	}
	fields := map[string]interface{}{}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.IsVerified != nil {
		fields["is_verified"] = *req.IsVerified
	}
	if req.IsStaff != nil {
		fields["is_staff"] = *req.IsStaff
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Country != nil {
		fields["country"] = *req.Country
	}
	if req.Region != nil {
		fields["region"] = *req.Region
	}
	if len(fields) == 0 {
		response.Err(c, http.StatusBadRequest,
			"Validation failed", response.CodeValidation,
			"No updatable fields were provided.", nil)
		return
	}
	if err := h.userRepo.Update(id, fields); err != nil {
		internalErr(c, "could not update user")
		return
	}
	target := id
	h.auditRepo.LogAdminAction(&models.AdminActionLog{
		AdminUserID:  middleware.GetUserID(c),
		ActionType:   domain.ActionUserUpdate,
		TargetUserID: &target,
		Description:  "updated user account",
		IPAddress:    c.ClientIP(),
	})
	u, _ := h.userRepo.GetByID(id)
	c.JSON(http.StatusOK, u)
}

type BulkUserActionRequest struct {
	IDs    []uint `json:"ids" binding:"required,min=1"`
	Action string `json:"action" binding:"required,oneof=activate deactivate verify suspend"`
}

// BulkAction applies one account action to several users at once.
func (h *UserAdminHandler) BulkAction(c *gin.Context) {
	var req BulkUserActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	var fields map[string]interface{}
	actionType := domain.ActionUserUpdate
	switch req.Action {
	case "activate":
		fields = map[string]interface{}{"is_active": true}
	case "deactivate", "suspend":
		fields = map[string]interface{}{"is_active": false}
		actionType = domain.ActionUserSuspend
	case "verify":
		fields = map[string]interface{}{"is_verified": true}
		actionType = domain.ActionUserVerify
	}
	affected, err := h.userRepo.BulkUpdate(req.IDs, fields)
	if err != nil {
		internalErr(c, "bulk action failed")
		return
	}
	h.auditRepo.LogAdminAction(&models.AdminActionLog{
		AdminUserID: middleware.GetUserID(c),
		ActionType:  actionType,
		Description: "bulk " + req.Action + " on " + strconv.Itoa(len(req.IDs)) + " users",
		IPAddress:   c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// RoleDistribution returns user totals per role.
func (h *UserAdminHandler) RoleDistribution(c *gin.Context) {
	counts, err := h.userRepo.CountByRole()
	if err != nil {
		internalErr(c, "could not count users")
		return
	}
	c.JSON(http.StatusOK, counts)
}

// Activity and security logs

func (h *UserAdminHandler) ListActivity(c *gin.Context) {
	page, limit := pagination(c)
	var userID uint
	if v := c.Query("user_id"); v != "" {
		n, _ := strconv.ParseUint(v, 10, 32)
		userID = uint(n)
	}
	list, total, err := h.auditRepo.ListActivity(userID, c.Query("activity_type"), page, limit)
	if err != nil {
		internalErr(c, "could not list activity")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *UserAdminHandler) ListSecurityEvents(c *gin.Context) {
	page, limit := pagination(c)
	var resolved *bool
	if v := c.Query("resolved"); v != "" {
		b, _ := strconv.ParseBool(v)
		resolved = &b
	}
	list, total, err := h.auditRepo.ListSecurityEvents(c.Query("event_type"), c.Query("severity"), resolved, page, limit)
	if err != nil {
		internalErr(c, "could not list security events")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

type ResolveEventRequest struct {
	Notes string `json:"notes" binding:"required"`
}

func (h *UserAdminHandler) ResolveSecurityEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ResolveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.auditRepo.ResolveSecurityEvent(id, middleware.GetUserID(c), req.Notes)
	if err != nil {
		notFound(c, "security event")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *UserAdminHandler) ListAdminActions(c *gin.Context) {
	page, limit := pagination(c)
	var adminID uint
	if v := c.Query("admin_id"); v != "" {
		n, _ := strconv.ParseUint(v, 10, 32)
		adminID = uint(n)
	}
	list, total, err := h.auditRepo.ListAdminActions(adminID, c.Query("action_type"), page, limit)
	if err != nil {
		internalErr(c, "could not list admin actions")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *UserAdminHandler) AdminActionsSummary(c *gin.Context) {
	days := daysQuery(c, 30)
	summary, err := h.auditRepo.AdminActionsSummary(days)
	if err != nil {
		internalErr(c, "could not summarise admin actions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "actions": summary})
}
