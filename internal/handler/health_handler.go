package handler

import (
	"net/http"
	"runtime"
	"time"

	"agriconnect/internal/domain"
	"agriconnect/internal/middleware"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"
	"agriconnect/internal/response"
	"agriconnect/internal/service"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	svc        *service.HealthService
	healthRepo *repository.HealthRepository
	auditRepo  *repository.AuditRepository
}

func NewHealthHandler(svc *service.HealthService, healthRepo *repository.HealthRepository, auditRepo *repository.AuditRepository) *HealthHandler {
	return &HealthHandler{svc: svc, healthRepo: healthRepo, auditRepo: auditRepo}
}

// Version is stamped at build time via -ldflags.
var Version = "dev"

var processStart = time.Now()

// Liveness pings the database and Redis. Load balancers treat anything
// other than 200 as an unhealthy instance.
func (h *HealthHandler) Liveness(c *gin.Context) {
	services, ok := h.svc.Liveness(c.Request.Context())
	status := http.StatusOK
	overall := "ok"
	if !ok {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "services": services})
}

func (h *HealthHandler) ListChecks(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := h.healthRepo.List(c.Query("service_type"), c.Query("status"), page, limit)
	if err != nil {
		internalErr(c, "could not list health checks")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

// RunChecks checks every dependency now and returns the fresh results.
func (h *HealthHandler) RunChecks(c *gin.Context) {
	checks, err := h.svc.RunChecks(c.Request.Context())
	if err != nil {
		internalErr(c, "health check run failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"checks": checks})
}

// SystemStatus reduces the latest checks to one overall status and
// reports process uptime, version and Go runtime figures alongside.
func (h *HealthHandler) SystemStatus(c *gin.Context) {
	overall, checks, err := h.svc.OverallStatus()
	if err != nil {
		internalErr(c, "could not compute system status")
		return
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	c.JSON(http.StatusOK, gin.H{
		"status":     overall,
		"services":   checks,
		"checked_at": time.Now(),
		"uptime":     time.Since(processStart).Round(time.Second).String(),
		"version":    Version,
		"runtime": gin.H{
			"go_version":    runtime.Version(),
			"goroutines":    runtime.NumGoroutine(),
			"heap_alloc_mb": float64(mem.HeapAlloc) / (1 << 20),
			"gc_cycles":     mem.NumGC,
		},
	})
}

// CurrentChecks returns the most recent check per service without
// re-probing.
func (h *HealthHandler) CurrentChecks(c *gin.Context) {
	checks, err := h.healthRepo.CurrentStatus()
	if err != nil {
		internalErr(c, "could not load current health checks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"checks": checks})
}

// ClearCache flushes the Redis cache, including rate-limit counters.
func (h *HealthHandler) ClearCache(c *gin.Context) {
	if err := h.svc.FlushCache(c.Request.Context()); err != nil {
		internalErr(c, "cache flush failed")
		return
	}
	h.auditRepo.LogAdminAction(&models.AdminActionLog{
		AdminUserID: middleware.GetUserID(c),
		ActionType:  domain.ActionSystemMaintenance,
		Description: "flushed redis cache",
		IPAddress:   c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
}

type CreateMaintenanceRequest struct {
	MaintenanceType  string `json:"maintenance_type" binding:"required"`
	Title            string `json:"title" binding:"required,max=200"`
	Description      string `json:"description"`
	StartedAt        string `json:"started_at" binding:"required"` // RFC3339
	AffectedServices string `json:"affected_services"`             // JSON list
}

func (h *HealthHandler) CreateMaintenance(c *gin.Context) {
	var req CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	startedAt, err := time.Parse(time.RFC3339, req.StartedAt)
	if err != nil {
		response.Err(c, http.StatusBadRequest,
			"Validation failed", response.CodeValidation,
			"started_at must be an RFC3339 timestamp.", nil)
		return
	}
	m := &models.MaintenanceLog{
		MaintenanceType:  req.MaintenanceType,
		Title:            req.Title,
		Description:      req.Description,
		PerformedByID:    middleware.GetUserID(c),
		StartedAt:        startedAt,
		AffectedServices: req.AffectedServices,
	}
	if err := h.healthRepo.CreateMaintenance(m); err != nil {
		internalErr(c, "could not record maintenance")
		return
	}
	h.auditRepo.LogAdminAction(&models.AdminActionLog{
		AdminUserID: middleware.GetUserID(c),
		ActionType:  domain.ActionSystemMaintenance,
		Description: "started maintenance: " + m.Title,
		IPAddress:   c.ClientIP(),
	})
	c.JSON(http.StatusCreated, m)
}

func (h *HealthHandler) ListMaintenance(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := h.healthRepo.ListMaintenance(c.Query("maintenance_type"), page, limit)
	if err != nil {
		internalErr(c, "could not list maintenance logs")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

type CompleteMaintenanceRequest struct {
	WasSuccessful   *bool  `json:"was_successful" binding:"required"`
	DowntimeMinutes int    `json:"downtime_minutes" binding:"min=0"`
	Notes           string `json:"notes"`
}

func (h *HealthHandler) CompleteMaintenance(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CompleteMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.healthRepo.GetMaintenance(id); err != nil {
		notFound(c, "maintenance log")
		return
	}
	now := time.Now()
	err := h.healthRepo.UpdateMaintenance(id, map[string]interface{}{
		"completed_at":     now,
		"was_successful":   *req.WasSuccessful,
		"downtime_minutes": req.DowntimeMinutes,
		"notes":            req.Notes,
	})
	if err != nil {
		internalErr(c, "could not update maintenance log")
		return
	}
	m, _ := h.healthRepo.GetMaintenance(id)
	c.JSON(http.StatusOK, m)
}

func (h *HealthHandler) MaintenanceStatistics(c *gin.Context) {
	stats, err := h.healthRepo.MaintenanceStatistics()
	if err != nil {
		internalErr(c, "could not compute maintenance statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
