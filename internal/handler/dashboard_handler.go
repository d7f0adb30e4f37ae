package handler

import (
	"net/http"
	"time"

	"agriconnect/internal/repository"
	"agriconnect/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the landing overview that aggregates the key
// numbers from every dashboard section.
type DashboardHandler struct {
	userRepo      *repository.UserRepository
	modRepo       *repository.ModerationRepository
	auditRepo     *repository.AuditRepository
	traceRepo     *repository.TraceRepository
	warehouseRepo *repository.WarehouseRepository
	healthSvc     *service.HealthService
	analyticsRepo *repository.AnalyticsRepository
}

func NewDashboardHandler(
	userRepo *repository.UserRepository,
	modRepo *repository.ModerationRepository,
	auditRepo *repository.AuditRepository,
	traceRepo *repository.TraceRepository,
	warehouseRepo *repository.WarehouseRepository,
	healthSvc *service.HealthService,
	analyticsRepo *repository.AnalyticsRepository,
) *DashboardHandler {
	return &DashboardHandler{
		userRepo:      userRepo,
		modRepo:       modRepo,
		auditRepo:     auditRepo,
		traceRepo:     traceRepo,
		warehouseRepo: warehouseRepo,
		healthSvc:     healthSvc,
		analyticsRepo: analyticsRepo,
	}
}

// Overview aggregates headline figures for the dashboard landing page.
func (h *DashboardHandler) Overview(c *gin.Context) {
	usersByRole, err := h.userRepo.CountByRole()
	if err != nil {
		internalErr(c, "could not load dashboard overview")
		return
	}
	modStats, err := h.modRepo.Statistics()
	if err != nil {
		internalErr(c, "could not load dashboard overview")
		return
	}
	traceStats, err := h.traceRepo.DashboardStats()
	if err != nil {
		internalErr(c, "could not load dashboard overview")
		return
	}
	openCritical, _ := h.auditRepo.CountOpenCritical()
	avgUtilization, _ := h.warehouseRepo.AverageUtilization()
	activityToday, _ := h.auditRepo.CountActivitySince(startOfDay(time.Now()))
	systemStatus, _, _ := h.healthSvc.OverallStatus()
	totals, _ := h.analyticsRepo.ComputeTotals(time.Now())

	c.JSON(http.StatusOK, gin.H{
		"users_by_role":         usersByRole,
		"moderation":            gin.H{"pending": modStats.TotalPending, "high_priority": modStats.HighPriority},
		"traceability":          traceStats,
		"open_security_events":  openCritical,
		"warehouse_utilization": avgUtilization,
		"activity_today":        activityToday,
		"system_status":         systemStatus,
		"totals":                totals,
		"generated_at":          time.Now(),
	})
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
