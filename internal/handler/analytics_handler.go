package handler

import (
	"net/http"
	"strconv"
	"time"

	"agriconnect/internal/middleware"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"
	"agriconnect/internal/response"
	"agriconnect/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	svc           *service.AnalyticsService
	analyticsRepo *repository.AnalyticsRepository
}

func NewAnalyticsHandler(svc *service.AnalyticsService, analyticsRepo *repository.AnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, analyticsRepo: analyticsRepo}
}

func (h *AnalyticsHandler) ListSnapshots(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := h.analyticsRepo.ListSnapshots(c.Query("from"), c.Query("to"), page, limit)
	if err != nil {
		internalErr(c, "could not list snapshots")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *AnalyticsHandler) GetSnapshot(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	s, err := h.analyticsRepo.GetSnapshot(id)
	if err != nil {
		notFound(c, "snapshot")
		return
	}
	c.JSON(http.StatusOK, s)
}

type GenerateSnapshotRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to today
}

// GenerateSnapshot computes and upserts the daily rollup. Re-running for
// the same date replaces the earlier snapshot.
func (h *AnalyticsHandler) GenerateSnapshot(c *gin.Context) {
	var req GenerateSnapshotRequest
	_ = c.ShouldBindJSON(&req)
	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.Err(c, http.StatusBadRequest,
				"Validation failed", response.CodeValidation,
				"date must be in YYYY-MM-DD format.", nil)
			return
		}
		date = parsed
	}
	snap, err := h.svc.GenerateSnapshot(date)
	if err != nil {
		internalErr(c, "snapshot generation failed")
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *AnalyticsHandler) DeleteSnapshot(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.analyticsRepo.GetSnapshot(id); err != nil {
		notFound(c, "snapshot")
		return
	}
	if err := h.analyticsRepo.DeleteSnapshot(id); err != nil {
		internalErr(c, "could not delete snapshot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "snapshot deleted"})
}

// UserGrowth returns daily registration counts for the trailing window.
func (h *AnalyticsHandler) UserGrowth(c *gin.Context) {
	days := daysQuery(c, 30)
	series, err := h.analyticsRepo.UserGrowthSeries(days)
	if err != nil {
		internalErr(c, "could not compute user growth")
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "series": series})
}

// Revenue returns daily delivered-order revenue for the trailing window.
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	days := daysQuery(c, 30)
	series, err := h.analyticsRepo.RevenueSeries(days)
	if err != nil {
		internalErr(c, "could not compute revenue series")
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "series": series})
}

// Dashboard combines the trailing growth and revenue series with live
// platform totals for the analytics landing page.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	days := daysQuery(c, 30)
	growth, err := h.analyticsRepo.UserGrowthSeries(days)
	if err != nil {
		internalErr(c, "could not compute user growth")
		return
	}
	revenue, err := h.analyticsRepo.RevenueSeries(days)
	if err != nil {
		internalErr(c, "could not compute revenue series")
		return
	}
	totals, err := h.analyticsRepo.ComputeTotals(time.Now())
	if err != nil {
		internalErr(c, "could not compute platform totals")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"days":        days,
		"user_growth": growth,
		"revenue":     revenue,
		"totals":      totals,
	})
}

func daysQuery(c *gin.Context, fallback int) int {
	days, _ := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(fallback)))
	if days < 1 || days > 365 {
		days = fallback
	}
	return days
}

// Reports

type CreateReportRequest struct {
	Name              string `json:"name" binding:"required,max=200"`
	ReportType        string `json:"report_type" binding:"required,oneof=USER SALES PRODUCT ENGAGEMENT FINANCIAL CUSTOM"`
	Description       string `json:"description"`
	QueryConfig       string `json:"query_config" binding:"required"`
	IsScheduled       bool   `json:"is_scheduled"`
	ScheduleFrequency string `json:"schedule_frequency" binding:"omitempty,oneof=daily weekly monthly"`
	IsPublic          bool   `json:"is_public"`
}

func (h *AnalyticsHandler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rep := &models.AnalyticsReport{
		Name:              req.Name,
		ReportType:        req.ReportType,
		Description:       req.Description,
		QueryConfig:       req.QueryConfig,
		IsScheduled:       req.IsScheduled,
		ScheduleFrequency: req.ScheduleFrequency,
		CreatedByID:       middleware.GetUserID(c),
		IsPublic:          req.IsPublic,
	}
	if err := h.analyticsRepo.CreateReport(rep); err != nil {
		internalErr(c, "could not create report")
		return
	}
	c.JSON(http.StatusCreated, rep)
}

func (h *AnalyticsHandler) ListReports(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := h.analyticsRepo.ListReports(c.Query("report_type"), middleware.GetUserID(c), page, limit)
	if err != nil {
		internalErr(c, "could not list reports")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rep, err := h.analyticsRepo.GetReport(id)
	if err != nil {
		notFound(c, "report")
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *AnalyticsHandler) DeleteReport(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.analyticsRepo.GetReport(id); err != nil {
		notFound(c, "report")
		return
	}
	if err := h.analyticsRepo.DeleteReport(id); err != nil {
		internalErr(c, "could not delete report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report deleted"})
}

// GenerateReport runs the saved definition and returns its output.
func (h *AnalyticsHandler) GenerateReport(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	out, err := h.svc.GenerateReport(id, middleware.GetUserID(c), c.ClientIP())
	if err != nil {
		notFound(c, "report")
		return
	}
	c.JSON(http.StatusOK, out)
}
