package handler

import (
	"net/http"
	"strconv"
	"time"

	"agriconnect/internal/models"
	"agriconnect/internal/repository"
	"agriconnect/internal/response"

	"github.com/gin-gonic/gin"
)

type WarehouseHandler struct {
	warehouseRepo *repository.WarehouseRepository
}

func NewWarehouseHandler(warehouseRepo *repository.WarehouseRepository) *WarehouseHandler {
	return &WarehouseHandler{warehouseRepo: warehouseRepo}
}

type CreateWarehouseRequest struct {
	Code                  string  `json:"code" binding:"required,max=20"`
	Name                  string  `json:"name" binding:"required,max=200"`
	WarehouseType         string  `json:"warehouse_type" binding:"required,oneof=dry cold frozen organic hazmat"`
	Country               string  `json:"country" binding:"max=100"`
	Region                string  `json:"region" binding:"max=100"`
	City                  string  `json:"city" binding:"max=100"`
	Address               string  `json:"address"` // JSON
	GPSCoordinates        string  `json:"gps_coordinates" binding:"max=50"`
	CapacityCubicMeters   float64 `json:"capacity_cubic_meters" binding:"min=0"`
	TemperatureControlled bool    `json:"temperature_controlled"`
	HumidityControlled    bool    `json:"humidity_controlled"`
	OrganicCertified      bool    `json:"organic_certified"`
	ManagerID             *uint   `json:"manager_id"`
	ContactInfo           string  `json:"contact_info"`    // JSON
	OperatingHours        string  `json:"operating_hours"` // JSON
}

func (h *WarehouseHandler) Create(c *gin.Context) {
	var req CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.warehouseRepo.GetByCode(req.Code); err == nil {
		response.Err(c, http.StatusConflict,
			"Warehouse code conflict", response.CodeConflict,
			"A warehouse with this code already exists.", nil)
		return
	}
	w := &models.Warehouse{
		Code:                  req.Code,
		Name:                  req.Name,
		WarehouseType:         req.WarehouseType,
		Country:               req.Country,
		Region:                req.Region,
		City:                  req.City,
		Address:               req.Address,
		GPSCoordinates:        req.GPSCoordinates,
		CapacityCubicMeters:   req.CapacityCubicMeters,
		TemperatureControlled: req.TemperatureControlled,
		HumidityControlled:    req.HumidityControlled,
		OrganicCertified:      req.OrganicCertified,
		ManagerID:             req.ManagerID,
		Status:                "active",
		ContactInfo:           req.ContactInfo,
		OperatingHours:        req.OperatingHours,
	}
	if err := h.warehouseRepo.Create(w); err != nil {
		internalErr(c, "could not create warehouse")
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *WarehouseHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	organicOnly, _ := strconv.ParseBool(c.DefaultQuery("organic_only", "false"))
	list, total, err := h.warehouseRepo.List(c.Query("status"), c.Query("warehouse_type"), c.Query("region"), organicOnly, page, limit)
	if err != nil {
		internalErr(c, "could not list warehouses")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *WarehouseHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	w, err := h.warehouseRepo.GetByID(id)
	if err != nil {
		notFound(c, "warehouse")
		return
	}
	c.JSON(http.StatusOK, w)
}

type UpdateWarehouseRequest struct {
	Name                  *string  `json:"name" binding:"omitempty,max=200"`
	Status                *string  `json:"status" binding:"omitempty,oneof=active maintenance inactive"`
	CapacityCubicMeters   *float64 `json:"capacity_cubic_meters"`
	TemperatureControlled *bool    `json:"temperature_controlled"`
	HumidityControlled    *bool    `json:"humidity_controlled"`
	OrganicCertified      *bool    `json:"organic_certified"`
	ManagerID             *uint    `json:"manager_id"`
	ContactInfo           *string  `json:"contact_info"`
	OperatingHours        *string  `json:"operating_hours"`
}

func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.warehouseRepo.GetByID(id); err != nil {
		notFound(c, "warehouse")
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.CapacityCubicMeters != nil {
		fields["capacity_cubic_meters"] = *req.CapacityCubicMeters
	}
	if req.TemperatureControlled != nil {
		fields["temperature_controlled"] = *req.TemperatureControlled
	}
	if req.HumidityControlled != nil {
		fields["humidity_controlled"] = *req.HumidityControlled
	}
	if req.OrganicCertified != nil {
		fields["organic_certified"] = *req.OrganicCertified
	}
	if req.ManagerID != nil {
		fields["manager_id"] = *req.ManagerID
	}
	if req.ContactInfo != nil {
		fields["contact_info"] = *req.ContactInfo
	}
	if req.OperatingHours != nil {
		fields["operating_hours"] = *req.OperatingHours
	}
	if err := h.warehouseRepo.Update(id, fields); err != nil {
		internalErr(c, "could not update warehouse")
		return
	}
	w, _ := h.warehouseRepo.GetByID(id)
	c.JSON(http.StatusOK, w)
}

func (h *WarehouseHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.warehouseRepo.GetByID(id); err != nil {
		notFound(c, "warehouse")
		return
	}
	if err := h.warehouseRepo.Delete(id); err != nil {
		internalErr(c, "could not delete warehouse")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "warehouse deleted"})
}

// Utilization reports capacity usage per zone.
func (h *WarehouseHandler) Utilization(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, err := h.warehouseRepo.Utilization(id)
	if err != nil {
		notFound(c, "warehouse")
		return
	}
	c.JSON(http.StatusOK, u)
}

// Zones

type CreateZoneRequest struct {
	ZoneCode              string  `json:"zone_code" binding:"required,max=10"`
	Name                  string  `json:"name" binding:"required,max=100"`
	ZoneType              string  `json:"zone_type" binding:"required,oneof=receiving storage cold quarantine dispatch"`
	CapacityCubicMeters   float64 `json:"capacity_cubic_meters" binding:"min=0"`
	TemperatureRange      string  `json:"temperature_range"` // JSON min/max
	HumidityRange         string  `json:"humidity_range"`    // JSON min/max
	RequiresCertification bool    `json:"requires_certification"`
}

func (h *WarehouseHandler) CreateZone(c *gin.Context) {
	warehouseID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CreateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.warehouseRepo.GetByID(warehouseID); err != nil {
		notFound(c, "warehouse")
		return
	}
	z := &models.WarehouseZone{
		WarehouseID:           warehouseID,
		ZoneCode:              req.ZoneCode,
		Name:                  req.Name,
		ZoneType:              req.ZoneType,
		CapacityCubicMeters:   req.CapacityCubicMeters,
		TemperatureRange:      req.TemperatureRange,
		HumidityRange:         req.HumidityRange,
		IsActive:              true,
		RequiresCertification: req.RequiresCertification,
	}
	if err := h.warehouseRepo.CreateZone(z); err != nil {
		response.Err(c, http.StatusConflict,
			"Zone conflict", response.CodeConflict,
			"A zone with this code already exists in the warehouse.", nil)
		return
	}
	c.JSON(http.StatusCreated, z)
}

func (h *WarehouseHandler) ListZones(c *gin.Context) {
	warehouseID, ok := idParam(c, "id")
	if !ok {
		return
	}
	list, err := h.warehouseRepo.ListZones(warehouseID, c.Query("zone_type"))
	if err != nil {
		internalErr(c, "could not list zones")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

type UpdateZoneRequest struct {
	Name                  *string  `json:"name" binding:"omitempty,max=100"`
	CapacityCubicMeters   *float64 `json:"capacity_cubic_meters"`
	TemperatureRange      *string  `json:"temperature_range"`
	HumidityRange         *string  `json:"humidity_range"`
	IsActive              *bool    `json:"is_active"`
	RequiresCertification *bool    `json:"requires_certification"`
}

func (h *WarehouseHandler) UpdateZone(c *gin.Context) {
	zoneID, ok := idParam(c, "zoneId")
	if !ok {
		return
	}
	var req UpdateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.warehouseRepo.GetZone(zoneID); err != nil {
		notFound(c, "zone")
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.CapacityCubicMeters != nil {
		fields["capacity_cubic_meters"] = *req.CapacityCubicMeters
	}
	if req.TemperatureRange != nil {
		fields["temperature_range"] = *req.TemperatureRange
	}
	if req.HumidityRange != nil {
		fields["humidity_range"] = *req.HumidityRange
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.RequiresCertification != nil {
		fields["requires_certification"] = *req.RequiresCertification
	}
	if err := h.warehouseRepo.UpdateZone(zoneID, fields); err != nil {
		internalErr(c, "could not update zone")
		return
	}
	z, _ := h.warehouseRepo.GetZone(zoneID)
	c.JSON(http.StatusOK, z)
}

func (h *WarehouseHandler) DeleteZone(c *gin.Context) {
	zoneID, ok := idParam(c, "zoneId")
	if !ok {
		return
	}
	if _, err := h.warehouseRepo.GetZone(zoneID); err != nil {
		notFound(c, "zone")
		return
	}
	if err := h.warehouseRepo.DeleteZone(zoneID); err != nil {
		internalErr(c, "could not delete zone")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "zone deleted"})
}

// Temperature logs

type RecordTemperatureRequest struct {
	ZoneID *uint `json:"zone_id"`
	// Pointer so a 0°C reading still binds.
	Temperature *float64 `json:"temperature" binding:"required"`
	Humidity    *float64 `json:"humidity"`
	WithinRange *bool    `json:"is_within_range"`
	RecordedAt  string   `json:"recorded_at"` // RFC3339, defaults to now
}

func (h *WarehouseHandler) RecordTemperature(c *gin.Context) {
	warehouseID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req RecordTemperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.warehouseRepo.GetByID(warehouseID); err != nil {
		notFound(c, "warehouse")
		return
	}
	t := &models.TemperatureLog{
		WarehouseID: warehouseID,
		ZoneID:      req.ZoneID,
		Temperature: *req.Temperature,
		Humidity:    req.Humidity,
		RecordedAt:  time.Now(),
	}
	if req.RecordedAt != "" {
		ts, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			response.Err(c, http.StatusBadRequest,
				"Validation failed", response.CodeValidation,
				"recorded_at must be an RFC3339 timestamp.", nil)
			return
		}
		t.RecordedAt = ts
	}
	t.IsWithinRange = true
	if req.WithinRange != nil {
		t.IsWithinRange = *req.WithinRange
	}
	if err := h.warehouseRepo.RecordTemperature(t); err != nil {
		internalErr(c, "could not record temperature")
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *WarehouseHandler) ListTemperatureLogs(c *gin.Context) {
	warehouseID, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, limit := pagination(c)
	var zoneID uint
	if v := c.Query("zone_id"); v != "" {
		n, _ := strconv.ParseUint(v, 10, 32)
		zoneID = uint(n)
	}
	outOfRangeOnly, _ := strconv.ParseBool(c.DefaultQuery("out_of_range_only", "false"))
	list, total, err := h.warehouseRepo.ListTemperatureLogs(warehouseID, zoneID, outOfRangeOnly, page, limit)
	if err != nil {
		internalErr(c, "could not list temperature logs")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}
