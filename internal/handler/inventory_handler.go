package handler

import (
	"errors"
	"net/http"
	"strconv"

	"agriconnect/internal/middleware"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"
	"agriconnect/internal/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	invRepo       *repository.InventoryRepository
	warehouseRepo *repository.WarehouseRepository
}

func NewInventoryHandler(invRepo *repository.InventoryRepository, warehouseRepo *repository.WarehouseRepository) *InventoryHandler {
	return &InventoryHandler{invRepo: invRepo, warehouseRepo: warehouseRepo}
}

type CreateInventoryRequest struct {
	ProductID     uint    `json:"product_id" binding:"required"`
	WarehouseID   uint    `json:"warehouse_id" binding:"required"`
	ZoneID        uint    `json:"zone_id" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
	BatchNumber   string  `json:"batch_number" binding:"max=100"`
	LotNumber     string  `json:"lot_number" binding:"max=100"`
	HarvestDate   *string `json:"harvest_date"` // YYYY-MM-DD
	ExpiryDate    *string `json:"expiry_date"`  // YYYY-MM-DD
	QualityStatus string  `json:"quality_status" binding:"omitempty,oneof=excellent good fair poor damaged expired"`
	QRCode        string  `json:"qr_code" binding:"max=100"`
	Notes         string  `json:"notes"`
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	zone, err := h.warehouseRepo.GetZone(req.ZoneID)
	if err != nil || zone.WarehouseID != req.WarehouseID {
		response.Err(c, http.StatusBadRequest,
			"Validation failed", response.CodeValidation,
			"zone_id must reference a zone of the given warehouse.", nil)
		return
	}
	inv := &models.WarehouseInventory{
		ProductID:     req.ProductID,
		WarehouseID:   req.WarehouseID,
		ZoneID:        req.ZoneID,
		Quantity:      req.Quantity,
		BatchNumber:   req.BatchNumber,
		LotNumber:     req.LotNumber,
		HarvestDate:   req.HarvestDate,
		ExpiryDate:    req.ExpiryDate,
		QualityStatus: req.QualityStatus,
		QRCode:        req.QRCode,
		IsActive:      true,
		Notes:         req.Notes,
	}
	if inv.QualityStatus == "" {
		inv.QualityStatus = "good"
	}
	if err := h.invRepo.Create(inv); err != nil {
		internalErr(c, "could not create inventory record")
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InventoryHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	warehouseID := uintQuery(c, "warehouse_id")
	zoneID := uintQuery(c, "zone_id")
	productID := uintQuery(c, "product_id")
	expiring, _ := strconv.Atoi(c.DefaultQuery("expiring_within_days", "0"))
	list, total, err := h.invRepo.List(warehouseID, zoneID, productID, c.Query("quality_status"), expiring, page, limit)
	if err != nil {
		internalErr(c, "could not list inventory")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	inv, err := h.invRepo.GetByID(id)
	if err != nil {
		notFound(c, "inventory record")
		return
	}
	c.JSON(http.StatusOK, inv)
}

type QuantityRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// Reserve holds quantity against the batch for a pending order.
func (h *InventoryHandler) Reserve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	inv, err := h.invRepo.Reserve(id, req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			response.Err(c, http.StatusBadRequest,
				"Insufficient stock", response.CodeValidation,
				"The requested quantity exceeds what is available.", response.Help{
					"issue":    "Reservations cannot exceed available_quantity.",
					"solution": "Check available_quantity on the batch and reserve at most that amount.",
				})
			return
		}
		notFound(c, "inventory record")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Release returns reserved quantity to the available pool.
func (h *InventoryHandler) Release(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	inv, err := h.invRepo.Release(id, req.Quantity)
	if err != nil {
		notFound(c, "inventory record")
		return
	}
	c.JSON(http.StatusOK, inv)
}

type InspectRequest struct {
	QualityStatus string `json:"quality_status" binding:"required,oneof=excellent good fair poor damaged expired"`
	Notes         string `json:"notes"`
}

func (h *InventoryHandler) Inspect(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req InspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.invRepo.GetByID(id); err != nil {
		notFound(c, "inventory record")
		return
	}
	inv, err := h.invRepo.Inspect(id, req.QualityStatus, req.Notes, middleware.GetUserID(c))
	if err != nil {
		internalErr(c, "could not record inspection")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Movements

type CreateMovementRequest struct {
	MovementType    string  `json:"movement_type" binding:"required,oneof=inbound outbound transfer adjustment return"`
	ReferenceNumber string  `json:"reference_number" binding:"required,max=100"`
	InventoryID     uint    `json:"inventory_id" binding:"required"`
	FromZoneID      *uint   `json:"from_zone_id"`
	ToZoneID        *uint   `json:"to_zone_id"`
	Quantity        float64 `json:"quantity" binding:"required"`
	Unit            string  `json:"unit" binding:"max=20"`
	AuthorizedByID  uint    `json:"authorized_by_id" binding:"required"`
	OrderID         *uint   `json:"order_id"`
	Reason          string  `json:"reason"`
	Notes           string  `json:"notes"`
}

// CreateMovement records a stock movement and applies its effect on
// inventory and zone stock in one transaction.
func (h *InventoryHandler) CreateMovement(c *gin.Context) {
	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m := &models.WarehouseMovement{
		MovementType:    req.MovementType,
		ReferenceNumber: req.ReferenceNumber,
		InventoryID:     req.InventoryID,
		FromZoneID:      req.FromZoneID,
		ToZoneID:        req.ToZoneID,
		Quantity:        req.Quantity,
		Unit:            req.Unit,
		AuthorizedByID:  req.AuthorizedByID,
		PerformedByID:   middleware.GetUserID(c),
		OrderID:         req.OrderID,
		Reason:          req.Reason,
		Notes:           req.Notes,
	}
	if err := h.invRepo.CreateMovement(m); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			response.Err(c, http.StatusBadRequest,
				"Insufficient stock", response.CodeValidation,
				"The movement quantity exceeds what is available.", nil)
		case errors.Is(err, repository.ErrZoneMismatch):
			response.Err(c, http.StatusBadRequest,
				"Invalid transfer", response.CodeValidation,
				"Transfers require from_zone_id and to_zone_id in the same warehouse.", nil)
		case errors.Is(err, repository.ErrInvalidQuantity):
			response.Err(c, http.StatusBadRequest,
				"Invalid quantity", response.CodeValidation,
				"Quantity must be positive; only adjustments may carry a signed value.", response.Help{
					"issue":    "Movement direction is implied by movement_type, not by the sign of quantity.",
					"solution": "Send a positive quantity, or use an adjustment movement for signed corrections.",
				})
		default:
			internalErr(c, "could not record movement")
		}
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := h.invRepo.ListMovements(c.Query("movement_type"), uintQuery(c, "inventory_id"), page, limit)
	if err != nil {
		internalErr(c, "could not list movements")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *InventoryHandler) GetMovement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	m, err := h.invRepo.GetMovement(id)
	if err != nil {
		notFound(c, "movement")
		return
	}
	c.JSON(http.StatusOK, m)
}

// CompleteMovement marks a movement done; repeating the call is a no-op.
func (h *InventoryHandler) CompleteMovement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	m, err := h.invRepo.CompleteMovement(id)
	if err != nil {
		notFound(c, "movement")
		return
	}
	c.JSON(http.StatusOK, m)
}

func uintQuery(c *gin.Context, name string) uint {
	n, _ := strconv.ParseUint(c.Query(name), 10, 32)
	return uint(n)
}
