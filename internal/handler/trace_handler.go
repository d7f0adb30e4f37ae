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

// TraceHandler covers the admin side of traceability: transactions,
// product traces and supply chain events. All blockchain data is passive
// metadata recorded as supplied.
type TraceHandler struct {
	traceRepo *repository.TraceRepository
}

func NewTraceHandler(traceRepo *repository.TraceRepository) *TraceHandler {
	return &TraceHandler{traceRepo: traceRepo}
}

// Transactions

type CreateTransactionRequest struct {
	TransactionHash string `json:"transaction_hash" binding:"required,len=66"`
	FunctionName    string `json:"function_name" binding:"max=100"`
	Parameters      string `json:"parameters"` // JSON
	FromAddress     string `json:"from_address" binding:"omitempty,len=42"`
	ToAddress       string `json:"to_address" binding:"omitempty,len=42"`
	GasLimit        int64  `json:"gas_limit"`
	GasPrice        int64  `json:"gas_price"`
	Value           string `json:"value"`
}

func (h *TraceHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tx := &models.BlockchainTransaction{
		TransactionHash: req.TransactionHash,
		FunctionName:    req.FunctionName,
		Parameters:      req.Parameters,
		FromAddress:     req.FromAddress,
		ToAddress:       req.ToAddress,
		GasLimit:        req.GasLimit,
		GasPrice:        req.GasPrice,
		Value:           req.Value,
	}
	if tx.Value == "" {
		tx.Value = "0"
	}
	if err := h.traceRepo.CreateTransaction(tx); err != nil {
		response.Err(c, http.StatusConflict,
			"Transaction conflict", response.CodeConflict,
			"A transaction with this hash is already recorded.", nil)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *TraceHandler) ListTransactions(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := h.traceRepo.ListTransactions(c.Query("status"), page, limit)
	if err != nil {
		internalErr(c, "could not list transactions")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *TraceHandler) GetTransaction(c *gin.Context) {
	tx, err := h.traceRepo.GetTransactionByHash(c.Param("hash"))
	if err != nil {
		notFound(c, "transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

type ConfirmTransactionRequest struct {
	BlockNumber   int64  `json:"block_number" binding:"required"`
	BlockHash     string `json:"block_hash" binding:"required,len=66"`
	GasUsed       int64  `json:"gas_used"`
	Confirmations int    `json:"confirmations" binding:"min=0"`
}

// ConfirmTransaction records confirmation data reported by the external
// chain client.
func (h *TraceHandler) ConfirmTransaction(c *gin.Context) {
	var req ConfirmTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tx, err := h.traceRepo.ConfirmTransaction(c.Param("hash"), req.BlockNumber, req.BlockHash, req.GasUsed, req.Confirmations)
	if err != nil {
		notFound(c, "transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Product traces

type CreateTraceRequest struct {
	ProductID         uint    `json:"product_id" binding:"required"`
	BlockchainID      string  `json:"blockchain_id" binding:"required,max=66"`
	FarmID            uint    `json:"farm_id" binding:"required"`
	HarvestDate       string  `json:"harvest_date" binding:"required"` // RFC3339 or YYYY-MM-DD
	HarvestLocation   string  `json:"harvest_location" binding:"max=300"`
	BatchNumber       string  `json:"batch_number" binding:"max=100"`
	QuantityHarvested float64 `json:"quantity_harvested" binding:"min=0"`
	QualityGrade      string  `json:"quality_grade"`
	QRCodeData        string  `json:"qr_code_data" binding:"required"`
	IPFSHash          string  `json:"ipfs_hash" binding:"omitempty,max=64"`
}

func (h *TraceHandler) CreateTrace(c *gin.Context) {
	var req CreateTraceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	harvestDate, err := parseFlexibleTime(req.HarvestDate)
	if err != nil {
		response.Err(c, http.StatusBadRequest,
			"Validation failed", response.CodeValidation,
			"harvest_date must be RFC3339 or YYYY-MM-DD.", nil)
		return
	}
	t := &models.ProductTrace{
		ProductID:         req.ProductID,
		BlockchainID:      req.BlockchainID,
		FarmID:            req.FarmID,
		HarvestDate:       harvestDate,
		HarvestLocation:   req.HarvestLocation,
		BatchNumber:       req.BatchNumber,
		QuantityHarvested: req.QuantityHarvested,
		QualityGrade:      req.QualityGrade,
		QRCodeData:        req.QRCodeData,
		IPFSHash:          req.IPFSHash,
		IsActive:          true,
	}
	if t.QualityGrade == "" {
		t.QualityGrade = "good"
	}
	if err := h.traceRepo.CreateTrace(t); err != nil {
		response.Err(c, http.StatusConflict,
			"Trace conflict", response.CodeConflict,
			"This product already has a trace, or the blockchain ID is taken.", nil)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TraceHandler) ListTraces(c *gin.Context) {
	page, limit := pagination(c)
	var farmID uint
	if v := c.Query("farm_id"); v != "" {
		n, _ := strconv.ParseUint(v, 10, 32)
		farmID = uint(n)
	}
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))
	list, total, err := h.traceRepo.ListTraces(farmID, activeOnly, page, limit)
	if err != nil {
		internalErr(c, "could not list traces")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *TraceHandler) GetTrace(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := h.traceRepo.GetTrace(id)
	if err != nil {
		notFound(c, "trace")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TraceHandler) GetTraceByBatch(c *gin.Context) {
	t, err := h.traceRepo.GetTraceByBatch(c.Param("batch"))
	if err != nil {
		notFound(c, "trace")
		return
	}
	c.JSON(http.StatusOK, t)
}

type UpdateTraceRequest struct {
	QualityGrade *string `json:"quality_grade"`
	QRCodeData   *string `json:"qr_code_data"`
	IPFSHash     *string `json:"ipfs_hash"`
	IsActive     *bool   `json:"is_active"`
}

func (h *TraceHandler) UpdateTrace(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTraceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.traceRepo.GetTrace(id); err != nil {
		notFound(c, "trace")
		return
	}
	fields := map[string]interface{}{}
	if req.QualityGrade != nil {
		fields["quality_grade"] = *req.QualityGrade
	}
	if req.QRCodeData != nil {
		fields["qr_code_data"] = *req.QRCodeData
	}
	if req.IPFSHash != nil {
		fields["ipfs_hash"] = *req.IPFSHash
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if err := h.traceRepo.UpdateTrace(id, fields); err != nil {
		internalErr(c, "could not update trace")
		return
	}
	t, _ := h.traceRepo.GetTrace(id)
	c.JSON(http.StatusOK, t)
}

// ListTraceScans returns the consumer scans recorded against a trace.
func (h *TraceHandler) ListTraceScans(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, limit := pagination(c)
	list, total, err := h.traceRepo.ListScans(id, page, limit)
	if err != nil {
		internalErr(c, "could not list scans")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

// Supply chain events

type CreateEventRequest struct {
	TraceID              uint     `json:"trace_id" binding:"required"`
	EventType            string   `json:"event_type" binding:"required,oneof=harvest process package store transport inspect certify deliver purchase"`
	ActorID              uint     `json:"actor_id" binding:"required"`
	Location             string   `json:"location" binding:"max=300"`
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	Timestamp            string   `json:"timestamp"` // RFC3339, defaults to now
	Description          string   `json:"description"`
	Metadata             string   `json:"metadata"` // JSON
	VerificationRequired *bool    `json:"verification_required"`
}

func (h *TraceHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.traceRepo.GetTrace(req.TraceID); err != nil {
		notFound(c, "trace")
		return
	}
	e := &models.SupplyChainEvent{
		TraceID:              req.TraceID,
		EventType:            req.EventType,
		ActorID:              req.ActorID,
		Location:             req.Location,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		Description:          req.Description,
		Metadata:             req.Metadata,
		VerificationRequired: true,
	}
	if req.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			response.Err(c, http.StatusBadRequest,
				"Validation failed", response.CodeValidation,
				"timestamp must be an RFC3339 timestamp.", nil)
			return
		}
		e.Timestamp = ts
	}
	if req.VerificationRequired != nil {
		e.VerificationRequired = *req.VerificationRequired
	}
	if err := h.traceRepo.CreateEvent(e); err != nil {
		internalErr(c, "could not record event")
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *TraceHandler) ListEvents(c *gin.Context) {
	page, limit := pagination(c)
	var traceID uint
	if v := c.Query("trace_id"); v != "" {
		n, _ := strconv.ParseUint(v, 10, 32)
		traceID = uint(n)
	}
	list, total, err := h.traceRepo.ListEvents(traceID, c.Query("event_type"), c.Query("status"), page, limit)
	if err != nil {
		internalErr(c, "could not list events")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *TraceHandler) GetEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	e, err := h.traceRepo.GetEvent(id)
	if err != nil {
		notFound(c, "event")
		return
	}
	c.JSON(http.StatusOK, e)
}

type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=initiated in_progress completed"`
}

func (h *TraceHandler) UpdateEventStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.traceRepo.GetEvent(id); err != nil {
		notFound(c, "event")
		return
	}
	if err := h.traceRepo.UpdateEvent(id, map[string]interface{}{"status": req.Status}); err != nil {
		internalErr(c, "could not update event")
		return
	}
	e, _ := h.traceRepo.GetEvent(id)
	c.JSON(http.StatusOK, e)
}

type VerifyEventRequest struct {
	BlockchainHash string `json:"blockchain_hash" binding:"required,len=66"`
	TransactionID  *uint  `json:"transaction_id"`
}

// VerifyEvent records the externally supplied chain hash and marks the
// event verified.
func (h *TraceHandler) VerifyEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req VerifyEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.traceRepo.GetEvent(id); err != nil {
		notFound(c, "event")
		return
	}
	e, err := h.traceRepo.VerifyEvent(id, req.BlockchainHash, req.TransactionID)
	if err != nil {
		internalErr(c, "could not verify event")
		return
	}
	c.JSON(http.StatusOK, e)
}

// Statistics feeds the traceability dashboard section.
func (h *TraceHandler) Statistics(c *gin.Context) {
	stats, err := h.traceRepo.DashboardStats()
	if err != nil {
		internalErr(c, "could not compute traceability statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
