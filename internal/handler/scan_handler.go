package handler

import (
	"net/http"

	"agriconnect/internal/models"
	"agriconnect/internal/repository"
	"agriconnect/internal/response"

	"github.com/gin-gonic/gin"
)

// ScanHandler serves the public consumer-facing traceability endpoints:
// resolving a QR payload to the product story and collecting feedback.
type ScanHandler struct {
	traceRepo *repository.TraceRepository
}

func NewScanHandler(traceRepo *repository.TraceRepository) *ScanHandler {
	return &ScanHandler{traceRepo: traceRepo}
}

type ScanRequest struct {
	QRCodeData string `json:"qr_code_data" binding:"required"`
	ConsumerID string `json:"consumer_id" binding:"max=100"`
	Location   string `json:"location" binding:"max=300"`
	DeviceType string `json:"device_type" binding:"max=50"`
}

// Scan resolves a QR payload to its trace, records the scan and bumps
// the view counter. Inactive traces are indistinguishable from missing
// ones.
func (h *ScanHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.traceRepo.GetTraceByQR(req.QRCodeData)
	if err != nil {
		response.Err(c, http.StatusNotFound,
			"Trace not found", response.CodeNotFound,
			"No product trace matches this QR code.", response.Help{
				"issue":    "The QR code is unknown or the trace has been deactivated.",
				"solution": "Rescan the code, or contact the seller if the problem persists.",
			})
		return
	}
	scan := &models.ConsumerScan{
		TraceID:    t.ID,
		ConsumerID: req.ConsumerID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Location:   req.Location,
		DeviceType: req.DeviceType,
	}
	if err := h.traceRepo.CreateScan(scan); err != nil {
		internalErr(c, "could not record scan")
		return
	}
	_ = h.traceRepo.RecordView(t.ID)

	// Only currently valid certifications appear in the consumer view.
	if t.Farm != nil {
		valid := t.Farm.Certifications[:0]
		for _, cert := range t.Farm.Certifications {
			if cert.IsValid(scan.ScannedAt) {
				valid = append(valid, cert)
			}
		}
		t.Farm.Certifications = valid
	}

	c.JSON(http.StatusOK, gin.H{
		"scan_uid": scan.ScanUID,
		"trace":    t,
	})
}

type ScanFeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Feedback attaches a rating to an earlier scan, addressed by scan UID.
func (h *ScanHandler) Feedback(c *gin.Context) {
	uid := c.Param("uid")
	var req ScanFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.traceRepo.GetScanByUID(uid); err != nil {
		notFound(c, "scan")
		return
	}
	if err := h.traceRepo.SaveScanFeedback(uid, req.Rating, req.Comment); err != nil {
		internalErr(c, "could not save feedback")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "feedback recorded"})
}
