package handler

import (
	"net/http"
	"strconv"
	"strings"

	"agriconnect/internal/domain"
	"agriconnect/internal/middleware"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"
	"agriconnect/internal/response"
	"agriconnect/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FarmHandler struct {
	farmRepo  *repository.FarmRepository
	auditRepo *repository.AuditRepository
	cloud     cloudinary.Client
}

func NewFarmHandler(farmRepo *repository.FarmRepository, auditRepo *repository.AuditRepository, cloud cloudinary.Client) *FarmHandler {
	return &FarmHandler{farmRepo: farmRepo, auditRepo: auditRepo, cloud: cloud}
}

// canManageFarm reports whether the caller may modify a farm owned by
// farmerID. Admins manage any farm, everyone else only their own.
func canManageFarm(c *gin.Context, farmerID uint) bool {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return false
	}
	return claims.IsAdmin() || claims.UserID == farmerID
}

type CreateFarmRequest struct {
	FarmerID           uint     `json:"farmer_id"`
	Name               string   `json:"name" binding:"required,max=200"`
	Location           string   `json:"location" binding:"max=300"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	SizeHectares       float64  `json:"size_hectares" binding:"min=0"`
	OrganicCertified   bool     `json:"organic_certified"`
	CertificationBody  string   `json:"certification_body"`
	RegistrationNumber string   `json:"registration_number" binding:"required,max=100"`
	BlockchainAddress  string   `json:"blockchain_address" binding:"omitempty,len=42"`
}

func (h *FarmHandler) Create(c *gin.Context) {
	var req CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	claims := middleware.GetClaims(c)
	if claims != nil && !claims.IsAdmin() {
		// Farmers register farms under their own account.
		req.FarmerID = claims.UserID
	}
	if req.FarmerID == 0 {
		response.Err(c, http.StatusBadRequest,
			"Validation failed", response.CodeValidation,
			"farmer_id is required.", nil)
		return
	}
	f := &models.Farm{
		FarmerID:           req.FarmerID,
		Name:               req.Name,
		Location:           req.Location,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		SizeHectares:       req.SizeHectares,
		OrganicCertified:   req.OrganicCertified,
		CertificationBody:  req.CertificationBody,
		RegistrationNumber: req.RegistrationNumber,
		BlockchainAddress:  req.BlockchainAddress,
	}
	if err := h.farmRepo.Create(f); err != nil {
		response.Err(c, http.StatusConflict,
			"Farm registration conflict", response.CodeConflict,
			"A farm with this registration number already exists.", nil)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *FarmHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	var farmerID uint
	if v := c.Query("farmer_id"); v != "" {
		n, _ := strconv.ParseUint(v, 10, 32)
		farmerID = uint(n)
	}
	// Non-admin callers only ever see their own farms, regardless of
	// the farmer_id filter they ask for.
	if claims := middleware.GetClaims(c); claims != nil && !claims.IsAdmin() {
		farmerID = claims.UserID
	}
	organicOnly, _ := strconv.ParseBool(c.DefaultQuery("organic_only", "false"))
	verifiedOnly, _ := strconv.ParseBool(c.DefaultQuery("verified_only", "false"))
	list, total, err := h.farmRepo.List(farmerID, c.Query("search"), organicOnly, verifiedOnly, page, limit)
	if err != nil {
		internalErr(c, "could not list farms")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *FarmHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	f, err := h.farmRepo.GetByID(id)
	if err != nil {
		notFound(c, "farm")
		return
	}
	c.JSON(http.StatusOK, f)
}

type UpdateFarmRequest struct {
	Name              *string  `json:"name" binding:"omitempty,max=200"`
	Location          *string  `json:"location"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	SizeHectares      *float64 `json:"size_hectares"`
	OrganicCertified  *bool    `json:"organic_certified"`
	CertificationBody *string  `json:"certification_body"`
	BlockchainAddress *string  `json:"blockchain_address"`
}

func (h *FarmHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	existing, err := h.farmRepo.GetByID(id)
	if err != nil {
		notFound(c, "farm")
		return
	}
	if !canManageFarm(c, existing.FarmerID) {
		forbidden(c, "Only the owning farmer or an administrator may update this farm.")
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Latitude != nil {
		fields["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		fields["longitude"] = *req.Longitude
	}
	if req.SizeHectares != nil {
		fields["size_hectares"] = *req.SizeHectares
	}
	if req.OrganicCertified != nil {
		fields["organic_certified"] = *req.OrganicCertified
	}
	if req.CertificationBody != nil {
		fields["certification_body"] = *req.CertificationBody
	}
	if req.BlockchainAddress != nil {
		fields["blockchain_address"] = *req.BlockchainAddress
	}
	if err := h.farmRepo.Update(id, fields); err != nil {
		internalErr(c, "could not update farm")
		return
	}
	f, _ := h.farmRepo.GetByID(id)
	c.JSON(http.StatusOK, f)
}

func (h *FarmHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	existing, err := h.farmRepo.GetByID(id)
	if err != nil {
		notFound(c, "farm")
		return
	}
	if !canManageFarm(c, existing.FarmerID) {
		forbidden(c, "Only the owning farmer or an administrator may delete this farm.")
		return
	}
	if err := h.farmRepo.Delete(id); err != nil {
		internalErr(c, "could not delete farm")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "farm deleted"})
}

// Verify marks the farm verified and records the admin action.
func (h *FarmHandler) Verify(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	f, err := h.farmRepo.Verify(id)
	if err != nil {
		notFound(c, "farm")
		return
	}
	target := f.FarmerID
	h.auditRepo.LogAdminAction(&models.AdminActionLog{
		AdminUserID:  middleware.GetUserID(c),
		ActionType:   domain.ActionUserVerify,
		TargetUserID: &target,
		Description:  "verified farm " + f.RegistrationNumber,
		IPAddress:    c.ClientIP(),
	})
	c.JSON(http.StatusOK, f)
}

// UploadPhoto attaches a farm photo. Cloudinary produces the optimized
// delivery URL and a thumbnail for dashboard lists.
func (h *FarmHandler) UploadPhoto(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	farm, err := h.farmRepo.GetByID(id)
	if err != nil {
		notFound(c, "farm")
		return
	}
	if !canManageFarm(c, farm.FarmerID) {
		forbidden(c, "Only the owning farmer or an administrator may upload farm photos.")
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.Err(c, http.StatusBadRequest,
			"Validation failed", response.CodeValidation,
			"A multipart file field named 'file' is required.", nil)
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Err(c, http.StatusBadRequest,
			"Validation failed", response.CodeValidation,
			"The uploaded file could not be read.", nil)
		return
	}
	defer f.Close()

	folder := "agriconnect/farms/" + strconv.FormatUint(uint64(id), 10)
	publicID := "farm_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, thumbnailURL, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		internalErr(c, "photo upload failed")
		return
	}
	if err := h.farmRepo.AttachPhoto(id, url, thumbnailURL); err != nil {
		internalErr(c, "could not save photo reference")
		return
	}
	farm, _ = h.farmRepo.GetByID(id)
	c.JSON(http.StatusOK, farm)
}

// Certifications

type CreateCertificationRequest struct {
	FarmID            uint   `json:"farm_id" binding:"required"`
	CertificationType string `json:"certification_type" binding:"required,oneof=organic fair_trade rainforest global_gap iso_22000 haccp"`
	CertificateNumber string `json:"certificate_number" binding:"required,max=100"`
	IssuingAuthority  string `json:"issuing_authority" binding:"max=200"`
	IssueDate         string `json:"issue_date" binding:"required"`  // YYYY-MM-DD
	ExpiryDate        string `json:"expiry_date" binding:"required"` // YYYY-MM-DD
}

func (h *FarmHandler) CreateCertification(c *gin.Context) {
	var req CreateCertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	farm, err := h.farmRepo.GetByID(req.FarmID)
	if err != nil {
		notFound(c, "farm")
		return
	}
	if !canManageFarm(c, farm.FarmerID) {
		forbidden(c, "Only the owning farmer or an administrator may add certifications.")
		return
	}
	cert := &models.FarmCertification{
		FarmID:            req.FarmID,
		CertificationType: req.CertificationType,
		CertificateNumber: req.CertificateNumber,
		IssuingAuthority:  req.IssuingAuthority,
		IssueDate:         req.IssueDate,
		ExpiryDate:        req.ExpiryDate,
	}
	if err := h.farmRepo.CreateCertification(cert); err != nil {
		response.Err(c, http.StatusConflict,
			"Certification conflict", response.CodeConflict,
			"This certificate is already registered for the farm.", nil)
		return
	}
	c.JSON(http.StatusCreated, cert)
}

func (h *FarmHandler) ListCertifications(c *gin.Context) {
	page, limit := pagination(c)
	var farmID uint
	if v := c.Query("farm_id"); v != "" {
		n, _ := strconv.ParseUint(v, 10, 32)
		farmID = uint(n)
	}
	validOnly, _ := strconv.ParseBool(c.DefaultQuery("valid_only", "false"))
	list, total, err := h.farmRepo.ListCertifications(farmID, c.Query("certification_type"), validOnly, page, limit)
	if err != nil {
		internalErr(c, "could not list certifications")
		return
	}
	response.Paginated(c, http.StatusOK, list, total, page, limit)
}

func (h *FarmHandler) GetCertification(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cert, err := h.farmRepo.GetCertification(id)
	if err != nil {
		notFound(c, "certification")
		return
	}
	c.JSON(http.StatusOK, cert)
}

func (h *FarmHandler) DeleteCertification(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cert, err := h.farmRepo.GetCertification(id)
	if err != nil {
		notFound(c, "certification")
		return
	}
	if farm, err := h.farmRepo.GetByID(cert.FarmID); err == nil && !canManageFarm(c, farm.FarmerID) {
		forbidden(c, "Only the owning farmer or an administrator may delete certifications.")
		return
	}
	if err := h.farmRepo.DeleteCertification(id); err != nil {
		internalErr(c, "could not delete certification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "certification deleted"})
}

// UploadDocument attaches a scanned certificate document. The sha256 of
// the file is supplied by the caller and stored alongside the URL.
func (h *FarmHandler) UploadDocument(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cert, err := h.farmRepo.GetCertification(id)
	if err != nil {
		notFound(c, "certification")
		return
	}
	if farm, err := h.farmRepo.GetByID(cert.FarmID); err == nil && !canManageFarm(c, farm.FarmerID) {
		forbidden(c, "Only the owning farmer or an administrator may upload certificate documents.")
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.Err(c, http.StatusBadRequest,
			"Validation failed", response.CodeValidation,
			"A multipart file field named 'file' is required.", nil)
		return
	}
	fileHash := c.PostForm("file_hash")

	f, err := file.Open()
	if err != nil {
		response.Err(c, http.StatusBadRequest,
			"Validation failed", response.CodeValidation,
			"The uploaded file could not be read.", nil)
		return
	}
	defer f.Close()

	folder := "agriconnect/certificates/" + strconv.FormatUint(uint64(id), 10)
	publicID := "cert_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, err := h.cloud.UploadDocument(c.Request.Context(), f, folder, publicID)
	if err != nil {
		internalErr(c, "document upload failed")
		return
	}
	if err := h.farmRepo.AttachDocument(id, url, fileHash); err != nil {
		internalErr(c, "could not save document reference")
		return
	}
	cert, _ = h.farmRepo.GetCertification(id)
	c.JSON(http.StatusOK, cert)
}
