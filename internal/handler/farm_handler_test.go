package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"agriconnect/internal/auth"
	"agriconnect/internal/domain"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCloud struct {
	docURL   string
	imageURL string
	thumbURL string
}

func (s stubCloud) UploadDocument(context.Context, io.Reader, string, string) (string, error) {
	return s.docURL, nil
}

func (s stubCloud) UploadImage(context.Context, io.Reader, string, string) (string, string, error) {
	return s.imageURL, s.thumbURL, nil
}

func farmRouter(db *gorm.DB, claims *auth.Claims, cloud stubCloud) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewFarmHandler(repository.NewFarmRepository(db), repository.NewAuditRepository(db), cloud)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", claims.UserID)
		c.Set("claims", claims)
	})
	r.POST("/farms/:id/photo", h.UploadPhoto)
	return r
}

func seedFarmOwnedBy(t *testing.T, db *gorm.DB, farmerID uint, reg string) *models.Farm {
	t.Helper()
	f := &models.Farm{FarmerID: farmerID, Name: "Farm " + reg, RegistrationNumber: reg}
	require.NoError(t, db.Create(f).Error)
	return f
}

func postPhoto(r *gin.Engine, path string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "farm.jpg")
	_, _ = part.Write([]byte("not-a-real-jpeg"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadPhotoStoresOptimizedURLs(t *testing.T) {
	db := setupTestDB(t)
	farmer := &models.User{Username: "photo-farmer", Email: "photo@example.com", Role: domain.RoleFarmer, IsActive: true}
	require.NoError(t, db.Create(farmer).Error)
	farm := seedFarmOwnedBy(t, db, farmer.ID, "REG-PHOTO")

	cloud := stubCloud{
		imageURL: "https://res.cloudinary.com/demo/image/upload/farm.jpg",
		thumbURL: "https://res.cloudinary.com/demo/image/upload/q_auto,f_auto,w_200,c_fill/farm.jpg",
	}
	r := farmRouter(db, &auth.Claims{UserID: farmer.ID, Role: domain.RoleFarmer}, cloud)

	w := postPhoto(r, fmt.Sprintf("/farms/%d/photo", farm.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fresh models.Farm
	require.NoError(t, db.First(&fresh, farm.ID).Error)
	assert.Equal(t, cloud.imageURL, fresh.PhotoURL)
	assert.Equal(t, cloud.thumbURL, fresh.PhotoThumbnailURL)
}

func TestUploadPhotoRejectsForeignFarmers(t *testing.T) {
	db := setupTestDB(t)
	owner := &models.User{Username: "owner", Email: "owner@example.com", Role: domain.RoleFarmer, IsActive: true}
	require.NoError(t, db.Create(owner).Error)
	intruder := &models.User{Username: "intruder", Email: "intruder@example.com", Role: domain.RoleFarmer, IsActive: true}
	require.NoError(t, db.Create(intruder).Error)
	farm := seedFarmOwnedBy(t, db, owner.ID, "REG-FOREIGN")

	r := farmRouter(db, &auth.Claims{UserID: intruder.ID, Role: domain.RoleFarmer}, stubCloud{})
	w := postPhoto(r, fmt.Sprintf("/farms/%d/photo", farm.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var fresh models.Farm
	require.NoError(t, db.First(&fresh, farm.ID).Error)
	assert.Empty(t, fresh.PhotoURL)
}
