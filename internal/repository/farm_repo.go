package repository

import (
	"time"

	"agriconnect/internal/models"

	"gorm.io/gorm"
)

type FarmRepository struct {
	db *gorm.DB
}

func NewFarmRepository(db *gorm.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

func (r *FarmRepository) Create(f *models.Farm) error {
	return r.db.Create(f).Error
}

func (r *FarmRepository) GetByID(id uint) (*models.Farm, error) {
	var f models.Farm
	if err := r.db.Preload("Certifications").Preload("Farmer").First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns farms; farmerID of 0 lists all (admin view).
func (r *FarmRepository) List(farmerID uint, search string, organicOnly, verifiedOnly bool, page, limit int) ([]models.Farm, int64, error) {
	q := r.db.Model(&models.Farm{})
	if farmerID != 0 {
		q = q.Where("farmer_id = ?", farmerID)
	}
	if search != "" {
		q = q.Where("name LIKE ? OR location LIKE ? OR registration_number LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if organicOnly {
		q = q.Where("organic_certified = ?", true)
	}
	if verifiedOnly {
		q = q.Where("is_verified = ?", true)
	}
	var total int64
	q.Count(&total)
	var list []models.Farm
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *FarmRepository) Update(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Farm{}).Where("id = ?", id).Updates(fields).Error
}

func (r *FarmRepository) Delete(id uint) error {
	return r.db.Delete(&models.Farm{}, id).Error
}

// Verify marks the farm verified as of now.
func (r *FarmRepository) Verify(id uint) (*models.Farm, error) {
	now := time.Now()
	if err := r.db.Model(&models.Farm{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_verified": true, "verification_date": now}).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// AttachPhoto stores the farm photo and its delivery-optimized thumbnail.
func (r *FarmRepository) AttachPhoto(id uint, photoURL, thumbnailURL string) error {
	return r.db.Model(&models.Farm{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"photo_url":           photoURL,
			"photo_thumbnail_url": thumbnailURL,
		}).Error
}

// Certifications

func (r *FarmRepository) CreateCertification(c *models.FarmCertification) error {
	return r.db.Create(c).Error
}

func (r *FarmRepository) GetCertification(id uint) (*models.FarmCertification, error) {
	var c models.FarmCertification
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *FarmRepository) ListCertifications(farmID uint, certType string, validOnly bool, page, limit int) ([]models.FarmCertification, int64, error) {
	q := r.db.Model(&models.FarmCertification{})
	if farmID != 0 {
		q = q.Where("farm_id = ?", farmID)
	}
	if certType != "" {
		q = q.Where("certification_type = ?", certType)
	}
	if validOnly {
		q = q.Where("expiry_date > ?", time.Now().Format("2006-01-02"))
	}
	var total int64
	q.Count(&total)
	var list []models.FarmCertification
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *FarmRepository) UpdateCertification(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.FarmCertification{}).Where("id = ?", id).Updates(fields).Error
}

func (r *FarmRepository) DeleteCertification(id uint) error {
	return r.db.Delete(&models.FarmCertification{}, id).Error
}

// AttachDocument stores the uploaded certificate file URL and its
// caller-supplied sha256.
func (r *FarmRepository) AttachDocument(id uint, fileURL, fileHash string) error {
	return r.db.Model(&models.FarmCertification{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"certificate_file_url":  fileURL,
			"certificate_file_hash": fileHash,
		}).Error
}
