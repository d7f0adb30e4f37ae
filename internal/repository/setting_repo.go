package repository

import (
	"time"

	"agriconnect/internal/models"

	"gorm.io/gorm"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Create(s *models.SystemSetting) error {
	return r.db.Create(s).Error
}

func (r *SettingRepository) GetByID(id uint) (*models.SystemSetting, error) {
	var s models.SystemSetting
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingRepository) Get(category, key string) (*models.SystemSetting, error) {
	var s models.SystemSetting
	if err := r.db.Where("category = ? AND `key` = ?", category, key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns settings filtered by category and search term, ordered
// category then key.
func (r *SettingRepository) List(category, search string, page, limit int) ([]models.SystemSetting, int64, error) {
	q := r.db.Model(&models.SystemSetting{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if search != "" {
		q = q.Where("`key` LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	var total int64
	q.Count(&total)
	var list []models.SystemSetting
	err := q.Order("category ASC, `key` ASC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *SettingRepository) Update(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.SystemSetting{}).Where("id = ?", id).Updates(fields).Error
}

func (r *SettingRepository) Delete(id uint) error {
	return r.db.Delete(&models.SystemSetting{}, id).Error
}

// BulkSet updates the values of several settings in one transaction.
// Keys are addressed as category+key; a missing setting fails the whole
// batch.
func (r *SettingRepository) BulkSet(updates []models.SystemSetting, updatedBy uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			res := tx.Model(&models.SystemSetting{}).
				Where("category = ? AND `key` = ?", u.Category, u.Key).
				Updates(map[string]interface{}{"value": u.Value, "updated_by_id": updatedBy})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// ExportAll returns all active settings grouped by category.
func (r *SettingRepository) ExportAll() (map[string][]models.SystemSetting, error) {
	var list []models.SystemSetting
	if err := r.db.Where("is_active = ?", true).Order("category ASC, `key` ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]models.SystemSetting)
	for _, s := range list {
		out[s.Category] = append(out[s.Category], s)
	}
	return out, nil
}

// PublicValues returns settings flagged is_public as a key/value map.
func (r *SettingRepository) PublicValues() (map[string]string, error) {
	var list []models.SystemSetting
	if err := r.db.Where("is_public = ? AND is_active = ?", true, true).Find(&list).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, s := range list {
		out[s.Category+"."+s.Key] = s.Value
	}
	return out, nil
}

// GetPreferences returns the admin's preferences, creating defaults on
// first access.
func (r *SettingRepository) GetPreferences(userID uint) (*models.AdminPreference, error) {
	var p models.AdminPreference
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	p = models.AdminPreference{UserID: userID, Timezone: "UTC", Language: "en", ItemsPerPage: 25}
	if err := r.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SettingRepository) SavePreferences(userID uint, fields map[string]interface{}) (*models.AdminPreference, error) {
	if _, err := r.GetPreferences(userID); err != nil {
		return nil, err
	}
	fields["updated_at"] = time.Now()
	if err := r.db.Model(&models.AdminPreference{}).Where("user_id = ?", userID).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.GetPreferences(userID)
}
