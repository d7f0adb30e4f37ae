package repository

import (
	"agriconnect/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns users with search, role and active filters, newest first.
func (r *UserRepository) List(search, role string, isActive *bool, page, limit int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if search != "" {
		q = q.Where("username LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}
	var total int64
	q.Count(&total)
	var users []models.User
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Update(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// BulkUpdate applies the same field changes to several users at once.
func (r *UserRepository) BulkUpdate(ids []uint, fields map[string]interface{}) (int64, error) {
	res := r.db.Model(&models.User{}).Where("id IN ?", ids).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) TouchLastLogin(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// CountByRole returns user totals grouped by role.
func (r *UserRepository) CountByRole() (map[string]int64, error) {
	type row struct {
		Role  string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.User{}).Select("role, COUNT(*) as count").Group("role").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Role] = rw.Count
	}
	return out, nil
}
