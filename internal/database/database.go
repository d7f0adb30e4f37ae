package database

import (
	"log"

	"agriconnect/config"
	"agriconnect/internal/domain"
	"agriconnect/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.SystemSetting{},
		&models.AdminPreference{},
		&models.SystemHealthCheck{},
		&models.MaintenanceLog{},
		&models.AnalyticsSnapshot{},
		&models.AnalyticsReport{},
		&models.ModerationItem{},
		&models.ContentPolicy{},
		&models.UserActivityLog{},
		&models.UserSecurityEvent{},
		&models.AdminActionLog{},
		&models.Product{},
		&models.Order{},
		&models.BlockchainTransaction{},
		&models.Farm{},
		&models.FarmCertification{},
		&models.ProductTrace{},
		&models.SupplyChainEvent{},
		&models.ConsumerScan{},
		&models.Warehouse{},
		&models.WarehouseZone{},
		&models.WarehouseInventory{},
		&models.WarehouseMovement{},
		&models.TemperatureLog{},
	)
}

// SeedAdmin creates the initial staff account if no admin exists.
// Skipped when ADMIN_PASSWORD is unset.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) {
	if cfg.Password == "" {
		return
	}
	var count int64
	db.Model(&models.User{}).Where("role = ? OR is_staff = ?", domain.RoleAdmin, true).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("seed admin: %v", err)
		return
	}
	admin := &models.User{
		Username:     "admin",
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsStaff:      true,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("seed admin: %v", err)
		return
	}
	log.Printf("seeded admin account %s", cfg.Email)
}
