package repository

import (
	"path/filepath"
	"testing"

	"agriconnect/internal/database"
	"agriconnect/internal/domain"
	"agriconnect/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedWarehouse(t *testing.T, db *gorm.DB, code string) *models.Warehouse {
	t.Helper()
	w := &models.Warehouse{
		Code:                code,
		Name:                "Warehouse " + code,
		WarehouseType:       domain.WarehouseTypeDry,
		Country:             "Kenya",
		Region:              "Nakuru",
		CapacityCubicMeters: 1000,
		Status:              domain.WarehouseActive,
	}
	require.NoError(t, db.Create(w).Error)
	return w
}

func seedZone(t *testing.T, db *gorm.DB, warehouseID uint, code string) *models.WarehouseZone {
	t.Helper()
	z := &models.WarehouseZone{
		WarehouseID:         warehouseID,
		ZoneCode:            code,
		Name:                "Zone " + code,
		ZoneType:            domain.ZoneStorage,
		CapacityCubicMeters: 200,
		CurrentStockLevel:   0,
		IsActive:            true,
	}
	require.NoError(t, db.Create(z).Error)
	return z
}

func seedProduct(t *testing.T, db *gorm.DB, farmerID uint, name string) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:     name,
		Category: "vegetables",
		Price:    120,
		Unit:     "kg",
		FarmerID: farmerID,
		IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
