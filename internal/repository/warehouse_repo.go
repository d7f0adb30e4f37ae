package repository

import (
	"agriconnect/internal/models"

	"gorm.io/gorm"
)

type WarehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

func (r *WarehouseRepository) Create(w *models.Warehouse) error {
	return r.db.Create(w).Error
}

func (r *WarehouseRepository) GetByID(id uint) (*models.Warehouse, error) {
	var w models.Warehouse
	if err := r.db.Preload("Zones").Preload("Manager").First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WarehouseRepository) GetByCode(code string) (*models.Warehouse, error) {
	var w models.Warehouse
	if err := r.db.Where("code = ?", code).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WarehouseRepository) List(status, warehouseType, region string, organicOnly bool, page, limit int) ([]models.Warehouse, int64, error) {
	q := r.db.Model(&models.Warehouse{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if warehouseType != "" {
		q = q.Where("warehouse_type = ?", warehouseType)
	}
	if region != "" {
		q = q.Where("region = ?", region)
	}
	if organicOnly {
		q = q.Where("organic_certified = ?", true)
	}
	var total int64
	q.Count(&total)
	var list []models.Warehouse
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *WarehouseRepository) Update(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Warehouse{}).Where("id = ?", id).Updates(fields).Error
}

func (r *WarehouseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Warehouse{}, id).Error
}

type ZoneUtilization struct {
	ZoneID             uint    `json:"zone_id"`
	ZoneCode           string  `json:"zone_code"`
	Name               string  `json:"name"`
	Capacity           float64 `json:"capacity_cubic_meters"`
	StockLevel         float64 `json:"current_stock_level"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

type WarehouseUtilization struct {
	WarehouseID        uint              `json:"warehouse_id"`
	Capacity           float64           `json:"capacity_cubic_meters"`
	TotalStock         float64           `json:"total_stock"`
	UtilizationPercent float64           `json:"utilization_percent"`
	Zones              []ZoneUtilization `json:"zones"`
}

// Utilization reports capacity vs stock for the warehouse and each of its
// zones.
func (r *WarehouseRepository) Utilization(id uint) (*WarehouseUtilization, error) {
	w, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	u := &WarehouseUtilization{WarehouseID: w.ID, Capacity: w.CapacityCubicMeters}
	for _, z := range w.Zones {
		u.TotalStock += z.CurrentStockLevel
		u.Zones = append(u.Zones, ZoneUtilization{
			ZoneID:             z.ID,
			ZoneCode:           z.ZoneCode,
			Name:               z.Name,
			Capacity:           z.CapacityCubicMeters,
			StockLevel:         z.CurrentStockLevel,
			UtilizationPercent: z.UtilizationPercent(),
		})
	}
	if u.Capacity > 0 {
		u.UtilizationPercent = u.TotalStock / u.Capacity * 100
	}
	return u, nil
}

// AverageUtilization returns the mean utilization percent across active
// warehouses, for the dashboard overview.
func (r *WarehouseRepository) AverageUtilization() (float64, error) {
	var row struct{ Avg float64 }
	err := r.db.Model(&models.Warehouse{}).
		Select("COALESCE(AVG(current_utilization_percent),0) as avg").
		Where("status = ?", "active").
		Scan(&row).Error
	return row.Avg, err
}

// Zones

func (r *WarehouseRepository) CreateZone(z *models.WarehouseZone) error {
	return r.db.Create(z).Error
}

func (r *WarehouseRepository) GetZone(id uint) (*models.WarehouseZone, error) {
	var z models.WarehouseZone
	if err := r.db.First(&z, id).Error; err != nil {
		return nil, err
	}
	return &z, nil
}

func (r *WarehouseRepository) ListZones(warehouseID uint, zoneType string) ([]models.WarehouseZone, error) {
	q := r.db.Where("warehouse_id = ?", warehouseID)
	if zoneType != "" {
		q = q.Where("zone_type = ?", zoneType)
	}
	var list []models.WarehouseZone
	err := q.Order("zone_code ASC").Find(&list).Error
	return list, err
}

func (r *WarehouseRepository) UpdateZone(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.WarehouseZone{}).Where("id = ?", id).Updates(fields).Error
}

func (r *WarehouseRepository) DeleteZone(id uint) error {
	return r.db.Delete(&models.WarehouseZone{}, id).Error
}

// Temperature logs

func (r *WarehouseRepository) RecordTemperature(t *models.TemperatureLog) error {
	return r.db.Create(t).Error
}

func (r *WarehouseRepository) ListTemperatureLogs(warehouseID uint, zoneID uint, outOfRangeOnly bool, page, limit int) ([]models.TemperatureLog, int64, error) {
	q := r.db.Model(&models.TemperatureLog{}).Where("warehouse_id = ?", warehouseID)
	if zoneID != 0 {
		q = q.Where("zone_id = ?", zoneID)
	}
	if outOfRangeOnly {
		q = q.Where("is_within_range = ?", false)
	}
	var total int64
	q.Count(&total)
	var list []models.TemperatureLog
	err := q.Order("recorded_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
