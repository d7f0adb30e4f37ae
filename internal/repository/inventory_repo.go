package repository

import (
	"errors"
	"time"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient available quantity")
	ErrZoneMismatch      = errors.New("transfer zones must belong to the same warehouse")
	ErrInvalidQuantity   = errors.New("movement quantity is not valid for this movement type")
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(inv *models.WarehouseInventory) error {
	inv.AvailableQuantity = inv.Quantity - inv.ReservedQuantity
	if inv.AvailableQuantity < 0 {
		inv.AvailableQuantity = 0
	}
	if inv.ReceivedDate.IsZero() {
		inv.ReceivedDate = time.Now()
	}
	return r.db.Create(inv).Error
}

func (r *InventoryRepository) GetByID(id uint) (*models.WarehouseInventory, error) {
	var inv models.WarehouseInventory
	if err := r.db.Preload("Product").Preload("Zone").First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InventoryRepository) List(warehouseID, zoneID, productID uint, qualityStatus string, expiringWithinDays int, page, limit int) ([]models.WarehouseInventory, int64, error) {
	q := r.db.Model(&models.WarehouseInventory{}).Where("is_active = ?", true)
	if warehouseID != 0 {
		q = q.Where("warehouse_id = ?", warehouseID)
	}
	if zoneID != 0 {
		q = q.Where("zone_id = ?", zoneID)
	}
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}
	if qualityStatus != "" {
		q = q.Where("quality_status = ?", qualityStatus)
	}
	if expiringWithinDays > 0 {
		deadline := time.Now().AddDate(0, 0, expiringWithinDays).Format("2006-01-02")
		q = q.Where("expiry_date IS NOT NULL AND expiry_date <= ?", deadline)
	}
	var total int64
	q.Count(&total)
	var list []models.WarehouseInventory
	err := q.Preload("Product").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *InventoryRepository) Update(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.WarehouseInventory{}).Where("id = ?", id).Updates(fields).Error
}

// Reserve holds quantity against the batch. Fails when the request
// exceeds what is available.
func (r *InventoryRepository) Reserve(id uint, quantity float64) (*models.WarehouseInventory, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var inv models.WarehouseInventory
		if err := tx.First(&inv, id).Error; err != nil {
			return err
		}
		if quantity > inv.AvailableQuantity {
			return ErrInsufficientStock
		}
		reserved := inv.ReservedQuantity + quantity
		return tx.Model(&inv).Updates(map[string]interface{}{
			"reserved_quantity":  reserved,
			"available_quantity": inv.Quantity - reserved,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Release returns reserved quantity to the available pool, clamping at
// zero.
func (r *InventoryRepository) Release(id uint, quantity float64) (*models.WarehouseInventory, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var inv models.WarehouseInventory
		if err := tx.First(&inv, id).Error; err != nil {
			return err
		}
		reserved := inv.ReservedQuantity - quantity
		if reserved < 0 {
			reserved = 0
		}
		return tx.Model(&inv).Updates(map[string]interface{}{
			"reserved_quantity":  reserved,
			"available_quantity": inv.Quantity - reserved,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Inspect records a quality inspection result.
func (r *InventoryRepository) Inspect(id uint, qualityStatus, notes string, inspectorID uint) (*models.WarehouseInventory, error) {
	now := time.Now()
	err := r.db.Model(&models.WarehouseInventory{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"quality_status":     qualityStatus,
			"inspection_notes":   notes,
			"inspector_id":       inspectorID,
			"last_inspection_at": now,
		}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// CreateMovement records a stock movement and applies its quantity delta
// to the inventory batch and affected zone stock levels in a single
// transaction.
func (r *InventoryRepository) CreateMovement(m *models.WarehouseMovement) error {
	// Only adjustments carry a signed quantity; every other movement type
	// is a magnitude with direction implied by the type.
	if m.MovementType == domain.MovementAdjustment {
		if m.Quantity == 0 {
			return ErrInvalidQuantity
		}
	} else if m.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var inv models.WarehouseInventory
		if err := tx.First(&inv, m.InventoryID).Error; err != nil {
			return err
		}

		switch m.MovementType {
		case domain.MovementInbound, domain.MovementReturn:
			if err := adjustInventory(tx, &inv, m.Quantity); err != nil {
				return err
			}
			if m.ToZoneID != nil {
				if err := adjustZoneStock(tx, *m.ToZoneID, m.Quantity); err != nil {
					return err
				}
			}
		case domain.MovementOutbound:
			if m.Quantity > inv.AvailableQuantity {
				return ErrInsufficientStock
			}
			if err := adjustInventory(tx, &inv, -m.Quantity); err != nil {
				return err
			}
			if m.FromZoneID != nil {
				if err := adjustZoneStock(tx, *m.FromZoneID, -m.Quantity); err != nil {
					return err
				}
			}
		case domain.MovementTransfer:
			if m.FromZoneID == nil || m.ToZoneID == nil {
				return ErrZoneMismatch
			}
			var from, to models.WarehouseZone
			if err := tx.First(&from, *m.FromZoneID).Error; err != nil {
				return err
			}
			if err := tx.First(&to, *m.ToZoneID).Error; err != nil {
				return err
			}
			if from.WarehouseID != to.WarehouseID {
				return ErrZoneMismatch
			}
			if err := adjustZoneStock(tx, from.ID, -m.Quantity); err != nil {
				return err
			}
			if err := adjustZoneStock(tx, to.ID, m.Quantity); err != nil {
				return err
			}
			if err := tx.Model(&inv).Update("zone_id", to.ID).Error; err != nil {
				return err
			}
		case domain.MovementAdjustment:
			// Quantity carries the signed correction.
			if err := adjustInventory(tx, &inv, m.Quantity); err != nil {
				return err
			}
		}

		return tx.Create(m).Error
	})
}

func adjustInventory(tx *gorm.DB, inv *models.WarehouseInventory, delta float64) error {
	qty := inv.Quantity + delta
	if qty < 0 {
		qty = 0
	}
	available := qty - inv.ReservedQuantity
	if available < 0 {
		available = 0
	}
	if err := tx.Model(inv).Updates(map[string]interface{}{
		"quantity":           qty,
		"available_quantity": available,
	}).Error; err != nil {
		return err
	}
	inv.Quantity = qty
	inv.AvailableQuantity = available
	return nil
}

func adjustZoneStock(tx *gorm.DB, zoneID uint, delta float64) error {
	var z models.WarehouseZone
	if err := tx.First(&z, zoneID).Error; err != nil {
		return err
	}
	level := z.CurrentStockLevel + delta
	if level < 0 {
		level = 0
	}
	return tx.Model(&z).Update("current_stock_level", level).Error
}

func (r *InventoryRepository) GetMovement(id uint) (*models.WarehouseMovement, error) {
	var m models.WarehouseMovement
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *InventoryRepository) ListMovements(movementType string, inventoryID uint, page, limit int) ([]models.WarehouseMovement, int64, error) {
	q := r.db.Model(&models.WarehouseMovement{})
	if movementType != "" {
		q = q.Where("movement_type = ?", movementType)
	}
	if inventoryID != 0 {
		q = q.Where("inventory_id = ?", inventoryID)
	}
	var total int64
	q.Count(&total)
	var list []models.WarehouseMovement
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// CompleteMovement marks the movement done. Calling it again is a no-op.
func (r *InventoryRepository) CompleteMovement(id uint) (*models.WarehouseMovement, error) {
	m, err := r.GetMovement(id)
	if err != nil {
		return nil, err
	}
	if m.IsCompleted {
		return m, nil
	}
	now := time.Now()
	if err := r.db.Model(m).Updates(map[string]interface{}{
		"is_completed": true,
		"completed_at": now,
	}).Error; err != nil {
		return nil, err
	}
	m.IsCompleted = true
	m.CompletedAt = &now
	return m, nil
}
