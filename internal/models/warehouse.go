package models

import (
	"time"

	"gorm.io/gorm"
)

type Warehouse struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	Code                  string         `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Name                  string         `gorm:"size:200;not null" json:"name"`
	WarehouseType         string         `gorm:"size:20;not null;index" json:"warehouse_type"` // dry | cold | frozen | organic | hazmat
	Country               string         `gorm:"size:100;index:idx_wh_country_region" json:"country"`
	Region                string         `gorm:"size:100;index:idx_wh_country_region" json:"region"`
	City                  string         `gorm:"size:100" json:"city"`
	Address               string         `gorm:"type:text" json:"address"` // JSON
	GPSCoordinates        string         `gorm:"size:50" json:"gps_coordinates"`
	CapacityCubicMeters   float64        `gorm:"type:decimal(10,2)" json:"capacity_cubic_meters"`
	UtilizationPercent    float64        `gorm:"type:decimal(5,2);default:0" json:"current_utilization_percent"`
	TemperatureControlled bool           `gorm:"default:false" json:"temperature_controlled"`
	HumidityControlled    bool           `gorm:"default:false" json:"humidity_controlled"`
	OrganicCertified      bool           `gorm:"default:false;index" json:"organic_certified"`
	ManagerID             *uint          `gorm:"index" json:"manager_id"`
	Status                string         `gorm:"size:20;default:'active';index" json:"status"` // active | maintenance | inactive
	ContactInfo           string         `gorm:"type:text" json:"contact_info"`     // JSON
	OperatingHours        string         `gorm:"type:text" json:"operating_hours"`  // JSON weekly schedule
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	Manager *User           `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Zones   []WarehouseZone `gorm:"foreignKey:WarehouseID" json:"zones,omitempty"`
}

func (Warehouse) TableName() string { return "warehouses" }

type WarehouseZone struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	WarehouseID           uint           `gorm:"not null;uniqueIndex:idx_zone_wh_code" json:"warehouse_id"`
	ZoneCode              string         `gorm:"size:10;not null;uniqueIndex:idx_zone_wh_code" json:"zone_code"`
	Name                  string         `gorm:"size:100;not null" json:"name"`
	ZoneType              string         `gorm:"size:20;not null" json:"zone_type"` // receiving | storage | cold | quarantine | dispatch
	CapacityCubicMeters   float64        `gorm:"type:decimal(8,2)" json:"capacity_cubic_meters"`
	CurrentStockLevel     float64        `gorm:"type:decimal(8,2);default:0" json:"current_stock_level"`
	TemperatureRange      string         `gorm:"type:text" json:"temperature_range"` // JSON min/max
	HumidityRange         string         `gorm:"type:text" json:"humidity_range"`    // JSON min/max
	IsActive              bool           `gorm:"default:true" json:"is_active"`
	RequiresCertification bool           `gorm:"default:false" json:"requires_certification"`
	CreatedAt             time.Time      `json:"created_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID" json:"-"`
}

func (WarehouseZone) TableName() string { return "warehouse_zones" }

// UtilizationPercent returns current stock as a share of zone capacity.
func (z *WarehouseZone) UtilizationPercent() float64 {
	if z.CapacityCubicMeters <= 0 {
		return 0
	}
	return z.CurrentStockLevel / z.CapacityCubicMeters * 100
}

// WarehouseInventory is a batch of product held in a zone.
// AvailableQuantity is maintained as Quantity - ReservedQuantity on every
// repository write and never goes negative.
type WarehouseInventory struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ProductID         uint           `gorm:"not null;index:idx_inv_product_wh" json:"product_id"`
	WarehouseID       uint           `gorm:"not null;index:idx_inv_product_wh" json:"warehouse_id"`
	ZoneID            uint           `gorm:"not null;index" json:"zone_id"`
	Quantity          float64        `gorm:"type:decimal(10,3);default:0" json:"quantity"`
	ReservedQuantity  float64        `gorm:"type:decimal(10,3);default:0" json:"reserved_quantity"`
	AvailableQuantity float64        `gorm:"type:decimal(10,3);default:0" json:"available_quantity"`
	BatchNumber       string         `gorm:"size:100;index" json:"batch_number"`
	LotNumber         string         `gorm:"size:100" json:"lot_number"`
	HarvestDate       *string        `gorm:"type:date" json:"harvest_date"`
	ExpiryDate        *string        `gorm:"type:date;index" json:"expiry_date"`
	ReceivedDate      time.Time      `json:"received_date"`
	QualityStatus     string         `gorm:"size:20;default:'good';index" json:"quality_status"` // excellent | good | fair | poor | damaged | expired
	InspectorID       *uint          `json:"inspector_id"`
	InspectionNotes   string         `gorm:"type:text" json:"inspection_notes"`
	LastInspectionAt  *time.Time     `json:"last_inspection_at"`
	QRCode            string         `gorm:"size:100" json:"qr_code"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	Notes             string         `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Product   *Product       `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Warehouse *Warehouse     `gorm:"foreignKey:WarehouseID" json:"-"`
	Zone      *WarehouseZone `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
	Inspector *User          `gorm:"foreignKey:InspectorID" json:"-"`
}

func (WarehouseInventory) TableName() string { return "warehouse_inventory" }

// WarehouseMovement records stock entering, leaving or moving between
// zones. Completing a movement is idempotent.
type WarehouseMovement struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	MovementType    string     `gorm:"size:20;not null;index:idx_move_type_created" json:"movement_type"` // inbound | outbound | transfer | adjustment | return
	ReferenceNumber string     `gorm:"uniqueIndex;size:100;not null" json:"reference_number"`
	InventoryID     uint       `gorm:"not null;index" json:"inventory_id"`
	FromZoneID      *uint      `json:"from_zone_id"`
	ToZoneID        *uint      `json:"to_zone_id"`
	Quantity        float64    `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Unit            string     `gorm:"size:20" json:"unit"`
	AuthorizedByID  uint       `gorm:"not null" json:"authorized_by_id"`
	PerformedByID   uint       `gorm:"not null" json:"performed_by_id"`
	OrderID         *uint      `json:"order_id"`
	Reason          string     `gorm:"type:text" json:"reason"`
	Notes           string     `gorm:"type:text" json:"notes"`
	IsCompleted     bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `gorm:"index:idx_move_type_created" json:"created_at"`

	Inventory    *WarehouseInventory `gorm:"foreignKey:InventoryID" json:"inventory,omitempty"`
	FromZone     *WarehouseZone      `gorm:"foreignKey:FromZoneID" json:"-"`
	ToZone       *WarehouseZone      `gorm:"foreignKey:ToZoneID" json:"-"`
	AuthorizedBy *User               `gorm:"foreignKey:AuthorizedByID" json:"-"`
	PerformedBy  *User               `gorm:"foreignKey:PerformedByID" json:"-"`
	Order        *Order              `gorm:"foreignKey:OrderID" json:"-"`
}

func (WarehouseMovement) TableName() string { return "warehouse_movements" }

// TemperatureLog is a sensor reading for a warehouse or one of its zones.
type TemperatureLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WarehouseID   uint      `gorm:"not null;index" json:"warehouse_id"`
	ZoneID        *uint     `gorm:"index" json:"zone_id"`
	Temperature   float64   `gorm:"type:decimal(5,2)" json:"temperature"` // Celsius
	Humidity      *float64  `gorm:"type:decimal(5,2)" json:"humidity"`    // percent
	IsWithinRange bool      `gorm:"default:true;index" json:"is_within_range"`
	RecordedAt    time.Time `gorm:"index" json:"recorded_at"`

	Warehouse *Warehouse     `gorm:"foreignKey:WarehouseID" json:"-"`
	Zone      *WarehouseZone `gorm:"foreignKey:ZoneID" json:"-"`
}

func (TemperatureLog) TableName() string { return "temperature_logs" }
