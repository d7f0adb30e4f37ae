package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is the marketplace listing referenced by traces, inventory and
// the moderation queue.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null;index" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:100;index" json:"category"`
	Price       float64        `gorm:"type:decimal(12,2)" json:"price"`
	Unit        string         `gorm:"size:20" json:"unit"` // kg, crate, bag
	FarmerID    uint           `gorm:"not null;index" json:"farmer_id"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Farmer *User `gorm:"foreignKey:FarmerID" json:"-"`
}

func (Product) TableName() string { return "products" }

// Order is the thin order record feeding revenue analytics.
type Order struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderNumber string         `gorm:"uniqueIndex;size:50;not null" json:"order_number"`
	BuyerID     uint           `gorm:"not null;index" json:"buyer_id"`
	TotalAmount float64        `gorm:"type:decimal(12,2)" json:"total_amount"`
	Status      string         `gorm:"size:20;default:'pending';index" json:"status"` // pending | processing | delivered | cancelled
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Buyer *User `gorm:"foreignKey:BuyerID" json:"-"`
}

func (Order) TableName() string { return "orders" }
