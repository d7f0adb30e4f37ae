package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlockchainTransaction tracks a transaction submitted by the external
// chain client. Hashes, gas figures and confirmations are recorded
// verbatim; this service performs no verification.
type BlockchainTransaction struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	TransactionHash   string     `gorm:"uniqueIndex;size:66;not null" json:"transaction_hash"`
	FunctionName      string     `gorm:"size:100" json:"function_name"`
	Parameters        string     `gorm:"type:text" json:"parameters"` // JSON
	FromAddress       string     `gorm:"size:42" json:"from_address"`
	ToAddress         string     `gorm:"size:42" json:"to_address"`
	GasLimit          int64      `json:"gas_limit"`
	GasUsed           *int64     `json:"gas_used"`
	GasPrice          int64      `json:"gas_price"`
	Value             string     `gorm:"size:78;default:'0'" json:"value"` // wei, opaque
	Status            string     `gorm:"size:20;default:'pending';index" json:"status"` // pending | confirmed | failed | reverted
	BlockNumber       *int64     `json:"block_number"`
	BlockHash         string     `gorm:"size:66" json:"block_hash"`
	ConfirmationCount int        `gorm:"default:0" json:"confirmation_count"`
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`
	ConfirmedAt       *time.Time `json:"confirmed_at"`
}

func (BlockchainTransaction) TableName() string { return "blockchain_transactions" }

// ProductTrace links a product to its farm of origin and QR payload.
// One trace per product.
type ProductTrace struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ProductID         uint       `gorm:"uniqueIndex;not null" json:"product_id"`
	BlockchainID      string     `gorm:"uniqueIndex;size:66;not null" json:"blockchain_id"`
	FarmID            uint       `gorm:"not null;index" json:"farm_id"`
	HarvestDate       time.Time  `gorm:"index" json:"harvest_date"`
	HarvestLocation   string     `gorm:"size:300" json:"harvest_location"`
	BatchNumber       string     `gorm:"size:100;index" json:"batch_number"`
	QuantityHarvested float64    `gorm:"type:decimal(10,2)" json:"quantity_harvested"`
	QualityGrade      string     `gorm:"size:20;default:'good'" json:"quality_grade"`
	QRCodeData        string     `gorm:"type:text" json:"qr_code_data"` // opaque payload generated externally
	IPFSHash          string     `gorm:"size:64" json:"ipfs_hash"`
	ConsumerViewCount int        `gorm:"default:0" json:"consumer_view_count"`
	LastViewedAt      *time.Time `json:"last_viewed_at"`
	IsActive          bool       `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`

	Product *Product           `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Farm    *Farm              `gorm:"foreignKey:FarmID" json:"farm,omitempty"`
	Events  []SupplyChainEvent `gorm:"foreignKey:TraceID" json:"events,omitempty"`
}

func (ProductTrace) TableName() string { return "product_traces" }

// SupplyChainEvent is one step of a product's journey. Events order by
// their occurrence timestamp.
type SupplyChainEvent struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	EventUID             string     `gorm:"type:char(36);uniqueIndex" json:"event_uid"`
	TraceID              uint       `gorm:"not null;index:idx_event_trace_ts" json:"trace_id"`
	EventType            string     `gorm:"size:50;not null;index" json:"event_type"` // harvest | process | package | ...
	ActorID              uint       `gorm:"not null" json:"actor_id"`
	Location             string     `gorm:"size:300" json:"location"`
	Latitude             *float64   `json:"latitude"`
	Longitude            *float64   `json:"longitude"`
	Timestamp            time.Time  `gorm:"index:idx_event_trace_ts" json:"timestamp"`
	Description          string     `gorm:"type:text" json:"description"`
	Metadata             string     `gorm:"type:text" json:"metadata"` // JSON
	BlockchainHash       string     `gorm:"size:66" json:"blockchain_hash"`
	TransactionID        *uint      `json:"transaction_id"`
	Status               string     `gorm:"size:20;default:'initiated';index" json:"status"` // initiated | in_progress | completed | verified
	VerificationRequired bool       `gorm:"default:true" json:"verification_required"`
	VerifiedAt           *time.Time `json:"verified_at"`
	CreatedAt            time.Time  `json:"created_at"`

	Trace       *ProductTrace          `gorm:"foreignKey:TraceID" json:"-"`
	Actor       *User                  `gorm:"foreignKey:ActorID" json:"-"`
	Transaction *BlockchainTransaction `gorm:"foreignKey:TransactionID" json:"-"`
}

func (SupplyChainEvent) TableName() string { return "supply_chain_events" }

func (e *SupplyChainEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventUID == "" {
		e.EventUID = uuid.NewString()
	}
	return nil
}

// ConsumerScan records one consumer QR scan of a trace.
type ConsumerScan struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ScanUID         string    `gorm:"type:char(36);uniqueIndex" json:"scan_uid"`
	TraceID         uint      `gorm:"not null;index" json:"trace_id"`
	ConsumerID      string    `gorm:"size:100" json:"consumer_id"` // anonymous or registered
	IPAddress       string    `gorm:"size:45" json:"ip_address"`
	UserAgent       string    `gorm:"size:512" json:"user_agent"`
	Location        string    `gorm:"size:300" json:"location"`
	DeviceType      string    `gorm:"size:50" json:"device_type"`
	ScanDuration    int       `gorm:"default:0" json:"scan_duration"` // seconds viewing
	FeedbackRating  *int      `json:"feedback_rating"`                // 1..5
	FeedbackComment string    `gorm:"type:text" json:"feedback_comment"`
	ScannedAt       time.Time `gorm:"index" json:"scanned_at"`

	Trace *ProductTrace `gorm:"foreignKey:TraceID" json:"-"`
}

func (ConsumerScan) TableName() string { return "consumer_scans" }

func (s *ConsumerScan) BeforeCreate(tx *gorm.DB) error {
	if s.ScanUID == "" {
		s.ScanUID = uuid.NewString()
	}
	return nil
}
