package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Farm is a registered farm participating in traceability. The blockchain
// address is supplied by the external chain client and stored as-is.
type Farm struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	FarmUID            string         `gorm:"type:char(36);uniqueIndex" json:"farm_uid"`
	FarmerID           uint           `gorm:"not null;index" json:"farmer_id"`
	Name               string         `gorm:"size:200;not null" json:"name"`
	Location           string         `gorm:"size:300" json:"location"`
	Latitude           *float64       `json:"latitude"`
	Longitude          *float64       `json:"longitude"`
	SizeHectares       float64        `gorm:"type:decimal(10,2)" json:"size_hectares"`
	OrganicCertified   bool           `gorm:"default:false;index" json:"organic_certified"`
	CertificationBody  string         `gorm:"size:200" json:"certification_body"`
	RegistrationNumber string         `gorm:"uniqueIndex;size:100;not null" json:"registration_number"`
	BlockchainAddress  string         `gorm:"size:42" json:"blockchain_address"`
	IsVerified         bool           `gorm:"default:false" json:"is_verified"`
	VerificationDate   *time.Time     `json:"verification_date"`
	PhotoURL           string         `gorm:"size:500" json:"photo_url"`
	PhotoThumbnailURL  string         `gorm:"size:500" json:"photo_thumbnail_url"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Farmer         *User               `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
	Certifications []FarmCertification `gorm:"foreignKey:FarmID" json:"certifications,omitempty"`
}

func (Farm) TableName() string { return "farms" }

func (f *Farm) BeforeCreate(tx *gorm.DB) error {
	if f.FarmUID == "" {
		f.FarmUID = uuid.NewString()
	}
	return nil
}

// FarmCertification records an externally issued certificate. The
// blockchain hash and verified flag come from the chain client; nothing
// here validates them.
type FarmCertification struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	FarmID              uint      `gorm:"not null;index;uniqueIndex:idx_cert_farm_type_number" json:"farm_id"`
	CertificationType   string    `gorm:"size:50;not null;uniqueIndex:idx_cert_farm_type_number" json:"certification_type"` // organic | fair_trade | ...
	CertificateNumber   string    `gorm:"size:100;not null;uniqueIndex:idx_cert_farm_type_number" json:"certificate_number"`
	IssuingAuthority    string    `gorm:"size:200" json:"issuing_authority"`
	IssueDate           string    `gorm:"type:date" json:"issue_date"`  // YYYY-MM-DD
	ExpiryDate          string    `gorm:"type:date" json:"expiry_date"` // YYYY-MM-DD
	CertificateFileHash string    `gorm:"size:64" json:"certificate_file_hash"` // sha256, supplied by uploader
	CertificateFileURL  string    `gorm:"size:512" json:"certificate_file_url"`
	BlockchainHash      string    `gorm:"size:66" json:"blockchain_hash"`
	BlockchainVerified  bool      `gorm:"default:false" json:"blockchain_verified"`
	TransactionID       *uint     `json:"transaction_id"`
	CreatedAt           time.Time `json:"created_at"`

	Farm        *Farm                  `gorm:"foreignKey:FarmID" json:"-"`
	Transaction *BlockchainTransaction `gorm:"foreignKey:TransactionID" json:"-"`
}

func (FarmCertification) TableName() string { return "farm_certifications" }

// IsValid reports whether the certificate has not expired as of t.
func (c *FarmCertification) IsValid(t time.Time) bool {
	expiry, err := time.Parse("2006-01-02", c.ExpiryDate)
	if err != nil {
		return false
	}
	return expiry.After(t)
}
