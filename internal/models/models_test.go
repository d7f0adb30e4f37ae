package models

import (
	"testing"
	"time"

	"agriconnect/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestFarmCertificationIsValid(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	valid := FarmCertification{ExpiryDate: "2027-01-01"}
	assert.True(t, valid.IsValid(now))

	expired := FarmCertification{ExpiryDate: "2026-01-01"}
	assert.False(t, expired.IsValid(now))

	// An unparsable expiry date never counts as valid.
	malformed := FarmCertification{ExpiryDate: "soon"}
	assert.False(t, malformed.IsValid(now))
}

func TestWarehouseZoneUtilizationPercent(t *testing.T) {
	z := WarehouseZone{CapacityCubicMeters: 200, CurrentStockLevel: 50}
	assert.InDelta(t, 25.0, z.UtilizationPercent(), 0.001)

	// Zero capacity must not divide by zero.
	empty := WarehouseZone{CapacityCubicMeters: 0, CurrentStockLevel: 10}
	assert.Zero(t, empty.UtilizationPercent())
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: domain.RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: domain.RoleFarmer, IsStaff: true}).IsAdmin())
	assert.False(t, (&User{Role: domain.RoleConsumer}).IsAdmin())
}
