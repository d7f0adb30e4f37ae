package repository

import (
	"testing"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type inventoryFixture struct {
	repo      *InventoryRepository
	db        *gorm.DB
	manager   *models.User
	warehouse *models.Warehouse
	zoneA     *models.WarehouseZone
	zoneB     *models.WarehouseZone
	inv       *models.WarehouseInventory
}

func setupInventory(t *testing.T, quantity float64) *inventoryFixture {
	t.Helper()
	db := setupTestDB(t)
	manager := seedUser(t, db, "wh-manager", domain.RoleWarehouseManager)
	farmer := seedUser(t, db, "farmer-jane", domain.RoleFarmer)
	product := seedProduct(t, db, farmer.ID, "Maize")
	warehouse := seedWarehouse(t, db, "NKR-01")
	zoneA := seedZone(t, db, warehouse.ID, "A1")
	zoneB := seedZone(t, db, warehouse.ID, "B1")

	repo := NewInventoryRepository(db)
	inv := &models.WarehouseInventory{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		ZoneID:      zoneA.ID,
		Quantity:    quantity,
		BatchNumber: "BATCH-001",
		IsActive:    true,
	}
	require.NoError(t, repo.Create(inv))
	return &inventoryFixture{
		repo: repo, db: db, manager: manager,
		warehouse: warehouse, zoneA: zoneA, zoneB: zoneB, inv: inv,
	}
}

func TestCreateDerivesAvailableQuantity(t *testing.T) {
	f := setupInventory(t, 100)
	assert.Equal(t, 100.0, f.inv.AvailableQuantity)
	assert.False(t, f.inv.ReceivedDate.IsZero())
}

func TestReserveHoldsStock(t *testing.T) {
	f := setupInventory(t, 100)

	inv, err := f.repo.Reserve(f.inv.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 30.0, inv.ReservedQuantity)
	assert.Equal(t, 70.0, inv.AvailableQuantity)
	assert.Equal(t, 100.0, inv.Quantity)
}

func TestReserveRejectsOverAvailable(t *testing.T) {
	f := setupInventory(t, 100)

	_, err := f.repo.Reserve(f.inv.ID, 30)
	require.NoError(t, err)

	// 70 available; asking for 71 must fail and leave the row untouched.
	_, err = f.repo.Reserve(f.inv.ID, 71)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	inv, err := f.repo.GetByID(f.inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, inv.ReservedQuantity)
	assert.Equal(t, 70.0, inv.AvailableQuantity)
}

func TestReleaseClampsAtZero(t *testing.T) {
	f := setupInventory(t, 100)

	_, err := f.repo.Reserve(f.inv.ID, 20)
	require.NoError(t, err)

	inv, err := f.repo.Release(f.inv.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 0.0, inv.ReservedQuantity)
	assert.Equal(t, 100.0, inv.AvailableQuantity)
}

func TestInspectRecordsResult(t *testing.T) {
	f := setupInventory(t, 100)

	inv, err := f.repo.Inspect(f.inv.ID, domain.QualityFair, "moisture above target", f.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QualityFair, inv.QualityStatus)
	assert.Equal(t, "moisture above target", inv.InspectionNotes)
	require.NotNil(t, inv.InspectorID)
	assert.Equal(t, f.manager.ID, *inv.InspectorID)
	assert.NotNil(t, inv.LastInspectionAt)
}

func TestInboundMovementAddsStock(t *testing.T) {
	f := setupInventory(t, 100)

	m := &models.WarehouseMovement{
		MovementType:    domain.MovementInbound,
		ReferenceNumber: "GRN-100",
		InventoryID:     f.inv.ID,
		ToZoneID:        &f.zoneA.ID,
		Quantity:        50,
		AuthorizedByID:  f.manager.ID,
		PerformedByID:   f.manager.ID,
	}
	require.NoError(t, f.repo.CreateMovement(m))

	inv, err := f.repo.GetByID(f.inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, inv.Quantity)
	assert.Equal(t, 150.0, inv.AvailableQuantity)

	var zone models.WarehouseZone
	require.NoError(t, f.db.First(&zone, f.zoneA.ID).Error)
	assert.Equal(t, 50.0, zone.CurrentStockLevel)
}

func TestOutboundMovementRejectsOverAvailable(t *testing.T) {
	f := setupInventory(t, 100)

	_, err := f.repo.Reserve(f.inv.ID, 60)
	require.NoError(t, err)

	m := &models.WarehouseMovement{
		MovementType:    domain.MovementOutbound,
		ReferenceNumber: "DSP-200",
		InventoryID:     f.inv.ID,
		FromZoneID:      &f.zoneA.ID,
		Quantity:        50, // only 40 available
		AuthorizedByID:  f.manager.ID,
		PerformedByID:   f.manager.ID,
	}
	err = f.repo.CreateMovement(m)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The failed transaction must not leave a movement row behind.
	var count int64
	f.db.Model(&models.WarehouseMovement{}).Count(&count)
	assert.Zero(t, count)

	inv, err := f.repo.GetByID(f.inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, inv.Quantity)
}

func TestMovementsRejectNonPositiveQuantity(t *testing.T) {
	f := setupInventory(t, 100)

	// A negative outbound would skip the availability check and add
	// stock instead of removing it.
	err := f.repo.CreateMovement(&models.WarehouseMovement{
		MovementType:    domain.MovementOutbound,
		ReferenceNumber: "DSP-201",
		InventoryID:     f.inv.ID,
		FromZoneID:      &f.zoneA.ID,
		Quantity:        -50,
		AuthorizedByID:  f.manager.ID,
		PerformedByID:   f.manager.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	for _, movementType := range []string{
		domain.MovementInbound,
		domain.MovementTransfer,
		domain.MovementReturn,
	} {
		err := f.repo.CreateMovement(&models.WarehouseMovement{
			MovementType:    movementType,
			ReferenceNumber: "REF-" + movementType,
			InventoryID:     f.inv.ID,
			FromZoneID:      &f.zoneA.ID,
			ToZoneID:        &f.zoneB.ID,
			Quantity:        -10,
			AuthorizedByID:  f.manager.ID,
			PerformedByID:   f.manager.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity, movementType)
	}

	// A zero adjustment is meaningless too.
	err = f.repo.CreateMovement(&models.WarehouseMovement{
		MovementType:    domain.MovementAdjustment,
		ReferenceNumber: "ADJ-401",
		InventoryID:     f.inv.ID,
		Quantity:        0,
		AuthorizedByID:  f.manager.ID,
		PerformedByID:   f.manager.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// Nothing was recorded and stock is untouched.
	var count int64
	f.db.Model(&models.WarehouseMovement{}).Count(&count)
	assert.Zero(t, count)

	inv, err := f.repo.GetByID(f.inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, inv.Quantity)
	assert.Equal(t, 100.0, inv.AvailableQuantity)
}

func TestTransferRequiresZonesInSameWarehouse(t *testing.T) {
	f := setupInventory(t, 100)
	other := seedWarehouse(t, f.db, "MSA-01")
	foreignZone := seedZone(t, f.db, other.ID, "A1")

	m := &models.WarehouseMovement{
		MovementType:    domain.MovementTransfer,
		ReferenceNumber: "TRF-300",
		InventoryID:     f.inv.ID,
		FromZoneID:      &f.zoneA.ID,
		ToZoneID:        &foreignZone.ID,
		Quantity:        10,
		AuthorizedByID:  f.manager.ID,
		PerformedByID:   f.manager.ID,
	}
	assert.ErrorIs(t, f.repo.CreateMovement(m), ErrZoneMismatch)

	// Missing zone references fail the same way.
	m2 := &models.WarehouseMovement{
		MovementType:    domain.MovementTransfer,
		ReferenceNumber: "TRF-301",
		InventoryID:     f.inv.ID,
		FromZoneID:      &f.zoneA.ID,
		Quantity:        10,
		AuthorizedByID:  f.manager.ID,
		PerformedByID:   f.manager.ID,
	}
	assert.ErrorIs(t, f.repo.CreateMovement(m2), ErrZoneMismatch)
}

func TestTransferMovesZoneStockAndRelocatesBatch(t *testing.T) {
	f := setupInventory(t, 100)

	// Put stock into zone A first.
	require.NoError(t, f.repo.CreateMovement(&models.WarehouseMovement{
		MovementType:    domain.MovementInbound,
		ReferenceNumber: "GRN-101",
		InventoryID:     f.inv.ID,
		ToZoneID:        &f.zoneA.ID,
		Quantity:        40,
		AuthorizedByID:  f.manager.ID,
		PerformedByID:   f.manager.ID,
	}))

	require.NoError(t, f.repo.CreateMovement(&models.WarehouseMovement{
		MovementType:    domain.MovementTransfer,
		ReferenceNumber: "TRF-302",
		InventoryID:     f.inv.ID,
		FromZoneID:      &f.zoneA.ID,
		ToZoneID:        &f.zoneB.ID,
		Quantity:        25,
		AuthorizedByID:  f.manager.ID,
		PerformedByID:   f.manager.ID,
	}))

	var from, to models.WarehouseZone
	require.NoError(t, f.db.First(&from, f.zoneA.ID).Error)
	require.NoError(t, f.db.First(&to, f.zoneB.ID).Error)
	assert.Equal(t, 15.0, from.CurrentStockLevel)
	assert.Equal(t, 25.0, to.CurrentStockLevel)

	inv, err := f.repo.GetByID(f.inv.ID)
	require.NoError(t, err)
	assert.Equal(t, f.zoneB.ID, inv.ZoneID)
}

func TestAdjustmentAppliesSignedDelta(t *testing.T) {
	f := setupInventory(t, 100)

	require.NoError(t, f.repo.CreateMovement(&models.WarehouseMovement{
		MovementType:    domain.MovementAdjustment,
		ReferenceNumber: "ADJ-400",
		InventoryID:     f.inv.ID,
		Quantity:        -12.5,
		AuthorizedByID:  f.manager.ID,
		PerformedByID:   f.manager.ID,
		Reason:          "stocktake variance",
	}))

	inv, err := f.repo.GetByID(f.inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 87.5, inv.Quantity)
	assert.Equal(t, 87.5, inv.AvailableQuantity)
}

func TestCompleteMovementIsIdempotent(t *testing.T) {
	f := setupInventory(t, 100)

	m := &models.WarehouseMovement{
		MovementType:    domain.MovementInbound,
		ReferenceNumber: "GRN-102",
		InventoryID:     f.inv.ID,
		Quantity:        10,
		AuthorizedByID:  f.manager.ID,
		PerformedByID:   f.manager.ID,
	}
	require.NoError(t, f.repo.CreateMovement(m))

	first, err := f.repo.CompleteMovement(m.ID)
	require.NoError(t, err)
	require.True(t, first.IsCompleted)
	require.NotNil(t, first.CompletedAt)

	second, err := f.repo.CompleteMovement(m.ID)
	require.NoError(t, err)
	assert.True(t, second.IsCompleted)
	assert.Equal(t, first.CompletedAt.Unix(), second.CompletedAt.Unix())
}
