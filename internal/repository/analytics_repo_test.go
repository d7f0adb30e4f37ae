package repository

import (
	"testing"
	"time"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertSnapshotReplacesSameDate(t *testing.T) {
	repo := NewAnalyticsRepository(setupTestDB(t))

	first := &models.AnalyticsSnapshot{Date: "2026-08-25", TotalUsers: 10, APIRequests: 100}
	require.NoError(t, repo.UpsertSnapshot(first))

	second := &models.AnalyticsSnapshot{Date: "2026-08-25", TotalUsers: 12, APIRequests: 140}
	require.NoError(t, repo.UpsertSnapshot(second))

	list, total, err := repo.ListSnapshots("", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, int64(12), list[0].TotalUsers)
	assert.Equal(t, int64(140), list[0].APIRequests)
}

func TestComputeTotalsCountsDeliveredRevenueOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalyticsRepository(db)

	buyer := seedUser(t, db, "buyer", domain.RoleConsumer)
	farmer := seedUser(t, db, "farmer", domain.RoleFarmer)
	seedProduct(t, db, farmer.ID, "Beans")

	require.NoError(t, db.Create(&models.Order{OrderNumber: "ORD-1", BuyerID: buyer.ID, TotalAmount: 500, Status: domain.OrderDelivered}).Error)
	require.NoError(t, db.Create(&models.Order{OrderNumber: "ORD-2", BuyerID: buyer.ID, TotalAmount: 300, Status: domain.OrderCancelled}).Error)

	s, err := repo.ComputeTotals(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.TotalUsers)
	assert.Equal(t, int64(2), s.TotalOrders)
	assert.Equal(t, int64(1), s.TotalProducts)
	assert.Equal(t, 500.0, s.TotalRevenue)
	assert.InDelta(t, 0.5, s.ConversionRate, 0.001)
}

func TestListSnapshotsDateRange(t *testing.T) {
	repo := NewAnalyticsRepository(setupTestDB(t))
	for _, d := range []string{"2026-08-01", "2026-08-10", "2026-08-20"} {
		require.NoError(t, repo.UpsertSnapshot(&models.AnalyticsSnapshot{Date: d}))
	}

	list, total, err := repo.ListSnapshots("2026-08-05", "2026-08-15", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "2026-08-10", list[0].Date)
}
