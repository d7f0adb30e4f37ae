package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"agriconnect/config"
	"agriconnect/internal/auth"
	"agriconnect/internal/database"
	"agriconnect/internal/domain"
	"agriconnect/internal/models"
	"agriconnect/internal/response"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type routerFixture struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	mr     *miniredis.Miniredis
}

func setupRouter(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.Load()
	cfg.Server.Env = "test"
	cfg.JWT.AccessSecret = "router-test-secret"
	cfg.JWT.RefreshSecret = "router-test-refresh"

	return &routerFixture{engine: Setup(cfg, db, rdb, nil), db: db, cfg: cfg, mr: mr}
}

func (f *routerFixture) seedUser(t *testing.T, username, role string, isStaff bool) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@agriconnect.test",
		Role:     role,
		IsStaff:  isStaff,
		IsActive: true,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *routerFixture) token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := auth.GenerateAccessToken(&f.cfg.JWT, u.ID, u.Email, u.Role, u.IsStaff)
	require.NoError(t, err)
	return tok
}

func (f *routerFixture) do(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestWarehouseManagerCanManageWarehouses(t *testing.T) {
	f := setupRouter(t)
	manager := f.seedUser(t, "wh-manager", domain.RoleWarehouseManager, false)
	tok := f.token(t, manager)

	w := f.do(http.MethodPost, "/api/v1/warehouses", tok, gin.H{
		"code":           "NKR-01",
		"name":           "Nakuru Central",
		"warehouse_type": "dry",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/api/v1/warehouses", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWarehouseWritesRejectOtherRoles(t *testing.T) {
	f := setupRouter(t)
	farmer := f.seedUser(t, "farmer-jane", domain.RoleFarmer, false)
	tok := f.token(t, farmer)

	w := f.do(http.MethodPost, "/api/v1/warehouses", tok, gin.H{
		"code":           "NKR-02",
		"name":           "Nakuru East",
		"warehouse_type": "dry",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	var body response.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodePrivilegesRequired, body.ErrorCode)

	// Reads stay open to any authenticated user.
	w = f.do(http.MethodGet, "/api/v1/warehouses", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInventoryWritesRequireWarehouseRole(t *testing.T) {
	f := setupRouter(t)
	farmer := f.seedUser(t, "farmer-joe", domain.RoleFarmer, false)

	w := f.do(http.MethodPost, "/api/v1/inventory/movements", f.token(t, farmer), gin.H{
		"movement_type":    "inbound",
		"reference_number": "GRN-1",
		"inventory_id":     1,
		"quantity":         10,
		"authorized_by_id": 1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFarmersOnlySeeTheirOwnFarms(t *testing.T) {
	f := setupRouter(t)
	alice := f.seedUser(t, "alice", domain.RoleFarmer, false)
	bob := f.seedUser(t, "bob", domain.RoleFarmer, false)
	admin := f.seedUser(t, "root", domain.RoleAdmin, true)

	require.NoError(t, f.db.Create(&models.Farm{FarmerID: alice.ID, Name: "Alice Farm", RegistrationNumber: "REG-A"}).Error)
	require.NoError(t, f.db.Create(&models.Farm{FarmerID: bob.ID, Name: "Bob Farm", RegistrationNumber: "REG-B"}).Error)

	// Asking for someone else's farms still returns only your own.
	w := f.do(http.MethodGet, "/api/v1/traceability/farms?farmer_id="+itoa(bob.ID), f.token(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data []models.Farm `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, alice.ID, page.Data[0].FarmerID)

	w = f.do(http.MethodGet, "/api/v1/traceability/farms", f.token(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)
}

func TestFarmersCannotTouchForeignFarms(t *testing.T) {
	f := setupRouter(t)
	alice := f.seedUser(t, "alice", domain.RoleFarmer, false)
	bob := f.seedUser(t, "bob", domain.RoleFarmer, false)
	farm := &models.Farm{FarmerID: bob.ID, Name: "Bob Farm", RegistrationNumber: "REG-B"}
	require.NoError(t, f.db.Create(farm).Error)

	w := f.do(http.MethodPut, "/api/v1/traceability/farms/"+itoa(farm.ID), f.token(t, alice), gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodDelete, "/api/v1/traceability/farms/"+itoa(farm.ID), f.token(t, alice), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChainManagementStaysAdminOnly(t *testing.T) {
	f := setupRouter(t)
	manager := f.seedUser(t, "wh-manager", domain.RoleWarehouseManager, false)
	admin := f.seedUser(t, "root", domain.RoleAdmin, true)

	w := f.do(http.MethodGet, "/api/v1/traceability/transactions", f.token(t, manager), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/api/v1/traceability/transactions", f.token(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminDashboardRejectsWarehouseManagers(t *testing.T) {
	f := setupRouter(t)
	manager := f.seedUser(t, "wh-manager", domain.RoleWarehouseManager, false)

	w := f.do(http.MethodGet, "/api/v1/admin-dashboard/users", f.token(t, manager), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRouteNames(t *testing.T) {
	f := setupRouter(t)
	admin := f.seedUser(t, "root", domain.RoleAdmin, true)
	target := f.seedUser(t, "demoted", domain.RoleAgent, false)
	tok := f.token(t, admin)

	w := f.do(http.MethodPatch, "/api/v1/admin-dashboard/users/"+itoa(target.ID), tok, gin.H{"is_active": false})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(http.MethodPost, "/api/v1/admin-dashboard/settings/bulk-update", tok, gin.H{
		"settings": gin.H{"general.site_name": "AgriConnect"},
	})
	assert.NotEqual(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/v1/admin-dashboard/system/health-checks/current", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/v1/admin-dashboard/analytics/dashboard", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(http.MethodPost, "/api/v1/admin-dashboard/admin/clear-cache", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLivenessReflectsDependencyHealth(t *testing.T) {
	f := setupRouter(t)

	w := f.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Contains(t, body.Services, "redis")

	// A dead Redis flips the endpoint to 503.
	f.mr.Close()
	w = f.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSystemStatusReportsRuntime(t *testing.T) {
	f := setupRouter(t)
	admin := f.seedUser(t, "root", domain.RoleAdmin, true)

	w := f.do(http.MethodGet, "/api/v1/admin-dashboard/system/status", f.token(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Uptime  string `json:"uptime"`
		Version string `json:"version"`
		Runtime struct {
			GoVersion  string `json:"go_version"`
			Goroutines int    `json:"goroutines"`
		} `json:"runtime"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Uptime)
	assert.NotEmpty(t, body.Version)
	assert.NotEmpty(t, body.Runtime.GoVersion)
	assert.Positive(t, body.Runtime.Goroutines)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
