package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agriconnect/config"
	"agriconnect/internal/auth"
	"agriconnect/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 168 * time.Hour,
		Issuer:        "agriconnect-test",
	}
}

func protectedRouter(cfg *config.JWTConfig, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	r.GET("/secure", handlers...)
	return r
}

func getWithToken(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	r := protectedRouter(testJWTConfig())

	w := getWithToken(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body response.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeAuthRequired, body.ErrorCode)
	assert.NotEmpty(t, body.Help["solution"])
}

func TestAuthRequiredRejectsBadToken(t *testing.T) {
	r := protectedRouter(testJWTConfig())
	w := getWithToken(r, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredSetsIdentity(t *testing.T) {
	cfg := testJWTConfig()
	token, err := auth.GenerateAccessToken(cfg, 42, "jane@example.com", "FARMER", false)
	require.NoError(t, err)

	r := protectedRouter(cfg)
	w := getWithToken(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestAdminRequiredRejectsNonAdmins(t *testing.T) {
	cfg := testJWTConfig()
	token, err := auth.GenerateAccessToken(cfg, 42, "jane@example.com", "FARMER", false)
	require.NoError(t, err)

	r := protectedRouter(cfg, AdminRequired())
	w := getWithToken(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body response.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodePrivilegesRequired, body.ErrorCode)
}

func TestAdminRequiredAllowsStaff(t *testing.T) {
	cfg := testJWTConfig()
	token, err := auth.GenerateAccessToken(cfg, 1, "ops@agriconnect.com", "FARMER", true)
	require.NoError(t, err)

	r := protectedRouter(cfg, AdminRequired())
	assert.Equal(t, http.StatusOK, getWithToken(r, token).Code)
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	cfg := testJWTConfig()
	r := protectedRouter(cfg, RequireRole("ADMIN", "WAREHOUSE_MANAGER"))

	token, err := auth.GenerateAccessToken(cfg, 7, "wm@example.com", "WAREHOUSE_MANAGER", false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getWithToken(r, token).Code)

	token, err = auth.GenerateAccessToken(cfg, 8, "farmer@example.com", "FARMER", false)
	require.NoError(t, err)
	w := getWithToken(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body response.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodePrivilegesRequired, body.ErrorCode)
}

func TestRequireRoleAlwaysAdmitsStaff(t *testing.T) {
	cfg := testJWTConfig()
	r := protectedRouter(cfg, RequireRole("WAREHOUSE_MANAGER"))

	token, err := auth.GenerateAccessToken(cfg, 9, "ops@agriconnect.com", "CONSUMER", true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getWithToken(r, token).Code)
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testJWTConfig()
	r := gin.New()
	r.GET("/open", OptionalAuth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)
}
