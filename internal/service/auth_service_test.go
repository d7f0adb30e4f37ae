package service

import (
	"testing"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewAuthService(testConfig(), repository.NewUserRepository(db), repository.NewAuditRepository(db))
	return svc, db
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc, _ := newAuthService(t)

	u, access, refresh, err := svc.Register("jane@example.com", "jane", "secret123", domain.RoleFarmer, "+254700000001", "Kenya", "Nakuru")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFarmer, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestRegisterDefaultsUnknownRoleToConsumer(t *testing.T) {
	svc, _ := newAuthService(t)

	// ADMIN cannot be self-assigned at registration.
	u, _, _, err := svc.Register("eve@example.com", "eve", "secret123", domain.RoleAdmin, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleConsumer, u.Role)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, _, err := svc.Register("jane@example.com", "jane", "secret123", domain.RoleFarmer, "", "", "")
	require.NoError(t, err)

	_, _, _, err = svc.Register("jane@example.com", "other", "secret123", domain.RoleFarmer, "", "", "")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, _, _, err = svc.Register("other@example.com", "jane", "secret123", domain.RoleFarmer, "", "", "")
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestLoginRecordsActivity(t *testing.T) {
	svc, db := newAuthService(t)
	_, _, _, err := svc.Register("jane@example.com", "jane", "secret123", domain.RoleFarmer, "", "", "")
	require.NoError(t, err)

	u, access, refresh, err := svc.Login("jane@example.com", "secret123", "203.0.113.7", "test-agent")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	var logs []models.UserActivityLog
	require.NoError(t, db.Where("user_id = ? AND activity_type = ?", u.ID, domain.ActivityLogin).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "203.0.113.7", logs[0].IPAddress)

	fresh, err := repository.NewUserRepository(db).GetByID(u.ID)
	require.NoError(t, err)
	assert.NotNil(t, fresh.LastLoginAt)
}

func TestLoginWrongPasswordLogsViolation(t *testing.T) {
	svc, db := newAuthService(t)
	_, _, _, err := svc.Register("jane@example.com", "jane", "secret123", domain.RoleFarmer, "", "", "")
	require.NoError(t, err)

	_, _, _, err = svc.Login("jane@example.com", "wrong", "203.0.113.7", "test-agent")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	var count int64
	db.Model(&models.UserActivityLog{}).Where("activity_type = ?", domain.ActivityViolation).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepeatedFailuresRaiseSecurityEvent(t *testing.T) {
	svc, db := newAuthService(t)
	u, _, _, err := svc.Register("jane@example.com", "jane", "secret123", domain.RoleFarmer, "", "", "")
	require.NoError(t, err)

	for i := 0; i < failureThreshold; i++ {
		_, _, _, err = svc.Login("jane@example.com", "wrong", "203.0.113.7", "test-agent")
		assert.ErrorIs(t, err, ErrInvalidCreds)
	}

	var events []models.UserSecurityEvent
	require.NoError(t, db.Where("event_type = ?", domain.SecurityMultipleFailures).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, u.ID, events[0].UserID)
	assert.Equal(t, domain.SeverityHigh, events[0].Severity)
	assert.Equal(t, "203.0.113.7", events[0].IPAddress)
	assert.False(t, events[0].IsResolved)
}

func TestFailuresBelowThresholdStaySilent(t *testing.T) {
	svc, db := newAuthService(t)
	_, _, _, err := svc.Register("jane@example.com", "jane", "secret123", domain.RoleFarmer, "", "", "")
	require.NoError(t, err)

	for i := 0; i < failureThreshold-1; i++ {
		_, _, _, _ = svc.Login("jane@example.com", "wrong", "203.0.113.7", "test-agent")
	}

	var count int64
	db.Model(&models.UserSecurityEvent{}).Count(&count)
	assert.Zero(t, count)
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	svc, db := newAuthService(t)
	u, _, _, err := svc.Register("jane@example.com", "jane", "secret123", domain.RoleFarmer, "", "", "")
	require.NoError(t, err)
	require.NoError(t, repository.NewUserRepository(db).Update(u.ID, map[string]interface{}{"is_active": false}))

	_, _, _, err = svc.Login("jane@example.com", "secret123", "203.0.113.7", "test-agent")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _ := newAuthService(t)
	_, _, refresh, err := svc.Register("jane@example.com", "jane", "secret123", domain.RoleFarmer, "", "", "")
	require.NoError(t, err)

	access, newRefresh, err := svc.RefreshToken(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, newRefresh)

	_, _, err = svc.RefreshToken("garbage")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, db := newAuthService(t)
	u, _, _, err := svc.Register("jane@example.com", "jane", "secret123", domain.RoleFarmer, "", "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(u.ID, "wrong", "newpass456"), ErrInvalidCreds)

	require.NoError(t, svc.ChangePassword(u.ID, "secret123", "newpass456"))
	_, _, _, err = svc.Login("jane@example.com", "newpass456", "203.0.113.7", "test-agent")
	require.NoError(t, err)

	var count int64
	db.Model(&models.UserActivityLog{}).Where("activity_type = ?", domain.ActivityPasswordChange).Count(&count)
	assert.Equal(t, int64(1), count)
}
