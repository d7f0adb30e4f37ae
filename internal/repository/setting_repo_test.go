package repository

import (
	"testing"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSetting(t *testing.T, repo *SettingRepository, category, key, value string, public bool) *models.SystemSetting {
	t.Helper()
	s := &models.SystemSetting{
		Category: category,
		Key:      key,
		Value:    value,
		IsActive: true,
		IsPublic: public,
	}
	require.NoError(t, repo.Create(s))
	return s
}

func TestBulkSetUpdatesAllSettings(t *testing.T) {
	repo := NewSettingRepository(setupTestDB(t))
	seedSetting(t, repo, domain.SettingGeneral, "site_name", "AgriConnect", true)
	seedSetting(t, repo, domain.SettingSecurity, "session_timeout", "30", false)

	err := repo.BulkSet([]models.SystemSetting{
		{Category: domain.SettingGeneral, Key: "site_name", Value: "AgriConnect Kenya"},
		{Category: domain.SettingSecurity, Key: "session_timeout", Value: "60"},
	}, 1)
	require.NoError(t, err)

	s, err := repo.Get(domain.SettingGeneral, "site_name")
	require.NoError(t, err)
	assert.Equal(t, "AgriConnect Kenya", s.Value)
	assert.Equal(t, uint(1), s.UpdatedByID)

	s, err = repo.Get(domain.SettingSecurity, "session_timeout")
	require.NoError(t, err)
	assert.Equal(t, "60", s.Value)
}

func TestBulkSetIsAllOrNothing(t *testing.T) {
	repo := NewSettingRepository(setupTestDB(t))
	seedSetting(t, repo, domain.SettingGeneral, "site_name", "AgriConnect", true)

	err := repo.BulkSet([]models.SystemSetting{
		{Category: domain.SettingGeneral, Key: "site_name", Value: "changed"},
		{Category: domain.SettingGeneral, Key: "does_not_exist", Value: "x"},
	}, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The valid update in the same batch must have been rolled back.
	s, err := repo.Get(domain.SettingGeneral, "site_name")
	require.NoError(t, err)
	assert.Equal(t, "AgriConnect", s.Value)
}

func TestPublicValuesOnlyExposesPublicSettings(t *testing.T) {
	repo := NewSettingRepository(setupTestDB(t))
	seedSetting(t, repo, domain.SettingGeneral, "site_name", "AgriConnect", true)
	seedSetting(t, repo, domain.SettingSecurity, "session_timeout", "30", false)
	inactive := seedSetting(t, repo, domain.SettingGeneral, "banner", "hello", true)
	require.NoError(t, repo.Update(inactive.ID, map[string]interface{}{"is_active": false}))

	values, err := repo.PublicValues()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"GENERAL.site_name": "AgriConnect"}, values)
}

func TestExportAllGroupsByCategory(t *testing.T) {
	repo := NewSettingRepository(setupTestDB(t))
	seedSetting(t, repo, domain.SettingGeneral, "site_name", "AgriConnect", true)
	seedSetting(t, repo, domain.SettingGeneral, "support_email", "help@agriconnect.com", false)
	seedSetting(t, repo, domain.SettingSecurity, "session_timeout", "30", false)

	grouped, err := repo.ExportAll()
	require.NoError(t, err)
	assert.Len(t, grouped[domain.SettingGeneral], 2)
	assert.Len(t, grouped[domain.SettingSecurity], 1)
}

func TestGetPreferencesCreatesDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingRepository(db)
	admin := seedUser(t, db, "admin", domain.RoleAdmin)

	p, err := repo.GetPreferences(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "UTC", p.Timezone)
	assert.Equal(t, "en", p.Language)
	assert.Equal(t, 25, p.ItemsPerPage)

	// Second access returns the same row, not a new one.
	again, err := repo.GetPreferences(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
}

func TestSavePreferencesUpdatesFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingRepository(db)
	admin := seedUser(t, db, "admin", domain.RoleAdmin)

	p, err := repo.SavePreferences(admin.ID, map[string]interface{}{
		"timezone":       "Africa/Nairobi",
		"items_per_page": 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "Africa/Nairobi", p.Timezone)
	assert.Equal(t, 50, p.ItemsPerPage)
}
