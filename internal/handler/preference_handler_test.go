package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trellone-sync/internal/database"
	"trellone-sync/internal/domain"
	"trellone-sync/internal/dto"
	"trellone-sync/internal/repository"
	"trellone-sync/internal/response"
	"trellone-sync/internal/service"
)

func newPreferenceHandler(t *testing.T) *PreferenceHandler {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db, nil))

	svc := service.NewPreferenceService(repository.NewPreferenceRepository(db), nil)
	return NewPreferenceHandler(svc, nil)
}

func decodePreferences(t *testing.T, body []byte) map[string]bool {
	var resp struct {
		Data map[string]bool `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Data
}

func TestPreferenceHandler_RoundTrip(t *testing.T) {
	h := newPreferenceHandler(t)
	r := setupTestRouter()
	r.GET("/api/preferences", h.GetPreferences)
	r.PUT("/api/preferences", h.UpdatePreferences)

	w := doJSON(r, http.MethodGet, "/api/preferences", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{
		domain.PreferenceWorkspaceDrawerOpen: false,
		domain.PreferenceBoardDrawerOpen:     false,
	}, decodePreferences(t, w.Body.Bytes()))

	w = doJSON(r, http.MethodPut, "/api/preferences", dto.PreferencesRequest{
		Values: map[string]bool{domain.PreferenceBoardDrawerOpen: true},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodePreferences(t, w.Body.Bytes())[domain.PreferenceBoardDrawerOpen])

	w = doJSON(r, http.MethodGet, "/api/preferences", nil)
	got := decodePreferences(t, w.Body.Bytes())
	assert.True(t, got[domain.PreferenceBoardDrawerOpen])
	assert.False(t, got[domain.PreferenceWorkspaceDrawerOpen])
}

func TestPreferenceHandler_RejectsUnknownKey(t *testing.T) {
	h := newPreferenceHandler(t)
	r := setupTestRouter()
	r.PUT("/api/preferences", h.UpdatePreferences)

	w := doJSON(r, http.MethodPut, "/api/preferences", dto.PreferencesRequest{
		Values: map[string]bool{"theme.dark": true},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrCodeValidation, decodeError(t, w).Code)

	w = doJSON(r, http.MethodPut, "/api/preferences", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
