package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/repository"
	"trellone-sync/internal/response"
)

func newPreferenceServiceForTest(t *testing.T) PreferenceService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.UIPreference{}))
	return NewPreferenceService(repository.NewPreferenceRepository(db), nil)
}

func TestPreferenceService_DefaultsToFalse(t *testing.T) {
	svc := newPreferenceServiceForTest(t)

	all, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		domain.PreferenceWorkspaceDrawerOpen: false,
		domain.PreferenceBoardDrawerOpen:     false,
	}, all)
}

func TestPreferenceService_SetAndGet(t *testing.T) {
	svc := newPreferenceServiceForTest(t)
	ctx := context.Background()

	require.NoError(t, svc.SetBool(ctx, domain.PreferenceBoardDrawerOpen, true))

	v, err := svc.GetBool(ctx, domain.PreferenceBoardDrawerOpen)
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, svc.SetAll(ctx, map[string]bool{
		domain.PreferenceBoardDrawerOpen:     false,
		domain.PreferenceWorkspaceDrawerOpen: true,
	}))

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.False(t, all[domain.PreferenceBoardDrawerOpen])
	assert.True(t, all[domain.PreferenceWorkspaceDrawerOpen])
}

func TestPreferenceService_UnknownKey(t *testing.T) {
	svc := newPreferenceServiceForTest(t)
	ctx := context.Background()

	err := svc.SetBool(ctx, "theme", true)
	assert.Equal(t, response.ErrCodeValidation, response.CodeOf(err))

	// Nothing is written when any key is unknown
	err = svc.SetAll(ctx, map[string]bool{domain.PreferenceBoardDrawerOpen: true, "theme": true})
	require.Error(t, err)
	v, err := svc.GetBool(ctx, domain.PreferenceBoardDrawerOpen)
	require.NoError(t, err)
	assert.False(t, v)
}

type failingPreferenceRepo struct{}

func (failingPreferenceRepo) Find(context.Context, string) (*domain.UIPreference, error) {
	return nil, errors.New("disk I/O error")
}
func (failingPreferenceRepo) FindAll(context.Context) ([]*domain.UIPreference, error) {
	return []*domain.UIPreference{{Key: domain.PreferenceBoardDrawerOpen, Value: datatypes.JSON(`"oops"`)}}, nil
}
func (failingPreferenceRepo) Upsert(context.Context, *domain.UIPreference) error {
	return errors.New("disk I/O error")
}
func (failingPreferenceRepo) Delete(context.Context, string) error { return nil }

func TestPreferenceService_RepositoryErrors(t *testing.T) {
	svc := NewPreferenceService(failingPreferenceRepo{}, nil)
	ctx := context.Background()

	_, err := svc.GetBool(ctx, domain.PreferenceBoardDrawerOpen)
	assert.Equal(t, response.ErrCodeInternal, response.CodeOf(err))

	err = svc.SetBool(ctx, domain.PreferenceBoardDrawerOpen, true)
	assert.Equal(t, response.ErrCodeInternal, response.CodeOf(err))

	// Malformed values are skipped
	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.False(t, all[domain.PreferenceBoardDrawerOpen])
}
