package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trellone-sync/internal/domain"
)

// PreferenceRepository defines the interface for UI preference data access
type PreferenceRepository interface {
	Find(ctx context.Context, key string) (*domain.UIPreference, error)
	FindAll(ctx context.Context) ([]*domain.UIPreference, error)
	Upsert(ctx context.Context, pref *domain.UIPreference) error
	Delete(ctx context.Context, key string) error
}

type preferenceRepositoryImpl struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new instance of PreferenceRepository
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepositoryImpl{db: db}
}

// Find returns the preference stored under key, or gorm.ErrRecordNotFound
func (r *preferenceRepositoryImpl) Find(ctx context.Context, key string) (*domain.UIPreference, error) {
	var pref domain.UIPreference
	if err := r.db.WithContext(ctx).Where("pref_key = ?", key).First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepositoryImpl) FindAll(ctx context.Context) ([]*domain.UIPreference, error) {
	var prefs []*domain.UIPreference
	if err := r.db.WithContext(ctx).Order("pref_key ASC").Find(&prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

// Upsert inserts the preference or overwrites its value
func (r *preferenceRepositoryImpl) Upsert(ctx context.Context, pref *domain.UIPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pref_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(pref).Error
}

func (r *preferenceRepositoryImpl) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("pref_key = ?", key).Delete(&domain.UIPreference{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err means the record does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
