package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"trellone-sync/internal/domain"
	"trellone-sync/internal/repository"
	"trellone-sync/internal/response"
)

// PreferenceKeys lists the UI flags that are persisted across sessions
var PreferenceKeys = []string{
	domain.PreferenceWorkspaceDrawerOpen,
	domain.PreferenceBoardDrawerOpen,
}

// PreferenceService reads and writes the persisted UI flags
type PreferenceService interface {
	GetAll(ctx context.Context) (map[string]bool, error)
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
	SetAll(ctx context.Context, values map[string]bool) error
}

type preferenceServiceImpl struct {
	repo   repository.PreferenceRepository
	logger *zap.Logger
}

// NewPreferenceService creates a new instance of PreferenceService
func NewPreferenceService(repo repository.PreferenceRepository, logger *zap.Logger) PreferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &preferenceServiceImpl{repo: repo, logger: logger}
}

func isPreferenceKey(key string) bool {
	for _, k := range PreferenceKeys {
		if k == key {
			return true
		}
	}
	return false
}

// GetAll returns every known flag, missing ones as false
func (s *preferenceServiceImpl) GetAll(ctx context.Context) (map[string]bool, error) {
	out := make(map[string]bool, len(PreferenceKeys))
	for _, k := range PreferenceKeys {
		out[k] = false
	}

	prefs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load preferences", err.Error())
	}
	for _, p := range prefs {
		if !isPreferenceKey(p.Key) {
			continue
		}
		var v bool
		if err := json.Unmarshal(p.Value, &v); err != nil {
			s.logger.Warn("Ignoring malformed preference", zap.String("key", p.Key), zap.Error(err))
			continue
		}
		out[p.Key] = v
	}
	return out, nil
}

func (s *preferenceServiceImpl) GetBool(ctx context.Context, key string) (bool, error) {
	if !isPreferenceKey(key) {
		return false, response.NewAppError(response.ErrCodeValidation, "Unknown preference", key)
	}

	pref, err := s.repo.Find(ctx, key)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, response.NewAppError(response.ErrCodeInternal, "Failed to load preference", err.Error())
	}

	var v bool
	if err := json.Unmarshal(pref.Value, &v); err != nil {
		return false, fmt.Errorf("decode preference %s: %w", key, err)
	}
	return v, nil
}

func (s *preferenceServiceImpl) SetBool(ctx context.Context, key string, value bool) error {
	if !isPreferenceKey(key) {
		return response.NewAppError(response.ErrCodeValidation, "Unknown preference", key)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode preference %s: %w", key, err)
	}

	if err := s.repo.Upsert(ctx, &domain.UIPreference{Key: key, Value: datatypes.JSON(raw)}); err != nil {
		s.logger.Error("Failed to save preference", zap.String("key", key), zap.Error(err))
		return response.NewAppError(response.ErrCodeInternal, "Failed to save preference", err.Error())
	}
	return nil
}

// SetAll validates every key before writing any of them
func (s *preferenceServiceImpl) SetAll(ctx context.Context, values map[string]bool) error {
	for k := range values {
		if !isPreferenceKey(k) {
			return response.NewAppError(response.ErrCodeValidation, "Unknown preference", k)
		}
	}
	for k, v := range values {
		if err := s.SetBool(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}
