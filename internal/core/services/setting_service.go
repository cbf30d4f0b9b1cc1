package services

import (
	"context"
	"strconv"
	"strings"

	"coopwelfare/internal/adapters/persistence/models"
	"coopwelfare/internal/adapters/persistence/repositories"
	"coopwelfare/internal/core/domain"

	"github.com/shopspring/decimal"
)

// SettingService manages runtime tunables
type SettingService struct {
	settings repositories.SettingRepository
}

// NewSettingService creates a new setting service
func NewSettingService(settings repositories.SettingRepository) *SettingService {
	return &SettingService{settings: settings}
}

// List returns all settings
func (s *SettingService) List(ctx context.Context) ([]*models.Setting, error) {
	return s.settings.List(ctx)
}

// Get fetches one setting by key
func (s *SettingService) Get(ctx context.Context, key string) (*models.Setting, error) {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, domain.ErrNotFound
	}
	return setting, nil
}

// Update validates the value against the declared type and stores it
func (s *SettingService) Update(ctx context.Context, key, value, valueType string) (*models.Setting, error) {
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return nil, domain.ErrInvalidInput
	}

	switch valueType {
	case models.SettingTypeInteger:
		if _, err := strconv.Atoi(value); err != nil {
			return nil, domain.ErrInvalidInput
		}
	case models.SettingTypeDecimal:
		if _, err := decimal.NewFromString(value); err != nil {
			return nil, domain.ErrInvalidInput
		}
	case models.SettingTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return nil, domain.ErrInvalidInput
		}
	case models.SettingTypeString, models.SettingTypeJSON:
	default:
		return nil, domain.ErrInvalidInput
	}

	return s.settings.Set(ctx, key, value, valueType)
}
