package repositories

import (
	"context"
	"errors"

	"coopwelfare/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// settingRepository implements SettingRepository
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get fetches a setting by key, returning nil without an error when
// the key does not exist.
func (r *settingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).
		Where("`key` = ?", key).
		First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// GetInt reads an integer setting, returning def when the key is
// missing or not parseable. The value is read fresh on every call so
// runtime changes take effect immediately.
func (r *settingRepository) GetInt(ctx context.Context, key string, def int) (int, error) {
	setting, err := r.Get(ctx, key)
	if err != nil {
		return def, err
	}
	if setting == nil {
		return def, nil
	}
	return setting.Int(def), nil
}

// GetDecimal reads a decimal setting with the same fallback rules as
// GetInt.
func (r *settingRepository) GetDecimal(ctx context.Context, key string, def decimal.Decimal) (decimal.Decimal, error) {
	setting, err := r.Get(ctx, key)
	if err != nil {
		return def, err
	}
	if setting == nil {
		return def, nil
	}
	return setting.Decimal(def), nil
}

// Set creates or updates a setting value
func (r *settingRepository) Set(ctx context.Context, key, value, valueType string) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).
		Where("`key` = ?", key).
		First(&setting).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		setting = models.Setting{Key: key, Value: value, Type: valueType}
		if err := r.db.WithContext(ctx).Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}

	setting.Value = value
	setting.Type = valueType
	if err := r.db.WithContext(ctx).Save(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) List(ctx context.Context) ([]*models.Setting, error) {
	var settings []*models.Setting
	err := r.db.WithContext(ctx).
		Order("`group` ASC, `key` ASC").
		Find(&settings).Error
	return settings, err
}
