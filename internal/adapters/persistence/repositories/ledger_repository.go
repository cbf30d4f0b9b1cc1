package repositories

import (
	"context"

	"coopwelfare/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ledgerRepository implements LedgerRepository
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new fund ledger repository
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *models.FundLedger) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) List(ctx context.Context, offset, limit int) ([]*models.FundLedger, int64, error) {
	var entries []*models.FundLedger
	var total int64

	r.db.WithContext(ctx).Model(&models.FundLedger{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Creator").
		Order("transaction_date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error

	return entries, total, err
}

func (r *ledgerRepository) ListByReference(ctx context.Context, referenceType string, referenceID uint) ([]*models.FundLedger, error) {
	var entries []*models.FundLedger
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) TotalByType(ctx context.Context, ledgerType string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.FundLedger{}).
		Where("type = ?", ledgerType).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
