package repositories

import (
	"context"
	"errors"
	"time"

	"coopwelfare/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// contributionPlanRepository implements ContributionPlanRepository
type contributionPlanRepository struct {
	db *gorm.DB
}

// NewContributionPlanRepository creates a new contribution plan repository
func NewContributionPlanRepository(db *gorm.DB) ContributionPlanRepository {
	return &contributionPlanRepository{db: db}
}

func (r *contributionPlanRepository) Create(ctx context.Context, plan *models.ContributionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *contributionPlanRepository) GetByID(ctx context.Context, id uint) (*models.ContributionPlan, error) {
	var plan models.ContributionPlan
	err := r.db.WithContext(ctx).First(&plan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *contributionPlanRepository) ListActive(ctx context.Context) ([]*models.ContributionPlan, error) {
	var plans []*models.ContributionPlan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&plans).Error
	return plans, err
}

// contributionRepository implements ContributionRepository
type contributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository creates a new contribution repository
func NewContributionRepository(db *gorm.DB) ContributionRepository {
	return &contributionRepository{db: db}
}

func (r *contributionRepository) Create(ctx context.Context, contribution *models.Contribution) error {
	return r.db.WithContext(ctx).Create(contribution).Error
}

// GetByID gets a contribution by ID with relations
func (r *contributionRepository) GetByID(ctx context.Context, id uint) (*models.Contribution, error) {
	var contribution models.Contribution
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Plan").
		Preload("Reviewer").
		First(&contribution, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contribution, nil
}

func (r *contributionRepository) Update(ctx context.Context, contribution *models.Contribution) error {
	return r.db.WithContext(ctx).Save(contribution).Error
}

func (r *contributionRepository) ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.Contribution, int64, error) {
	var contributions []*models.Contribution
	var total int64

	r.db.WithContext(ctx).Model(&models.Contribution{}).Where("member_id = ?", memberID).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("member_id = ?", memberID).
		Order("payment_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&contributions).Error

	return contributions, total, err
}

func (r *contributionRepository) ListByStatuses(ctx context.Context, statuses []string, offset, limit int) ([]*models.Contribution, int64, error) {
	var contributions []*models.Contribution
	var total int64

	r.db.WithContext(ctx).Model(&models.Contribution{}).Where("status IN ?", statuses).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Plan").
		Where("status IN ?", statuses).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&contributions).Error

	return contributions, total, err
}

// ExistsByPaymentRef checks payment reference uniqueness globally,
// across all members.
func (r *contributionRepository) ExistsByPaymentRef(ctx context.Context, paymentRef string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Where("payment_ref = ?", paymentRef).
		Count(&count).Error
	return count > 0, err
}

// ExistsSimilar finds a contribution for the same member with the
// same amount and payment date. The BETWEEN filter on top of the
// exact date match is redundant but kept deliberately: the window
// semantics predate the exact-match filter and narrowing the query
// would change duplicate-rejection behavior.
func (r *contributionRepository) ExistsSimilar(ctx context.Context, memberID uint, amount decimal.Decimal, paymentDate time.Time, windowDays int) (bool, error) {
	startDate := paymentDate.AddDate(0, 0, -windowDays)
	endDate := paymentDate.AddDate(0, 0, windowDays)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Where("member_id = ?", memberID).
		Where("payment_date = ?", paymentDate).
		Where("amount = ?", amount).
		Where("payment_date BETWEEN ? AND ?", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

func (r *contributionRepository) HasApprovedSince(ctx context.Context, memberID uint, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Where("member_id = ?", memberID).
		Where("status IN ?", []string{models.ContributionStatusApproved, models.ContributionStatusPaid}).
		Where("payment_date >= ?", since).
		Count(&count).Error
	return count > 0, err
}
