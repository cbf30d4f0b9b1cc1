package repositories

import (
	"context"
	"errors"
	"time"

	"coopwelfare/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// loanRepository implements LoanRepository
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with relations
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Approver").
		Preload("Disburser").
		First(&loan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

func (r *loanRepository) List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	r.db.WithContext(ctx).Model(&models.Loan{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Member").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

func (r *loanRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

// ListOverdue returns disbursed loans with a due date before asOf
func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("status = ?", models.LoanStatusDisbursed).
		Where("due_date IS NOT NULL AND due_date < ?", asOf).
		Find(&loans).Error
	return loans, err
}

// loanRepaymentRepository implements LoanRepaymentRepository
type loanRepaymentRepository struct {
	db *gorm.DB
}

// NewLoanRepaymentRepository creates a new loan repayment repository
func NewLoanRepaymentRepository(db *gorm.DB) LoanRepaymentRepository {
	return &loanRepaymentRepository{db: db}
}

func (r *loanRepaymentRepository) Create(ctx context.Context, repayment *models.LoanRepayment) error {
	return r.db.WithContext(ctx).Create(repayment).Error
}

func (r *loanRepaymentRepository) ListByLoan(ctx context.Context, loanID uint) ([]*models.LoanRepayment, error) {
	var repayments []*models.LoanRepayment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("payment_date ASC").
		Find(&repayments).Error
	return repayments, err
}

// SumByLoan totals non-deleted repayments. Soft-deleted rows are
// excluded by the default GORM scope.
func (r *loanRepaymentRepository) SumByLoan(ctx context.Context, loanID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.LoanRepayment{}).
		Where("loan_id = ?", loanID).
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
