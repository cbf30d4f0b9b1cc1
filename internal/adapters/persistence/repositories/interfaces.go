package repositories

import (
	"context"
	"time"

	"coopwelfare/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
)

// MemberRepository defines member data access
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByRegistrationNo(ctx context.Context, regNo string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Member, error)
}

// DependentRepository defines dependent data access
type DependentRepository interface {
	Create(ctx context.Context, dependent *models.Dependent) error
	GetByID(ctx context.Context, id uint) (*models.Dependent, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.Dependent, error)
	Update(ctx context.Context, dependent *models.Dependent) error
	Delete(ctx context.Context, id uint) error
}

// ContributionPlanRepository defines contribution plan data access
type ContributionPlanRepository interface {
	Create(ctx context.Context, plan *models.ContributionPlan) error
	GetByID(ctx context.Context, id uint) (*models.ContributionPlan, error)
	ListActive(ctx context.Context) ([]*models.ContributionPlan, error)
}

// ContributionRepository defines contribution data access
type ContributionRepository interface {
	Create(ctx context.Context, contribution *models.Contribution) error
	GetByID(ctx context.Context, id uint) (*models.Contribution, error)
	Update(ctx context.Context, contribution *models.Contribution) error
	ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.Contribution, int64, error)
	ListByStatuses(ctx context.Context, statuses []string, offset, limit int) ([]*models.Contribution, int64, error)
	// ExistsByPaymentRef checks the payment reference across all
	// non-deleted contributions, regardless of member.
	ExistsByPaymentRef(ctx context.Context, paymentRef string) (bool, error)
	// ExistsSimilar looks for another contribution with the same
	// member, amount and payment date inside the ±windowDays range.
	ExistsSimilar(ctx context.Context, memberID uint, amount decimal.Decimal, paymentDate time.Time, windowDays int) (bool, error)
	// HasApprovedSince reports whether the member has any approved or
	// paid contribution dated on or after since.
	HasApprovedSince(ctx context.Context, memberID uint, since time.Time) (bool, error)
}

// LoanRepository defines loan data access
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)
	// ListOverdue returns disbursed loans whose due date has passed.
	ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error)
}

// LoanRepaymentRepository defines loan repayment data access
type LoanRepaymentRepository interface {
	Create(ctx context.Context, repayment *models.LoanRepayment) error
	ListByLoan(ctx context.Context, loanID uint) ([]*models.LoanRepayment, error)
	// SumByLoan totals all non-deleted repayments for the loan.
	SumByLoan(ctx context.Context, loanID uint) (decimal.Decimal, error)
}

// LedgerRepository defines fund ledger data access. The ledger is
// append-only: no update or delete methods exist.
type LedgerRepository interface {
	Create(ctx context.Context, entry *models.FundLedger) error
	List(ctx context.Context, offset, limit int) ([]*models.FundLedger, int64, error)
	ListByReference(ctx context.Context, referenceType string, referenceID uint) ([]*models.FundLedger, error)
	TotalByType(ctx context.Context, ledgerType string) (decimal.Decimal, error)
}

// SettingRepository defines settings data access
type SettingRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	GetInt(ctx context.Context, key string, def int) (int, error)
	GetDecimal(ctx context.Context, key string, def decimal.Decimal) (decimal.Decimal, error)
	Set(ctx context.Context, key, value, valueType string) (*models.Setting, error)
	List(ctx context.Context) ([]*models.Setting, error)
}

// UserRepository defines user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
}

// RefreshTokenRepository defines refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}
