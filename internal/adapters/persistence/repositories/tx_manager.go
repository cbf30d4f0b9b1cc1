package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos bundles the repositories a money-moving operation may touch,
// all bound to the same database transaction.
type TxRepos struct {
	Contributions ContributionRepository
	Loans         LoanRepository
	Repayments    LoanRepaymentRepository
	Ledger        LedgerRepository
}

// TxManager runs a function inside a single database transaction. Any
// error returned by fn rolls back every write made through the TxRepos
// and is propagated to the caller unchanged.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(r *TxRepos) error) error
}

// gormTxManager implements TxManager on a GORM connection
type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) WithinTransaction(ctx context.Context, fn func(r *TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TxRepos{
			Contributions: NewContributionRepository(tx),
			Loans:         NewLoanRepository(tx),
			Repayments:    NewLoanRepaymentRepository(tx),
			Ledger:        NewLedgerRepository(tx),
		})
	})
}
