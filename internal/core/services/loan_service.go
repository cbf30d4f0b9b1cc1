package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coopwelfare/internal/adapters/persistence/models"
	"coopwelfare/internal/adapters/persistence/repositories"
	"coopwelfare/internal/core/domain"
	"coopwelfare/internal/pkg/storage"

	"github.com/shopspring/decimal"
)

// ApplyLoanInput carries a member's loan application
type ApplyLoanInput struct {
	MemberID              uint
	Amount                decimal.Decimal
	Purpose               string
	RepaymentPeriodMonths *int
}

// ApproveLoanInput carries an approval decision
type ApproveLoanInput struct {
	LoanID                uint
	ApprovedBy            uint
	ApprovedAmount        *decimal.Decimal
	InterestRate          *decimal.Decimal
	RepaymentPeriodMonths *int
	DueDate               *time.Time
	Remarks               string
}

// DisburseLoanInput carries a disbursement
type DisburseLoanInput struct {
	LoanID        uint
	DisbursedBy   uint
	DisbursedDate time.Time
}

// RecordRepaymentInput carries a repayment against a disbursed loan
type RecordRepaymentInput struct {
	LoanID        uint
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentMethod string
	PaymentRef    *string
	Notes         string
	Receipt       []byte
	ReceiptExt    string
	CreatedBy     uint
}

// LoanService handles the loan lifecycle
type LoanService struct {
	loans      repositories.LoanRepository
	repayments repositories.LoanRepaymentRepository
	members    repositories.MemberRepository
	txManager  repositories.TxManager
	receipts   storage.ReceiptStore
	notifier   *NotificationService
}

// NewLoanService creates a new loan service
func NewLoanService(
	loans repositories.LoanRepository,
	repayments repositories.LoanRepaymentRepository,
	members repositories.MemberRepository,
	txManager repositories.TxManager,
	receipts storage.ReceiptStore,
	notifier *NotificationService,
) *LoanService {
	return &LoanService{
		loans:      loans,
		repayments: repayments,
		members:    members,
		txManager:  txManager,
		receipts:   receipts,
		notifier:   notifier,
	}
}

// Apply creates a pending loan application
func (s *LoanService) Apply(ctx context.Context, input ApplyLoanInput) (*models.Loan, error) {
	member, err := s.members.GetByID(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	loan := &models.Loan{
		MemberID:              input.MemberID,
		Amount:                input.Amount,
		Status:                models.LoanStatusPending,
		Purpose:               input.Purpose,
		RepaymentPeriodMonths: input.RepaymentPeriodMonths,
	}

	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// Approve approves a pending loan. The approved amount defaults to the
// requested amount and the interest rate to zero. Repayment terms may
// be set or revised as part of the approval.
func (s *LoanService) Approve(ctx context.Context, input ApproveLoanInput) (*models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, domain.ErrLoanNotFound
	}

	if !loan.IsPending() {
		return nil, domain.ErrInvalidState
	}

	approvedAmount := loan.Amount
	if input.ApprovedAmount != nil {
		if input.ApprovedAmount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		approvedAmount = *input.ApprovedAmount
	}

	interestRate := decimal.Zero
	if input.InterestRate != nil {
		interestRate = *input.InterestRate
	}

	now := time.Now()
	loan.Status = models.LoanStatusApproved
	loan.ApprovedAmount = &approvedAmount
	loan.InterestRate = interestRate
	loan.ApprovedBy = &input.ApprovedBy
	loan.ApprovedAt = &now
	if input.RepaymentPeriodMonths != nil {
		loan.RepaymentPeriodMonths = input.RepaymentPeriodMonths
	}
	if input.DueDate != nil {
		loan.DueDate = input.DueDate
	}
	if input.Remarks != "" {
		loan.Remarks = input.Remarks
	}

	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.notifier.LoanApproved(loan)
	return loan, nil
}

// Disburse pays out an approved loan. The fund ledger outflow is
// written in the same transaction as the status change.
func (s *LoanService) Disburse(ctx context.Context, input DisburseLoanInput) (*models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, domain.ErrLoanNotFound
	}

	if loan.Status != models.LoanStatusApproved {
		return nil, domain.ErrInvalidState
	}

	member, err := s.members.GetByID(ctx, loan.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	now := time.Now()
	disbursedDate := input.DisbursedDate
	if disbursedDate.IsZero() {
		disbursedDate = now
	}

	loan.Status = models.LoanStatusDisbursed
	loan.DisbursedBy = &input.DisbursedBy
	loan.DisbursedAt = &now
	loan.DisbursedDate = &disbursedDate
	// A due date fixed at approval wins over the derived one
	if loan.DueDate == nil && loan.RepaymentPeriodMonths != nil {
		due := disbursedDate.AddDate(0, *loan.RepaymentPeriodMonths, 0)
		loan.DueDate = &due
	}

	err = s.txManager.WithinTransaction(ctx, func(r *repositories.TxRepos) error {
		if err := r.Loans.Update(ctx, loan); err != nil {
			return err
		}

		entry := &models.FundLedger{
			ReferenceType:   models.ReferenceLoan,
			ReferenceID:     loan.ID,
			Type:            models.LedgerTypeOutflow,
			Amount:          loan.Principal(),
			Description:     fmt.Sprintf("Loan disbursement to %s", member.FullName()),
			TransactionDate: disbursedDate,
			CreatedBy:       input.DisbursedBy,
		}
		return r.Ledger.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.LoanDisbursed(loan)
	return loan, nil
}

// RecordRepayment records a repayment and its fund ledger inflow in a
// single transaction. When the outstanding balance reaches zero the
// loan moves to repaid.
func (s *LoanService) RecordRepayment(ctx context.Context, input RecordRepaymentInput) (*models.LoanRepayment, error) {
	loan, err := s.loans.GetByID(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, domain.ErrLoanNotFound
	}

	if !loan.IsDisbursed() {
		return nil, domain.ErrInvalidState
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	member, err := s.members.GetByID(ctx, loan.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	repayment := &models.LoanRepayment{
		LoanID:        loan.ID,
		Amount:        input.Amount,
		PaymentDate:   input.PaymentDate,
		PaymentMethod: input.PaymentMethod,
		PaymentRef:    input.PaymentRef,
		Notes:         input.Notes,
		CreatedBy:     input.CreatedBy,
	}

	if len(input.Receipt) > 0 {
		path, err := s.receipts.Save(input.Receipt, input.ReceiptExt)
		if err != nil {
			return nil, err
		}
		repayment.ReceiptPath = &path
	}

	err = s.txManager.WithinTransaction(ctx, func(r *repositories.TxRepos) error {
		if err := r.Repayments.Create(ctx, repayment); err != nil {
			return err
		}

		entry := &models.FundLedger{
			ReferenceType:   models.ReferenceLoanRepayment,
			ReferenceID:     repayment.ID,
			Type:            models.LedgerTypeInflow,
			Amount:          input.Amount,
			Description:     fmt.Sprintf("Loan repayment from %s", member.FullName()),
			TransactionDate: input.PaymentDate,
			CreatedBy:       input.CreatedBy,
		}
		if err := r.Ledger.Create(ctx, entry); err != nil {
			return err
		}

		repaid, err := r.Repayments.SumByLoan(ctx, loan.ID)
		if err != nil {
			return err
		}

		// The repaid transition applies whatever the prior status, so a
		// defaulted loan that is fully settled also closes out.
		if loan.Principal().Sub(repaid).LessThanOrEqual(decimal.Zero) {
			loan.Status = models.LoanStatusRepaid
			if err := r.Loans.Update(ctx, loan); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return repayment, nil
}

// MarkAsDefaulted flags an overdue loan. The reason is appended to the
// loan's remarks rather than replacing them.
func (s *LoanService) MarkAsDefaulted(ctx context.Context, loanID uint, reason string) (*models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, domain.ErrLoanNotFound
	}

	if loan.Status != models.LoanStatusDisbursed {
		return nil, domain.ErrInvalidState
	}

	loan.Status = models.LoanStatusDefaulted
	if strings.TrimSpace(reason) != "" {
		loan.Remarks = loan.Remarks + "\n\nDefaulted: " + reason
	}

	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// Balance returns the outstanding principal on a loan, recomputed from
// the repayment rows on every call.
func (s *LoanService) Balance(ctx context.Context, loanID uint) (decimal.Decimal, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return decimal.Zero, err
	}
	if loan == nil {
		return decimal.Zero, domain.ErrLoanNotFound
	}

	repaid, err := s.repayments.SumByLoan(ctx, loan.ID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := loan.Principal().Sub(repaid)
	// Overpayments never show a negative balance
	if balance.IsNegative() {
		return decimal.Zero, nil
	}
	return balance, nil
}

// GetByID fetches a single loan
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, domain.ErrLoanNotFound
	}
	return loan, nil
}

// List returns loans page by page
func (s *LoanService) List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error) {
	return s.loans.List(ctx, offset, limit)
}

// ListByMember returns all of a member's loans
func (s *LoanService) ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	return s.loans.ListByMember(ctx, memberID)
}

// ListRepayments returns the repayment history of a loan
func (s *LoanService) ListRepayments(ctx context.Context, loanID uint) ([]*models.LoanRepayment, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, domain.ErrLoanNotFound
	}
	return s.repayments.ListByLoan(ctx, loanID)
}
