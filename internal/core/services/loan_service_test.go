package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"coopwelfare/internal/adapters/persistence/models"
	"coopwelfare/internal/core/domain"

	"github.com/shopspring/decimal"
)

type loanFixture struct {
	service    *LoanService
	loans      *memLoanRepo
	repayments *memRepaymentRepo
	ledger     *memLedgerRepo
	receipts   *memReceiptStore
	memberID   uint
}

func newLoanFixture(t *testing.T) *loanFixture {
	t.Helper()

	members := newMemMemberRepo()
	loans := newMemLoanRepo()
	repayments := newMemRepaymentRepo()
	ledger := newMemLedgerRepo()
	receipts := &memReceiptStore{}

	tx := &memTxManager{
		contributions: newMemContributionRepo(),
		loans:         loans,
		repayments:    repayments,
		ledger:        ledger,
	}

	member := &models.Member{
		FirstName:        "Ngozi",
		LastName:         "Eze",
		Status:           models.MemberStatusActive,
		RegistrationDate: time.Now().AddDate(-2, 0, 0),
	}
	if err := members.Create(context.Background(), member); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	service := NewLoanService(loans, repayments, members, tx, receipts, NewNotificationService())

	return &loanFixture{
		service:    service,
		loans:      loans,
		repayments: repayments,
		ledger:     ledger,
		receipts:   receipts,
		memberID:   member.ID,
	}
}

func (f *loanFixture) apply(t *testing.T, amount string) *models.Loan {
	t.Helper()
	months := 6
	loan, err := f.service.Apply(context.Background(), ApplyLoanInput{
		MemberID:              f.memberID,
		Amount:                decimal.RequireFromString(amount),
		Purpose:               "School fees",
		RepaymentPeriodMonths: &months,
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	return loan
}

func (f *loanFixture) approve(t *testing.T, loanID uint) *models.Loan {
	t.Helper()
	loan, err := f.service.Approve(context.Background(), ApproveLoanInput{LoanID: loanID, ApprovedBy: 3})
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	return loan
}

func (f *loanFixture) disburse(t *testing.T, loanID uint) *models.Loan {
	t.Helper()
	loan, err := f.service.Disburse(context.Background(), DisburseLoanInput{LoanID: loanID, DisbursedBy: 3})
	if err != nil {
		t.Fatalf("Disburse() error = %v", err)
	}
	return loan
}

func TestLoanApply(t *testing.T) {
	f := newLoanFixture(t)

	loan := f.apply(t, "50000.00")
	if loan.Status != models.LoanStatusPending {
		t.Errorf("status = %q, want pending", loan.Status)
	}

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := f.service.Apply(context.Background(), ApplyLoanInput{
			MemberID: f.memberID,
			Amount:   decimal.Zero,
		})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Apply() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rejects unknown member", func(t *testing.T) {
		_, err := f.service.Apply(context.Background(), ApplyLoanInput{
			MemberID: 999,
			Amount:   decimal.RequireFromString("1000"),
		})
		if !errors.Is(err, domain.ErrMemberNotFound) {
			t.Errorf("Apply() error = %v, want ErrMemberNotFound", err)
		}
	})
}

func TestLoanApprove(t *testing.T) {
	t.Run("defaults approved amount to requested amount", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")

		approved := f.approve(t, loan.ID)
		if approved.Status != models.LoanStatusApproved {
			t.Errorf("status = %q, want approved", approved.Status)
		}
		if approved.ApprovedAmount == nil || !approved.ApprovedAmount.Equal(loan.Amount) {
			t.Errorf("approved amount = %v, want %s", approved.ApprovedAmount, loan.Amount)
		}
	})

	t.Run("interest rate defaults to zero", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")

		approved := f.approve(t, loan.ID)
		if !approved.InterestRate.IsZero() {
			t.Errorf("interest rate = %s, want 0", approved.InterestRate)
		}
	})

	t.Run("sets repayment terms on approval", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")

		months := 12
		due := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
		rate := decimal.RequireFromString("5.00")
		approved, err := f.service.Approve(context.Background(), ApproveLoanInput{
			LoanID:                loan.ID,
			ApprovedBy:            3,
			InterestRate:          &rate,
			RepaymentPeriodMonths: &months,
			DueDate:               &due,
		})
		if err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		if approved.RepaymentPeriodMonths == nil || *approved.RepaymentPeriodMonths != 12 {
			t.Errorf("repayment period = %v, want 12", approved.RepaymentPeriodMonths)
		}
		if approved.DueDate == nil || !approved.DueDate.Equal(due) {
			t.Errorf("due date = %v, want %s", approved.DueDate, due)
		}
		if !approved.InterestRate.Equal(rate) {
			t.Errorf("interest rate = %s, want %s", approved.InterestRate, rate)
		}

		// An explicit due date survives disbursement untouched
		disbursed := f.disburse(t, loan.ID)
		if disbursed.DueDate == nil || !disbursed.DueDate.Equal(due) {
			t.Errorf("due date after disburse = %v, want %s", disbursed.DueDate, due)
		}
	})

	t.Run("can reduce the approved amount", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")

		reduced := decimal.RequireFromString("30000.00")
		approved, err := f.service.Approve(context.Background(), ApproveLoanInput{
			LoanID:         loan.ID,
			ApprovedBy:     3,
			ApprovedAmount: &reduced,
		})
		if err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		if !approved.Principal().Equal(reduced) {
			t.Errorf("principal = %s, want %s", approved.Principal(), reduced)
		}
	})

	t.Run("only pending loans can be approved", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		f.approve(t, loan.ID)

		_, err := f.service.Approve(context.Background(), ApproveLoanInput{LoanID: loan.ID, ApprovedBy: 3})
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("Approve() error = %v, want ErrInvalidState", err)
		}
	})
}

func TestLoanDisburse(t *testing.T) {
	t.Run("records a ledger outflow for the principal", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		f.approve(t, loan.ID)

		disbursed := f.disburse(t, loan.ID)
		if disbursed.Status != models.LoanStatusDisbursed {
			t.Errorf("status = %q, want disbursed", disbursed.Status)
		}
		if disbursed.DueDate == nil {
			t.Error("due date not set from repayment period")
		}

		if len(f.ledger.entries) != 1 {
			t.Fatalf("ledger entries = %d, want 1", len(f.ledger.entries))
		}
		entry := f.ledger.entries[0]
		if entry.Type != models.LedgerTypeOutflow {
			t.Errorf("entry type = %q, want outflow", entry.Type)
		}
		if !entry.Amount.Equal(decimal.RequireFromString("50000.00")) {
			t.Errorf("entry amount = %s, want 50000.00", entry.Amount)
		}
		if want := "Loan disbursement to Ngozi Eze"; entry.Description != want {
			t.Errorf("entry description = %q, want %q", entry.Description, want)
		}
	})

	t.Run("only approved loans can be disbursed", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")

		_, err := f.service.Disburse(context.Background(), DisburseLoanInput{LoanID: loan.ID, DisbursedBy: 3})
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("Disburse() error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("ledger failure rolls the disbursement back", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		f.approve(t, loan.ID)

		f.ledger.failing = true
		if _, err := f.service.Disburse(context.Background(), DisburseLoanInput{LoanID: loan.ID, DisbursedBy: 3}); err == nil {
			t.Fatal("Disburse() error = nil, want ledger failure")
		}

		stored, _ := f.loans.GetByID(context.Background(), loan.ID)
		if stored.Status != models.LoanStatusApproved {
			t.Errorf("status after rollback = %q, want approved", stored.Status)
		}
	})
}

func TestLoanRepayment(t *testing.T) {
	t.Run("records an inflow and keeps the loan open when partial", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		f.approve(t, loan.ID)
		f.disburse(t, loan.ID)

		_, err := f.service.RecordRepayment(context.Background(), RecordRepaymentInput{
			LoanID:        loan.ID,
			Amount:        decimal.RequireFromString("20000.00"),
			PaymentDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			PaymentMethod: models.PaymentMethodCash,
			CreatedBy:     3,
		})
		if err != nil {
			t.Fatalf("RecordRepayment() error = %v", err)
		}

		stored, _ := f.loans.GetByID(context.Background(), loan.ID)
		if stored.Status != models.LoanStatusDisbursed {
			t.Errorf("status = %q, want disbursed", stored.Status)
		}

		// One outflow from disbursement, one inflow from repayment
		if len(f.ledger.entries) != 2 {
			t.Fatalf("ledger entries = %d, want 2", len(f.ledger.entries))
		}
		entry := f.ledger.entries[1]
		if entry.Type != models.LedgerTypeInflow || entry.ReferenceType != models.ReferenceLoanRepayment {
			t.Errorf("entry = %s/%s, want inflow/loan_repayment", entry.Type, entry.ReferenceType)
		}
		if want := "Loan repayment from Ngozi Eze"; entry.Description != want {
			t.Errorf("entry description = %q, want %q", entry.Description, want)
		}

		balance, err := f.service.Balance(context.Background(), loan.ID)
		if err != nil {
			t.Fatalf("Balance() error = %v", err)
		}
		if want := decimal.RequireFromString("30000.00"); !balance.Equal(want) {
			t.Errorf("balance = %s, want %s", balance, want)
		}
	})

	t.Run("full repayment closes the loan", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		f.approve(t, loan.ID)
		f.disburse(t, loan.ID)

		_, err := f.service.RecordRepayment(context.Background(), RecordRepaymentInput{
			LoanID:        loan.ID,
			Amount:        decimal.RequireFromString("50000.00"),
			PaymentDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			PaymentMethod: models.PaymentMethodTransfer,
			CreatedBy:     3,
		})
		if err != nil {
			t.Fatalf("RecordRepayment() error = %v", err)
		}

		stored, _ := f.loans.GetByID(context.Background(), loan.ID)
		if stored.Status != models.LoanStatusRepaid {
			t.Errorf("status = %q, want repaid", stored.Status)
		}
	})

	t.Run("settling a defaulted loan also closes it", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		f.approve(t, loan.ID)
		f.disburse(t, loan.ID)

		if _, err := f.service.MarkAsDefaulted(context.Background(), loan.ID, "No repayment for 6 months"); err != nil {
			t.Fatalf("MarkAsDefaulted() error = %v", err)
		}

		_, err := f.service.RecordRepayment(context.Background(), RecordRepaymentInput{
			LoanID:        loan.ID,
			Amount:        decimal.RequireFromString("50000.00"),
			PaymentDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			PaymentMethod: models.PaymentMethodTransfer,
			CreatedBy:     3,
		})
		if err != nil {
			t.Fatalf("RecordRepayment() error = %v", err)
		}

		stored, _ := f.loans.GetByID(context.Background(), loan.ID)
		if stored.Status != models.LoanStatusRepaid {
			t.Errorf("status = %q, want repaid", stored.Status)
		}
	})

	t.Run("repayments require a disbursed loan", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		f.approve(t, loan.ID)

		_, err := f.service.RecordRepayment(context.Background(), RecordRepaymentInput{
			LoanID:      loan.ID,
			Amount:      decimal.RequireFromString("1000.00"),
			PaymentDate: time.Now(),
			CreatedBy:   3,
		})
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("RecordRepayment() error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("overpayment clamps the balance at zero", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		f.approve(t, loan.ID)
		f.disburse(t, loan.ID)

		_, err := f.service.RecordRepayment(context.Background(), RecordRepaymentInput{
			LoanID:        loan.ID,
			Amount:        decimal.RequireFromString("60000.00"),
			PaymentDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			PaymentMethod: models.PaymentMethodTransfer,
			CreatedBy:     3,
		})
		if err != nil {
			t.Fatalf("RecordRepayment() error = %v", err)
		}

		balance, err := f.service.Balance(context.Background(), loan.ID)
		if err != nil {
			t.Fatalf("Balance() error = %v", err)
		}
		if !balance.IsZero() {
			t.Errorf("balance = %s, want 0", balance)
		}
	})

	t.Run("ledger entries reference each repayment row", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		f.approve(t, loan.ID)
		f.disburse(t, loan.ID)

		first, err := f.service.RecordRepayment(context.Background(), RecordRepaymentInput{
			LoanID:        loan.ID,
			Amount:        decimal.RequireFromString("20000.00"),
			PaymentDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			PaymentMethod: models.PaymentMethodCash,
			CreatedBy:     3,
		})
		if err != nil {
			t.Fatalf("RecordRepayment() error = %v", err)
		}
		second, err := f.service.RecordRepayment(context.Background(), RecordRepaymentInput{
			LoanID:        loan.ID,
			Amount:        decimal.RequireFromString("10000.00"),
			PaymentDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			PaymentMethod: models.PaymentMethodCash,
			CreatedBy:     3,
		})
		if err != nil {
			t.Fatalf("RecordRepayment() error = %v", err)
		}

		// Entry 0 is the disbursement outflow
		if len(f.ledger.entries) != 3 {
			t.Fatalf("ledger entries = %d, want 3", len(f.ledger.entries))
		}
		if got := f.ledger.entries[1].ReferenceID; got != first.ID {
			t.Errorf("first entry reference = %s/%d, want %s/%d",
				f.ledger.entries[1].ReferenceType, got, models.ReferenceLoanRepayment, first.ID)
		}
		if got := f.ledger.entries[2].ReferenceID; got != second.ID {
			t.Errorf("second entry reference = %s/%d, want %s/%d",
				f.ledger.entries[2].ReferenceType, got, models.ReferenceLoanRepayment, second.ID)
		}
	})

	t.Run("stores the repayment receipt", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		f.approve(t, loan.ID)
		f.disburse(t, loan.ID)

		repayment, err := f.service.RecordRepayment(context.Background(), RecordRepaymentInput{
			LoanID:        loan.ID,
			Amount:        decimal.RequireFromString("20000.00"),
			PaymentDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			PaymentMethod: models.PaymentMethodTransfer,
			Receipt:       []byte("fake image"),
			ReceiptExt:    ".jpg",
			CreatedBy:     3,
		})
		if err != nil {
			t.Fatalf("RecordRepayment() error = %v", err)
		}
		if repayment.ReceiptPath == nil {
			t.Fatal("receipt path not set")
		}
		if f.receipts.saved != 1 {
			t.Errorf("receipts saved = %d, want 1", f.receipts.saved)
		}
	})

	t.Run("interest rate does not change the outstanding balance", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "50000.00")
		rate := decimal.RequireFromString("10.00")
		if _, err := f.service.Approve(context.Background(), ApproveLoanInput{
			LoanID:       loan.ID,
			ApprovedBy:   3,
			InterestRate: &rate,
		}); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		f.disburse(t, loan.ID)

		balance, err := f.service.Balance(context.Background(), loan.ID)
		if err != nil {
			t.Fatalf("Balance() error = %v", err)
		}
		if want := decimal.RequireFromString("50000.00"); !balance.Equal(want) {
			t.Errorf("balance = %s, want %s", balance, want)
		}
	})

	t.Run("repaying the reduced approved amount closes the loan", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "10000.00")
		approved := decimal.RequireFromString("8000.00")
		if _, err := f.service.Approve(context.Background(), ApproveLoanInput{
			LoanID:         loan.ID,
			ApprovedBy:     3,
			ApprovedAmount: &approved,
		}); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		f.disburse(t, loan.ID)

		_, err := f.service.RecordRepayment(context.Background(), RecordRepaymentInput{
			LoanID:        loan.ID,
			Amount:        decimal.RequireFromString("8000.00"),
			PaymentDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			PaymentMethod: models.PaymentMethodTransfer,
			CreatedBy:     3,
		})
		if err != nil {
			t.Fatalf("RecordRepayment() error = %v", err)
		}

		balance, err := f.service.Balance(context.Background(), loan.ID)
		if err != nil {
			t.Fatalf("Balance() error = %v", err)
		}
		if !balance.IsZero() {
			t.Errorf("balance = %s, want 0", balance)
		}

		stored, _ := f.loans.GetByID(context.Background(), loan.ID)
		if stored.Status != models.LoanStatusRepaid {
			t.Errorf("status = %q, want repaid", stored.Status)
		}
	})
}

func TestMarkAsDefaulted(t *testing.T) {
	f := newLoanFixture(t)
	loan := f.apply(t, "50000.00")
	f.approve(t, loan.ID)
	f.disburse(t, loan.ID)

	defaulted, err := f.service.MarkAsDefaulted(context.Background(), loan.ID, "No repayment for 6 months")
	if err != nil {
		t.Fatalf("MarkAsDefaulted() error = %v", err)
	}
	if defaulted.Status != models.LoanStatusDefaulted {
		t.Errorf("status = %q, want defaulted", defaulted.Status)
	}
	if !strings.Contains(defaulted.Remarks, "Defaulted: No repayment for 6 months") {
		t.Errorf("remarks = %q, want default reason appended", defaulted.Remarks)
	}

	t.Run("empty reason leaves remarks untouched", func(t *testing.T) {
		f := newLoanFixture(t)
		loan := f.apply(t, "2000.00")
		f.approve(t, loan.ID)
		f.disburse(t, loan.ID)

		defaulted, err := f.service.MarkAsDefaulted(context.Background(), loan.ID, "  ")
		if err != nil {
			t.Fatalf("MarkAsDefaulted() error = %v", err)
		}
		if defaulted.Status != models.LoanStatusDefaulted {
			t.Errorf("status = %q, want defaulted", defaulted.Status)
		}
		if strings.Contains(defaulted.Remarks, "Defaulted:") {
			t.Errorf("remarks = %q, want no default suffix", defaulted.Remarks)
		}
	})

	t.Run("only disbursed loans can default", func(t *testing.T) {
		pending := f.apply(t, "1000.00")
		_, err := f.service.MarkAsDefaulted(context.Background(), pending.ID, "reason")
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("MarkAsDefaulted() error = %v, want ErrInvalidState", err)
		}
	})
}
