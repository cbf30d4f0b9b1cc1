package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"coopwelfare/internal/adapters/persistence/models"
	"coopwelfare/internal/adapters/persistence/repositories"

	"github.com/shopspring/decimal"
)

// In-memory repository fakes for service tests. IDs are assigned
// sequentially on create. The contribution and loan fakes hand out
// copies from GetByID so that, like a real database, mutations only
// reach the store through Update — which keeps the transaction
// manager's rollback snapshots untainted by in-flight edits.

type memMemberRepo struct {
	members map[uint]*models.Member
	nextID  uint
}

func newMemMemberRepo() *memMemberRepo {
	return &memMemberRepo{members: map[uint]*models.Member{}, nextID: 1}
}

func (r *memMemberRepo) Create(_ context.Context, m *models.Member) error {
	m.ID = r.nextID
	r.nextID++
	r.members[m.ID] = m
	return nil
}

func (r *memMemberRepo) GetByID(_ context.Context, id uint) (*models.Member, error) {
	return r.members[id], nil
}

func (r *memMemberRepo) GetByRegistrationNo(_ context.Context, regNo string) (*models.Member, error) {
	for _, m := range r.members {
		if m.RegistrationNo == regNo {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMemberRepo) Update(_ context.Context, m *models.Member) error {
	r.members[m.ID] = m
	return nil
}

func (r *memMemberRepo) Delete(_ context.Context, id uint) error {
	delete(r.members, id)
	return nil
}

func (r *memMemberRepo) List(_ context.Context, offset, limit int) ([]*models.Member, int64, error) {
	out := make([]*models.Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *memMemberRepo) Search(_ context.Context, query string, limit int) ([]*models.Member, error) {
	return nil, nil
}

type memDependentRepo struct {
	dependents map[uint]*models.Dependent
	nextID     uint
}

func newMemDependentRepo() *memDependentRepo {
	return &memDependentRepo{dependents: map[uint]*models.Dependent{}, nextID: 1}
}

func (r *memDependentRepo) Create(_ context.Context, d *models.Dependent) error {
	d.ID = r.nextID
	r.nextID++
	r.dependents[d.ID] = d
	return nil
}

func (r *memDependentRepo) GetByID(_ context.Context, id uint) (*models.Dependent, error) {
	return r.dependents[id], nil
}

func (r *memDependentRepo) ListByMember(_ context.Context, memberID uint) ([]*models.Dependent, error) {
	var out []*models.Dependent
	for _, d := range r.dependents {
		if d.MemberID == memberID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDependentRepo) Update(_ context.Context, d *models.Dependent) error {
	r.dependents[d.ID] = d
	return nil
}

func (r *memDependentRepo) Delete(_ context.Context, id uint) error {
	delete(r.dependents, id)
	return nil
}

type memPlanRepo struct {
	plans  map[uint]*models.ContributionPlan
	nextID uint
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: map[uint]*models.ContributionPlan{}, nextID: 1}
}

func (r *memPlanRepo) Create(_ context.Context, p *models.ContributionPlan) error {
	p.ID = r.nextID
	r.nextID++
	r.plans[p.ID] = p
	return nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id uint) (*models.ContributionPlan, error) {
	return r.plans[id], nil
}

func (r *memPlanRepo) ListActive(_ context.Context) ([]*models.ContributionPlan, error) {
	var out []*models.ContributionPlan
	for _, p := range r.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type memContributionRepo struct {
	contributions map[uint]*models.Contribution
	nextID        uint
}

func newMemContributionRepo() *memContributionRepo {
	return &memContributionRepo{contributions: map[uint]*models.Contribution{}, nextID: 1}
}

func (r *memContributionRepo) Create(_ context.Context, c *models.Contribution) error {
	c.ID = r.nextID
	r.nextID++
	r.contributions[c.ID] = c
	return nil
}

func (r *memContributionRepo) GetByID(_ context.Context, id uint) (*models.Contribution, error) {
	c, ok := r.contributions[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *memContributionRepo) Update(_ context.Context, c *models.Contribution) error {
	r.contributions[c.ID] = c
	return nil
}

func (r *memContributionRepo) ListByMember(_ context.Context, memberID uint, offset, limit int) ([]*models.Contribution, int64, error) {
	var out []*models.Contribution
	for _, c := range r.contributions {
		if c.MemberID == memberID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memContributionRepo) ListByStatuses(_ context.Context, statuses []string, offset, limit int) ([]*models.Contribution, int64, error) {
	var out []*models.Contribution
	for _, c := range r.contributions {
		for _, s := range statuses {
			if c.Status == s {
				out = append(out, c)
				break
			}
		}
	}
	return out, int64(len(out)), nil
}

func (r *memContributionRepo) ExistsByPaymentRef(_ context.Context, paymentRef string) (bool, error) {
	for _, c := range r.contributions {
		if c.PaymentRef != nil && *c.PaymentRef == paymentRef {
			return true, nil
		}
	}
	return false, nil
}

func (r *memContributionRepo) ExistsSimilar(_ context.Context, memberID uint, amount decimal.Decimal, paymentDate time.Time, windowDays int) (bool, error) {
	start := paymentDate.AddDate(0, 0, -windowDays)
	end := paymentDate.AddDate(0, 0, windowDays)
	for _, c := range r.contributions {
		if c.MemberID != memberID || !c.Amount.Equal(amount) {
			continue
		}
		if !c.PaymentDate.Equal(paymentDate) {
			continue
		}
		if c.PaymentDate.Before(start) || c.PaymentDate.After(end) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *memContributionRepo) HasApprovedSince(_ context.Context, memberID uint, since time.Time) (bool, error) {
	for _, c := range r.contributions {
		if c.MemberID == memberID && c.IsApproved() && !c.PaymentDate.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

type memLoanRepo struct {
	loans  map[uint]*models.Loan
	nextID uint
}

func newMemLoanRepo() *memLoanRepo {
	return &memLoanRepo{loans: map[uint]*models.Loan{}, nextID: 1}
}

func (r *memLoanRepo) Create(_ context.Context, l *models.Loan) error {
	l.ID = r.nextID
	r.nextID++
	r.loans[l.ID] = l
	return nil
}

func (r *memLoanRepo) GetByID(_ context.Context, id uint) (*models.Loan, error) {
	l, ok := r.loans[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (r *memLoanRepo) Update(_ context.Context, l *models.Loan) error {
	r.loans[l.ID] = l
	return nil
}

func (r *memLoanRepo) List(_ context.Context, offset, limit int) ([]*models.Loan, int64, error) {
	var out []*models.Loan
	for _, l := range r.loans {
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *memLoanRepo) ListByMember(_ context.Context, memberID uint) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, l := range r.loans {
		if l.MemberID == memberID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memLoanRepo) ListOverdue(_ context.Context, asOf time.Time) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, l := range r.loans {
		if l.Status == models.LoanStatusDisbursed && l.DueDate != nil && l.DueDate.Before(asOf) {
			out = append(out, l)
		}
	}
	return out, nil
}

type memRepaymentRepo struct {
	repayments map[uint]*models.LoanRepayment
	nextID     uint
}

func newMemRepaymentRepo() *memRepaymentRepo {
	return &memRepaymentRepo{repayments: map[uint]*models.LoanRepayment{}, nextID: 1}
}

func (r *memRepaymentRepo) Create(_ context.Context, rp *models.LoanRepayment) error {
	rp.ID = r.nextID
	r.nextID++
	r.repayments[rp.ID] = rp
	return nil
}

func (r *memRepaymentRepo) ListByLoan(_ context.Context, loanID uint) ([]*models.LoanRepayment, error) {
	var out []*models.LoanRepayment
	for _, rp := range r.repayments {
		if rp.LoanID == loanID {
			out = append(out, rp)
		}
	}
	return out, nil
}

func (r *memRepaymentRepo) SumByLoan(_ context.Context, loanID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, rp := range r.repayments {
		if rp.LoanID == loanID {
			sum = sum.Add(rp.Amount)
		}
	}
	return sum, nil
}

type memLedgerRepo struct {
	entries []*models.FundLedger
	nextID  uint
	failing bool
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{nextID: 1}
}

func (r *memLedgerRepo) Create(_ context.Context, e *models.FundLedger) error {
	if r.failing {
		return errors.New("ledger write failed")
	}
	e.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, e)
	return nil
}

func (r *memLedgerRepo) List(_ context.Context, offset, limit int) ([]*models.FundLedger, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

func (r *memLedgerRepo) ListByReference(_ context.Context, referenceType string, referenceID uint) ([]*models.FundLedger, error) {
	var out []*models.FundLedger
	for _, e := range r.entries {
		if e.ReferenceType == referenceType && e.ReferenceID == referenceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) TotalByType(_ context.Context, ledgerType string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.Type == ledgerType {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

type memSettingRepo struct {
	values map[string]*models.Setting
}

func newMemSettingRepo() *memSettingRepo {
	return &memSettingRepo{values: map[string]*models.Setting{}}
}

func (r *memSettingRepo) Get(_ context.Context, key string) (*models.Setting, error) {
	return r.values[key], nil
}

func (r *memSettingRepo) GetInt(_ context.Context, key string, def int) (int, error) {
	s, ok := r.values[key]
	if !ok {
		return def, nil
	}
	return s.Int(def), nil
}

func (r *memSettingRepo) GetDecimal(_ context.Context, key string, def decimal.Decimal) (decimal.Decimal, error) {
	s, ok := r.values[key]
	if !ok {
		return def, nil
	}
	return s.Decimal(def), nil
}

func (r *memSettingRepo) Set(_ context.Context, key, value, valueType string) (*models.Setting, error) {
	s := &models.Setting{Key: key, Value: value, Type: valueType}
	r.values[key] = s
	return s, nil
}

func (r *memSettingRepo) List(_ context.Context) ([]*models.Setting, error) {
	var out []*models.Setting
	for _, s := range r.values {
		out = append(out, s)
	}
	return out, nil
}

// memTxManager hands the shared fakes to the transaction body and
// rolls their state back when it returns an error, mimicking a real
// database rollback.
type memTxManager struct {
	contributions *memContributionRepo
	loans         *memLoanRepo
	repayments    *memRepaymentRepo
	ledger        *memLedgerRepo
}

func (m *memTxManager) WithinTransaction(_ context.Context, fn func(r *repositories.TxRepos) error) error {
	contribSnap := map[uint]*models.Contribution{}
	for id, c := range m.contributions.contributions {
		copied := *c
		contribSnap[id] = &copied
	}
	loanSnap := map[uint]*models.Loan{}
	for id, l := range m.loans.loans {
		copied := *l
		loanSnap[id] = &copied
	}
	repaySnap := map[uint]*models.LoanRepayment{}
	for id, rp := range m.repayments.repayments {
		copied := *rp
		repaySnap[id] = &copied
	}
	ledgerSnap := append([]*models.FundLedger{}, m.ledger.entries...)

	err := fn(&repositories.TxRepos{
		Contributions: m.contributions,
		Loans:         m.loans,
		Repayments:    m.repayments,
		Ledger:        m.ledger,
	})
	if err != nil {
		m.contributions.contributions = contribSnap
		m.loans.loans = loanSnap
		m.repayments.repayments = repaySnap
		m.ledger.entries = ledgerSnap
		return err
	}
	return nil
}

// memReceiptStore records saved receipts without touching disk
type memReceiptStore struct {
	saved int
}

func (s *memReceiptStore) Save(data []byte, extension string) (string, error) {
	s.saved++
	return "receipts/test" + extension, nil
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
