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

// DuplicateWindowDays is the range, in days either side of the payment
// date, scanned when checking for a similar contribution.
const DuplicateWindowDays = 3

// Review decisions
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// FineCalculator computes the fine for a contribution from its payment
// date and amount. The default calculator returns zero.
type FineCalculator func(paymentDate time.Time, amount decimal.Decimal) decimal.Decimal

// SubmitContributionInput carries a member's own submission
type SubmitContributionInput struct {
	MemberID      uint
	PlanID        uint
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentRef    *string
	PaymentDate   time.Time
	Receipt       []byte
	ReceiptExt    string
	ReceiptNotes  string
}

// RecordContributionInput carries a staff-recorded contribution
type RecordContributionInput struct {
	MemberID      uint
	PlanID        uint
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentRef    *string
	PaymentDate   time.Time
	RecordedBy    uint
	Receipt       []byte
	ReceiptExt    string
	ReceiptNotes  string
}

// ReviewContributionInput carries a review decision
type ReviewContributionInput struct {
	ContributionID uint
	ReviewedBy     uint
	Decision       string
	Reason         string
}

// ContributionService handles the contribution lifecycle
type ContributionService struct {
	contributions repositories.ContributionRepository
	plans         repositories.ContributionPlanRepository
	members       repositories.MemberRepository
	txManager     repositories.TxManager
	receipts      storage.ReceiptStore
	notifier      *NotificationService
	fineCalc      FineCalculator
}

// NewContributionService creates a new contribution service
func NewContributionService(
	contributions repositories.ContributionRepository,
	plans repositories.ContributionPlanRepository,
	members repositories.MemberRepository,
	txManager repositories.TxManager,
	receipts storage.ReceiptStore,
	notifier *NotificationService,
) *ContributionService {
	return &ContributionService{
		contributions: contributions,
		plans:         plans,
		members:       members,
		txManager:     txManager,
		receipts:      receipts,
		notifier:      notifier,
		fineCalc: func(time.Time, decimal.Decimal) decimal.Decimal {
			return decimal.Zero
		},
	}
}

// SetFineCalculator replaces the fine calculator. Pass nil to restore
// the zero-fine default.
func (s *ContributionService) SetFineCalculator(calc FineCalculator) {
	if calc == nil {
		calc = func(time.Time, decimal.Decimal) decimal.Decimal {
			return decimal.Zero
		}
	}
	s.fineCalc = calc
}

// Submit records a member's own contribution. It lands in
// pending_review status with no fine and no ledger entry; both are
// settled at review time.
func (s *ContributionService) Submit(ctx context.Context, input SubmitContributionInput) (*models.Contribution, error) {
	member, err := s.members.GetByID(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	plan, err := s.plans.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}

	if err := s.checkDuplicates(ctx, input.MemberID, input.Amount, input.PaymentRef, input.PaymentDate); err != nil {
		return nil, err
	}

	contribution := &models.Contribution{
		MemberID:           input.MemberID,
		ContributionPlanID: input.PlanID,
		Amount:             input.Amount,
		PaymentMethod:      input.PaymentMethod,
		PaymentRef:         input.PaymentRef,
		PaymentDate:        input.PaymentDate,
		Status:             models.ContributionStatusPendingReview,
		ReceiptNotes:       input.ReceiptNotes,
	}

	if len(input.Receipt) > 0 {
		path, err := s.receipts.Save(input.Receipt, input.ReceiptExt)
		if err != nil {
			return nil, err
		}
		contribution.ReceiptPath = &path
	}

	if err := s.contributions.Create(ctx, contribution); err != nil {
		return nil, err
	}

	return contribution, nil
}

// Record creates a contribution on behalf of a member. Staff entries
// bypass review: the contribution lands paid with its fine computed,
// and the fund ledger inflow is written in the same transaction as the
// contribution row.
func (s *ContributionService) Record(ctx context.Context, input RecordContributionInput) (*models.Contribution, error) {
	member, err := s.members.GetByID(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	plan, err := s.plans.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}

	if err := s.checkDuplicates(ctx, input.MemberID, input.Amount, input.PaymentRef, input.PaymentDate); err != nil {
		return nil, err
	}

	contribution := &models.Contribution{
		MemberID:           input.MemberID,
		ContributionPlanID: input.PlanID,
		Amount:             input.Amount,
		PaymentMethod:      input.PaymentMethod,
		PaymentRef:         input.PaymentRef,
		PaymentDate:        input.PaymentDate,
		Status:             models.ContributionStatusPaid,
		RecordedBy:         &input.RecordedBy,
		FineAmount:         s.fineCalc(input.PaymentDate, input.Amount),
		ReceiptNotes:       input.ReceiptNotes,
	}

	if len(input.Receipt) > 0 {
		path, err := s.receipts.Save(input.Receipt, input.ReceiptExt)
		if err != nil {
			return nil, err
		}
		contribution.ReceiptPath = &path
	}

	err = s.txManager.WithinTransaction(ctx, func(r *repositories.TxRepos) error {
		if err := r.Contributions.Create(ctx, contribution); err != nil {
			return err
		}

		entry := &models.FundLedger{
			ReferenceType:   models.ReferenceContribution,
			ReferenceID:     contribution.ID,
			Type:            models.LedgerTypeInflow,
			Amount:          contribution.Amount,
			Description:     fmt.Sprintf("Contribution from %s - %s", member.FullName(), plan.Name),
			TransactionDate: contribution.PaymentDate,
			CreatedBy:       input.RecordedBy,
		}
		return r.Ledger.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return contribution, nil
}

// checkDuplicates applies both duplicate rules: a globally unique
// payment reference, then a same-member same-amount same-date match.
func (s *ContributionService) checkDuplicates(ctx context.Context, memberID uint, amount decimal.Decimal, paymentRef *string, paymentDate time.Time) error {
	if paymentRef != nil && strings.TrimSpace(*paymentRef) != "" {
		exists, err := s.contributions.ExistsByPaymentRef(ctx, *paymentRef)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicatePaymentRef
		}
	}

	similar, err := s.contributions.ExistsSimilar(ctx, memberID, amount, paymentDate, DuplicateWindowDays)
	if err != nil {
		return err
	}
	if similar {
		return domain.ErrDuplicateContribution
	}

	return nil
}

// Review applies an approve or reject decision to a contribution that
// is awaiting review. Approval writes the fund ledger inflow in the
// same transaction as the status change.
func (s *ContributionService) Review(ctx context.Context, input ReviewContributionInput) (*models.Contribution, error) {
	if input.Decision != DecisionApprove && input.Decision != DecisionReject {
		return nil, domain.ErrInvalidDecision
	}

	contribution, err := s.contributions.GetByID(ctx, input.ContributionID)
	if err != nil {
		return nil, err
	}
	if contribution == nil {
		return nil, domain.ErrContributionNotFound
	}

	if !contribution.IsPendingReview() {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()

	if input.Decision == DecisionReject {
		if strings.TrimSpace(input.Reason) == "" {
			return nil, domain.ErrInvalidReason
		}

		contribution.Status = models.ContributionStatusRejected
		contribution.RejectionReason = input.Reason
		contribution.ReviewedBy = &input.ReviewedBy
		contribution.ReviewedAt = &now

		if err := s.contributions.Update(ctx, contribution); err != nil {
			return nil, err
		}

		s.notifier.ContributionReviewed(contribution)
		return contribution, nil
	}

	member, err := s.members.GetByID(ctx, contribution.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	plan, err := s.plans.GetByID(ctx, contribution.ContributionPlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}

	contribution.Status = models.ContributionStatusPaid
	contribution.ReviewedBy = &input.ReviewedBy
	contribution.ReviewedAt = &now
	contribution.FineAmount = s.fineCalc(contribution.PaymentDate, contribution.Amount)

	err = s.txManager.WithinTransaction(ctx, func(r *repositories.TxRepos) error {
		if err := r.Contributions.Update(ctx, contribution); err != nil {
			return err
		}

		entry := &models.FundLedger{
			ReferenceType:   models.ReferenceContribution,
			ReferenceID:     contribution.ID,
			Type:            models.LedgerTypeInflow,
			Amount:          contribution.Amount,
			Description:     fmt.Sprintf("Contribution from %s - %s", member.FullName(), plan.Name),
			TransactionDate: contribution.PaymentDate,
			CreatedBy:       input.ReviewedBy,
		}
		return r.Ledger.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.ContributionReviewed(contribution)
	return contribution, nil
}

// GetByID fetches a single contribution
func (s *ContributionService) GetByID(ctx context.Context, id uint) (*models.Contribution, error) {
	contribution, err := s.contributions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contribution == nil {
		return nil, domain.ErrContributionNotFound
	}
	return contribution, nil
}

// ListByMember returns a member's contribution history
func (s *ContributionService) ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.Contribution, int64, error) {
	return s.contributions.ListByMember(ctx, memberID, offset, limit)
}

// ListPendingReview returns contributions awaiting a review decision
func (s *ContributionService) ListPendingReview(ctx context.Context, offset, limit int) ([]*models.Contribution, int64, error) {
	statuses := []string{models.ContributionStatusSubmitted, models.ContributionStatusPendingReview}
	return s.contributions.ListByStatuses(ctx, statuses, offset, limit)
}

// ListPlans returns the active contribution plans
func (s *ContributionService) ListPlans(ctx context.Context) ([]*models.ContributionPlan, error) {
	return s.plans.ListActive(ctx)
}
