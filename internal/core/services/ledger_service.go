package services

import (
	"context"

	"coopwelfare/internal/adapters/persistence/models"
	"coopwelfare/internal/adapters/persistence/repositories"

	"github.com/shopspring/decimal"
)

// LedgerSummary aggregates the fund position
type LedgerSummary struct {
	TotalInflow  decimal.Decimal `json:"total_inflow"`
	TotalOutflow decimal.Decimal `json:"total_outflow"`
	NetBalance   decimal.Decimal `json:"net_balance"`
}

// LedgerService exposes read access to the fund ledger. All writes
// happen inside contribution and loan transactions; nothing here can
// modify an entry.
type LedgerService struct {
	ledger repositories.LedgerRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledger repositories.LedgerRepository) *LedgerService {
	return &LedgerService{ledger: ledger}
}

// List returns ledger entries page by page, newest first
func (s *LedgerService) List(ctx context.Context, offset, limit int) ([]*models.FundLedger, int64, error) {
	return s.ledger.List(ctx, offset, limit)
}

// ListByReference returns the entries tied to one source entity
func (s *LedgerService) ListByReference(ctx context.Context, referenceType string, referenceID uint) ([]*models.FundLedger, error) {
	return s.ledger.ListByReference(ctx, referenceType, referenceID)
}

// Summary totals inflows and outflows and derives the net balance
func (s *LedgerService) Summary(ctx context.Context) (*LedgerSummary, error) {
	inflow, err := s.ledger.TotalByType(ctx, models.LedgerTypeInflow)
	if err != nil {
		return nil, err
	}

	outflow, err := s.ledger.TotalByType(ctx, models.LedgerTypeOutflow)
	if err != nil {
		return nil, err
	}

	return &LedgerSummary{
		TotalInflow:  inflow,
		TotalOutflow: outflow,
		NetBalance:   inflow.Sub(outflow),
	}, nil
}
