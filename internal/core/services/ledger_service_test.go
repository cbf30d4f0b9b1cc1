package services

import (
	"context"
	"testing"
	"time"

	"coopwelfare/internal/adapters/persistence/models"
)

func TestLedgerSummary(t *testing.T) {
	ledger := newMemLedgerRepo()
	service := NewLedgerService(ledger)

	entries := []*models.FundLedger{
		{ReferenceType: models.ReferenceContribution, ReferenceID: 1, Type: models.LedgerTypeInflow, Amount: mustDecimal(t, "1000.00"), TransactionDate: time.Now()},
		{ReferenceType: models.ReferenceLoanRepayment, ReferenceID: 1, Type: models.LedgerTypeInflow, Amount: mustDecimal(t, "500.00"), TransactionDate: time.Now()},
		{ReferenceType: models.ReferenceLoan, ReferenceID: 1, Type: models.LedgerTypeOutflow, Amount: mustDecimal(t, "900.00"), TransactionDate: time.Now()},
	}
	for _, e := range entries {
		if err := ledger.Create(context.Background(), e); err != nil {
			t.Fatalf("seed ledger: %v", err)
		}
	}

	summary, err := service.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if want := mustDecimal(t, "1500.00"); !summary.TotalInflow.Equal(want) {
		t.Errorf("total inflow = %s, want %s", summary.TotalInflow, want)
	}
	if want := mustDecimal(t, "900.00"); !summary.TotalOutflow.Equal(want) {
		t.Errorf("total outflow = %s, want %s", summary.TotalOutflow, want)
	}
	if want := mustDecimal(t, "600.00"); !summary.NetBalance.Equal(want) {
		t.Errorf("net balance = %s, want %s", summary.NetBalance, want)
	}
}

func TestLedgerListByReference(t *testing.T) {
	ledger := newMemLedgerRepo()
	service := NewLedgerService(ledger)

	for _, e := range []*models.FundLedger{
		{ReferenceType: models.ReferenceLoan, ReferenceID: 5, Type: models.LedgerTypeOutflow, Amount: mustDecimal(t, "100.00")},
		{ReferenceType: models.ReferenceLoan, ReferenceID: 6, Type: models.LedgerTypeOutflow, Amount: mustDecimal(t, "200.00")},
	} {
		if err := ledger.Create(context.Background(), e); err != nil {
			t.Fatalf("seed ledger: %v", err)
		}
	}

	entries, err := service.ListByReference(context.Background(), models.ReferenceLoan, 5)
	if err != nil {
		t.Fatalf("ListByReference() error = %v", err)
	}
	if len(entries) != 1 || entries[0].ReferenceID != 5 {
		t.Errorf("entries = %v, want one entry for loan 5", entries)
	}
}
