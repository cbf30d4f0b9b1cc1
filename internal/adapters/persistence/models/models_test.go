package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDependentAgeAt(t *testing.T) {
	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"birthday already passed this year", time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC), 10},
		{"birthday later this year", time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC), 9},
		{"birthday today", time.Date(2016, 6, 15, 0, 0, 0, 0, time.UTC), 10},
		{"born after the reference date", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Dependent{DateOfBirth: tt.dob}
			if got := d.AgeAt(at); got != tt.want {
				t.Errorf("AgeAt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMemberFullName(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		want   string
	}{
		{"all parts", Member{FirstName: "Ada", MiddleName: "Ngozi", LastName: "Obi"}, "Ada Ngozi Obi"},
		{"no middle name", Member{FirstName: "Ada", LastName: "Obi"}, "Ada Obi"},
		{"first name only", Member{FirstName: "Ada"}, "Ada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.member.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoanPrincipal(t *testing.T) {
	requested := decimal.RequireFromString("50000.00")
	granted := decimal.RequireFromString("30000.00")

	loan := Loan{Amount: requested}
	if !loan.Principal().Equal(requested) {
		t.Errorf("Principal() = %s, want requested amount %s", loan.Principal(), requested)
	}

	loan.ApprovedAmount = &granted
	if !loan.Principal().Equal(granted) {
		t.Errorf("Principal() = %s, want approved amount %s", loan.Principal(), granted)
	}
}

func TestSettingCoercion(t *testing.T) {
	t.Run("integer", func(t *testing.T) {
		s := Setting{Value: "30", Type: SettingTypeInteger}
		if got := s.Int(0); got != 30 {
			t.Errorf("Int() = %d, want 30", got)
		}
		s.Value = "not a number"
		if got := s.Int(7); got != 7 {
			t.Errorf("Int() fallback = %d, want 7", got)
		}
	})

	t.Run("decimal", func(t *testing.T) {
		s := Setting{Value: "5.00", Type: SettingTypeDecimal}
		if got := s.Decimal(decimal.Zero); !got.Equal(decimal.RequireFromString("5.00")) {
			t.Errorf("Decimal() = %s, want 5.00", got)
		}
	})

	t.Run("boolean", func(t *testing.T) {
		s := Setting{Value: "true", Type: SettingTypeBoolean}
		if !s.Bool(false) {
			t.Error("Bool() = false, want true")
		}
	})

	t.Run("typed value for unknown type falls back to string", func(t *testing.T) {
		s := Setting{Value: "hello", Type: "mystery"}
		v, err := s.TypedValue()
		if err != nil {
			t.Fatalf("TypedValue() error = %v", err)
		}
		if v != "hello" {
			t.Errorf("TypedValue() = %v, want raw string", v)
		}
	})
}

func TestContributionIsPendingReview(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{ContributionStatusSubmitted, true},
		{ContributionStatusPendingReview, true},
		{ContributionStatusApproved, false},
		{ContributionStatusRejected, false},
		{ContributionStatusPaid, false},
	}

	for _, tt := range tests {
		c := Contribution{Status: tt.status}
		if got := c.IsPendingReview(); got != tt.want {
			t.Errorf("IsPendingReview(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
