package services

import (
	"context"
	"errors"
	"testing"

	"coopwelfare/internal/adapters/persistence/models"
	"coopwelfare/internal/core/domain"
)

func TestSettingUpdate(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		valueType string
		wantErr   bool
	}{
		{"valid integer", "45", models.SettingTypeInteger, false},
		{"invalid integer", "forty five", models.SettingTypeInteger, true},
		{"valid decimal", "7.50", models.SettingTypeDecimal, false},
		{"invalid decimal", "7,50", models.SettingTypeDecimal, true},
		{"valid boolean", "true", models.SettingTypeBoolean, false},
		{"invalid boolean", "yes please", models.SettingTypeBoolean, true},
		{"plain string", "anything", models.SettingTypeString, false},
		{"unknown type", "x", "mystery", true},
		{"blank value", "   ", models.SettingTypeString, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingService(newMemSettingRepo())

			_, err := service.Update(context.Background(), "some_key", tt.value, tt.valueType)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Errorf("Update() error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Update() error = %v", err)
			}
		})
	}
}

func TestSettingGet(t *testing.T) {
	repo := newMemSettingRepo()
	repo.Set(context.Background(), models.SettingEligibilityWaitDays, "30", models.SettingTypeInteger)
	service := NewSettingService(repo)

	setting, err := service.Get(context.Background(), models.SettingEligibilityWaitDays)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if setting.Value != "30" {
		t.Errorf("value = %q, want 30", setting.Value)
	}

	if _, err := service.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}
