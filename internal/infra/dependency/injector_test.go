package dependency

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/advisory-portal/backend/config"
	"github.com/advisory-portal/backend/internal/domain/payout"
)

func TestNewInjector_RejectsUnevenRateSchedule(t *testing.T) {
	broken := payout.RateSchedule{
		GrossMonthly:    decimal.RequireFromString("0.10"),
		InvestorMonthly: decimal.RequireFromString("0.09"),
		AdminMonthly:    decimal.RequireFromString("0.02"),
	}

	injector, err := NewInjector(&config.Config{}, nil, Options{RateSchedule: &broken})
	if err == nil {
		t.Fatal("expected an error for a schedule that does not split evenly")
	}
	if injector != nil {
		t.Error("expected no injector")
	}
	if !strings.Contains(err.Error(), "invalid payout rate schedule") {
		t.Errorf("expected rate schedule error, got %v", err)
	}
}
