// Package payout implements the rules that turn an investor's transaction history into
// principal, payout eligibility, cycle returns and payout drafts.
package payout

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCycleMonths is the number of months a return accrues before it is paid out.
const DefaultCycleMonths = 4

// RateSchedule holds monthly rates as fractions of principal.
type RateSchedule struct {
	GrossMonthly    decimal.Decimal
	InvestorMonthly decimal.Decimal
	AdminMonthly    decimal.Decimal
}

// DefaultRateSchedule pays 10% a month, 8 points to the investor and 2 points as the advisory fee.
var DefaultRateSchedule = RateSchedule{
	GrossMonthly:    decimal.RequireFromString("0.10"),
	InvestorMonthly: decimal.RequireFromString("0.08"),
	AdminMonthly:    decimal.RequireFromString("0.02"),
}

// Validate checks that the investor and admin rates add up to the gross rate.
func (s RateSchedule) Validate() error {
	if !s.InvestorMonthly.Add(s.AdminMonthly).Equal(s.GrossMonthly) {
		return fmt.Errorf("rate schedule does not split evenly: %s + %s != %s",
			s.InvestorMonthly, s.AdminMonthly, s.GrossMonthly)
	}
	return nil
}

// Return is the split of one cycle's return.
type Return struct {
	GrossReturn   decimal.Decimal
	InvestorShare decimal.Decimal
	AdminFee      decimal.Decimal
	CycleMonths   int
}

// ComputeReturn applies the schedule to netPrincipal over cycleMonths.
// Zero and negative principal produce zero and negative returns.
func (s RateSchedule) ComputeReturn(netPrincipal decimal.Decimal, cycleMonths int) Return {
	months := decimal.NewFromInt(int64(cycleMonths))
	return Return{
		GrossReturn:   netPrincipal.Mul(s.GrossMonthly).Mul(months),
		InvestorShare: netPrincipal.Mul(s.InvestorMonthly).Mul(months),
		AdminFee:      netPrincipal.Mul(s.AdminMonthly).Mul(months),
		CycleMonths:   cycleMonths,
	}
}

// ComputeReturn applies DefaultRateSchedule.
func ComputeReturn(netPrincipal decimal.Decimal, cycleMonths int) Return {
	return DefaultRateSchedule.ComputeReturn(netPrincipal, cycleMonths)
}
