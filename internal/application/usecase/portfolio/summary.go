// Package portfolio contains the investor-facing portfolio use cases.
package portfolio

import (
	"fmt"
	"time"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	"github.com/advisory-portal/backend/internal/domain/payout"
)

// SummaryCalculator turns an investor's history into a PortfolioSummary.
// It is shared by the client portal and the back office.
type SummaryCalculator struct {
	resolver    *payout.Resolver
	schedule    payout.RateSchedule
	cycleMonths int
}

// NewSummaryCalculator creates a SummaryCalculator. A non-positive cycle falls back to payout.DefaultCycleMonths.
func NewSummaryCalculator(resolver *payout.Resolver, schedule payout.RateSchedule, cycleMonths int) *SummaryCalculator {
	if cycleMonths <= 0 {
		cycleMonths = payout.DefaultCycleMonths
	}
	return &SummaryCalculator{
		resolver:    resolver,
		schedule:    schedule,
		cycleMonths: cycleMonths,
	}
}

// CycleMonths returns the number of months a payout cycle covers.
func (c *SummaryCalculator) CycleMonths() int {
	return c.cycleMonths
}

// Schedule returns the rate schedule projections are computed with.
func (c *SummaryCalculator) Schedule() payout.RateSchedule {
	return c.schedule
}

// Resolver returns the eligibility resolver.
func (c *SummaryCalculator) Resolver() *payout.Resolver {
	return c.resolver
}

// Calculate computes the summary at asOf. Projected returns are based on commodities principal only.
func (c *SummaryCalculator) Calculate(investor *entity.User, txns []*entity.Transaction, asOf time.Time) (*adapter.PortfolioSummary, error) {
	overall, err := payout.ComputePrincipal(txns, payout.PrincipalFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to compute principal: %w", err)
	}

	commodities, err := payout.ComputePrincipal(txns, payout.ForCategory(entity.CategoryCommodities))
	if err != nil {
		return nil, fmt.Errorf("failed to compute commodities principal: %w", err)
	}

	eligibility, err := c.resolver.ResolveEligibility(investor, txns, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve eligibility: %w", err)
	}

	projected := c.schedule.ComputeReturn(commodities.NetPrincipal, c.cycleMonths)

	summary := &adapter.PortfolioSummary{
		InvestorID:              investor.ID,
		AsOf:                    asOf,
		TotalContributions:      overall.TotalContributions,
		TotalPayouts:            overall.TotalPayouts,
		NetPrincipal:            overall.NetPrincipal,
		CommoditiesPrincipal:    commodities.NetPrincipal,
		HasPayoutWindow:         eligibility.HasWindow,
		IsLocked:                eligibility.IsLocked,
		LockReleaseDate:         eligibility.LockReleaseDate,
		CycleMonths:             c.cycleMonths,
		ProjectedGrossReturn:    projected.GrossReturn,
		ProjectedInvestorReturn: projected.InvestorShare,
		ProjectedAdminFee:       projected.AdminFee,
		PayoutWindowStart:       investor.PayoutWindowStart,
		PayoutWindowEnd:         investor.PayoutWindowEnd,
	}
	if eligibility.HasWindow {
		summary.NextPayoutMonth = eligibility.NextPayoutWindow.String()
	}

	return summary, nil
}
