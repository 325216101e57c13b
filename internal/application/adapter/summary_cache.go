// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PortfolioSummary is the cached projection shown on an investor's portfolio page.
type PortfolioSummary struct {
	InvestorID              uuid.UUID       `json:"investor_id"`
	AsOf                    time.Time       `json:"as_of"`
	TotalContributions      decimal.Decimal `json:"total_contributions"`
	TotalPayouts            decimal.Decimal `json:"total_payouts"`
	NetPrincipal            decimal.Decimal `json:"net_principal"`
	CommoditiesPrincipal    decimal.Decimal `json:"commodities_principal"`
	HasPayoutWindow         bool            `json:"has_payout_window"`
	NextPayoutMonth         string          `json:"next_payout_month,omitempty"`
	IsLocked                bool            `json:"is_locked"`
	LockReleaseDate         *time.Time      `json:"lock_release_date,omitempty"`
	CycleMonths             int             `json:"cycle_months"`
	ProjectedGrossReturn    decimal.Decimal `json:"projected_gross_return"`
	ProjectedInvestorReturn decimal.Decimal `json:"projected_investor_return"`
	ProjectedAdminFee       decimal.Decimal `json:"projected_admin_fee"`
	PayoutWindowStart       *time.Time      `json:"payout_window_start,omitempty"`
	PayoutWindowEnd         *time.Time      `json:"payout_window_end,omitempty"`
}

// SummaryCache stores computed portfolio summaries per investor and reference day.
// A miss is reported as (nil, nil).
type SummaryCache interface {
	Get(ctx context.Context, investorID uuid.UUID, asOf time.Time) (*PortfolioSummary, error)
	Set(ctx context.Context, summary *PortfolioSummary) error

	// Invalidate drops every cached summary of the investor.
	Invalidate(ctx context.Context, investorID uuid.UUID) error
}
