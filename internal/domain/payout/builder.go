// Package payout implements the rules that turn an investor's transaction history into
// principal, payout eligibility, cycle returns and payout drafts.
package payout

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

// ErrMissingInvestor is returned when a payout is built without an investor.
var ErrMissingInvestor = errors.New("payout investor is required")

// BuildPayout drafts the commodities dividend that pays amount for the given window.
// The draft has no ID or timestamps; persistence assigns them. It is dated on the first
// payout month after the window closes.
func BuildPayout(investor *entity.User, amount decimal.Decimal, windowStart, windowEnd *time.Time) (*entity.Transaction, error) {
	if investor == nil {
		return nil, ErrMissingInvestor
	}
	if windowStart == nil || windowEnd == nil {
		return nil, newValidationError(ReasonMissingPayoutWindow,
			"a payout window must be set on the investor before a payout can be generated")
	}
	if !amount.IsPositive() {
		return nil, newValidationError(ReasonNonPositiveAmount,
			fmt.Sprintf("payout amount must be greater than zero, got %s", amount))
	}
	if windowStart.After(*windowEnd) {
		return nil, newValidationError(ReasonInvalidPayoutWindow,
			fmt.Sprintf("payout window starts on %s after it ends on %s",
				windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02")))
	}

	start := *windowStart
	end := *windowEnd

	return &entity.Transaction{
		InvestorID:         investor.ID,
		Kind:               entity.KindDividend,
		Amount:             amount,
		OccurredOn:         NextPayoutDate(end),
		InvestmentCategory: entity.CategoryCommodities,
		PayoutWindowStart:  &start,
		PayoutWindowEnd:    &end,
		Status:             entity.StatusPending,
		Description:        Describe(start, end),
	}, nil
}

// Describe renders the payout period, e.g. "Commodities payout for Jan 2026 - Apr 2026".
func Describe(windowStart, windowEnd time.Time) string {
	return fmt.Sprintf("Commodities payout for %s - %s",
		windowStart.Format("Jan 2006"), windowEnd.Format("Jan 2006"))
}
