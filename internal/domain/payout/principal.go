// Package payout implements the rules that turn an investor's transaction history into
// principal, payout eligibility, cycle returns and payout drafts.
package payout

import (
	"github.com/shopspring/decimal"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

// PrincipalFilter restricts which transactions take part in a principal computation.
// The zero value includes every investment category.
type PrincipalFilter struct {
	Category *entity.InvestmentCategory
}

// ForCategory returns a filter that keeps only transactions of the given category.
func ForCategory(category entity.InvestmentCategory) PrincipalFilter {
	return PrincipalFilter{Category: &category}
}

func (f PrincipalFilter) matches(txn *entity.Transaction) bool {
	if f.Category == nil {
		return true
	}
	return txn.InvestmentCategory == *f.Category
}

// Principal holds the aggregated contribution and payout totals of a transaction set.
type Principal struct {
	TotalContributions decimal.Decimal
	TotalPayouts       decimal.Decimal
	NetPrincipal       decimal.Decimal
}

// Add merges two partial sums. The result is independent of the order partial sums are combined in.
func (p Principal) Add(other Principal) Principal {
	contributions := p.TotalContributions.Add(other.TotalContributions)
	payouts := p.TotalPayouts.Add(other.TotalPayouts)
	return Principal{
		TotalContributions: contributions,
		TotalPayouts:       payouts,
		NetPrincipal:       contributions.Sub(payouts),
	}
}

// ComputePrincipal sums the completed transactions that match the filter.
// NetPrincipal may be negative; callers decide how to react to that.
func ComputePrincipal(txns []*entity.Transaction, filter PrincipalFilter) (Principal, error) {
	contributions := decimal.Zero
	payouts := decimal.Zero

	for _, txn := range txns {
		if txn == nil || !txn.IsCompleted() || !filter.matches(txn) {
			continue
		}

		flow, err := Classify(txn.Kind)
		if err != nil {
			return Principal{}, err
		}

		switch flow {
		case FlowContribution:
			contributions = contributions.Add(txn.Amount)
		case FlowPayout:
			payouts = payouts.Add(txn.Amount)
		}
	}

	return Principal{
		TotalContributions: contributions,
		TotalPayouts:       payouts,
		NetPrincipal:       contributions.Sub(payouts),
	}, nil
}
