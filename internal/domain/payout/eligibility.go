// Package payout implements the rules that turn an investor's transaction history into
// principal, payout eligibility, cycle returns and payout drafts.
package payout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

// PayoutMonths are the only months scheduled payouts may be dated in.
var PayoutMonths = [...]time.Month{time.January, time.May, time.September}

// DefaultLockupMonths is the minimum holding period for commodities principal.
const DefaultLockupMonths = 12

// IsPayoutMonth reports whether m is one of PayoutMonths.
func IsPayoutMonth(m time.Month) bool {
	for _, pm := range PayoutMonths {
		if pm == m {
			return true
		}
	}
	return false
}

// Eligibility describes an investor's position in the payout calendar at a reference date.
type Eligibility struct {
	NextPayoutWindow     time.Month
	HasWindow            bool // false until the investor has a completed contribution
	IsLocked             bool
	LockReleaseDate      *time.Time
	EarliestContribution *time.Time
}

// Resolver applies the eligibility and lock-up rules.
type Resolver struct {
	lockupMonths int
	overrides    map[uuid.UUID]time.Month
}

// NewResolver creates a Resolver. Overrides force the payout window of specific investors.
// A non-positive lockupMonths falls back to DefaultLockupMonths.
func NewResolver(lockupMonths int, overrides map[uuid.UUID]time.Month) *Resolver {
	if lockupMonths <= 0 {
		lockupMonths = DefaultLockupMonths
	}
	copied := make(map[uuid.UUID]time.Month, len(overrides))
	for id, month := range overrides {
		copied[id] = month
	}
	return &Resolver{lockupMonths: lockupMonths, overrides: copied}
}

// ResolveEligibility picks the investor's next payout window and reports the commodities lock-up status at asOf.
//
// Investors whose first completed contribution falls in asOf's year or earlier get the January window,
// later contributions get May. September is a payout month but no investor is assigned to it.
// An override for the investor replaces the contribution-date rule.
func (r *Resolver) ResolveEligibility(investor *entity.User, txns []*entity.Transaction, asOf time.Time) (Eligibility, error) {
	var result Eligibility

	earliest, err := earliestContribution(txns, PrincipalFilter{})
	if err != nil {
		return result, err
	}
	if earliest == nil {
		return result, nil
	}

	result.EarliestContribution = earliest
	result.HasWindow = true
	if earliest.Year() <= asOf.Year() {
		result.NextPayoutWindow = time.January
	} else {
		result.NextPayoutWindow = time.May
	}

	if investor != nil {
		if forced, ok := r.overrides[investor.ID]; ok {
			result.NextPayoutWindow = forced
		}
	}

	if lockErr := r.CheckWithdrawal(txns, asOf); lockErr != nil {
		var verr *ValidationError
		if !errors.As(lockErr, &verr) {
			return result, lockErr
		}
		result.IsLocked = true
		result.LockReleaseDate = verr.LockReleaseDate
	}

	return result, nil
}

// CheckWithdrawal rejects a commodities withdrawal dated before the lock-up elapsed.
func (r *Resolver) CheckWithdrawal(txns []*entity.Transaction, withdrawalDate time.Time) error {
	earliest, err := earliestContribution(txns, ForCategory(entity.CategoryCommodities))
	if err != nil || earliest == nil {
		return err
	}

	elapsed := MonthsBetween(*earliest, withdrawalDate)
	if elapsed >= r.lockupMonths {
		return nil
	}

	release := firstOfMonth(*earliest).AddDate(0, r.lockupMonths, 0)
	verr := newValidationError(ReasonPrincipalLocked, fmt.Sprintf(
		"commodities principal is locked until %s (%d of %d months elapsed)",
		release.Format("2006-01-02"), elapsed, r.lockupMonths,
	))
	verr.LockReleaseDate = &release
	return verr
}

// ValidatePayoutMonth rejects commodities payouts dated outside PayoutMonths.
// Withdrawals and non-commodities transactions are not restricted.
func ValidatePayoutMonth(kind entity.TransactionKind, category entity.InvestmentCategory, date time.Time) error {
	if category != entity.CategoryCommodities {
		return nil
	}
	switch kind {
	case entity.KindDividend, entity.KindInterest, entity.KindLoanRepayment:
	default:
		return nil
	}

	if IsPayoutMonth(date.Month()) {
		return nil
	}
	return newValidationError(ReasonInvalidPayoutMonth, fmt.Sprintf(
		"commodities %s cannot be dated in %s; payouts only happen in January, May and September",
		kind, date.Month(),
	))
}

// MonthsBetween counts calendar months from one date to another, ignoring the day of month.
// The result is negative when to precedes from.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// NextPayoutDate returns the first day of the earliest payout month strictly after after's month.
func NextPayoutDate(after time.Time) time.Time {
	month := firstOfMonth(after)
	for i := 0; i < 12; i++ {
		month = month.AddDate(0, 1, 0)
		if IsPayoutMonth(month.Month()) {
			return month
		}
	}
	return month
}

func earliestContribution(txns []*entity.Transaction, filter PrincipalFilter) (*time.Time, error) {
	var earliest *time.Time
	for _, txn := range txns {
		if txn == nil || !txn.IsCompleted() || !filter.matches(txn) {
			continue
		}
		flow, err := Classify(txn.Kind)
		if err != nil {
			return nil, err
		}
		if flow != FlowContribution {
			continue
		}
		if earliest == nil || txn.OccurredOn.Before(*earliest) {
			date := txn.OccurredOn
			earliest = &date
		}
	}
	return earliest, nil
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
