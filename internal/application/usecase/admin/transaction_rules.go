// Package admin contains the back office use cases run by advisory staff.
package admin

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/domain/payout"
	"github.com/advisory-portal/backend/internal/domain/valueobject"
)

const (
	// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
	MaxDescriptionLength = 255
	// MaxNotesLength is the maximum allowed length for transaction notes.
	MaxNotesLength = 1000
)

// transactionRules checks a transaction against field constraints and the payout calendar.
type transactionRules struct {
	resolver *payout.Resolver
}

// check validates txn in place, sanitizing its free text. history holds the investor's other transactions.
func (r transactionRules) check(txn *entity.Transaction, history []*entity.Transaction) error {
	if _, err := payout.Classify(txn.Kind); err != nil {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionKind,
			fmt.Sprintf("unsupported transaction kind %q", txn.Kind),
			domainerror.ErrInvalidTransactionKind,
		)
	}
	if !txn.Status.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionStatus,
			fmt.Sprintf("unsupported transaction status %q", txn.Status),
			domainerror.ErrInvalidTransactionStatus,
		)
	}
	if !txn.InvestmentCategory.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidInvestmentCategory,
			fmt.Sprintf("unsupported investment category %q", txn.InvestmentCategory),
			domainerror.ErrInvalidInvestmentCategory,
		)
	}
	if !txn.Amount.IsPositive() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	if txn.OccurredOn.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"transaction date is required",
			domainerror.ErrInvalidTransactionDate,
		)
	}

	txn.Description = valueobject.SanitizeText(txn.Description)
	txn.Notes = valueobject.SanitizeText(txn.Notes)
	if utf8.RuneCountInString(txn.Description) > MaxDescriptionLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	if utf8.RuneCountInString(txn.Notes) > MaxNotesLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeNotesTooLong,
			fmt.Sprintf("notes must not exceed %d characters", MaxNotesLength),
			domainerror.ErrNotesTooLong,
		)
	}

	if err := payout.ValidatePayoutMonth(txn.Kind, txn.InvestmentCategory, txn.OccurredOn); err != nil {
		return translateRuleError(err)
	}

	if txn.Kind == entity.KindWithdrawal && txn.InvestmentCategory == entity.CategoryCommodities {
		if err := r.resolver.CheckWithdrawal(history, txn.OccurredOn); err != nil {
			return translateRuleError(err)
		}
	}

	return nil
}

// checkStandingWithdrawals re-runs the lock-up check for every commodities withdrawal in history.
// Used after a commodities contribution is moved or removed, since that can shift the lock start.
func (r transactionRules) checkStandingWithdrawals(history []*entity.Transaction) error {
	for _, w := range history {
		if w.Kind != entity.KindWithdrawal || w.InvestmentCategory != entity.CategoryCommodities || w.Status == entity.StatusFailed {
			continue
		}
		err := r.resolver.CheckWithdrawal(history, w.OccurredOn)
		if err == nil {
			continue
		}
		var payoutErr *domainerror.PayoutError
		if errors.As(translateRuleError(err), &payoutErr) {
			payoutErr.Message = fmt.Sprintf("withdrawal of %s on %s would fall inside the lock-up: %s",
				w.Amount.StringFixed(2), w.OccurredOn.Format("2006-01-02"), payoutErr.Message)
			return payoutErr
		}
		return err
	}
	return nil
}

// isCommoditiesContribution reports whether txn counts toward the commodities lock-up start.
func isCommoditiesContribution(txn *entity.Transaction) bool {
	return txn.InvestmentCategory == entity.CategoryCommodities && payout.IsContribution(txn.Kind)
}

// without returns txns minus the transaction with the given ID.
func without(txns []*entity.Transaction, txn *entity.Transaction) []*entity.Transaction {
	out := make([]*entity.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.ID != txn.ID {
			out = append(out, t)
		}
	}
	return out
}
