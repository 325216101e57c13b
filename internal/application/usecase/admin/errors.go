// Package admin contains the back office use cases run by advisory staff.
package admin

import (
	"errors"
	"fmt"

	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/domain/payout"
)

var payoutCodeByReason = map[payout.Reason]domainerror.PayoutErrorCode{
	payout.ReasonMissingPayoutWindow: domainerror.ErrCodeMissingPayoutWindow,
	payout.ReasonNonPositiveAmount:   domainerror.ErrCodeNonPositiveAmount,
	payout.ReasonInvalidPayoutWindow: domainerror.ErrCodeInvalidPayoutWindow,
	payout.ReasonInvalidPayoutMonth:  domainerror.ErrCodeInvalidPayoutMonth,
	payout.ReasonPrincipalLocked:     domainerror.ErrCodePrincipalLocked,
}

// translateRuleError converts payout rule violations into coded domain errors.
// Errors that are not rule violations are returned unchanged.
func translateRuleError(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *payout.ValidationError
	if errors.As(err, &validationErr) {
		code, ok := payoutCodeByReason[validationErr.Reason]
		if !ok {
			return fmt.Errorf("unmapped payout rule %q: %w", validationErr.Reason, err)
		}
		payoutErr := domainerror.NewPayoutError(code, validationErr.Message, err)
		payoutErr.LockReleaseDate = validationErr.LockReleaseDate
		return payoutErr
	}

	if errors.Is(err, payout.ErrUnknownTransactionKind) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionKind,
			err.Error(),
			domainerror.ErrInvalidTransactionKind,
		)
	}

	return err
}

func investorNotFound() error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeInvestorNotFound,
		"investor not found",
		domainerror.ErrInvestorNotFound,
	)
}

func transactionNotFound() error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeTransactionNotFound,
		"transaction not found",
		domainerror.ErrTransactionNotFound,
	)
}
