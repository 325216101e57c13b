// Package payout implements the rules that turn an investor's transaction history into
// principal, payout eligibility, cycle returns and payout drafts.
package payout

import (
	"errors"
	"time"
)

// Reason identifies which payout rule a ValidationError violated.
type Reason string

const (
	ReasonMissingPayoutWindow Reason = "missing_payout_window"
	ReasonNonPositiveAmount   Reason = "non_positive_amount"
	ReasonInvalidPayoutWindow Reason = "invalid_payout_window"
	ReasonInvalidPayoutMonth  Reason = "invalid_payout_month"
	ReasonPrincipalLocked     Reason = "principal_locked"
)

// Sentinels matched by errors.Is against any ValidationError of the same reason.
var (
	ErrMissingPayoutWindow = errors.New("payout window is not set")
	ErrNonPositiveAmount   = errors.New("payout amount must be positive")
	ErrInvalidPayoutWindow = errors.New("payout window starts after it ends")
	ErrInvalidPayoutMonth  = errors.New("payout is not dated in a payout month")
	ErrPrincipalLocked     = errors.New("principal is still locked")
)

var sentinelByReason = map[Reason]error{
	ReasonMissingPayoutWindow: ErrMissingPayoutWindow,
	ReasonNonPositiveAmount:   ErrNonPositiveAmount,
	ReasonInvalidPayoutWindow: ErrInvalidPayoutWindow,
	ReasonInvalidPayoutMonth:  ErrInvalidPayoutMonth,
	ReasonPrincipalLocked:     ErrPrincipalLocked,
}

// ValidationError reports a payout rule violation. Nothing should be persisted when one is returned.
type ValidationError struct {
	Reason          Reason
	Message         string
	LockReleaseDate *time.Time // only set for ReasonPrincipalLocked
}

func newValidationError(reason Reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel for the error's reason.
func (e *ValidationError) Unwrap() error {
	return sentinelByReason[e.Reason]
}
