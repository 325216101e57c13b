// Package error defines domain-specific errors for the Advisory Portal application.
package error

import (
	"errors"
	"time"
)

// Payout domain errors.
var (
	// ErrPayoutAlreadyGenerated is returned when a payout already exists for the investor's window.
	ErrPayoutAlreadyGenerated = errors.New("payout already generated for this window")

	// ErrInvalidPayoutWindow is returned when an administrator submits an unusable payout window.
	ErrInvalidPayoutWindow = errors.New("invalid payout window")
)

// PayoutErrorCode defines error codes for payout errors.
// Format: PAY-XXYYYY where XX is category and YYYY is specific error.
type PayoutErrorCode string

const (
	// Generation errors (01XXXX)
	ErrCodeMissingPayoutWindow PayoutErrorCode = "PAY-010001"
	ErrCodeNonPositiveAmount   PayoutErrorCode = "PAY-010002"
	ErrCodeInvalidPayoutWindow PayoutErrorCode = "PAY-010003"

	// Scheduling errors (02XXXX)
	ErrCodeInvalidPayoutMonth PayoutErrorCode = "PAY-020001"
	ErrCodePrincipalLocked    PayoutErrorCode = "PAY-020002"

	// Conflict errors (03XXXX)
	ErrCodePayoutAlreadyGenerated PayoutErrorCode = "PAY-030001"
)

// PayoutError represents a payout rule violation with code and message.
// LockReleaseDate is set when the violation is a principal lock-up.
type PayoutError struct {
	Code            PayoutErrorCode
	Message         string
	LockReleaseDate *time.Time
	Err             error
}

// Error implements the error interface.
func (e *PayoutError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PayoutError) Unwrap() error {
	return e.Err
}

// NewPayoutError creates a new PayoutError with the given code and message.
func NewPayoutError(code PayoutErrorCode, message string, err error) *PayoutError {
	return &PayoutError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
