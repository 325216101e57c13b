// Package error defines domain-specific errors for the Advisory Portal application.
package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidTransactionKind is returned when the transaction kind is not supported.
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")

	// ErrInvalidTransactionStatus is returned when the transaction status is not supported.
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")

	// ErrInvalidInvestmentCategory is returned when the investment category is not supported.
	ErrInvalidInvestmentCategory = errors.New("invalid investment category")

	// ErrInvalidTransactionDate is returned when the transaction date is invalid.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrInvalidTransactionAmount is returned when the transaction amount is invalid.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrInvestorNotFound is returned when the owning investor does not exist.
	ErrInvestorNotFound = errors.New("investor not found")

	// ErrDescriptionTooLong is returned when the transaction description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrNotesTooLong is returned when the transaction notes exceed the maximum length.
	ErrNotesTooLong = errors.New("notes too long")

	// ErrInvalidDateRange is returned when a date range ends before it starts.
	ErrInvalidDateRange = errors.New("invalid date range")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionKind    TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionDate    TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidTransactionAmount  TransactionErrorCode = "TXN-010003"
	ErrCodeInvalidTransactionStatus  TransactionErrorCode = "TXN-010004"
	ErrCodeInvalidInvestmentCategory TransactionErrorCode = "TXN-010005"
	ErrCodeDescriptionTooLong        TransactionErrorCode = "TXN-010006"
	ErrCodeNotesTooLong              TransactionErrorCode = "TXN-010007"
	ErrCodeMissingTransactionFields  TransactionErrorCode = "TXN-010008"
	ErrCodeInvalidDateRange          TransactionErrorCode = "TXN-010009"

	// Lookup errors (02XXXX)
	ErrCodeTransactionNotFound TransactionErrorCode = "TXN-020001"
	ErrCodeInvestorNotFound    TransactionErrorCode = "TXN-020002"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
