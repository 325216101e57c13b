// Package error defines domain-specific errors for the Advisory Portal application.
package error

import (
	"errors"
	"fmt"
)

// ErrUnknownTemplate is returned when a queued job names a template the renderer does not have.
var ErrUnknownTemplate = errors.New("unknown email template")

// EmailErrorCode defines error codes for notification email errors.
// Format: EMAIL-XXYYYY where XX is category and YYYY is specific error.
type EmailErrorCode string

const (
	// Queue errors (01XXXX)
	ErrCodeEmailQueueFailed EmailErrorCode = "EMAIL-010001"

	// Delivery errors (02XXXX). Rejected jobs are closed, unavailable ones are retried.
	ErrCodeEmailRejected    EmailErrorCode = "EMAIL-020001"
	ErrCodeEmailUnavailable EmailErrorCode = "EMAIL-020002"

	// Template errors (03XXXX)
	ErrCodeUnknownTemplate      EmailErrorCode = "EMAIL-030001"
	ErrCodeTemplateRenderFailed EmailErrorCode = "EMAIL-030002"
)

// EmailError is a failure to queue, render or deliver one notification.
// Template is the job's template (password_reset, payout_generated) when known.
type EmailError struct {
	Code     EmailErrorCode
	Template string
	Message  string
	Err      error
}

func (e *EmailError) Error() string {
	msg := e.Message
	if e.Template != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Template)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *EmailError) Unwrap() error {
	return e.Err
}

// Retryable reports whether sending the same job again may succeed.
func (e *EmailError) Retryable() bool {
	return e.Code == ErrCodeEmailUnavailable
}

// NewEmailError creates an EmailError for the given template.
func NewEmailError(code EmailErrorCode, template, message string, err error) *EmailError {
	return &EmailError{
		Code:     code,
		Template: template,
		Message:  message,
		Err:      err,
	}
}

// IsRetryableEmailError reports whether err is a delivery failure worth another attempt.
// Errors that are not EmailErrors are treated as transient.
func IsRetryableEmailError(err error) bool {
	var emailErr *EmailError
	if errors.As(err, &emailErr) {
		return emailErr.Retryable()
	}
	return err != nil
}
