// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To       string
	Name     string
	Subject  string
	HTML     string
	Text     string
	Template string // tags the message at the provider and in delivery errors
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing emails.
type EmailService interface {
	// QueuePasswordResetEmail queues a password reset email.
	QueuePasswordResetEmail(ctx context.Context, input QueuePasswordResetInput) error

	// QueuePayoutGeneratedEmail tells an investor a payout was scheduled for them.
	QueuePayoutGeneratedEmail(ctx context.Context, input QueuePayoutGeneratedInput) error

	// CancelPayoutEmail withdraws a payout notice that has not been sent. Sent notices stay sent.
	CancelPayoutEmail(ctx context.Context, payoutID uuid.UUID) error
}

// QueuePasswordResetInput represents the input for queueing a password reset email.
type QueuePasswordResetInput struct {
	UserID    string
	UserEmail string
	UserName  string
	ResetURL  string
	ExpiresIn string
}

// QueuePayoutGeneratedInput represents the input for queueing a payout notification.
// Amounts are preformatted display strings.
type QueuePayoutGeneratedInput struct {
	PayoutID        uuid.UUID
	InvestorName    string
	InvestorEmail   string
	Period          string
	Amount          string
	AmountSecondary string
	PayoutDate      string
	PortalURL       string
}
