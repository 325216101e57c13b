// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the delivery state of a queued email.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
	EmailStatusCancelled  EmailStatus = "cancelled" // the payout it announced was withdrawn
)

// EmailTemplateType names a template known to the email renderer.
type EmailTemplateType string

const (
	TemplatePasswordReset   EmailTemplateType = "password_reset"
	TemplatePayoutGenerated EmailTemplateType = "payout_generated"
)

// DefaultEmailMaxAttempts is how many deliveries are tried before a job is given up.
const DefaultEmailMaxAttempts = 3

// emailRetryDelays is indexed by the number of failed attempts so far.
var emailRetryDelays = []time.Duration{0, time.Minute, 5 * time.Minute}

// EmailJob is a notification waiting in the outbound queue.
type EmailJob struct {
	ID             uuid.UUID
	TemplateType   EmailTemplateType
	RecipientEmail string
	RecipientName  string
	Subject        string
	TemplateData   map[string]any
	PayoutID       *uuid.UUID // set on payout notices
	Status         EmailStatus
	Attempts       int
	MaxAttempts    int
	LastError      string
	ResendID       string
	CreatedAt      time.Time
	ScheduledAt    time.Time
	ProcessedAt    *time.Time
}

// NewEmailJob queues a job for immediate delivery.
func NewEmailJob(templateType EmailTemplateType, recipientEmail, recipientName, subject string, data map[string]any) *EmailJob {
	now := time.Now().UTC()
	return &EmailJob{
		ID:             uuid.New(),
		TemplateType:   templateType,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		MaxAttempts:    DefaultEmailMaxAttempts,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// ForPayout links a notice to the payout it announces.
func (e *EmailJob) ForPayout(payoutID uuid.UUID) *EmailJob {
	e.PayoutID = &payoutID
	return e
}

func (e *EmailJob) MarkProcessing() {
	e.Status = EmailStatusProcessing
}

// MarkSent records the provider message ID.
func (e *EmailJob) MarkSent(resendID string) {
	e.Status = EmailStatusSent
	e.ResendID = resendID
	e.finish()
}

// MarkFailed counts a failed attempt. Permanent failures and exhausted jobs are closed,
// others go back to pending with a backoff.
func (e *EmailJob) MarkFailed(err error, permanent bool) {
	e.Attempts++
	e.LastError = err.Error()

	if permanent || !e.CanRetry() {
		e.Status = EmailStatusFailed
		e.finish()
		return
	}

	e.Status = EmailStatusPending
	e.ScheduledAt = time.Now().UTC().Add(e.retryDelay())
}

func (e *EmailJob) retryDelay() time.Duration {
	if e.Attempts < len(emailRetryDelays) {
		return emailRetryDelays[e.Attempts]
	}
	return emailRetryDelays[len(emailRetryDelays)-1]
}

func (e *EmailJob) finish() {
	now := time.Now().UTC()
	e.ProcessedAt = &now
}

func (e *EmailJob) CanRetry() bool {
	return e.Attempts < e.MaxAttempts
}

// IsReadyToProcess reports whether a pending job's scheduled time has passed.
func (e *EmailJob) IsReadyToProcess() bool {
	return e.Status == EmailStatusPending && time.Now().UTC().After(e.ScheduledAt)
}
