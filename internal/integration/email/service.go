// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
)

// Service queues notification emails for the worker to deliver.
type Service struct {
	queue   adapter.EmailQueueRepository
	appName string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appName string) *Service {
	return &Service{
		queue:   queue,
		appName: appName,
	}
}

// QueuePasswordResetEmail queues a password reset email.
func (s *Service) QueuePasswordResetEmail(ctx context.Context, input adapter.QueuePasswordResetInput) error {
	job := entity.NewEmailJob(
		entity.TemplatePasswordReset,
		input.UserEmail,
		input.UserName,
		fmt.Sprintf("Reset your password - %s", s.appName),
		map[string]any{
			"user_name":  input.UserName,
			"reset_url":  input.ResetURL,
			"expires_in": input.ExpiresIn,
		},
	)
	return s.enqueue(ctx, job)
}

// QueuePayoutGeneratedEmail queues the notice sent to an investor when a payout is scheduled.
func (s *Service) QueuePayoutGeneratedEmail(ctx context.Context, input adapter.QueuePayoutGeneratedInput) error {
	job := entity.NewEmailJob(
		entity.TemplatePayoutGenerated,
		input.InvestorEmail,
		input.InvestorName,
		fmt.Sprintf("Your payout for %s is scheduled - %s", input.Period, s.appName),
		map[string]any{
			"investor_name":    input.InvestorName,
			"period":           input.Period,
			"amount":           input.Amount,
			"amount_secondary": input.AmountSecondary,
			"payout_date":      input.PayoutDate,
			"portal_url":       input.PortalURL,
		},
	).ForPayout(input.PayoutID)
	return s.enqueue(ctx, job)
}

// CancelPayoutEmail withdraws the pending notice for a payout that was deleted.
func (s *Service) CancelPayoutEmail(ctx context.Context, payoutID uuid.UUID) error {
	cancelled, err := s.queue.CancelPayoutNotice(ctx, payoutID)
	if err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			string(entity.TemplatePayoutGenerated),
			"failed to cancel payout notice",
			err,
		)
	}
	if cancelled > 0 {
		slog.Info("Payout notice cancelled", "payoutID", payoutID)
	}
	return nil
}

func (s *Service) enqueue(ctx context.Context, job *entity.EmailJob) error {
	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			string(job.TemplateType),
			"failed to queue email",
			err,
		)
	}
	return nil
}

var _ adapter.EmailService = (*Service)(nil)
