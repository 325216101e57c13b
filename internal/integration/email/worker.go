// Package email provides email sending functionality.
package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/integration/email/templates"
)

// Worker processes the email queue and sends emails.
type Worker struct {
	queue           adapter.EmailQueueRepository
	sender          adapter.EmailSender
	renderer        *templates.Renderer
	pollInterval    time.Duration
	batchSize       int
	cleanupInterval time.Duration
	retentionDays   int
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval    time.Duration
	BatchSize       int
	CleanupInterval time.Duration // how often sent jobs past RetentionDays are purged
	RetentionDays   int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:    5 * time.Second,
		BatchSize:       10,
		CleanupInterval: 24 * time.Hour,
		RetentionDays:   30,
	}
}

// NewWorker creates a new email worker.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	defaults := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if config.RetentionDays <= 0 {
		config.RetentionDays = defaults.RetentionDays
	}

	return &Worker{
		queue:           queue,
		sender:          sender,
		renderer:        renderer,
		pollInterval:    config.PollInterval,
		batchSize:       config.BatchSize,
		cleanupInterval: config.CleanupInterval,
		retentionDays:   config.RetentionDays,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	poll := time.NewTicker(w.pollInterval)
	defer poll.Stop()
	cleanup := time.NewTicker(w.cleanupInterval)
	defer cleanup.Stop()

	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-poll.C:
			w.processBatch(ctx)
		case <-cleanup.C:
			w.purgeSent(ctx)
		}
	}
}

// ProcessNow processes one batch of pending emails immediately.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}

func (w *Worker) processBatch(ctx context.Context) {
	jobs, err := w.queue.GetPendingJobs(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending email jobs", "error", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	slog.Debug("Processing email batch", "count", len(jobs))

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job *entity.EmailJob) {
	logger := slog.With(
		"job_id", job.ID,
		"template", job.TemplateType,
		"recipient", job.RecipientEmail,
	)

	job.MarkProcessing()
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as processing", "error", err)
		return
	}

	html, text, err := w.render(job)
	if err != nil {
		logger.Error("Failed to render email template", "error", err)
		w.handleFailure(ctx, logger, job, err, true)
		return
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:       job.RecipientEmail,
		Name:     job.RecipientName,
		Subject:  job.Subject,
		HTML:     html,
		Text:     text,
		Template: string(job.TemplateType),
	})
	if err != nil {
		logger.Error("Failed to send email", "error", err)
		w.handleFailure(ctx, logger, job, err, !domainerror.IsRetryableEmailError(err))
		return
	}

	job.MarkSent(result.ResendID)
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as sent", "error", err)
		return
	}

	logger.Info("Email sent", "resend_id", result.ResendID)
}

func (w *Worker) render(job *entity.EmailJob) (string, string, error) {
	var data any
	switch job.TemplateType {
	case entity.TemplatePasswordReset:
		data = templates.PasswordResetData{
			UserName:  getString(job.TemplateData, "user_name"),
			ResetURL:  getString(job.TemplateData, "reset_url"),
			ExpiresIn: getString(job.TemplateData, "expires_in"),
		}
	case entity.TemplatePayoutGenerated:
		data = templates.PayoutGeneratedData{
			InvestorName:    getString(job.TemplateData, "investor_name"),
			Period:          getString(job.TemplateData, "period"),
			Amount:          getString(job.TemplateData, "amount"),
			AmountSecondary: getString(job.TemplateData, "amount_secondary"),
			PayoutDate:      getString(job.TemplateData, "payout_date"),
			PortalURL:       getString(job.TemplateData, "portal_url"),
		}
	default:
		return "", "", domainerror.NewEmailError(
			domainerror.ErrCodeUnknownTemplate,
			string(job.TemplateType),
			"cannot render job",
			domainerror.ErrUnknownTemplate,
		)
	}

	html, text, err := w.renderer.Render(string(job.TemplateType), data)
	if err != nil {
		return "", "", domainerror.NewEmailError(
			domainerror.ErrCodeTemplateRenderFailed,
			string(job.TemplateType),
			"failed to render email template",
			err,
		)
	}
	return html, text, nil
}

func (w *Worker) handleFailure(ctx context.Context, logger *slog.Logger, job *entity.EmailJob, err error, permanent bool) {
	job.MarkFailed(err, permanent)

	if updateErr := w.queue.Update(ctx, job); updateErr != nil {
		logger.Error("Failed to update job after failure", "error", updateErr)
	}

	if job.Status == entity.EmailStatusFailed {
		logger.Warn("Email job permanently failed",
			"attempts", job.Attempts,
			"last_error", job.LastError,
		)
		return
	}
	logger.Info("Email job scheduled for retry",
		"attempts", job.Attempts,
		"scheduled_at", job.ScheduledAt,
	)
}

func (w *Worker) purgeSent(ctx context.Context) {
	deleted, err := w.queue.DeleteOldSentJobs(ctx, w.retentionDays)
	if err != nil {
		slog.Error("Failed to purge sent email jobs", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("Purged sent email jobs", "count", deleted, "retention_days", w.retentionDays)
	}
}

func getString(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}
