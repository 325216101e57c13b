package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/integration/email/templates"
)

type fakeQueue struct {
	mu   sync.Mutex
	jobs []*entity.EmailJob
}

func (q *fakeQueue) Create(_ context.Context, job *entity.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) GetPendingJobs(_ context.Context, limit int) ([]*entity.EmailJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var pending []*entity.EmailJob
	now := time.Now().UTC()
	for _, job := range q.jobs {
		if job.Status == entity.EmailStatusPending && !job.ScheduledAt.After(now) {
			pending = append(pending, job)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (q *fakeQueue) Update(_ context.Context, _ *entity.EmailJob) error { return nil }

func (q *fakeQueue) CancelPayoutNotice(_ context.Context, payoutID uuid.UUID) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var cancelled int64
	for _, job := range q.jobs {
		if job.PayoutID != nil && *job.PayoutID == payoutID && job.Status == entity.EmailStatusPending {
			job.Status = entity.EmailStatusCancelled
			cancelled++
		}
	}
	return cancelled, nil
}

func (q *fakeQueue) DeleteOldSentJobs(_ context.Context, _ int) (int64, error) { return 0, nil }

var _ adapter.EmailQueueRepository = (*fakeQueue)(nil)

func newTestWorker(t *testing.T) (*Worker, *Service, *fakeQueue, *MockEmailSender) {
	t.Helper()
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	queue := &fakeQueue{}
	sender := NewMockEmailSender()
	worker := NewWorker(queue, sender, renderer, WorkerConfig{BatchSize: 5})
	return worker, NewService(queue, "Advisory Portal"), queue, sender
}

func TestWorker_SendsPayoutNotification(t *testing.T) {
	worker, service, queue, sender := newTestWorker(t)
	ctx := context.Background()
	payoutID := uuid.New()

	err := service.QueuePayoutGeneratedEmail(ctx, adapter.QueuePayoutGeneratedInput{
		PayoutID:        payoutID,
		InvestorName:    "Ada Obi",
		InvestorEmail:   "ada@example.com",
		Period:          "Jan 2026 - Apr 2026",
		Amount:          "NGN 2,336,000.00",
		AmountSecondary: "USD 1,518.40",
		PayoutDate:      "1 May 2026",
		PortalURL:       "http://localhost:5173/portfolio",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	worker.ProcessNow(ctx)

	sent := sender.SentEmails()
	if len(sent) != 1 {
		t.Fatalf("expected 1 sent email, got %d", len(sent))
	}
	email := sent[0]
	if email.To != "ada@example.com" {
		t.Errorf("expected recipient ada@example.com, got %s", email.To)
	}
	if !strings.Contains(email.Subject, "Jan 2026 - Apr 2026") {
		t.Errorf("expected subject to mention the period, got %q", email.Subject)
	}
	for _, want := range []string{"Ada Obi", "NGN 2,336,000.00", "USD 1,518.40", "1 May 2026"} {
		if !strings.Contains(email.HTML, want) {
			t.Errorf("expected HTML body to contain %q", want)
		}
		if !strings.Contains(email.Text, want) {
			t.Errorf("expected text body to contain %q", want)
		}
	}
	if queue.jobs[0].Status != entity.EmailStatusSent {
		t.Errorf("expected job status sent, got %s", queue.jobs[0].Status)
	}
	if queue.jobs[0].ResendID != "mock-1" {
		t.Errorf("expected resend id mock-1, got %s", queue.jobs[0].ResendID)
	}
	if queue.jobs[0].PayoutID == nil || *queue.jobs[0].PayoutID != payoutID {
		t.Errorf("expected job to reference payout %s", payoutID)
	}
	if email.Template != string(entity.TemplatePayoutGenerated) {
		t.Errorf("expected template tag %s, got %q", entity.TemplatePayoutGenerated, email.Template)
	}
}

func TestService_CancelPayoutEmail(t *testing.T) {
	worker, service, queue, sender := newTestWorker(t)
	ctx := context.Background()
	sentPayout, pendingPayout := uuid.New(), uuid.New()

	queuePayout := func(id uuid.UUID) {
		t.Helper()
		if err := service.QueuePayoutGeneratedEmail(ctx, adapter.QueuePayoutGeneratedInput{
			PayoutID:      id,
			InvestorName:  "Ada Obi",
			InvestorEmail: "ada@example.com",
			Period:        "Jan 2026 - Apr 2026",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	queuePayout(sentPayout)
	worker.ProcessNow(ctx)
	queuePayout(pendingPayout)

	for _, id := range []uuid.UUID{sentPayout, pendingPayout} {
		if err := service.CancelPayoutEmail(ctx, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	worker.ProcessNow(ctx)

	if queue.jobs[0].Status != entity.EmailStatusSent {
		t.Errorf("expected the delivered notice to stay sent, got %s", queue.jobs[0].Status)
	}
	if queue.jobs[1].Status != entity.EmailStatusCancelled {
		t.Errorf("expected the pending notice to be cancelled, got %s", queue.jobs[1].Status)
	}
	if len(sender.SentEmails()) != 1 {
		t.Errorf("expected only the first notice to be sent, got %d", len(sender.SentEmails()))
	}
}

func TestWorker_SendsPasswordReset(t *testing.T) {
	worker, service, _, sender := newTestWorker(t)
	ctx := context.Background()

	err := service.QueuePasswordResetEmail(ctx, adapter.QueuePasswordResetInput{
		UserEmail: "client@example.com",
		UserName:  "Client",
		ResetURL:  "http://localhost:5173/reset-password?token=abc",
		ExpiresIn: "1 hour",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	worker.ProcessNow(ctx)

	sent := sender.SentEmails()
	if len(sent) != 1 {
		t.Fatalf("expected 1 sent email, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Text, "token=abc") {
		t.Errorf("expected reset link in text body, got %q", sent[0].Text)
	}
}

func TestWorker_FailureHandling(t *testing.T) {
	tests := []struct {
		name             string
		permanent        bool
		expectedStatus   entity.EmailStatus
		expectedAttempts int
	}{
		{
			name:             "temporary failure is retried",
			permanent:        false,
			expectedStatus:   entity.EmailStatusPending,
			expectedAttempts: 1,
		},
		{
			name:             "permanent failure stops retries",
			permanent:        true,
			expectedStatus:   entity.EmailStatusFailed,
			expectedAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worker, service, queue, sender := newTestWorker(t)
			ctx := context.Background()
			sender.SetFailure(errors.New("provider unavailable"), tt.permanent)

			if err := service.QueuePasswordResetEmail(ctx, adapter.QueuePasswordResetInput{
				UserEmail: "client@example.com",
				ResetURL:  "http://localhost/reset",
				ExpiresIn: "1 hour",
			}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			worker.ProcessNow(ctx)

			job := queue.jobs[0]
			if job.Status != tt.expectedStatus {
				t.Errorf("expected status %s, got %s", tt.expectedStatus, job.Status)
			}
			if job.Attempts != tt.expectedAttempts {
				t.Errorf("expected %d attempts, got %d", tt.expectedAttempts, job.Attempts)
			}
			if len(sender.SentEmails()) != 0 {
				t.Errorf("expected no sent emails")
			}
			if !strings.Contains(job.LastError, string(entity.TemplatePasswordReset)) {
				t.Errorf("expected last error to name the template, got %q", job.LastError)
			}
		})
	}
}

func TestWorker_GivesUpAfterMaxAttempts(t *testing.T) {
	worker, service, queue, sender := newTestWorker(t)
	ctx := context.Background()
	sender.SetFailure(errors.New("timeout"), false)

	if err := service.QueuePasswordResetEmail(ctx, adapter.QueuePasswordResetInput{UserEmail: "client@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job := queue.jobs[0]
	for i := 0; i < job.MaxAttempts; i++ {
		job.ScheduledAt = time.Now().UTC().Add(-time.Second)
		worker.ProcessNow(ctx)
	}

	if job.Status != entity.EmailStatusFailed {
		t.Errorf("expected status failed, got %s", job.Status)
	}
	if job.Attempts != job.MaxAttempts {
		t.Errorf("expected %d attempts, got %d", job.MaxAttempts, job.Attempts)
	}
}

func TestWorker_UnknownTemplateFailsPermanently(t *testing.T) {
	worker, _, queue, sender := newTestWorker(t)
	ctx := context.Background()

	job := entity.NewEmailJob("statement_ready", "someone@example.com", "Someone", "Hi", nil)
	_ = queue.Create(ctx, job)

	worker.ProcessNow(ctx)

	if job.Status != entity.EmailStatusFailed {
		t.Errorf("expected status failed, got %s", job.Status)
	}
	if len(sender.SentEmails()) != 0 {
		t.Errorf("expected no sent emails")
	}
	if !strings.Contains(job.LastError, "statement_ready") {
		t.Errorf("expected last error to name the template, got %q", job.LastError)
	}
}

func TestIsRetryableEmailError(t *testing.T) {
	cause := errors.New("provider said no")
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"unavailable", domainerror.NewEmailError(domainerror.ErrCodeEmailUnavailable, "payout_generated", "send failed", cause), true},
		{"rejected", domainerror.NewEmailError(domainerror.ErrCodeEmailRejected, "payout_generated", "send failed", cause), false},
		{"render failure", domainerror.NewEmailError(domainerror.ErrCodeTemplateRenderFailed, "password_reset", "render failed", cause), false},
		{"plain error", cause, true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domainerror.IsRetryableEmailError(tt.err); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestIsPermanentError(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{nil, false},
		{errors.New("422 validation_error: invalid `to` field"), true},
		{errors.New("401 unauthorized"), true},
		{errors.New("429 rate limit exceeded"), false},
		{errors.New("502 bad gateway"), false},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			if got := isPermanentError(tt.err); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
