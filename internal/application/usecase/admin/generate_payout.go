// Package admin contains the back office use cases run by advisory staff.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	"github.com/advisory-portal/backend/internal/domain/payout"
	"github.com/advisory-portal/backend/internal/domain/valueobject"
)

// GeneratePayoutInput represents the input for generating an investor's payout.
type GeneratePayoutInput struct {
	InvestorID  uuid.UUID
	AsOf        time.Time
	GeneratedBy uuid.UUID
}

// GeneratePayoutOutput carries the stored payout and the figures it was derived from.
type GeneratePayoutOutput struct {
	Payout      *entity.Transaction
	Principal   payout.Principal
	Return      payout.Return
	Eligibility payout.Eligibility
}

// PayoutNotifier configures the payout notification email.
type PayoutNotifier struct {
	EmailService adapter.EmailService // nil disables notifications
	Rate         valueobject.ExchangeRate
	PortalURL    string
}

// GeneratePayoutUseCase turns an investor's commodities principal into a pending dividend for their payout window.
type GeneratePayoutUseCase struct {
	userRepo        adapter.UserRepository
	transactionRepo adapter.TransactionRepository
	calculator      payoutCalculator
	cache           adapter.SummaryCache
	notifier        PayoutNotifier
}

// payoutCalculator is the subset of portfolio.SummaryCalculator needed here.
type payoutCalculator interface {
	Resolver() *payout.Resolver
	Schedule() payout.RateSchedule
	CycleMonths() int
}

// NewGeneratePayoutUseCase creates a new GeneratePayoutUseCase instance. cache may be nil.
func NewGeneratePayoutUseCase(
	userRepo adapter.UserRepository,
	transactionRepo adapter.TransactionRepository,
	calculator payoutCalculator,
	cache adapter.SummaryCache,
	notifier PayoutNotifier,
) *GeneratePayoutUseCase {
	return &GeneratePayoutUseCase{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		calculator:      calculator,
		cache:           cache,
		notifier:        notifier,
	}
}

// Execute computes the investor share of one cycle's return on commodities principal and stores it as a payout.
// A second payout for the same window is rejected.
func (uc *GeneratePayoutUseCase) Execute(ctx context.Context, input GeneratePayoutInput) (*GeneratePayoutOutput, error) {
	investor, err := loadInvestor(ctx, uc.userRepo, input.InvestorID)
	if err != nil {
		return nil, err
	}

	txns, err := uc.transactionRepo.FindByInvestor(ctx, investor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	principal, err := payout.ComputePrincipal(txns, payout.ForCategory(entity.CategoryCommodities))
	if err != nil {
		return nil, translateRuleError(err)
	}

	eligibility, err := uc.calculator.Resolver().ResolveEligibility(investor, txns, input.AsOf)
	if err != nil {
		return nil, translateRuleError(err)
	}

	cycleReturn := uc.calculator.Schedule().ComputeReturn(principal.NetPrincipal, uc.calculator.CycleMonths())

	draft, err := payout.BuildPayout(investor, cycleReturn.InvestorShare, investor.PayoutWindowStart, investor.PayoutWindowEnd)
	if err != nil {
		return nil, translateRuleError(err)
	}

	now := time.Now().UTC()
	draft.ID = uuid.New()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	if err := uc.transactionRepo.Create(ctx, draft); err != nil {
		return nil, translateCreateError(err)
	}

	invalidateSummary(ctx, uc.cache, investor.ID)

	slog.Info("Payout generated",
		"payoutID", draft.ID,
		"investorID", investor.ID,
		"amount", draft.Amount.String(),
		"payoutDate", draft.OccurredOn.Format(time.DateOnly),
		"generatedBy", input.GeneratedBy,
	)

	uc.notify(ctx, investor, draft)

	return &GeneratePayoutOutput{
		Payout:      draft,
		Principal:   principal,
		Return:      cycleReturn,
		Eligibility: eligibility,
	}, nil
}

// notify queues the payout email. A queueing failure does not undo the payout.
func (uc *GeneratePayoutUseCase) notify(ctx context.Context, investor *entity.User, draft *entity.Transaction) {
	if uc.notifier.EmailService == nil || !investor.EmailNotifications {
		return
	}

	amount := uc.notifier.Rate.Dual(draft.Amount)
	err := uc.notifier.EmailService.QueuePayoutGeneratedEmail(ctx, adapter.QueuePayoutGeneratedInput{
		PayoutID:        draft.ID,
		InvestorName:    investor.Name,
		InvestorEmail:   investor.Email,
		Period:          periodLabel(draft),
		Amount:          amount.Base.String(),
		AmountSecondary: amount.SecondaryString(),
		PayoutDate:      draft.OccurredOn.Format("2 January 2006"),
		PortalURL:       uc.notifier.PortalURL,
	})
	if err != nil {
		slog.Error("Failed to queue payout email", "investorID", investor.ID, "payoutID", draft.ID, "error", err)
	}
}

func periodLabel(draft *entity.Transaction) string {
	if draft.PayoutWindowStart == nil || draft.PayoutWindowEnd == nil {
		return ""
	}
	return draft.PayoutWindowStart.Format("Jan 2006") + " - " + draft.PayoutWindowEnd.Format("Jan 2006")
}
