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
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
)

// SetPayoutWindowInput represents the input for assigning an investor's payout window.
type SetPayoutWindowInput struct {
	InvestorID uuid.UUID
	Start      time.Time
	End        time.Time
}

// SetPayoutWindowOutput represents the output of setting a payout window.
type SetPayoutWindowOutput struct {
	Investor *entity.User
}

// SetPayoutWindowUseCase stores the period the next payout covers.
type SetPayoutWindowUseCase struct {
	userRepo adapter.UserRepository
	cache    adapter.SummaryCache
}

// NewSetPayoutWindowUseCase creates a new SetPayoutWindowUseCase instance. cache may be nil.
func NewSetPayoutWindowUseCase(userRepo adapter.UserRepository, cache adapter.SummaryCache) *SetPayoutWindowUseCase {
	return &SetPayoutWindowUseCase{
		userRepo: userRepo,
		cache:    cache,
	}
}

// Execute stores the window. Both dates are required and start must not be after end.
func (uc *SetPayoutWindowUseCase) Execute(ctx context.Context, input SetPayoutWindowInput) (*SetPayoutWindowOutput, error) {
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, domainerror.NewPayoutError(
			domainerror.ErrCodeMissingPayoutWindow,
			"payout window start and end are required",
			domainerror.ErrInvalidPayoutWindow,
		)
	}
	start := input.Start.UTC()
	end := input.End.UTC()
	if start.After(end) {
		return nil, domainerror.NewPayoutError(
			domainerror.ErrCodeInvalidPayoutWindow,
			"payout window start must not be after its end",
			domainerror.ErrInvalidPayoutWindow,
		)
	}

	investor, err := loadInvestor(ctx, uc.userRepo, input.InvestorID)
	if err != nil {
		return nil, err
	}

	if err := uc.userRepo.UpdatePayoutWindow(ctx, investor.ID, start, end); err != nil {
		return nil, fmt.Errorf("failed to store payout window: %w", err)
	}
	investor.PayoutWindowStart = &start
	investor.PayoutWindowEnd = &end

	invalidateSummary(ctx, uc.cache, investor.ID)

	slog.Info("Payout window set",
		"investorID", investor.ID,
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly),
	)

	return &SetPayoutWindowOutput{Investor: investor}, nil
}
