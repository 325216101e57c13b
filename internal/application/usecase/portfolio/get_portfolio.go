// Package portfolio contains the investor-facing portfolio use cases.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/application/adapter"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
)

// GetPortfolioInput represents the input for loading an investor's portfolio.
type GetPortfolioInput struct {
	InvestorID uuid.UUID
	AsOf       time.Time
}

// GetPortfolioOutput represents the output of loading an investor's portfolio.
type GetPortfolioOutput struct {
	Summary   *adapter.PortfolioSummary
	FromCache bool
}

// GetPortfolioUseCase computes the investor's portfolio summary, served from the summary cache when possible.
type GetPortfolioUseCase struct {
	userRepo        adapter.UserRepository
	transactionRepo adapter.TransactionRepository
	calculator      *SummaryCalculator
	cache           adapter.SummaryCache
}

// NewGetPortfolioUseCase creates a new GetPortfolioUseCase instance. cache may be nil.
func NewGetPortfolioUseCase(
	userRepo adapter.UserRepository,
	transactionRepo adapter.TransactionRepository,
	calculator *SummaryCalculator,
	cache adapter.SummaryCache,
) *GetPortfolioUseCase {
	return &GetPortfolioUseCase{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		calculator:      calculator,
		cache:           cache,
	}
}

// Execute loads the portfolio summary. Cache failures are logged and the summary is recomputed.
func (uc *GetPortfolioUseCase) Execute(ctx context.Context, input GetPortfolioInput) (*GetPortfolioOutput, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, input.InvestorID, input.AsOf)
		if err != nil {
			slog.Warn("Portfolio cache read failed", "investorID", input.InvestorID, "error", err)
		} else if cached != nil {
			return &GetPortfolioOutput{Summary: cached, FromCache: true}, nil
		}
	}

	investor, err := uc.userRepo.FindByID(ctx, input.InvestorID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeInvestorNotFound,
				"investor not found",
				domainerror.ErrInvestorNotFound,
			)
		}
		return nil, fmt.Errorf("failed to load investor: %w", err)
	}

	txns, err := uc.transactionRepo.FindByInvestor(ctx, investor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	summary, err := uc.calculator.Calculate(investor, txns, input.AsOf)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, summary); err != nil {
			slog.Warn("Portfolio cache write failed", "investorID", investor.ID, "error", err)
		}
	}

	return &GetPortfolioOutput{Summary: summary}, nil
}
