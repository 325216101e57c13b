// Package admin contains the back office use cases run by advisory staff.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/application/usecase/portfolio"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
)

// GetInvestorSummaryInput represents the input for the back office investor view.
type GetInvestorSummaryInput struct {
	InvestorID uuid.UUID
	AsOf       time.Time
}

// GetInvestorSummaryOutput carries the investor and the full return split, admin fee included.
type GetInvestorSummaryOutput struct {
	Investor *entity.User
	Summary  *adapter.PortfolioSummary
}

// GetInvestorSummaryUseCase computes a fresh summary for staff. It bypasses the portfolio cache.
type GetInvestorSummaryUseCase struct {
	userRepo        adapter.UserRepository
	transactionRepo adapter.TransactionRepository
	calculator      *portfolio.SummaryCalculator
}

// NewGetInvestorSummaryUseCase creates a new GetInvestorSummaryUseCase instance.
func NewGetInvestorSummaryUseCase(
	userRepo adapter.UserRepository,
	transactionRepo adapter.TransactionRepository,
	calculator *portfolio.SummaryCalculator,
) *GetInvestorSummaryUseCase {
	return &GetInvestorSummaryUseCase{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		calculator:      calculator,
	}
}

// Execute performs the summary computation.
func (uc *GetInvestorSummaryUseCase) Execute(ctx context.Context, input GetInvestorSummaryInput) (*GetInvestorSummaryOutput, error) {
	investor, err := loadInvestor(ctx, uc.userRepo, input.InvestorID)
	if err != nil {
		return nil, err
	}

	txns, err := uc.transactionRepo.FindByInvestor(ctx, investor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	summary, err := uc.calculator.Calculate(investor, txns, input.AsOf)
	if err != nil {
		return nil, translateRuleError(err)
	}

	return &GetInvestorSummaryOutput{Investor: investor, Summary: summary}, nil
}

// loadInvestor returns the client account with the given ID. Admin accounts are not investors.
func loadInvestor(ctx context.Context, userRepo adapter.UserRepository, id uuid.UUID) (*entity.User, error) {
	investor, err := userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, investorNotFound()
		}
		return nil, fmt.Errorf("failed to load investor: %w", err)
	}
	if investor.Role != entity.RoleClient {
		return nil, investorNotFound()
	}
	return investor, nil
}
