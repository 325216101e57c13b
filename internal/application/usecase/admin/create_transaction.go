// Package admin contains the back office use cases run by advisory staff.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	"github.com/advisory-portal/backend/internal/domain/payout"
)

// CreateTransactionInput represents the input for recording a transaction on an investor's account.
type CreateTransactionInput struct {
	InvestorID  uuid.UUID
	Kind        entity.TransactionKind
	Amount      decimal.Decimal
	OccurredOn  time.Time
	Category    entity.InvestmentCategory
	Status      entity.TransactionStatus // defaults to completed
	Description string
	Notes       string
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *entity.Transaction
}

// CreateTransactionUseCase records deposits, investments, withdrawals and returns for an investor.
type CreateTransactionUseCase struct {
	userRepo        adapter.UserRepository
	transactionRepo adapter.TransactionRepository
	rules           transactionRules
	cache           adapter.SummaryCache
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance. cache may be nil.
func NewCreateTransactionUseCase(
	userRepo adapter.UserRepository,
	transactionRepo adapter.TransactionRepository,
	resolver *payout.Resolver,
	cache adapter.SummaryCache,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		rules:           transactionRules{resolver: resolver},
		cache:           cache,
	}
}

// Execute validates and stores the transaction.
// Commodities returns must fall in a payout month and commodities withdrawals must respect the lock-up.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	investor, err := loadInvestor(ctx, uc.userRepo, input.InvestorID)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = entity.StatusCompleted
	}

	txn := entity.NewTransaction(
		investor.ID,
		input.Kind,
		input.Amount,
		input.OccurredOn.UTC(),
		input.Category,
		status,
		input.Description,
		input.Notes,
	)

	history, err := uc.transactionRepo.FindByInvestor(ctx, investor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load investor history: %w", err)
	}

	if err := uc.rules.check(txn, history); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(ctx, txn); err != nil {
		return nil, translateCreateError(err)
	}

	invalidateSummary(ctx, uc.cache, investor.ID)

	slog.Info("Transaction recorded",
		"transactionID", txn.ID,
		"investorID", investor.ID,
		"kind", txn.Kind,
		"amount", txn.Amount.String(),
	)

	return &CreateTransactionOutput{Transaction: txn}, nil
}

// invalidateSummary drops cached portfolio summaries. Failures only cost a stale read until the TTL expires.
func invalidateSummary(ctx context.Context, cache adapter.SummaryCache, investorID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, investorID); err != nil {
		slog.Warn("Failed to invalidate portfolio cache", "investorID", investorID, "error", err)
	}
}
