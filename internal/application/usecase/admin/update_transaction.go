// Package admin contains the back office use cases run by advisory staff.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/domain/payout"
)

// UpdateTransactionInput represents an administrative correction. Nil fields are left unchanged.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	Kind          *entity.TransactionKind
	Amount        *decimal.Decimal
	OccurredOn    *time.Time
	Category      *entity.InvestmentCategory
	Status        *entity.TransactionStatus
	Description   *string
	Notes         *string
}

// UpdateTransactionOutput represents the output of a transaction correction.
type UpdateTransactionOutput struct {
	Transaction *entity.Transaction
}

// UpdateTransactionUseCase applies corrections with the same rules as creation. A correction to a
// commodities contribution is rejected when it would put an existing withdrawal inside the lock-up.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	rules           transactionRules
	cache           adapter.SummaryCache
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance. cache may be nil.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	resolver *payout.Resolver,
	cache adapter.SummaryCache,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		rules:           transactionRules{resolver: resolver},
		cache:           cache,
	}
}

// Execute performs the correction.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	txn, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, transactionNotFound()
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	wasContribution := isCommoditiesContribution(txn)

	if input.Kind != nil {
		txn.Kind = *input.Kind
	}
	if input.Amount != nil {
		txn.Amount = *input.Amount
	}
	if input.OccurredOn != nil {
		txn.OccurredOn = input.OccurredOn.UTC()
	}
	if input.Category != nil {
		txn.InvestmentCategory = *input.Category
	}
	if input.Status != nil {
		txn.Status = *input.Status
	}
	if input.Description != nil {
		txn.Description = *input.Description
	}
	if input.Notes != nil {
		txn.Notes = *input.Notes
	}

	history, err := uc.transactionRepo.FindByInvestor(ctx, txn.InvestorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load investor history: %w", err)
	}

	others := without(history, txn)
	if err := uc.rules.check(txn, others); err != nil {
		return nil, err
	}
	if wasContribution || isCommoditiesContribution(txn) {
		if err := uc.rules.checkStandingWithdrawals(append(others, txn)); err != nil {
			return nil, err
		}
	}

	txn.UpdatedAt = time.Now().UTC()
	if err := uc.transactionRepo.Update(ctx, txn); err != nil {
		return nil, translateCreateError(err)
	}

	invalidateSummary(ctx, uc.cache, txn.InvestorID)

	slog.Info("Transaction corrected", "transactionID", txn.ID, "investorID", txn.InvestorID)

	return &UpdateTransactionOutput{Transaction: txn}, nil
}

// translateCreateError maps the duplicate payout constraint onto its coded error.
func translateCreateError(err error) error {
	if errors.Is(err, domainerror.ErrPayoutAlreadyGenerated) {
		return domainerror.NewPayoutError(
			domainerror.ErrCodePayoutAlreadyGenerated,
			"a payout for this window already exists",
			err,
		)
	}
	return fmt.Errorf("failed to save transaction: %w", err)
}
