// Package admin contains the back office use cases run by advisory staff.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/domain/payout"
)

// DeleteTransactionInput represents the input for removing a transaction.
type DeleteTransactionInput struct {
	TransactionID uuid.UUID
}

// DeleteTransactionUseCase soft-deletes transactions. Deleting a payout frees its window for
// regeneration and withdraws its notice if it has not been sent yet.
type DeleteTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	rules           transactionRules
	cache           adapter.SummaryCache
	emailService    adapter.EmailService
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance. cache and emailService may be nil.
func NewDeleteTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	resolver *payout.Resolver,
	cache adapter.SummaryCache,
	emailService adapter.EmailService,
) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		transactionRepo: transactionRepo,
		rules:           transactionRules{resolver: resolver},
		cache:           cache,
		emailService:    emailService,
	}
}

// Execute performs the deletion. Removing a commodities contribution is rejected when a remaining
// withdrawal would then fall inside the lock-up.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) error {
	txn, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return transactionNotFound()
		}
		return fmt.Errorf("failed to load transaction: %w", err)
	}

	if isCommoditiesContribution(txn) {
		history, err := uc.transactionRepo.FindByInvestor(ctx, txn.InvestorID)
		if err != nil {
			return fmt.Errorf("failed to load investor history: %w", err)
		}
		if err := uc.rules.checkStandingWithdrawals(without(history, txn)); err != nil {
			return err
		}
	}

	if err := uc.transactionRepo.Delete(ctx, txn.ID); err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return transactionNotFound()
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	invalidateSummary(ctx, uc.cache, txn.InvestorID)

	if txn.Kind == entity.KindDividend && uc.emailService != nil {
		if err := uc.emailService.CancelPayoutEmail(ctx, txn.ID); err != nil {
			slog.Error("Failed to cancel payout email", "transactionID", txn.ID, "error", err)
		}
	}

	slog.Info("Transaction deleted", "transactionID", txn.ID, "investorID", txn.InvestorID)
	return nil
}
