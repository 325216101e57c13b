// Package portfolio contains the investor-facing portfolio use cases.
package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/domain/payout"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListTransactionsInput represents the input for listing an investor's transactions.
type ListTransactionsInput struct {
	InvestorID uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	Kinds      []entity.TransactionKind
	Status     *entity.TransactionStatus
	Category   *entity.InvestmentCategory
	Search     string
	Page       int
	Limit      int
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListTransactionsOutput represents the output of listing transactions.
// Totals cover every completed transaction matching the filter, not just the current page.
type ListTransactionsOutput struct {
	Transactions []*entity.Transaction
	Pagination   PaginationOutput
	Totals       payout.Principal
}

// ListTransactionsUseCase handles the paginated transaction history.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute performs the transaction listing, newest first.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	if input.StartDate != nil && input.EndDate != nil && input.StartDate.After(*input.EndDate) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidDateRange,
			"start date must not be after end date",
			domainerror.ErrInvalidDateRange,
		)
	}
	for _, kind := range input.Kinds {
		if !kind.IsValid() {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTransactionKind,
				fmt.Sprintf("unsupported transaction kind %q", kind),
				domainerror.ErrInvalidTransactionKind,
			)
		}
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := adapter.TransactionFilter{
		InvestorID: input.InvestorID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Kinds:      input.Kinds,
		Status:     input.Status,
		Category:   input.Category,
		Search:     input.Search,
	}

	result, err := uc.transactionRepo.FindByFilter(ctx, filter, adapter.TransactionPagination{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	all, err := uc.transactionRepo.FindAllByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for totals: %w", err)
	}
	totals, err := payout.ComputePrincipal(all, payout.PrincipalFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	return &ListTransactionsOutput{
		Transactions: result.Transactions,
		Pagination: PaginationOutput{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
		Totals: totals,
	}, nil
}
