// Package portfolio contains the investor-facing portfolio use cases.
package portfolio

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/domain/payout"
	"github.com/advisory-portal/backend/internal/domain/valueobject"
)

const statementDateLayout = "2006-01-02"

// ExportStatementInput represents the input for a CSV statement export.
type ExportStatementInput struct {
	InvestorID uuid.UUID
	From       *time.Time
	To         *time.Time
}

// ExportStatementOutput holds the rendered statement.
type ExportStatementOutput struct {
	Filename string
	Content  []byte
}

// ExportStatementUseCase renders an investor's transactions as a CSV statement.
type ExportStatementUseCase struct {
	transactionRepo adapter.TransactionRepository
	rate            valueobject.ExchangeRate
}

// NewExportStatementUseCase creates a new ExportStatementUseCase instance.
func NewExportStatementUseCase(transactionRepo adapter.TransactionRepository, rate valueobject.ExchangeRate) *ExportStatementUseCase {
	return &ExportStatementUseCase{
		transactionRepo: transactionRepo,
		rate:            rate,
	}
}

// Execute builds the statement, oldest first, followed by the totals of the completed rows.
// Text cells are escaped so spreadsheets never evaluate them as formulas.
func (uc *ExportStatementUseCase) Execute(ctx context.Context, input ExportStatementInput) (*ExportStatementOutput, error) {
	if input.From != nil && input.To != nil && input.From.After(*input.To) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidDateRange,
			"start date must not be after end date",
			domainerror.ErrInvalidDateRange,
		)
	}

	txns, err := uc.transactionRepo.FindAllByFilter(ctx, adapter.TransactionFilter{
		InvestorID: input.InvestorID,
		StartDate:  input.From,
		EndDate:    input.To,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	totals, err := payout.ComputePrincipal(txns, payout.PrincipalFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Date", "Kind", "Category", "Status", "Description", amountHeader(uc.rate.Base), amountHeader(uc.rate.Quote)}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write statement header: %w", err)
	}

	for _, txn := range txns {
		if err := w.Write(uc.row(txn)); err != nil {
			return nil, fmt.Errorf("failed to write statement row: %w", err)
		}
	}

	footer := [][]string{
		{},
		uc.totalRow("Total contributions", totals.TotalContributions.StringFixed(2), uc.secondary(totals.TotalContributions)),
		uc.totalRow("Total payouts", totals.TotalPayouts.StringFixed(2), uc.secondary(totals.TotalPayouts)),
		uc.totalRow("Net principal", totals.NetPrincipal.StringFixed(2), uc.secondary(totals.NetPrincipal)),
	}
	if err := w.WriteAll(footer); err != nil {
		return nil, fmt.Errorf("failed to write statement totals: %w", err)
	}

	return &ExportStatementOutput{
		Filename: statementFilename(input),
		Content:  buf.Bytes(),
	}, nil
}

func (uc *ExportStatementUseCase) row(txn *entity.Transaction) []string {
	return []string{
		txn.OccurredOn.Format(statementDateLayout),
		string(txn.Kind),
		string(txn.InvestmentCategory),
		string(txn.Status),
		valueobject.SafeSpreadsheetCell(txn.Description),
		txn.Amount.StringFixed(2),
		uc.secondary(txn.Amount),
	}
}

func (uc *ExportStatementUseCase) totalRow(label, amount, secondary string) []string {
	return []string{"", "", "", "", label, amount, secondary}
}

func (uc *ExportStatementUseCase) secondary(amount decimal.Decimal) string {
	if uc.rate.IsZero() {
		return ""
	}
	return uc.rate.Convert(amount).Amount.StringFixed(2)
}

func amountHeader(currency string) string {
	if currency == "" {
		return "Amount"
	}
	return "Amount (" + currency + ")"
}

func statementFilename(input ExportStatementInput) string {
	name := "statement"
	if input.From != nil {
		name += "_" + input.From.Format(statementDateLayout)
	}
	if input.To != nil {
		name += "_" + input.To.Format(statementDateLayout)
	}
	return name + ".csv"
}
