// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/application/usecase/portfolio"
	"github.com/advisory-portal/backend/internal/domain/entity"
)

// PortfolioResponse is the investor-facing portfolio summary.
// Amounts are decimal strings; *_secondary fields carry the converted display amount.
type PortfolioResponse struct {
	InvestorID                    string           `json:"investor_id"`
	AsOf                          string           `json:"as_of"`
	Currency                      CurrencyResponse `json:"currency"`
	TotalContributions            string           `json:"total_contributions"`
	TotalContributionsSecondary   string           `json:"total_contributions_secondary,omitempty"`
	TotalPayouts                  string           `json:"total_payouts"`
	TotalPayoutsSecondary         string           `json:"total_payouts_secondary,omitempty"`
	NetPrincipal                  string           `json:"net_principal"`
	NetPrincipalSecondary         string           `json:"net_principal_secondary,omitempty"`
	CommoditiesPrincipal          string           `json:"commodities_principal"`
	CommoditiesPrincipalSecondary string           `json:"commodities_principal_secondary,omitempty"`
	HasPayoutWindow               bool             `json:"has_payout_window"`
	NextPayoutMonth               string           `json:"next_payout_month,omitempty"`
	IsLocked                      bool             `json:"is_locked"`
	LockReleaseDate               *string          `json:"lock_release_date,omitempty"`
	CycleMonths                   int              `json:"cycle_months"`
	ProjectedReturn               string           `json:"projected_return"`
	ProjectedReturnSecondary      string           `json:"projected_return_secondary,omitempty"`
	PayoutWindowStart             *string          `json:"payout_window_start,omitempty"`
	PayoutWindowEnd               *string          `json:"payout_window_end,omitempty"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID                string    `json:"id"`
	InvestorID        string    `json:"investor_id"`
	Kind              string    `json:"kind"`
	Amount            string    `json:"amount"`
	AmountSecondary   string    `json:"amount_secondary,omitempty"`
	Date              string    `json:"date"`
	Category          string    `json:"category,omitempty"`
	Status            string    `json:"status"`
	Description       string    `json:"description"`
	Notes             string    `json:"notes,omitempty"`
	PayoutWindowStart *string   `json:"payout_window_start,omitempty"`
	PayoutWindowEnd   *string   `json:"payout_window_end,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TransactionPaginationResponse represents pagination information in API responses.
type TransactionPaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionTotalsResponse represents aggregated totals over completed transactions.
type TransactionTotalsResponse struct {
	TotalContributions          string `json:"total_contributions"`
	TotalContributionsSecondary string `json:"total_contributions_secondary,omitempty"`
	TotalPayouts                string `json:"total_payouts"`
	TotalPayoutsSecondary       string `json:"total_payouts_secondary,omitempty"`
	NetPrincipal                string `json:"net_principal"`
	NetPrincipalSecondary       string `json:"net_principal_secondary,omitempty"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse         `json:"transactions"`
	Pagination   TransactionPaginationResponse `json:"pagination"`
	Totals       TransactionTotalsResponse     `json:"totals"`
}

// ToPortfolioResponse converts a summary into the investor view. The admin fee is not exposed.
func (f AmountFormatter) ToPortfolioResponse(summary *adapter.PortfolioSummary) PortfolioResponse {
	return PortfolioResponse{
		InvestorID:                    summary.InvestorID.String(),
		AsOf:                          summary.AsOf.Format(DateLayout),
		Currency:                      f.Currency(),
		TotalContributions:            f.Base(summary.TotalContributions),
		TotalContributionsSecondary:   f.Secondary(summary.TotalContributions),
		TotalPayouts:                  f.Base(summary.TotalPayouts),
		TotalPayoutsSecondary:         f.Secondary(summary.TotalPayouts),
		NetPrincipal:                  f.Base(summary.NetPrincipal),
		NetPrincipalSecondary:         f.Secondary(summary.NetPrincipal),
		CommoditiesPrincipal:          f.Base(summary.CommoditiesPrincipal),
		CommoditiesPrincipalSecondary: f.Secondary(summary.CommoditiesPrincipal),
		HasPayoutWindow:               summary.HasPayoutWindow,
		NextPayoutMonth:               summary.NextPayoutMonth,
		IsLocked:                      summary.IsLocked,
		LockReleaseDate:               FormatDate(summary.LockReleaseDate),
		CycleMonths:                   summary.CycleMonths,
		ProjectedReturn:               f.Base(summary.ProjectedInvestorReturn),
		ProjectedReturnSecondary:      f.Secondary(summary.ProjectedInvestorReturn),
		PayoutWindowStart:             FormatDate(summary.PayoutWindowStart),
		PayoutWindowEnd:               FormatDate(summary.PayoutWindowEnd),
	}
}

// ToTransactionResponse converts a transaction entity to a TransactionResponse DTO.
func (f AmountFormatter) ToTransactionResponse(txn *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                txn.ID.String(),
		InvestorID:        txn.InvestorID.String(),
		Kind:              string(txn.Kind),
		Amount:            f.Base(txn.Amount),
		AmountSecondary:   f.Secondary(txn.Amount),
		Date:              txn.OccurredOn.Format(DateLayout),
		Category:          string(txn.InvestmentCategory),
		Status:            string(txn.Status),
		Description:       txn.Description,
		Notes:             txn.Notes,
		PayoutWindowStart: FormatDate(txn.PayoutWindowStart),
		PayoutWindowEnd:   FormatDate(txn.PayoutWindowEnd),
		CreatedAt:         txn.CreatedAt,
		UpdatedAt:         txn.UpdatedAt,
	}
}

// ToTransactionListResponse converts the list output to a TransactionListResponse DTO.
func (f AmountFormatter) ToTransactionListResponse(output *portfolio.ListTransactionsOutput) TransactionListResponse {
	transactions := make([]TransactionResponse, 0, len(output.Transactions))
	for _, txn := range output.Transactions {
		transactions = append(transactions, f.ToTransactionResponse(txn))
	}

	return TransactionListResponse{
		Transactions: transactions,
		Pagination: TransactionPaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
		Totals: TransactionTotalsResponse{
			TotalContributions:          f.Base(output.Totals.TotalContributions),
			TotalContributionsSecondary: f.Secondary(output.Totals.TotalContributions),
			TotalPayouts:                f.Base(output.Totals.TotalPayouts),
			TotalPayoutsSecondary:       f.Secondary(output.Totals.TotalPayouts),
			NetPrincipal:                f.Base(output.Totals.NetPrincipal),
			NetPrincipalSecondary:       f.Secondary(output.Totals.NetPrincipal),
		},
	}
}
