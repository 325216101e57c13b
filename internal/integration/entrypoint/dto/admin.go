// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/application/usecase/admin"
	"github.com/advisory-portal/backend/internal/domain/entity"
)

// CreateUserRequest represents the request body for back office account creation.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role,omitempty" binding:"omitempty,oneof=client admin"`
}

// CreateTransactionRequest represents the request body for recording a transaction.
// Amount is a decimal string so no precision is lost in transit.
type CreateTransactionRequest struct {
	InvestorID  string `json:"investor_id" binding:"required,uuid"`
	Kind        string `json:"kind" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Category    string `json:"category,omitempty"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty" binding:"omitempty,max=255"`
	Notes       string `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// UpdateTransactionRequest represents the request body for correcting a transaction.
type UpdateTransactionRequest struct {
	Kind        *string `json:"kind,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Date        *string `json:"date,omitempty"`
	Category    *string `json:"category,omitempty"`
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
	Notes       *string `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// SetPayoutWindowRequest represents the request body for assigning a payout window.
type SetPayoutWindowRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// GeneratePayoutRequest represents the optional request body for payout generation.
type GeneratePayoutRequest struct {
	AsOf string `json:"as_of,omitempty"`
}

// InvestorListResponse represents the response for listing investors.
type InvestorListResponse struct {
	Investors []UserResponse `json:"investors"`
}

// InvestorSummaryResponse is the back office view of an investor, including the admin fee.
type InvestorSummaryResponse struct {
	Investor                      UserResponse      `json:"investor"`
	Portfolio                     PortfolioResponse `json:"portfolio"`
	ProjectedGrossReturn          string            `json:"projected_gross_return"`
	ProjectedGrossReturnSecondary string            `json:"projected_gross_return_secondary,omitempty"`
	ProjectedAdminFee             string            `json:"projected_admin_fee"`
	ProjectedAdminFeeSecondary    string            `json:"projected_admin_fee_secondary,omitempty"`
}

// PayoutResponse represents a generated payout and the figures behind it.
type PayoutResponse struct {
	Payout                        TransactionResponse `json:"payout"`
	CommoditiesPrincipal          string              `json:"commodities_principal"`
	CommoditiesPrincipalSecondary string              `json:"commodities_principal_secondary,omitempty"`
	GrossReturn                   string              `json:"gross_return"`
	InvestorShare                 string              `json:"investor_share"`
	InvestorShareSecondary        string              `json:"investor_share_secondary,omitempty"`
	AdminFee                      string              `json:"admin_fee"`
	AdminFeeSecondary             string              `json:"admin_fee_secondary,omitempty"`
	IsLocked                      bool                `json:"is_locked"`
	LockReleaseDate               *string             `json:"lock_release_date,omitempty"`
}

// ToInvestorListResponse converts investors to an InvestorListResponse DTO.
func ToInvestorListResponse(investors []*entity.User) InvestorListResponse {
	response := InvestorListResponse{Investors: make([]UserResponse, 0, len(investors))}
	for _, investor := range investors {
		response.Investors = append(response.Investors, ToUserResponse(investor))
	}
	return response
}

// ToInvestorSummaryResponse converts a back office summary to its DTO.
func (f AmountFormatter) ToInvestorSummaryResponse(investor *entity.User, summary *adapter.PortfolioSummary) InvestorSummaryResponse {
	return InvestorSummaryResponse{
		Investor:                      ToUserResponse(investor),
		Portfolio:                     f.ToPortfolioResponse(summary),
		ProjectedGrossReturn:          f.Base(summary.ProjectedGrossReturn),
		ProjectedGrossReturnSecondary: f.Secondary(summary.ProjectedGrossReturn),
		ProjectedAdminFee:             f.Base(summary.ProjectedAdminFee),
		ProjectedAdminFeeSecondary:    f.Secondary(summary.ProjectedAdminFee),
	}
}

// ToPayoutResponse converts the payout generation output to a PayoutResponse DTO.
func (f AmountFormatter) ToPayoutResponse(output *admin.GeneratePayoutOutput) PayoutResponse {
	return PayoutResponse{
		Payout:                        f.ToTransactionResponse(output.Payout),
		CommoditiesPrincipal:          f.Base(output.Principal.NetPrincipal),
		CommoditiesPrincipalSecondary: f.Secondary(output.Principal.NetPrincipal),
		GrossReturn:                   f.Base(output.Return.GrossReturn),
		InvestorShare:                 f.Base(output.Return.InvestorShare),
		InvestorShareSecondary:        f.Secondary(output.Return.InvestorShare),
		AdminFee:                      f.Base(output.Return.AdminFee),
		AdminFeeSecondary:             f.Secondary(output.Return.AdminFee),
		IsLocked:                      output.Eligibility.IsLocked,
		LockReleaseDate:               FormatDate(output.Eligibility.LockReleaseDate),
	}
}
