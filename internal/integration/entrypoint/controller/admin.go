// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/advisory-portal/backend/internal/application/usecase/admin"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/dto"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/middleware"
)

// AdminUseCases groups the back office use cases served by AdminController.
type AdminUseCases struct {
	CreateUser         *admin.CreateUserUseCase
	ListInvestors      *admin.ListInvestorsUseCase
	GetInvestorSummary *admin.GetInvestorSummaryUseCase
	SetPayoutWindow    *admin.SetPayoutWindowUseCase
	GeneratePayout     *admin.GeneratePayoutUseCase
	CreateTransaction  *admin.CreateTransactionUseCase
	UpdateTransaction  *admin.UpdateTransactionUseCase
	DeleteTransaction  *admin.DeleteTransactionUseCase
}

// AdminController handles the back office endpoints.
type AdminController struct {
	useCases  AdminUseCases
	formatter dto.AmountFormatter
	now       Clock
}

// NewAdminController creates a new admin controller instance.
func NewAdminController(useCases AdminUseCases, formatter dto.AmountFormatter, now Clock) *AdminController {
	if now == nil {
		now = time.Now
	}
	return &AdminController{
		useCases:  useCases,
		formatter: formatter,
		now:       now,
	}
}

// CreateUser handles POST /admin/users requests.
func (c *AdminController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeMissingFields))
		return
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	output, err := c.useCases.CreateUser.Execute(ctx.Request.Context(), admin.CreateUserInput{
		CreatedBy: adminID,
		Email:     req.Email,
		Name:      req.Name,
		Password:  req.Password,
		Role:      entity.UserRole(req.Role),
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToUserResponse(output.User))
}

// ListInvestors handles GET /admin/investors requests.
func (c *AdminController) ListInvestors(ctx *gin.Context) {
	output, err := c.useCases.ListInvestors.Execute(ctx.Request.Context(), admin.ListInvestorsInput{
		Search: ctx.Query("search"),
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvestorListResponse(output.Investors))
}

// GetInvestorSummary handles GET /admin/investors/:id/summary requests.
func (c *AdminController) GetInvestorSummary(ctx *gin.Context) {
	investorID, ok := pathID(ctx, "Invalid investor ID format")
	if !ok {
		return
	}
	asOf, ok := referenceDate(ctx, ctx.Query("as_of"), c.now)
	if !ok {
		return
	}

	output, err := c.useCases.GetInvestorSummary.Execute(ctx.Request.Context(), admin.GetInvestorSummaryInput{
		InvestorID: investorID,
		AsOf:       asOf,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.formatter.ToInvestorSummaryResponse(output.Investor, output.Summary))
}

// SetPayoutWindow handles PUT /admin/investors/:id/payout-window requests.
func (c *AdminController) SetPayoutWindow(ctx *gin.Context) {
	investorID, ok := pathID(ctx, "Invalid investor ID format")
	if !ok {
		return
	}

	var req dto.SetPayoutWindowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeMissingPayoutWindow))
		return
	}
	start, ok := parseDate(ctx, req.Start)
	if !ok {
		return
	}
	end, ok := parseDate(ctx, req.End)
	if !ok {
		return
	}

	output, err := c.useCases.SetPayoutWindow.Execute(ctx.Request.Context(), admin.SetPayoutWindowInput{
		InvestorID: investorID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(output.Investor))
}

// GeneratePayout handles POST /admin/investors/:id/payouts requests.
func (c *AdminController) GeneratePayout(ctx *gin.Context) {
	investorID, ok := pathID(ctx, "Invalid investor ID format")
	if !ok {
		return
	}

	var req dto.GeneratePayoutRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			badRequest(ctx, "Invalid request body: "+err.Error(), "")
			return
		}
	}
	asOf, ok := referenceDate(ctx, req.AsOf, c.now)
	if !ok {
		return
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	output, err := c.useCases.GeneratePayout.Execute(ctx.Request.Context(), admin.GeneratePayoutInput{
		InvestorID:  investorID,
		AsOf:        asOf,
		GeneratedBy: adminID,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, c.formatter.ToPayoutResponse(output))
}

// CreateTransaction handles POST /admin/transactions requests.
func (c *AdminController) CreateTransaction(ctx *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeMissingTransactionFields))
		return
	}

	investorID, err := uuid.Parse(req.InvestorID)
	if err != nil {
		badRequest(ctx, "Invalid investor ID format", string(domainerror.ErrCodeMissingTransactionFields))
		return
	}
	amount, ok := parseAmount(ctx, req.Amount)
	if !ok {
		return
	}
	occurredOn, ok := parseDate(ctx, req.Date)
	if !ok {
		return
	}

	output, err := c.useCases.CreateTransaction.Execute(ctx.Request.Context(), admin.CreateTransactionInput{
		InvestorID:  investorID,
		Kind:        entity.TransactionKind(req.Kind),
		Amount:      amount,
		OccurredOn:  occurredOn,
		Category:    entity.InvestmentCategory(req.Category),
		Status:      entity.TransactionStatus(req.Status),
		Description: req.Description,
		Notes:       req.Notes,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, c.formatter.ToTransactionResponse(output.Transaction))
}

// UpdateTransaction handles PATCH /admin/transactions/:id requests.
func (c *AdminController) UpdateTransaction(ctx *gin.Context) {
	transactionID, ok := pathID(ctx, "Invalid transaction ID format")
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeMissingTransactionFields))
		return
	}

	input := admin.UpdateTransactionInput{
		TransactionID: transactionID,
		Description:   req.Description,
		Notes:         req.Notes,
	}
	if req.Kind != nil {
		kind := entity.TransactionKind(*req.Kind)
		input.Kind = &kind
	}
	if req.Amount != nil {
		amount, ok := parseAmount(ctx, *req.Amount)
		if !ok {
			return
		}
		input.Amount = &amount
	}
	if req.Date != nil {
		occurredOn, ok := parseDate(ctx, *req.Date)
		if !ok {
			return
		}
		input.OccurredOn = &occurredOn
	}
	if req.Category != nil {
		category := entity.InvestmentCategory(*req.Category)
		input.Category = &category
	}
	if req.Status != nil {
		status := entity.TransactionStatus(*req.Status)
		input.Status = &status
	}

	output, err := c.useCases.UpdateTransaction.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.formatter.ToTransactionResponse(output.Transaction))
}

// DeleteTransaction handles DELETE /admin/transactions/:id requests.
func (c *AdminController) DeleteTransaction(ctx *gin.Context) {
	transactionID, ok := pathID(ctx, "Invalid transaction ID format")
	if !ok {
		return
	}

	err := c.useCases.DeleteTransaction.Execute(ctx.Request.Context(), admin.DeleteTransactionInput{
		TransactionID: transactionID,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func pathID(ctx *gin.Context, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, message, "")
		return uuid.Nil, false
	}
	return id, true
}

func parseAmount(ctx *gin.Context, raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		badRequest(ctx, "Amount must be a decimal number", string(domainerror.ErrCodeInvalidTransactionAmount))
		return decimal.Zero, false
	}
	return amount, true
}
