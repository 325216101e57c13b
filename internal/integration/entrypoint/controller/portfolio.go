// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/advisory-portal/backend/internal/application/usecase/portfolio"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/dto"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/middleware"
)

// Clock returns the current time. Handlers use it as the default reference date.
type Clock func() time.Time

// PortfolioController handles the client portal endpoints.
type PortfolioController struct {
	getPortfolioUseCase     *portfolio.GetPortfolioUseCase
	listTransactionsUseCase *portfolio.ListTransactionsUseCase
	exportStatementUseCase  *portfolio.ExportStatementUseCase
	formatter               dto.AmountFormatter
	now                     Clock
}

// NewPortfolioController creates a new portfolio controller instance.
func NewPortfolioController(
	getPortfolioUseCase *portfolio.GetPortfolioUseCase,
	listTransactionsUseCase *portfolio.ListTransactionsUseCase,
	exportStatementUseCase *portfolio.ExportStatementUseCase,
	formatter dto.AmountFormatter,
	now Clock,
) *PortfolioController {
	if now == nil {
		now = time.Now
	}
	return &PortfolioController{
		getPortfolioUseCase:     getPortfolioUseCase,
		listTransactionsUseCase: listTransactionsUseCase,
		exportStatementUseCase:  exportStatementUseCase,
		formatter:               formatter,
		now:                     now,
	}
}

// Get handles GET /portfolio requests. An optional as_of query date replaces today.
func (c *PortfolioController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	asOf, ok := referenceDate(ctx, ctx.Query("as_of"), c.now)
	if !ok {
		return
	}

	output, err := c.getPortfolioUseCase.Execute(ctx.Request.Context(), portfolio.GetPortfolioInput{
		InvestorID: userID,
		AsOf:       asOf,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.formatter.ToPortfolioResponse(output.Summary))
}

// ListTransactions handles GET /portfolio/transactions requests.
func (c *PortfolioController) ListTransactions(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	input := portfolio.ListTransactionsInput{
		InvestorID: userID,
		Search:     ctx.Query("search"),
	}

	var valid bool
	if input.StartDate, valid = optionalDate(ctx, ctx.Query("start_date")); !valid {
		return
	}
	if input.EndDate, valid = optionalDate(ctx, ctx.Query("end_date")); !valid {
		return
	}

	if kinds := ctx.Query("kind"); kinds != "" {
		for _, kind := range strings.Split(kinds, ",") {
			input.Kinds = append(input.Kinds, entity.TransactionKind(strings.TrimSpace(kind)))
		}
	}
	if status := ctx.Query("status"); status != "" {
		s := entity.TransactionStatus(status)
		input.Status = &s
	}
	if category := ctx.Query("category"); category != "" {
		cat := entity.InvestmentCategory(category)
		input.Category = &cat
	}

	if page, err := strconv.Atoi(ctx.Query("page")); err == nil {
		input.Page = page
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		input.Limit = limit
	}

	output, err := c.listTransactionsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.formatter.ToTransactionListResponse(output))
}

// ExportStatement handles GET /portfolio/statement.csv requests.
func (c *PortfolioController) ExportStatement(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthenticated(ctx)
		return
	}

	input := portfolio.ExportStatementInput{InvestorID: userID}
	var valid bool
	if input.From, valid = optionalDate(ctx, ctx.Query("from")); !valid {
		return
	}
	if input.To, valid = optionalDate(ctx, ctx.Query("to")); !valid {
		return
	}

	output, err := c.exportStatementUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+output.Filename+`"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", output.Content)
}

func unauthenticated(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "User not authenticated",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}

// parseDate parses a YYYY-MM-DD date, writing a 400 response when it is malformed.
func parseDate(ctx *gin.Context, raw string) (time.Time, bool) {
	parsed, err := time.Parse(dto.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		badRequest(ctx, "Invalid date format. Use YYYY-MM-DD", string(domainerror.ErrCodeInvalidTransactionDate))
		return time.Time{}, false
	}
	return parsed, true
}

// optionalDate parses raw when present. An empty value yields (nil, true).
func optionalDate(ctx *gin.Context, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	parsed, ok := parseDate(ctx, raw)
	if !ok {
		return nil, false
	}
	return &parsed, true
}

// referenceDate parses raw, defaulting to today's date in UTC.
func referenceDate(ctx *gin.Context, raw string, now Clock) (time.Time, bool) {
	if raw == "" {
		today := now().UTC()
		return time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return parseDate(ctx, raw)
}
