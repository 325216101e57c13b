// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/dto"
)

// respondWithError writes the coded domain error carried by err, or a generic 500.
func respondWithError(ctx *gin.Context, err error) {
	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) {
		ctx.JSON(getStatusCodeForAuthError(authErr.Code), dto.ErrorResponse{
			Error: authErr.Message,
			Code:  string(authErr.Code),
		})
		return
	}

	var payoutErr *domainerror.PayoutError
	if errors.As(err, &payoutErr) {
		ctx.JSON(getStatusCodeForPayoutError(payoutErr.Code), dto.ErrorResponse{
			Error:           payoutErr.Message,
			Code:            string(payoutErr.Code),
			LockReleaseDate: dto.FormatDate(payoutErr.LockReleaseDate),
		})
		return
	}

	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		ctx.JSON(getStatusCodeForTransactionError(txnErr.Code), dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		})
		return
	}

	slog.Error("Unhandled request error", "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForAuthError maps auth error codes to HTTP status codes.
func getStatusCodeForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidRole,
		domainerror.ErrCodeInvalidResetToken,
		domainerror.ErrCodeExpiredResetToken:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeUserNotFound,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeExpiredToken,
		domainerror.ErrCodeMissingToken:
		return http.StatusUnauthorized
	case domainerror.ErrCodeForbidden:
		return http.StatusForbidden
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForTransactionError maps transaction error codes to HTTP status codes.
func getStatusCodeForTransactionError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransactionNotFound,
		domainerror.ErrCodeInvestorNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidTransactionKind,
		domainerror.ErrCodeInvalidTransactionDate,
		domainerror.ErrCodeInvalidTransactionAmount,
		domainerror.ErrCodeInvalidTransactionStatus,
		domainerror.ErrCodeInvalidInvestmentCategory,
		domainerror.ErrCodeDescriptionTooLong,
		domainerror.ErrCodeNotesTooLong,
		domainerror.ErrCodeMissingTransactionFields,
		domainerror.ErrCodeInvalidDateRange:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForPayoutError maps payout error codes to HTTP status codes.
func getStatusCodeForPayoutError(code domainerror.PayoutErrorCode) int {
	switch code {
	case domainerror.ErrCodeMissingPayoutWindow,
		domainerror.ErrCodeNonPositiveAmount,
		domainerror.ErrCodeInvalidPayoutWindow,
		domainerror.ErrCodeInvalidPayoutMonth:
		return http.StatusBadRequest
	case domainerror.ErrCodePrincipalLocked,
		domainerror.ErrCodePayoutAlreadyGenerated:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(ctx *gin.Context, message string, code string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
