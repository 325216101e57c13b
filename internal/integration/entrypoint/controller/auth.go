// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/advisory-portal/backend/internal/application/usecase/auth"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/dto"
)

// AuthUseCases groups the sign-in use cases served by AuthController.
type AuthUseCases struct {
	Register       *auth.RegisterUserUseCase
	Login          *auth.LoginUserUseCase
	Refresh        *auth.RefreshTokenUseCase
	Logout         *auth.LogoutUserUseCase
	ForgotPassword *auth.ForgotPasswordUseCase
	ResetPassword  *auth.ResetPasswordUseCase
}

// AuthController handles sign-up, sign-in and password recovery for investors and staff.
type AuthController struct {
	useCases AuthUseCases
}

// NewAuthController creates a new auth controller instance.
func NewAuthController(useCases AuthUseCases) *AuthController {
	return &AuthController{useCases: useCases}
}

// Register handles POST /auth/register. Self-registered accounts are investors.
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !bindAuthRequest(ctx, &req, domainerror.ErrCodeMissingFields) {
		return
	}

	output, err := c.useCases.Register.Execute(ctx.Request.Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		c.fail(ctx, "register", err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToSessionResponse(output.Session, output.User))
}

// Login handles POST /auth/login. The response tells the client which portal section to open.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindAuthRequest(ctx, &req, domainerror.ErrCodeMissingFields) {
		return
	}

	output, err := c.useCases.Login.Execute(ctx.Request.Context(), auth.LoginUserInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		c.fail(ctx, "login", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSessionResponse(output.Session, output.User))
}

// RefreshToken handles POST /auth/refresh.
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindAuthRequest(ctx, &req, domainerror.ErrCodeMissingToken) {
		return
	}

	output, err := c.useCases.Refresh.Execute(ctx.Request.Context(), auth.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		c.fail(ctx, "refresh", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSessionResponse(output.Session, output.User))
}

// Logout handles POST /auth/logout. A missing or unreadable body still signs out.
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.LogoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		slog.Debug("Logout without a readable body", "error", err)
	}

	output, _ := c.useCases.Logout.Execute(ctx.Request.Context(), auth.LogoutUserInput{
		RefreshToken: req.RefreshToken,
		AllDevices:   req.AllDevices,
	})

	ctx.JSON(http.StatusOK, dto.LogoutResponse{
		Message:         output.Message,
		RevokedSessions: output.RevokedSessions,
	})
}

// ForgotPassword handles POST /auth/forgot-password. Known and unknown emails get the same answer.
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindAuthRequest(ctx, &req, domainerror.ErrCodeInvalidEmail) {
		return
	}

	output, err := c.useCases.ForgotPassword.Execute(ctx.Request.Context(), auth.ForgotPasswordInput{
		Email: req.Email,
	})
	if err != nil {
		c.fail(ctx, "forgot_password", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: output.Message})
}

// ResetPassword handles POST /auth/reset-password.
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindAuthRequest(ctx, &req, domainerror.ErrCodeMissingFields) {
		return
	}

	output, err := c.useCases.ResetPassword.Execute(ctx.Request.Context(), auth.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		c.fail(ctx, "reset_password", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: output.Message})
}

// fail logs rejected sign-in attempts without the submitted credentials.
func (c *AuthController) fail(ctx *gin.Context, action string, err error) {
	slog.Info("Auth request rejected", "action", action, "ip", ctx.ClientIP(), "error", err)
	respondWithError(ctx, err)
}

// bindAuthRequest answers 400 with code when the body does not match req.
func bindAuthRequest(ctx *gin.Context, req any, code domainerror.AuthErrorCode) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		slog.Debug("Invalid auth request body", "path", ctx.FullPath(), "error", err)
		badRequest(ctx, "Invalid request body: "+err.Error(), string(code))
		return false
	}
	return true
}
