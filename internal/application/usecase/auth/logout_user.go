// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"log/slog"

	"github.com/advisory-portal/backend/internal/application/adapter"
)

// LogoutUserInput names the session to end. AllDevices ends every session of the token's owner.
type LogoutUserInput struct {
	RefreshToken string
	AllDevices   bool
}

// LogoutUserOutput represents the output of user logout.
type LogoutUserOutput struct {
	Message         string
	RevokedSessions int64
}

// LogoutUserUseCase signs a user out of the portal.
type LogoutUserUseCase struct {
	tokenService adapter.TokenService
}

// NewLogoutUserUseCase creates a new LogoutUserUseCase instance.
func NewLogoutUserUseCase(tokenService adapter.TokenService) *LogoutUserUseCase {
	return &LogoutUserUseCase{
		tokenService: tokenService,
	}
}

// Execute never fails: a dead or unknown token leaves nothing to sign out of.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) (*LogoutUserOutput, error) {
	if input.RefreshToken == "" {
		return &LogoutUserOutput{Message: "Signed out"}, nil
	}

	if !input.AllDevices {
		if err := uc.tokenService.RevokeRefreshToken(ctx, input.RefreshToken); err != nil {
			slog.Warn("Failed to revoke refresh token on logout", "error", err)
			return &LogoutUserOutput{Message: "Signed out"}, nil
		}
		return &LogoutUserOutput{Message: "Signed out", RevokedSessions: 1}, nil
	}

	// The presented token must still be live to prove who is asking.
	claims, err := uc.tokenService.ConsumeRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		slog.Info("Sign-out from all devices with an unusable token", "error", err)
		return &LogoutUserOutput{Message: "Signed out"}, nil
	}

	revoked, err := uc.tokenService.RevokeSessions(ctx, claims.UserID)
	if err != nil {
		slog.Warn("Failed to revoke sessions", "userID", claims.UserID, "error", err)
	}
	revoked++

	slog.Info("Signed out of all devices", "userID", claims.UserID, "sessions", revoked)
	return &LogoutUserOutput{Message: "Signed out of all devices", RevokedSessions: revoked}, nil
}
