// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
)

// RefreshTokenInput represents the input for token refresh.
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenOutput is the rotated session and the account as currently stored.
type RefreshTokenOutput struct {
	*adapter.Session
	User *entity.User
}

// RefreshTokenUseCase rotates a refresh token. The user is reloaded so role changes take effect.
type RefreshTokenUseCase struct {
	userRepo     adapter.UserRepository
	tokenService adapter.TokenService
}

// NewRefreshTokenUseCase creates a new RefreshTokenUseCase instance.
func NewRefreshTokenUseCase(userRepo adapter.UserRepository, tokenService adapter.TokenService) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

// Execute exchanges the refresh token for a new session. The old token is dead afterwards,
// even if the account lookup fails.
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, input RefreshTokenInput) (*RefreshTokenOutput, error) {
	claims, err := uc.tokenService.ConsumeRefreshToken(ctx, input.RefreshToken)
	switch {
	case errors.Is(err, domainerror.ErrExpiredToken):
		return nil, domainerror.NewAuthError(domainerror.ErrCodeExpiredToken, "refresh token has expired", err)
	case errors.Is(err, domainerror.ErrInvalidToken):
		return nil, domainerror.NewAuthError(domainerror.ErrCodeInvalidToken, "invalid or revoked refresh token", err)
	case err != nil:
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	user, err := uc.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewAuthError(
				domainerror.ErrCodeInvalidToken,
				"account no longer exists",
				domainerror.ErrInvalidToken,
			)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	session, err := uc.tokenService.IssueSession(ctx, user, false)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &RefreshTokenOutput{Session: session, User: user}, nil
}
