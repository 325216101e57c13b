// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

// Session is the token pair handed to a signed-in portal user. Role tells the client
// whether to open the investor portal or the back office.
type Session struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
	Role            entity.UserRole
}

// TokenClaims are the identity fields carried by a signed token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      entity.UserRole
	ExpiresAt time.Time
}

// TokenService issues and checks the JWTs used by the portal.
type TokenService interface {
	// IssueSession signs an access and refresh token for the user and records the refresh token.
	IssueSession(ctx context.Context, user *entity.User, rememberMe bool) (*Session, error)

	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)

	// ConsumeRefreshToken checks a refresh token and revokes it in the same step, so a token
	// can be exchanged once. Revoked and unknown tokens fail with domainerror.ErrInvalidToken.
	ConsumeRefreshToken(ctx context.Context, token string) (*TokenClaims, error)

	// RevokeRefreshToken ends the session a refresh token belongs to.
	RevokeRefreshToken(ctx context.Context, token string) error

	// RevokeSessions ends every open session of a user and reports how many were open.
	RevokeSessions(ctx context.Context, userID uuid.UUID) (int64, error)
}

// PasswordResetToken is a one-time token mailed to a user who forgot their password.
type PasswordResetToken struct {
	Token     string
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// PasswordResetTokenService manages password reset tokens.
type PasswordResetTokenService interface {
	GenerateResetToken(ctx context.Context, userID uuid.UUID, email string) (*PasswordResetToken, error)

	// ValidateResetToken returns domainerror.ErrInvalidResetToken for used, unknown or expired tokens.
	ValidateResetToken(ctx context.Context, token string) (*PasswordResetToken, error)

	InvalidateResetToken(ctx context.Context, token string) error
}
