// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/integration/persistence"
)

const (
	tokenIssuer = "advisory-portal"

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	// rememberMeMultiplier stretches both token lifetimes for "remember me" sessions.
	rememberMeMultiplier = 4

	resetTokenDuration = time.Hour
)

// CustomClaims represents the custom claims for JWT tokens.
type CustomClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenDurations configures how long issued tokens stay valid.
type TokenDurations struct {
	Access  time.Duration
	Refresh time.Duration
}

// tokenService implements the adapter.TokenService interface.
type tokenService struct {
	secret          []byte
	durations       TokenDurations
	tokenRepository persistence.TokenRepository
	now             func() time.Time
}

// NewTokenService creates a new token service instance.
func NewTokenService(secret string, durations TokenDurations, tokenRepository persistence.TokenRepository) adapter.TokenService {
	if durations.Access <= 0 {
		durations.Access = 15 * time.Minute
	}
	if durations.Refresh <= 0 {
		durations.Refresh = 7 * 24 * time.Hour
	}
	return &tokenService{
		secret:          []byte(secret),
		durations:       durations,
		tokenRepository: tokenRepository,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// IssueSession signs an access and refresh token carrying the user's role.
func (s *tokenService) IssueSession(ctx context.Context, user *entity.User, rememberMe bool) (*adapter.Session, error) {
	accessDuration := s.durations.Access
	refreshDuration := s.durations.Refresh
	if rememberMe {
		accessDuration *= rememberMeMultiplier
		refreshDuration *= rememberMeMultiplier
	}

	now := s.now()
	accessToken, err := s.generateJWT(user, tokenTypeAccess, now, accessDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateJWT(user, tokenTypeRefresh, now, refreshDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.tokenRepository.SaveRefreshToken(ctx, refreshToken, user.ID, now.Add(refreshDuration)); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &adapter.Session{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(accessDuration),
		Role:            user.Role,
	}, nil
}

func (s *tokenService) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	return s.validate(token, tokenTypeAccess)
}

// ConsumeRefreshToken verifies the signature first so forged tokens never reach the database.
func (s *tokenService) ConsumeRefreshToken(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	claims, err := s.validate(token, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	consumed, err := s.tokenRepository.ConsumeRefreshToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	if !consumed {
		return nil, fmt.Errorf("%w: refresh token was revoked", domainerror.ErrInvalidToken)
	}

	return claims, nil
}

func (s *tokenService) RevokeRefreshToken(ctx context.Context, token string) error {
	return s.tokenRepository.InvalidateRefreshToken(ctx, token)
}

func (s *tokenService) RevokeSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.tokenRepository.InvalidateUserRefreshTokens(ctx, userID)
}

func (s *tokenService) validate(token, expectedType string) (*adapter.TokenClaims, error) {
	claims, err := s.parseJWT(token)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("%w: expected %s token", domainerror.ErrInvalidToken, expectedType)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad user ID: %v", domainerror.ErrInvalidToken, err)
	}

	role := entity.UserRole(claims.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domainerror.ErrInvalidToken, claims.Role)
	}

	return &adapter.TokenClaims{
		UserID:    userID,
		Email:     claims.Email,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *tokenService) generateJWT(user *entity.User, tokenType string, now time.Time, duration time.Duration) (string, error) {
	claims := CustomClaims{
		UserID:    user.ID.String(),
		Email:     user.Email,
		Role:      string(user.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) parseJWT(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", domainerror.ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", domainerror.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, domainerror.ErrInvalidToken
	}

	return claims, nil
}

// passwordResetTokenService implements the adapter.PasswordResetTokenService interface.
type passwordResetTokenService struct {
	tokenRepository persistence.TokenRepository
}

// NewPasswordResetTokenService creates a new password reset token service instance.
func NewPasswordResetTokenService(tokenRepository persistence.TokenRepository) adapter.PasswordResetTokenService {
	return &passwordResetTokenService{
		tokenRepository: tokenRepository,
	}
}

// GenerateResetToken creates a random one-hour reset token and stores it.
func (s *passwordResetTokenService) GenerateResetToken(ctx context.Context, userID uuid.UUID, email string) (*adapter.PasswordResetToken, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)
	expiresAt := time.Now().UTC().Add(resetTokenDuration)

	if err := s.tokenRepository.SavePasswordResetToken(ctx, token, userID, email, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save reset token: %w", err)
	}

	return &adapter.PasswordResetToken{
		Token:     token,
		UserID:    userID,
		Email:     email,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateResetToken returns the stored token when it is unused and unexpired.
func (s *passwordResetTokenService) ValidateResetToken(ctx context.Context, token string) (*adapter.PasswordResetToken, error) {
	resetToken, err := s.tokenRepository.GetPasswordResetToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if time.Now().UTC().After(resetToken.ExpiresAt) {
		return nil, domainerror.ErrInvalidResetToken
	}

	return &adapter.PasswordResetToken{
		Token:     resetToken.Token,
		UserID:    resetToken.UserID,
		Email:     resetToken.Email,
		ExpiresAt: resetToken.ExpiresAt,
	}, nil
}

// InvalidateResetToken invalidates a password reset token after use.
func (s *passwordResetTokenService) InvalidateResetToken(ctx context.Context, token string) error {
	return s.tokenRepository.InvalidatePasswordResetToken(ctx, token)
}
