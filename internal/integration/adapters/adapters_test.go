package adapters

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/integration/persistence"
	"github.com/advisory-portal/backend/internal/integration/persistence/model"
)

func newTokenRepository(t *testing.T) persistence.TokenRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&model.UserModel{}, &model.RefreshTokenModel{}, &model.PasswordResetTokenModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	return persistence.NewTokenRepository(db)
}

func newAdmin() *entity.User {
	return entity.NewUser("admin@example.com", "Admin", "hash", entity.RoleAdmin)
}

func TestTokenService_RoundTripCarriesRole(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService("secret", TokenDurations{Access: time.Minute, Refresh: time.Hour}, newTokenRepository(t))
	user := newAdmin()

	pair, err := svc.IssueSession(ctx, user, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("expected user ID %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != entity.RoleAdmin {
		t.Errorf("expected role admin, got %s", claims.Role)
	}

	if pair.Role != entity.RoleAdmin {
		t.Errorf("expected session role admin, got %s", pair.Role)
	}
	if !pair.AccessExpiresAt.Truncate(time.Second).Equal(claims.ExpiresAt) {
		t.Errorf("expected access expiry %s, got %s", claims.ExpiresAt, pair.AccessExpiresAt)
	}

	refreshed, err := svc.ConsumeRefreshToken(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("expected stored refresh token to be accepted, got %v", err)
	}
	if refreshed.UserID != user.ID {
		t.Errorf("expected user ID %s, got %s", user.ID, refreshed.UserID)
	}
	if _, err := svc.ConsumeRefreshToken(ctx, pair.RefreshToken); !errors.Is(err, domainerror.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken on replay, got %v", err)
	}
}

func TestTokenService_RevokeSessions(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService("secret", TokenDurations{}, newTokenRepository(t))
	user := newAdmin()

	laptop, err := svc.IssueSession(ctx, user, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	phone, err := svc.IssueSession(ctx, user, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	revoked, err := svc.RevokeSessions(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked != 2 {
		t.Errorf("expected 2 revoked sessions, got %d", revoked)
	}
	for _, session := range []*adapter.Session{laptop, phone} {
		if _, err := svc.ConsumeRefreshToken(ctx, session.RefreshToken); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken for a revoked session, got %v", err)
		}
	}
}

func TestTokenService_RejectsWrongTokenType(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService("secret", TokenDurations{}, newTokenRepository(t))

	pair, err := svc.IssueSession(ctx, newAdmin(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, pair.RefreshToken); !errors.Is(err, domainerror.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for refresh token used as access, got %v", err)
	}
	if _, err := svc.ConsumeRefreshToken(ctx, pair.AccessToken); !errors.Is(err, domainerror.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for access token used as refresh, got %v", err)
	}
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	repo := newTokenRepository(t)
	issuer := NewTokenService("secret-a", TokenDurations{}, repo)
	verifier := NewTokenService("secret-b", TokenDurations{}, repo)

	pair, err := issuer.IssueSession(ctx, newAdmin(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := verifier.ValidateAccessToken(ctx, pair.AccessToken); !errors.Is(err, domainerror.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService("secret", TokenDurations{Access: time.Minute}, newTokenRepository(t)).(*tokenService)
	svc.now = func() time.Time { return time.Now().UTC().Add(-time.Hour) }

	pair, err := svc.IssueSession(ctx, newAdmin(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ValidateAccessToken(ctx, pair.AccessToken); !errors.Is(err, domainerror.ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestPasswordResetTokenService(t *testing.T) {
	ctx := context.Background()
	svc := NewPasswordResetTokenService(newTokenRepository(t))
	userID := uuid.New()

	token, err := svc.GenerateResetToken(ctx, userID, "client@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token.Token) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(token.Token))
	}

	found, err := svc.ValidateResetToken(ctx, token.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != userID {
		t.Errorf("expected user %s, got %s", userID, found.UserID)
	}

	if err := svc.InvalidateResetToken(ctx, token.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ValidateResetToken(ctx, token.Token); !errors.Is(err, domainerror.ErrInvalidResetToken) {
		t.Errorf("expected ErrInvalidResetToken after use, got %v", err)
	}
}

func TestPasswordService(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.HashPassword("s3cretpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.VerifyPassword(hash, "s3cretpass"); err != nil {
		t.Errorf("expected password to verify, got %v", err)
	}
	if err := svc.VerifyPassword(hash, "wrong-pass1"); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestPasswordService_ValidatePasswordStrength(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	tests := []struct {
		password string
		wantErr  bool
	}{
		{"short1", true},
		{"onlyletters", true},
		{"12345678", true},
		{"letters123", false},
		{"pässwört9", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := svc.ValidatePasswordStrength(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
