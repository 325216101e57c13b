package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
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
	"github.com/advisory-portal/backend/internal/integration/adapters"
	"github.com/advisory-portal/backend/internal/integration/persistence"
	"github.com/advisory-portal/backend/internal/integration/persistence/model"
)

type testEnv struct {
	users     adapter.UserRepository
	passwords adapter.PasswordService
	tokens    adapter.TokenService
	resets    adapter.PasswordResetTokenService
	emails    *recordingEmailService
}

func newTestEnv(t *testing.T) *testEnv {
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

	tokenRepo := persistence.NewTokenRepository(db)
	return &testEnv{
		users:     persistence.NewUserRepository(db),
		passwords: adapters.NewPasswordService(bcrypt.MinCost),
		tokens:    adapters.NewTokenService("test-secret", adapters.TokenDurations{Access: time.Minute, Refresh: time.Hour}, tokenRepo),
		resets:    adapters.NewPasswordResetTokenService(tokenRepo),
		emails:    &recordingEmailService{},
	}
}

func (e *testEnv) register(t *testing.T, email, password string) *RegisterUserOutput {
	t.Helper()
	out, err := NewRegisterUserUseCase(e.users, e.passwords, e.tokens).Execute(context.Background(), RegisterUserInput{
		Email:    email,
		Name:     "Chidi Okafor",
		Password: password,
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	return out
}

type recordingEmailService struct {
	mu     sync.Mutex
	resets []adapter.QueuePasswordResetInput
}

func (r *recordingEmailService) QueuePasswordResetEmail(_ context.Context, input adapter.QueuePasswordResetInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets = append(r.resets, input)
	return nil
}

func (r *recordingEmailService) QueuePayoutGeneratedEmail(context.Context, adapter.QueuePayoutGeneratedInput) error {
	return nil
}

func (r *recordingEmailService) CancelPayoutEmail(context.Context, uuid.UUID) error {
	return nil
}

func authCode(t *testing.T, err error) domainerror.AuthErrorCode {
	t.Helper()
	var authErr *domainerror.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	return authErr.Code
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		valid    bool
	}{
		{"  Ada@Example.COM ", "ada@example.com", true},
		{"first.last+tag@sub.example.ng", "first.last+tag@sub.example.ng", true},
		{"missing-at.example.com", "missing-at.example.com", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeEmail(tt.input)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
			if IsValidEmail(got) != tt.valid {
				t.Errorf("expected valid=%v for %q", tt.valid, got)
			}
		})
	}
}

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)
	out := env.register(t, "Chidi@Example.com", "password1")

	if out.User.Role != entity.RoleClient {
		t.Errorf("expected registered account to be a client, got %s", out.User.Role)
	}
	if out.User.Email != "chidi@example.com" {
		t.Errorf("expected normalized email, got %s", out.User.Email)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		t.Error("expected a token pair")
	}

	tests := []struct {
		name         string
		input        RegisterUserInput
		expectedCode domainerror.AuthErrorCode
	}{
		{"missing name", RegisterUserInput{Email: "a@example.com", Password: "password1"}, domainerror.ErrCodeMissingFields},
		{"invalid email", RegisterUserInput{Email: "a@", Name: "A", Password: "password1"}, domainerror.ErrCodeInvalidEmail},
		{"weak password", RegisterUserInput{Email: "a@example.com", Name: "A", Password: "password"}, domainerror.ErrCodeWeakPassword},
		{"duplicate email", RegisterUserInput{Email: "CHIDI@example.com", Name: "A", Password: "password1"}, domainerror.ErrCodeEmailExists},
	}

	uc := NewRegisterUserUseCase(env.users, env.passwords, env.tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.input)
			if code := authCode(t, err); code != tt.expectedCode {
				t.Errorf("expected %s, got %s", tt.expectedCode, code)
			}
		})
	}
}

func TestLoginUser(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ngozi@example.com", "password1")
	uc := NewLoginUserUseCase(env.users, env.passwords, env.tokens)
	ctx := context.Background()

	out, err := uc.Execute(ctx, LoginUserInput{Email: " NGOZI@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := env.tokens.ValidateAccessToken(ctx, out.AccessToken)
	if err != nil {
		t.Fatalf("expected a valid access token: %v", err)
	}
	if claims.Role != entity.RoleClient {
		t.Errorf("expected client role claim, got %s", claims.Role)
	}

	tests := []struct {
		name  string
		input LoginUserInput
	}{
		{"wrong password", LoginUserInput{Email: "ngozi@example.com", Password: "password2"}},
		{"unknown email", LoginUserInput{Email: "nobody@example.com", Password: "password1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.input)
			if code := authCode(t, err); code != domainerror.ErrCodeInvalidCredentials {
				t.Errorf("expected invalid credentials, got %s", code)
			}
		})
	}
}

func TestRefreshToken_PicksUpRoleChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registered := env.register(t, "staff@example.com", "password1")

	user := registered.User
	user.Role = entity.RoleAdmin
	if err := env.users.Update(ctx, user); err != nil {
		t.Fatalf("failed to promote user: %v", err)
	}

	uc := NewRefreshTokenUseCase(env.users, env.tokens)
	out, err := uc.Execute(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := env.tokens.ValidateAccessToken(ctx, out.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Role != entity.RoleAdmin {
		t.Errorf("expected refreshed token to carry admin role, got %s", claims.Role)
	}
	if out.Role != entity.RoleAdmin || out.User.Role != entity.RoleAdmin {
		t.Errorf("expected refreshed session to report admin, got %s / %s", out.Role, out.User.Role)
	}

	_, err = uc.Execute(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
	if code := authCode(t, err); code != domainerror.ErrCodeInvalidToken {
		t.Errorf("expected rotated token to be rejected, got %s", code)
	}

	_, err = uc.Execute(ctx, RefreshTokenInput{RefreshToken: "garbage"})
	if code := authCode(t, err); code != domainerror.ErrCodeInvalidToken {
		t.Errorf("expected invalid token, got %s", code)
	}
}

func TestLogoutUser_RevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registered := env.register(t, "logout@example.com", "password1")

	out, err := NewLogoutUserUseCase(env.tokens).Execute(ctx, LogoutUserInput{RefreshToken: registered.RefreshToken})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Message == "" {
		t.Error("expected a confirmation message")
	}

	_, err = NewRefreshTokenUseCase(env.users, env.tokens).Execute(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
	if code := authCode(t, err); code != domainerror.ErrCodeInvalidToken {
		t.Errorf("expected revoked token to be rejected, got %s", code)
	}
}

func TestLogoutUser_AllDevices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registered := env.register(t, "devices@example.com", "password1")

	login := NewLoginUserUseCase(env.users, env.passwords, env.tokens)
	phone, err := login.Execute(ctx, LoginUserInput{Email: "devices@example.com", Password: "password1", RememberMe: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logout := NewLogoutUserUseCase(env.tokens)
	out, err := logout.Execute(ctx, LogoutUserInput{RefreshToken: phone.RefreshToken, AllDevices: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.RevokedSessions != 2 {
		t.Errorf("expected 2 revoked sessions, got %d", out.RevokedSessions)
	}

	_, err = NewRefreshTokenUseCase(env.users, env.tokens).Execute(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
	if code := authCode(t, err); code != domainerror.ErrCodeInvalidToken {
		t.Errorf("expected the other device to be signed out, got %s", code)
	}

	tests := []struct {
		name  string
		input LogoutUserInput
	}{
		{"replayed token", LogoutUserInput{RefreshToken: phone.RefreshToken, AllDevices: true}},
		{"garbage token", LogoutUserInput{RefreshToken: "garbage", AllDevices: true}},
		{"no token", LogoutUserInput{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := logout.Execute(ctx, tt.input)
			if err != nil {
				t.Fatalf("expected logout to succeed, got %v", err)
			}
			if out.RevokedSessions != 0 {
				t.Errorf("expected 0 revoked sessions, got %d", out.RevokedSessions)
			}
		})
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registered := env.register(t, "reset@example.com", "password1")

	forgot := NewForgotPasswordUseCase(env.users, env.resets, env.emails, "http://portal.test")

	unknown, err := forgot.Execute(ctx, ForgotPasswordInput{Email: "ghost@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	known, err := forgot.Execute(ctx, ForgotPasswordInput{Email: "Reset@Example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unknown.Message != known.Message {
		t.Error("expected identical responses for known and unknown emails")
	}

	if len(env.emails.resets) != 1 {
		t.Fatalf("expected one reset email, got %d", len(env.emails.resets))
	}
	resetURL := env.emails.resets[0].ResetURL
	const prefix = "http://portal.test/reset-password?token="
	if !strings.HasPrefix(resetURL, prefix) {
		t.Fatalf("unexpected reset URL %q", resetURL)
	}
	token := strings.TrimPrefix(resetURL, prefix)

	reset := NewResetPasswordUseCase(env.users, env.passwords, env.resets, env.tokens)

	_, err = reset.Execute(ctx, ResetPasswordInput{Token: token, NewPassword: "short"})
	if code := authCode(t, err); code != domainerror.ErrCodeWeakPassword {
		t.Errorf("expected weak password, got %s", code)
	}

	if _, err := reset.Execute(ctx, ResetPasswordInput{Token: token, NewPassword: "newpassword2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = NewRefreshTokenUseCase(env.users, env.tokens).Execute(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
	if code := authCode(t, err); code != domainerror.ErrCodeInvalidToken {
		t.Errorf("expected sessions from before the reset to be revoked, got %s", code)
	}

	login := NewLoginUserUseCase(env.users, env.passwords, env.tokens)
	if _, err := login.Execute(ctx, LoginUserInput{Email: "reset@example.com", Password: "newpassword2"}); err != nil {
		t.Errorf("expected login with the new password, got %v", err)
	}

	_, err = reset.Execute(ctx, ResetPasswordInput{Token: token, NewPassword: "another3pass"})
	if code := authCode(t, err); code != domainerror.ErrCodeInvalidResetToken {
		t.Errorf("expected used token to be rejected, got %s", code)
	}
}

func TestForgotPassword_InvalidEmail(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewForgotPasswordUseCase(env.users, env.resets, nil, "").Execute(context.Background(), ForgotPasswordInput{Email: "not-an-email"})
	if code := authCode(t, err); code != domainerror.ErrCodeInvalidEmail {
		t.Errorf("expected invalid email, got %s", code)
	}
}
