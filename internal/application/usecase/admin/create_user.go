// Package admin contains the back office use cases run by advisory staff.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/application/usecase/auth"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
)

// CreateUserInput represents the input for creating an account from the back office.
type CreateUserInput struct {
	CreatedBy uuid.UUID
	Email     string
	Name      string
	Password  string
	Role      entity.UserRole
}

// CreateUserOutput represents the output of account creation.
type CreateUserOutput struct {
	User *entity.User
}

// CreateUserUseCase lets an administrator open client or admin accounts.
type CreateUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
}

// NewCreateUserUseCase creates a new CreateUserUseCase instance.
func NewCreateUserUseCase(userRepo adapter.UserRepository, passwordService adapter.PasswordService) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
	}
}

// Execute creates the account. An empty role defaults to client.
func (uc *CreateUserUseCase) Execute(ctx context.Context, input CreateUserInput) (*CreateUserOutput, error) {
	role := input.Role
	if role == "" {
		role = entity.RoleClient
	}
	if !role.IsValid() {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidRole,
			fmt.Sprintf("unsupported role %q", input.Role),
			domainerror.ErrInvalidRole,
		)
	}

	email := auth.NormalizeEmail(input.Email)
	if !auth.IsValidEmail(email) {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidEmail,
			"invalid email format",
			domainerror.ErrInvalidEmail,
		)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeMissingFields, "name is required", nil)
	}

	if err := uc.passwordService.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			err.Error(),
			domainerror.ErrWeakPassword,
		)
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeEmailExists,
			"email already exists",
			domainerror.ErrEmailAlreadyExists,
		)
	}

	passwordHash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(email, name, passwordHash, role)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("Account created by administrator",
		"userID", user.ID,
		"role", user.Role,
		"createdBy", input.CreatedBy,
	)

	return &CreateUserOutput{User: user}, nil
}
