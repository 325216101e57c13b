// Package admin contains the back office use cases run by advisory staff.
package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
)

// ListInvestorsInput represents the input for listing investors.
type ListInvestorsInput struct {
	Search string
}

// ListInvestorsOutput represents the output of listing investors.
type ListInvestorsOutput struct {
	Investors []*entity.User
}

// ListInvestorsUseCase lists client accounts by name.
type ListInvestorsUseCase struct {
	userRepo adapter.UserRepository
}

// NewListInvestorsUseCase creates a new ListInvestorsUseCase instance.
func NewListInvestorsUseCase(userRepo adapter.UserRepository) *ListInvestorsUseCase {
	return &ListInvestorsUseCase{userRepo: userRepo}
}

// Execute lists investors, optionally filtered by name or email.
func (uc *ListInvestorsUseCase) Execute(ctx context.Context, input ListInvestorsInput) (*ListInvestorsOutput, error) {
	role := entity.RoleClient
	investors, err := uc.userRepo.List(ctx, adapter.UserFilter{
		Role:   &role,
		Search: strings.TrimSpace(input.Search),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list investors: %w", err)
	}
	return &ListInvestorsOutput{Investors: investors}, nil
}
