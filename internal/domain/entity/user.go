// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the access level of a user.
type UserRole string

const (
	RoleClient UserRole = "client"
	RoleAdmin  UserRole = "admin"
)

// IsValid reports whether the role belongs to the supported set.
func (r UserRole) IsValid() bool {
	return r == RoleClient || r == RoleAdmin
}

// User represents a portal account. Clients are investors; admins run the back office.
type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	PasswordHash       string
	Role               UserRole
	PayoutWindowStart  *time.Time // Set by an administrator before a payout can be generated
	PayoutWindowEnd    *time.Time
	EmailNotifications bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewUser creates an account with the given role. Payout notifications start enabled.
func NewUser(email, name, passwordHash string, role UserRole) *User {
	now := time.Now().UTC()
	return &User{
		ID:                 uuid.New(),
		Email:              email,
		Name:               name,
		PasswordHash:       passwordHash,
		Role:               role,
		EmailNotifications: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// IsAdmin returns true if the user can access the back office.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPayoutWindow returns true if both payout window dates are set.
func (u *User) HasPayoutWindow() bool {
	return u.PayoutWindowStart != nil && u.PayoutWindowEnd != nil
}
