// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/domain/entity"
)

// RegisterRequest is the self-service sign-up form of the investor portal.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest may omit the token; signing out is always acknowledged.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	AllDevices   bool   `json:"all_devices"`
}

// ForgotPasswordRequest represents the request body for forgot password.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents the request body for password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// SessionResponse is returned by register, login and refresh. Home is the portal section the
// signed-in role lands on.
type SessionResponse struct {
	AccessToken     string       `json:"access_token"`
	RefreshToken    string       `json:"refresh_token"`
	TokenType       string       `json:"token_type"`
	AccessExpiresAt time.Time    `json:"access_expires_at"`
	Role            string       `json:"role"`
	Home            string       `json:"home"`
	User            UserResponse `json:"user"`
}

// LogoutResponse reports how many sessions were ended.
type LogoutResponse struct {
	Message         string `json:"message"`
	RevokedSessions int64  `json:"revoked_sessions"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToSessionResponse pairs a freshly issued session with the account it belongs to.
func ToSessionResponse(session *adapter.Session, user *entity.User) SessionResponse {
	return SessionResponse{
		AccessToken:     session.AccessToken,
		RefreshToken:    session.RefreshToken,
		TokenType:       "Bearer",
		AccessExpiresAt: session.AccessExpiresAt,
		Role:            string(session.Role),
		Home:            homeFor(session.Role),
		User:            ToUserResponse(user),
	}
}

func homeFor(role entity.UserRole) string {
	if role == entity.RoleAdmin {
		return "/admin"
	}
	return "/portfolio"
}

// UserResponse represents the user data in API responses.
type UserResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	EmailNotifications bool      `json:"email_notifications"`
	PayoutWindowStart  *string   `json:"payout_window_start,omitempty"`
	PayoutWindowEnd    *string   `json:"payout_window_end,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error           string  `json:"error"`
	Code            string  `json:"code,omitempty"`
	Details         string  `json:"details,omitempty"`
	LockReleaseDate *string `json:"lock_release_date,omitempty"`
}

// ToUserResponse converts a domain User entity to a UserResponse DTO.
func ToUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:                 user.ID.String(),
		Email:              user.Email,
		Name:               user.Name,
		Role:               string(user.Role),
		EmailNotifications: user.EmailNotifications,
		PayoutWindowStart:  FormatDate(user.PayoutWindowStart),
		PayoutWindowEnd:    FormatDate(user.PayoutWindowEnd),
		CreatedAt:          user.CreatedAt,
	}
}
