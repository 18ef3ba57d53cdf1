package dto

import (
	"time"

	"github.com/spec-kit/config-manager/internal/domain"
)

// RegisterRequest payload for new accounts. Role is optional.
type RegisterRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account. It never carries the digest.
type UserResponse struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// ProfileResponse wraps the caller's account.
type ProfileResponse struct {
	User UserResponse `json:"user"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewUserResponse projects an account onto its public fields.
func NewUserResponse(a *domain.Account) UserResponse {
	return UserResponse{Username: a.Username, Email: a.Email, Role: a.Role}
}
