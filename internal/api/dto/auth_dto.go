package dto

import (
	"time"

	"github.com/spec-kit/secops-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the public view of an authenticated identity.
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// LoginFailure is returned for rejected credentials.
type LoginFailure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthStatusResponse reports whether the caller holds a valid token.
type AuthStatusResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

// NewUserResponse maps an identity.
func NewUserResponse(identity domain.Identity) UserResponse {
	return UserResponse{
		ID:          identity.ID,
		Username:    identity.Username,
		Email:       identity.Email,
		FirstName:   identity.FirstName,
		LastName:    identity.LastName,
		Role:        identity.Role,
		DisplayName: identity.DisplayName(),
	}
}
