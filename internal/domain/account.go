package domain

import (
	"errors"
	"strings"
)

// Role values carried in session tokens.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleOfficer    = "officer"
)

// Account is a stored staff login checked after the operator credential.
// It is never rendered directly by the API; handlers expose Identity instead.
type Account struct {
	Meta
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
}

// Validate checks required fields and applies defaults.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return errors.New("username required")
	}
	if a.PasswordHash == "" {
		return errors.New("password hash required")
	}
	if a.Role == "" {
		a.Role = RoleOfficer
	}
	return nil
}

// Identity returns the principal view of the account.
func (a *Account) Identity() Identity {
	return Identity{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
	}
}
