package domain

import (
	"strings"
	"time"
)

// Identity is the decoded principal attached to an authenticated request.
type Identity struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// DisplayName joins first and last name, falling back to the username.
func (i Identity) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return i.Username
	}
	return name
}

// Session is the stateless token payload view of an Identity.
type Session struct {
	SubjectID   string    `json:"subject_id"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
