package domain

import (
	"errors"
	"strings"
)

// ClientStatus enumerates contract states.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

// Client is a customer contracting security services.
type Client struct {
	Meta
	Name        string       `json:"name"`
	ContactName string       `json:"contact_name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Address     string       `json:"address"`
	Status      ClientStatus `json:"status"`
	Notes       string       `json:"notes"`
}

// Validate checks required fields and applies defaults.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name required")
	}
	if c.Status == "" {
		c.Status = ClientStatusActive
	}
	return nil
}
