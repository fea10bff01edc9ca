package domain

import (
	"errors"
	"strings"
)

// PropertyStatus enumerates coverage states for a site.
type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusInactive PropertyStatus = "inactive"
)

// Property is a guarded site owned by a client.
type Property struct {
	Meta
	ClientID     string         `json:"client_id"`
	Name         string         `json:"name"`
	Address      string         `json:"address"`
	PropertyType string         `json:"property_type"`
	Status       PropertyStatus `json:"status"`
	AccessNotes  string         `json:"access_notes"`
}

// Validate checks required fields and applies defaults.
func (p *Property) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Address) == "" {
		return errors.New("name and address required")
	}
	if p.Status == "" {
		p.Status = PropertyStatusActive
	}
	return nil
}
