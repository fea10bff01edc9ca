package domain

import (
	"errors"
	"strings"
	"time"
)

// IncidentStatus enumerates investigation states.
type IncidentStatus string

const (
	IncidentStatusOpen          IncidentStatus = "open"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusResolved      IncidentStatus = "resolved"
	IncidentStatusClosed        IncidentStatus = "closed"
)

// IncidentSeverity ranks urgency.
type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"
)

// Incident is a reported security event at a property.
type Incident struct {
	Meta
	PropertyID   string           `json:"property_id"`
	ReportedBy   string           `json:"reported_by"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	IncidentType string           `json:"incident_type"`
	Severity     IncidentSeverity `json:"severity"`
	Status       IncidentStatus   `json:"status"`
	Location     string           `json:"location"`
	OccurredAt   *time.Time       `json:"occurred_at"`
}

// Validate checks required fields and applies defaults.
func (i *Incident) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return errors.New("title required")
	}
	if i.Status == "" {
		i.Status = IncidentStatusOpen
	}
	if i.Severity == "" {
		i.Severity = SeverityMedium
	}
	return nil
}
