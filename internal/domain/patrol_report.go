package domain

import "time"

// PatrolStatus enumerates patrol lifecycle states.
type PatrolStatus string

const (
	PatrolStatusScheduled  PatrolStatus = "scheduled"
	PatrolStatusInProgress PatrolStatus = "in_progress"
	PatrolStatusCompleted  PatrolStatus = "completed"
)

// PatrolReport logs one officer round at a property.
type PatrolReport struct {
	Meta
	PropertyID           string       `json:"property_id"`
	OfficerID            string       `json:"officer_id"`
	Status               PatrolStatus `json:"status"`
	StartedAt            *time.Time   `json:"started_at"`
	EndedAt              *time.Time   `json:"ended_at"`
	Observations         string       `json:"observations"`
	CheckpointsCompleted int          `json:"checkpoints_completed"`
}

// Validate fills defaults.
func (p *PatrolReport) Validate() error {
	if p.Status == "" {
		p.Status = PatrolStatusScheduled
	}
	return nil
}
