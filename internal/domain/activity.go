package domain

import "time"

// ActivityType captures which write produced an activity record.
type ActivityType string

const (
	ActivityCreated ActivityType = "create"
	ActivityUpdated ActivityType = "update"
	ActivityDeleted ActivityType = "delete"
	ActivityLogin   ActivityType = "login"
)

// Activity is an audit-trail entry appended alongside a primary write.
type Activity struct {
	ID           string       `json:"id"`
	ActorID      string       `json:"actor_id"`
	ActivityType ActivityType `json:"activity_type"`
	EntityType   EntityType   `json:"entity_type"`
	EntityID     string       `json:"entity_id"`
	Description  string       `json:"description"`
	CreatedAt    time.Time    `json:"created_at"`
}
