package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/secops-service/internal/domain"
)

// EventType enumerates supported event identifiers: <entity>_<action>.
type EventType string

// Action is the mutation that produced an event.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// TypeFor builds the event type for an entity mutation, e.g. incident_created.
func TypeFor(entity domain.EntityType, action Action) EventType {
	return EventType(string(entity) + "_" + string(action))
}

const (
	EventClientCreated          = EventType("client_created")
	EventClientUpdated          = EventType("client_updated")
	EventClientDeleted          = EventType("client_deleted")
	EventPropertyCreated        = EventType("property_created")
	EventPropertyUpdated        = EventType("property_updated")
	EventPropertyDeleted        = EventType("property_deleted")
	EventIncidentCreated        = EventType("incident_created")
	EventIncidentUpdated        = EventType("incident_updated")
	EventPatrolReportCreated    = EventType("patrol_report_created")
	EventPatrolReportUpdated    = EventType("patrol_report_updated")
	EventAppointmentCreated     = EventType("appointment_created")
	EventAppointmentUpdated     = EventType("appointment_updated")
	EventAppointmentDeleted     = EventType("appointment_deleted")
	EventFinancialRecordCreated = EventType("financial_record_created")
	EventFinancialRecordUpdated = EventType("financial_record_updated")
	EventFinancialRecordDeleted = EventType("financial_record_deleted")
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	EntityType domain.EntityType `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	ActorID    string            `json:"actor_id,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Payload    interface{}       `json:"payload"`
}

// NewEntityEvent builds an event for a record mutation.
func NewEntityEvent(entity domain.EntityType, action Action, entityID, actorID string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       TypeFor(entity, action),
		EntityType: entity,
		EntityID:   entityID,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// DeletedPayload is the data pushed for a delete, which has no record left to send.
type DeletedPayload struct {
	ID string `json:"id"`
}
