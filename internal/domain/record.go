package domain

import "time"

// Meta holds the server-assigned fields shared by every stored record.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Metadata exposes the embedded Meta so stores can stamp records generically.
func (m *Meta) Metadata() *Meta {
	return m
}

// Entity is implemented by pointers to every stored record type.
type Entity interface {
	Metadata() *Meta
}

// Validator is implemented by records with required fields.
// Validate may fill defaults for empty optional fields.
type Validator interface {
	Validate() error
}

// EntityType names a record kind in activity records and broadcast event types.
type EntityType string

const (
	EntityClient          EntityType = "client"
	EntityProperty        EntityType = "property"
	EntityIncident        EntityType = "incident"
	EntityPatrolReport    EntityType = "patrol_report"
	EntityAppointment     EntityType = "appointment"
	EntityFinancialRecord EntityType = "financial_record"
	EntityAccount         EntityType = "account"
)
