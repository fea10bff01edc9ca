package dto

import "time"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Version     string    `json:"version,omitempty"`
}

// ReadyResponse reports dependency readiness.
type ReadyResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// SuccessResponse acknowledges an action with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}
