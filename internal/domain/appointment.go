package domain

import (
	"errors"
	"strings"
	"time"
)

// AppointmentStatus enumerates shift/appointment states.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a calendar entry: a staff shift, site visit or client meeting.
type Appointment struct {
	Meta
	ClientID    *string           `json:"client_id"`
	PropertyID  *string           `json:"property_id"`
	StaffID     *string           `json:"staff_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Location    string            `json:"location"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Status      AppointmentStatus `json:"status"`
}

// Validate checks required fields and applies defaults.
func (a *Appointment) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("title required")
	}
	if a.StartTime.IsZero() {
		return errors.New("start_time required")
	}
	if !a.EndTime.IsZero() && a.EndTime.Before(a.StartTime) {
		return errors.New("end_time before start_time")
	}
	if a.Status == "" {
		a.Status = AppointmentStatusScheduled
	}
	return nil
}
