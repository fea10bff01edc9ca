package domain

// DashboardStats holds the read-time aggregate counters and day-over-day deltas.
type DashboardStats struct {
	OpenIncidents    int `json:"open_incidents"`
	ActivePatrols    int `json:"active_patrols"`
	ActiveProperties int `json:"active_properties"`
	ActiveStaff      int `json:"active_staff"`
	IncidentChange   int `json:"incident_change"`
	PatrolChange     int `json:"patrol_change"`
	PropertyChange   int `json:"property_change"`
	StaffChange      int `json:"staff_change"`
}
