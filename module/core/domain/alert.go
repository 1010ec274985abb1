package domain

import "time"

type AlertType string

const (
	AlertSpeed              AlertType = "speed"
	AlertGeofenceEntry      AlertType = "geofence_entry"
	AlertGeofenceExit       AlertType = "geofence_exit"
	AlertGeofenceDwell      AlertType = "geofence_dwell"
	AlertGeofenceTimeWindow AlertType = "geofence_time_window"
)

type AlertPriority string

const (
	PriorityCritical AlertPriority = "critical"
	PriorityWarning  AlertPriority = "warning"
	PriorityInfo     AlertPriority = "info"
)

// Alert is the notification handed to the publisher when a rule fires.
// Speed/SpeedLimit are set for speed alerts, GeofenceName for geofence
// alerts, Duration for speed and dwell alerts.
type Alert struct {
	Type         AlertType     `json:"type"`
	Priority     AlertPriority `json:"priority"`
	VehicleID    string        `json:"vehicle_id"`
	Message      string        `json:"message"`
	Position     Position      `json:"position"`
	Timestamp    time.Time     `json:"timestamp"`
	Speed        float64       `json:"speed,omitempty"`
	SpeedLimit   float64       `json:"speed_limit,omitempty"`
	GeofenceName string        `json:"geofence_name,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
}
