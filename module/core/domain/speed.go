package domain

import "time"

// SpeedViolationState tracks one vehicle's current over-limit episode.
// A continuous run of over-limit samples is reported as a single violation
// when the episode closes, not once per sample.
type SpeedViolationState struct {
	InViolation  bool
	StartedAt    time.Time
	PeakSpeed    float64
	PeakPosition Position
}

// SpeedViolation is the record emitted when an episode closes.
type SpeedViolation struct {
	VehicleID   string        `json:"vehicle_id"`
	Speed       float64       `json:"speed"` // peak speed during the episode
	SpeedLimit  float64       `json:"speed_limit"`
	ExcessSpeed float64       `json:"excess_speed"`
	Position    Position      `json:"position"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}
