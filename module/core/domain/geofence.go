package domain

import "time"

type GeofenceKind string

const (
	GeofenceCircle  GeofenceKind = "circle"
	GeofencePolygon GeofenceKind = "polygon"
)

type GeofenceRuleKind string

const (
	RuleEntry      GeofenceRuleKind = "entry"
	RuleExit       GeofenceRuleKind = "exit"
	RuleDwell      GeofenceRuleKind = "dwell"
	RuleTimeWindow GeofenceRuleKind = "time_window"
)

// GeofenceRule is one independently enabled trigger on a geofence.
// DwellTime applies to dwell rules. StartTime/EndTime are "HH:MM" clock
// times and Tolerance the grace period, both for time_window rules.
type GeofenceRule struct {
	Kind      GeofenceRuleKind `json:"type"`
	Enabled   bool             `json:"enabled"`
	DwellTime time.Duration    `json:"dwell_time,omitempty"`
	StartTime string           `json:"start_time,omitempty"`
	EndTime   string           `json:"end_time,omitempty"`
	Tolerance time.Duration    `json:"tolerance,omitempty"`
}

// Geofence is a named region with trigger rules. A circle carries Center
// and Radius (meters); a polygon carries Points, an ordered simple ring of
// at least three vertices. An empty VehicleIDs set applies to every vehicle.
type Geofence struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Kind       GeofenceKind   `json:"type"`
	Active     bool           `json:"active"`
	Center     *Position      `json:"center,omitempty"`
	Radius     float64        `json:"radius,omitempty"`
	Points     []Position     `json:"points,omitempty"`
	Rules      []GeofenceRule `json:"rules"`
	VehicleIDs []string       `json:"vehicle_ids"`
}

// ValidGeometry reports whether the geofence can be evaluated. Degenerate
// shapes are skipped rather than failing the whole evaluation pass.
func (g *Geofence) ValidGeometry() bool {
	switch g.Kind {
	case GeofenceCircle:
		return g.Center != nil && g.Radius > 0
	case GeofencePolygon:
		return len(g.Points) >= 3
	default:
		return false
	}
}

// AppliesTo reports whether the geofence is evaluated for the vehicle.
func (g *Geofence) AppliesTo(vehicleID string) bool {
	if len(g.VehicleIDs) == 0 {
		return true
	}
	for _, id := range g.VehicleIDs {
		if id == vehicleID {
			return true
		}
	}
	return false
}

// Rule returns the enabled rule of the given kind, or nil.
func (g *Geofence) Rule(kind GeofenceRuleKind) *GeofenceRule {
	for i := range g.Rules {
		if g.Rules[i].Kind == kind && g.Rules[i].Enabled {
			return &g.Rules[i]
		}
	}
	return nil
}

// MembershipState is the per (vehicle, geofence) containment state the
// engine carries between samples. Transitions are detected by comparing a
// sample's containment against this, which is what makes re-evaluating the
// same sample idempotent.
type MembershipState struct {
	Inside        bool
	EnteredAt     time.Time
	LastEvaluated time.Time
	DwellFired    bool
	WindowFired   bool
}
