package service

import (
	"fmt"
	"time"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

// GeofenceEvent is one rule firing for a (vehicle, geofence) pair.
// Duration is set for dwell events.
type GeofenceEvent struct {
	Type     domain.AlertType
	Geofence *domain.Geofence
	Sample   domain.LocationSample
	Duration time.Duration
}

// GeofenceService evaluates containment transitions. It holds no state of
// its own; membership state is passed in and returned so callers can shard
// it per vehicle.
type GeofenceService struct {
	now func() time.Time // window rules compare against wall clock
}

func NewGeofenceService() *GeofenceService {
	return &GeofenceService{now: time.Now}
}

// Contains runs the containment test for the sample position. Boundaries
// are closed: a point exactly on the circle edge or polygon ring is inside.
func (s *GeofenceService) Contains(gf *domain.Geofence, p domain.Position) bool {
	switch gf.Kind {
	case domain.GeofenceCircle:
		return distanceMeters(*gf.Center, p) <= gf.Radius
	case domain.GeofencePolygon:
		return pointInPolygon(p, gf.Points)
	default:
		return false
	}
}

// Evaluate advances the membership state for one sample and returns the
// rule firings. Transitions are derived from prev, not from the previous
// sample, so re-evaluating a duplicate sample against the already-updated
// state fires nothing.
func (s *GeofenceService) Evaluate(gf *domain.Geofence, sample *domain.LocationSample, prev domain.MembershipState) (domain.MembershipState, []GeofenceEvent) {
	next := prev
	next.LastEvaluated = sample.Timestamp

	inside := s.Contains(gf, sample.Position)
	var events []GeofenceEvent

	switch {
	case inside && !prev.Inside:
		next.Inside = true
		next.EnteredAt = sample.Timestamp
		next.DwellFired = false
		next.WindowFired = false
		if gf.Rule(domain.RuleEntry) != nil {
			events = append(events, GeofenceEvent{Type: domain.AlertGeofenceEntry, Geofence: gf, Sample: *sample})
		}

	case !inside && prev.Inside:
		next.Inside = false
		if gf.Rule(domain.RuleExit) != nil {
			events = append(events, GeofenceEvent{Type: domain.AlertGeofenceExit, Geofence: gf, Sample: *sample})
		}
		// Dwell is settled at exit when sparse sampling never crossed the
		// threshold while inside.
		if rule := gf.Rule(domain.RuleDwell); rule != nil && !prev.DwellFired {
			if contained := sample.Timestamp.Sub(prev.EnteredAt); contained >= rule.DwellTime {
				events = append(events, GeofenceEvent{Type: domain.AlertGeofenceDwell, Geofence: gf, Sample: *sample, Duration: contained})
			}
		}
		next.DwellFired = false
		next.WindowFired = false

	case inside && prev.Inside:
		if rule := gf.Rule(domain.RuleDwell); rule != nil && !prev.DwellFired {
			if contained := sample.Timestamp.Sub(prev.EnteredAt); contained >= rule.DwellTime {
				next.DwellFired = true
				events = append(events, GeofenceEvent{Type: domain.AlertGeofenceDwell, Geofence: gf, Sample: *sample, Duration: contained})
			}
		}
	}

	if next.Inside {
		if rule := gf.Rule(domain.RuleTimeWindow); rule != nil {
			if outsideWindow(rule, s.now()) {
				if !next.WindowFired {
					next.WindowFired = true
					events = append(events, GeofenceEvent{Type: domain.AlertGeofenceTimeWindow, Geofence: gf, Sample: *sample})
				}
			} else {
				// Back within allowed hours; the next excursion fires again.
				next.WindowFired = false
			}
		}
	}

	return next, events
}

// outsideWindow reports whether now falls outside the rule's allowed clock
// window, expanded by the tolerance on both ends. Windows wrapping midnight
// (start > end) are supported. Unparseable bounds disable the rule.
func outsideWindow(rule *domain.GeofenceRule, now time.Time) bool {
	start, err1 := parseClock(rule.StartTime)
	end, err2 := parseClock(rule.EndTime)
	if err1 != nil || err2 != nil {
		return false
	}

	tol := rule.Tolerance
	cur := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second

	lo := start - tol
	hi := end + tol
	if start <= end {
		return cur < lo || cur > hi
	}
	// Wrapping window, e.g. 22:00-06:00.
	return cur > hi && cur < lo
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("clock time %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
