package service

import (
	"testing"
	"time"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

func speedSample(speed float64, ts time.Time) *domain.LocationSample {
	return &domain.LocationSample{
		VehicleID: "B1234XYZ",
		Position:  domain.Position{Lat: -6.2088, Lon: 106.8456},
		Speed:     speed,
		Timestamp: ts,
	}
}

func TestSpeedEvaluate_OneEventPerEpisode(t *testing.T) {
	svc := NewSpeedService()
	t0 := time.Unix(1715000000, 0)

	speeds := []float64{70, 80, 75, 50}
	state := domain.SpeedViolationState{}
	var violations []*domain.SpeedViolation
	for i, speed := range speeds {
		var v *domain.SpeedViolation
		state, v = svc.Evaluate(speedSample(speed, t0.Add(time.Duration(i)*10*time.Second)), 60, state)
		if v != nil {
			violations = append(violations, v)
		}
	}

	if len(violations) != 1 {
		t.Fatalf("expected exactly one violation, got %d", len(violations))
	}
	v := violations[0]
	if v.Duration != 30*time.Second {
		t.Errorf("expected 30s duration, got %v", v.Duration)
	}
	if v.ExcessSpeed != 20 {
		t.Errorf("expected excess 20, got %f", v.ExcessSpeed)
	}
	if v.Speed != 80 {
		t.Errorf("expected peak 80, got %f", v.Speed)
	}
	if state.InViolation {
		t.Error("state should be reset after the episode closes")
	}
}

func TestSpeedEvaluate_ExactlyAtLimitIsNotViolation(t *testing.T) {
	svc := NewSpeedService()
	t0 := time.Unix(1715000000, 0)

	state, v := svc.Evaluate(speedSample(60, t0), 60, domain.SpeedViolationState{})
	if v != nil || state.InViolation {
		t.Fatal("exactly at the limit must not open an episode")
	}
}

func TestSpeedEvaluate_NoLimitConfigured(t *testing.T) {
	svc := NewSpeedService()
	t0 := time.Unix(1715000000, 0)

	state, v := svc.Evaluate(speedSample(200, t0), 0, domain.SpeedViolationState{})
	if v != nil || state.InViolation {
		t.Fatal("unconfigured limit disables detection")
	}

	// removing the limit mid-episode abandons the episode
	open := domain.SpeedViolationState{InViolation: true, StartedAt: t0, PeakSpeed: 90}
	state, v = svc.Evaluate(speedSample(50, t0.Add(time.Minute)), 0, open)
	if v != nil || state.InViolation {
		t.Fatal("abandoned episode must not emit an event")
	}
}

func TestSpeedEvaluate_OpenEpisodeNeverCloses(t *testing.T) {
	svc := NewSpeedService()
	t0 := time.Unix(1715000000, 0)

	// vehicle goes silent mid-episode: no closing sample, no event
	state := domain.SpeedViolationState{}
	var v *domain.SpeedViolation
	for i := 0; i < 5; i++ {
		state, v = svc.Evaluate(speedSample(90, t0.Add(time.Duration(i)*10*time.Second)), 60, state)
		if v != nil {
			t.Fatal("episode still open, no event expected")
		}
	}
	if !state.InViolation {
		t.Fatal("episode should remain open")
	}
	if !state.StartedAt.Equal(t0) {
		t.Errorf("start time must be the first crossing, got %v", state.StartedAt)
	}
}

func TestSpeedEvaluate_PeakPositionTracked(t *testing.T) {
	svc := NewSpeedService()
	t0 := time.Unix(1715000000, 0)

	peakPos := domain.Position{Lat: -6.21, Lon: 106.85}
	state := domain.SpeedViolationState{}
	state, _ = svc.Evaluate(speedSample(70, t0), 60, state)

	fast := speedSample(95, t0.Add(10*time.Second))
	fast.Position = peakPos
	state, _ = svc.Evaluate(fast, 60, state)
	state, _ = svc.Evaluate(speedSample(80, t0.Add(20*time.Second)), 60, state)

	_, v := svc.Evaluate(speedSample(40, t0.Add(30*time.Second)), 60, state)
	if v == nil {
		t.Fatal("expected a violation")
	}
	if v.Position != peakPos {
		t.Errorf("violation position should be where the peak occurred, got %+v", v.Position)
	}
	if v.Speed != 95 {
		t.Errorf("expected peak 95, got %f", v.Speed)
	}
}
