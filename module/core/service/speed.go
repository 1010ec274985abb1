package service

import (
	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

// SpeedService detects over-limit episodes. A sustained run of over-limit
// samples yields exactly one violation when the run ends, carrying the peak
// excess and the episode duration, rather than one alert per GPS tick.
type SpeedService struct{}

func NewSpeedService() *SpeedService {
	return &SpeedService{}
}

// Evaluate advances the per-vehicle violation state for one sample. A
// violation is returned only when an open episode closes. Exactly at the
// limit is not a violation. A limit of zero or less means the vehicle is
// unconfigured: detection is off and any open episode is abandoned.
//
// If the vehicle goes silent mid-episode the episode simply never closes;
// forced closure on a timeout is left to an external sweep.
func (s *SpeedService) Evaluate(sample *domain.LocationSample, limit float64, prev domain.SpeedViolationState) (domain.SpeedViolationState, *domain.SpeedViolation) {
	if limit <= 0 {
		return domain.SpeedViolationState{}, nil
	}

	if sample.Speed > limit {
		next := prev
		if !prev.InViolation {
			next.InViolation = true
			next.StartedAt = sample.Timestamp
			next.PeakSpeed = sample.Speed
			next.PeakPosition = sample.Position
		} else if sample.Speed > prev.PeakSpeed {
			next.PeakSpeed = sample.Speed
			next.PeakPosition = sample.Position
		}
		return next, nil
	}

	if !prev.InViolation {
		return prev, nil
	}

	violation := &domain.SpeedViolation{
		VehicleID:   sample.VehicleID,
		Speed:       prev.PeakSpeed,
		SpeedLimit:  limit,
		ExcessSpeed: prev.PeakSpeed - limit,
		Position:    prev.PeakPosition,
		StartedAt:   prev.StartedAt,
		Duration:    sample.Timestamp.Sub(prev.StartedAt),
	}
	return domain.SpeedViolationState{}, violation
}
