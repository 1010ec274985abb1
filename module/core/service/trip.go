package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

// TripConfig holds the segmentation thresholds. TripEndIdle must exceed
// MinStopDuration: an idle run long enough to end the trip always counted
// as a stop first.
type TripConfig struct {
	MotionThreshold float64       // km/h; at or below counts as not moving
	MinStopDuration time.Duration // idle run length that records a stop
	TripEndIdle     time.Duration // idle run length that closes the trip
}

func DefaultTripConfig() TripConfig {
	return TripConfig{
		MotionThreshold: 1,
		MinStopDuration: 90 * time.Second,
		TripEndIdle:     5 * time.Minute,
	}
}

// TripAssembler partitions one vehicle's ordered sample stream into trips.
// It owns all trip state for its vehicle and is not safe for concurrent
// use; the tracker runs one assembler per vehicle worker.
type TripAssembler struct {
	cfg  TripConfig
	trip *domain.Trip

	lastTS    time.Time
	idleSince time.Time
	idlePos   domain.Position
	openStop  int // index of the unfinished stop event in trip.Events, -1 if none
}

func NewTripAssembler(cfg TripConfig) *TripAssembler {
	return &TripAssembler{cfg: cfg, openStop: -1}
}

// Active returns the open trip, or nil while the vehicle is parked.
func (a *TripAssembler) Active() *domain.Trip { return a.trip }

// Append consumes the next sample. It returns the trip the sample belongs
// to (nil when the vehicle is parked and the sample is idle) and whether
// that trip was closed by this sample. Samples whose timestamp does not
// advance the stream are rejected with ErrStaleSample so aggregates keep
// the monotonic point ordering.
func (a *TripAssembler) Append(sample *domain.LocationSample) (*domain.Trip, bool, error) {
	if err := sample.Validate(); err != nil {
		return nil, false, err
	}
	if !a.lastTS.IsZero() && !sample.Timestamp.After(a.lastTS) {
		return nil, false, domain.ErrStaleSample
	}
	a.lastTS = sample.Timestamp

	moving := sample.Speed > a.cfg.MotionThreshold

	if a.trip == nil {
		if !moving {
			return nil, false, nil
		}
		a.open(sample)
		return a.trip, false, nil
	}

	prev := a.trip.Points[len(a.trip.Points)-1]
	dt := sample.Timestamp.Sub(prev.Timestamp)
	a.trip.Points = append(a.trip.Points, *sample)
	a.trip.TotalDistance += distanceMeters(prev.Position, sample.Position)
	if sample.Speed > a.trip.MaxSpeed {
		a.trip.MaxSpeed = sample.Speed
	}

	if moving {
		a.trip.TravelTime += dt
		a.endIdleRun(sample.Timestamp)
		return a.trip, false, nil
	}

	a.trip.StoppedTime += dt
	if a.idleSince.IsZero() {
		a.idleSince = sample.Timestamp
		a.idlePos = sample.Position
	}
	idle := sample.Timestamp.Sub(a.idleSince)

	if idle >= a.cfg.MinStopDuration && a.openStop < 0 {
		a.trip.MergeEvent(domain.StopEvent{
			Position:  a.idlePos,
			Timestamp: a.idleSince,
			Duration:  idle,
		})
		a.openStop = a.findStop(a.idleSince)
		a.trip.StopsCount++
	} else if a.openStop >= 0 {
		a.updateStop(idle)
	}

	if idle >= a.cfg.TripEndIdle {
		closed := a.close(sample.Timestamp, sample.Position)
		return closed, true, nil
	}
	return a.trip, false, nil
}

// Close finalizes the open trip, as when the vehicle is marked offline.
// Returns nil if no trip is open.
func (a *TripAssembler) Close(at time.Time) *domain.Trip {
	if a.trip == nil {
		return nil
	}
	last := a.trip.Points[len(a.trip.Points)-1]
	end := at
	if end.Before(last.Timestamp) {
		end = last.Timestamp
	}
	return a.close(end, last.Position)
}

func (a *TripAssembler) open(sample *domain.LocationSample) {
	a.trip = &domain.Trip{
		ID:        uuid.NewString(),
		VehicleID: sample.VehicleID,
		StartTime: sample.Timestamp,
		Points:    []domain.LocationSample{*sample},
		MaxSpeed:  sample.Speed,
	}
	a.trip.MergeEvent(domain.DepartureEvent{Position: sample.Position, Timestamp: sample.Timestamp})
	a.idleSince = time.Time{}
	a.openStop = -1
}

func (a *TripAssembler) close(at time.Time, pos domain.Position) *domain.Trip {
	t := a.trip
	if !a.idleSince.IsZero() && a.openStop >= 0 {
		a.updateStop(at.Sub(a.idleSince))
	}
	t.MergeEvent(domain.ArrivalEvent{Position: pos, Timestamp: at})
	t.EndTime = at
	if t.TravelTime > 0 {
		t.AverageSpeed = (t.TotalDistance / 1000) / t.TravelTime.Hours()
	}
	a.trip = nil
	a.idleSince = time.Time{}
	a.openStop = -1
	return t
}

// endIdleRun finalizes the open stop event when movement resumes.
func (a *TripAssembler) endIdleRun(at time.Time) {
	if !a.idleSince.IsZero() && a.openStop >= 0 {
		a.updateStop(at.Sub(a.idleSince))
	}
	a.idleSince = time.Time{}
	a.openStop = -1
}

func (a *TripAssembler) updateStop(d time.Duration) {
	if ev, ok := a.trip.Events[a.openStop].(domain.StopEvent); ok {
		ev.Duration = d
		a.trip.Events[a.openStop] = ev
	}
}

// findStop locates the stop event that MergeEvent just inserted. Merged
// geofence or violation events can land behind it, so the index is looked
// up rather than assumed to be the tail.
func (a *TripAssembler) findStop(ts time.Time) int {
	for i := len(a.trip.Events) - 1; i >= 0; i-- {
		if ev, ok := a.trip.Events[i].(domain.StopEvent); ok && ev.Timestamp.Equal(ts) {
			return i
		}
	}
	return -1
}
