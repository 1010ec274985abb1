package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
	"github.com/ryansilva512/controle-frotas/module/core/internal/metrics"
	"github.com/ryansilva512/controle-frotas/module/core/internal/repository/database"
	"github.com/ryansilva512/controle-frotas/module/core/internal/repository/publisher"
)

// ConfigProvider supplies the current geofence and speed limit snapshot.
// It is read on every sample so config changes take effect immediately.
type ConfigProvider interface {
	Geofences() []domain.Geofence
	SpeedLimit(vehicleID string) float64
}

// Tracker runs the evaluation pipeline. Each vehicle gets its own worker
// goroutine and channel, so one vehicle's samples are processed strictly in
// order while vehicles proceed independently. All per-vehicle state
// (membership, violation episode, open trip) lives inside the worker and is
// never shared.
type Tracker struct {
	cfg      TripConfig
	provider ConfigProvider
	geofence *GeofenceService
	speed    *SpeedService

	locations database.LocationRepository
	trips     database.TripRepository
	alerts    publisher.AlertPublisher
	metrics   *metrics.Metrics

	mu      sync.Mutex
	workers map[string]*vehicleWorker
	closed  bool
	wg      sync.WaitGroup
}

type workItem struct {
	sample  *domain.LocationSample
	offline bool
	at      time.Time
}

type vehicleWorker struct {
	vehicleID  string
	ch         chan workItem
	lastTS     time.Time
	assembler  *TripAssembler
	membership map[string]domain.MembershipState
	violation  domain.SpeedViolationState
}

func NewTracker(cfg TripConfig, provider ConfigProvider, locations database.LocationRepository, trips database.TripRepository, alerts publisher.AlertPublisher, m *metrics.Metrics) *Tracker {
	return &Tracker{
		cfg:       cfg,
		provider:  provider,
		geofence:  NewGeofenceService(),
		speed:     NewSpeedService(),
		locations: locations,
		trips:     trips,
		alerts:    alerts,
		metrics:   m,
		workers:   make(map[string]*vehicleWorker),
	}
}

// Ingest hands a sample to its vehicle's worker. Samples that cannot be
// evaluated at all are rejected here; ordering problems are handled inside
// the worker where the per-vehicle clock lives.
func (t *Tracker) Ingest(ctx context.Context, sample *domain.LocationSample) error {
	if err := sample.Validate(); err != nil {
		t.metrics.SamplesRejected.Inc()
		return err
	}
	w, err := t.worker(sample.VehicleID)
	if err != nil {
		return err
	}
	select {
	case w.ch <- workItem{sample: sample}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MarkOffline force-closes the vehicle's open trip, as when the device
// integration reports a disconnect.
func (t *Tracker) MarkOffline(ctx context.Context, vehicleID string) error {
	w, err := t.worker(vehicleID)
	if err != nil {
		return err
	}
	select {
	case w.ch <- workItem{offline: true, at: time.Now()}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work and waits for every worker to drain.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	for _, w := range t.workers {
		close(w.ch)
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Tracker) worker(vehicleID string) (*vehicleWorker, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errors.New("tracker closed")
	}
	if w, ok := t.workers[vehicleID]; ok {
		return w, nil
	}
	w := &vehicleWorker{
		vehicleID:  vehicleID,
		ch:         make(chan workItem, 64),
		assembler:  NewTripAssembler(t.cfg),
		membership: make(map[string]domain.MembershipState),
	}
	t.workers[vehicleID] = w
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for item := range w.ch {
			if item.offline {
				t.handleOffline(w, item.at)
			} else {
				t.process(w, item.sample)
			}
		}
	}()
	return w, nil
}

func (t *Tracker) process(w *vehicleWorker, sample *domain.LocationSample) {
	// The per-vehicle clock: retries and out-of-order arrivals are dropped
	// before any state machine sees them, so no transition can double-fire
	// and trip aggregates keep their ordering invariant.
	if !w.lastTS.IsZero() && !sample.Timestamp.After(w.lastTS) {
		t.metrics.SamplesRejected.Inc()
		return
	}
	w.lastTS = sample.Timestamp

	ctx := context.Background()

	limit := t.provider.SpeedLimit(sample.VehicleID)
	var violation *domain.SpeedViolation
	w.violation, violation = t.speed.Evaluate(sample, limit, w.violation)

	var geofenceEvents []GeofenceEvent
	geofences := t.provider.Geofences()
	for i := range geofences {
		gf := &geofences[i]
		if !gf.Active || !gf.ValidGeometry() || !gf.AppliesTo(sample.VehicleID) {
			continue
		}
		state, events := t.geofence.Evaluate(gf, sample, w.membership[gf.ID])
		w.membership[gf.ID] = state
		geofenceEvents = append(geofenceEvents, events...)
	}

	wasParked := w.assembler.Active() == nil
	trip, closed, err := w.assembler.Append(sample)
	if err != nil {
		t.metrics.SamplesRejected.Inc()
		log.Printf("vehicle %s: sample rejected: %v", sample.VehicleID, err)
		return
	}
	if wasParked && trip != nil {
		t.metrics.TripsOpened.Inc()
	}

	if trip != nil {
		if violation != nil {
			trip.MergeEvent(domain.SpeedViolationEvent{
				Position:   violation.Position,
				Timestamp:  sample.Timestamp,
				Speed:      violation.Speed,
				SpeedLimit: violation.SpeedLimit,
				Duration:   violation.Duration,
			})
		}
		for _, ev := range geofenceEvents {
			switch ev.Type {
			case domain.AlertGeofenceEntry:
				trip.MergeEvent(domain.GeofenceEntryEvent{Position: sample.Position, Timestamp: sample.Timestamp, GeofenceName: ev.Geofence.Name})
			case domain.AlertGeofenceExit:
				trip.MergeEvent(domain.GeofenceExitEvent{Position: sample.Position, Timestamp: sample.Timestamp, GeofenceName: ev.Geofence.Name})
			}
		}
	}

	if err := t.locations.Insert(ctx, sample); err != nil {
		log.Printf("vehicle %s: save location: %v", sample.VehicleID, err)
	}
	t.metrics.SamplesProcessed.Inc()

	if violation != nil {
		t.publish(ctx, speedAlert(violation))
	}
	for _, ev := range geofenceEvents {
		t.publish(ctx, geofenceAlert(ev))
	}

	if closed {
		t.saveTrip(ctx, trip)
	}
}

func (t *Tracker) handleOffline(w *vehicleWorker, at time.Time) {
	if trip := w.assembler.Close(at); trip != nil {
		t.saveTrip(context.Background(), trip)
	}
	// An offline vehicle's violation episode never closes; its containment
	// state is kept so a reconnect inside the same geofence fires nothing.
}

func (t *Tracker) saveTrip(ctx context.Context, trip *domain.Trip) {
	if err := t.trips.SaveTrip(ctx, trip); err != nil {
		log.Printf("vehicle %s: save trip %s: %v", trip.VehicleID, trip.ID, err)
		return
	}
	t.metrics.TripsClosed.Inc()
}

func (t *Tracker) publish(ctx context.Context, alert *domain.Alert) {
	if err := t.alerts.PublishAlert(ctx, alert); err != nil {
		log.Printf("vehicle %s: publish %s alert: %v", alert.VehicleID, alert.Type, err)
		return
	}
	t.metrics.AlertsPublished.WithLabelValues(string(alert.Type)).Inc()
}

func speedAlert(v *domain.SpeedViolation) *domain.Alert {
	return &domain.Alert{
		Type:       domain.AlertSpeed,
		Priority:   domain.PriorityWarning,
		VehicleID:  v.VehicleID,
		Message:    fmt.Sprintf("vehicle %s exceeded %.0f km/h limit, peak %.0f km/h", v.VehicleID, v.SpeedLimit, v.Speed),
		Position:   v.Position,
		Timestamp:  v.StartedAt,
		Speed:      v.Speed,
		SpeedLimit: v.SpeedLimit,
		Duration:   v.Duration,
	}
}

func geofenceAlert(ev GeofenceEvent) *domain.Alert {
	alert := &domain.Alert{
		Type:         ev.Type,
		Priority:     domain.PriorityInfo,
		VehicleID:    ev.Sample.VehicleID,
		Position:     ev.Sample.Position,
		Timestamp:    ev.Sample.Timestamp,
		GeofenceName: ev.Geofence.Name,
		Duration:     ev.Duration,
	}
	switch ev.Type {
	case domain.AlertGeofenceEntry:
		alert.Message = fmt.Sprintf("vehicle %s entered %s", ev.Sample.VehicleID, ev.Geofence.Name)
	case domain.AlertGeofenceExit:
		alert.Message = fmt.Sprintf("vehicle %s left %s", ev.Sample.VehicleID, ev.Geofence.Name)
	case domain.AlertGeofenceDwell:
		alert.Priority = domain.PriorityWarning
		alert.Message = fmt.Sprintf("vehicle %s stayed in %s for %s", ev.Sample.VehicleID, ev.Geofence.Name, ev.Duration)
	case domain.AlertGeofenceTimeWindow:
		alert.Priority = domain.PriorityWarning
		alert.Message = fmt.Sprintf("vehicle %s inside %s outside allowed hours", ev.Sample.VehicleID, ev.Geofence.Name)
	}
	return alert
}
