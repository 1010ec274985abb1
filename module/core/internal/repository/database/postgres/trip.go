package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
	"github.com/ryansilva512/controle-frotas/module/core/internal/repository/database"
)

var _ database.TripRepository = (*TripRepo)(nil)

// TripRepo persists closed trips across the trips, location_points and
// route_events tables. Durations are stored in whole seconds.
type TripRepo struct {
	db *sql.DB
}

func NewTripRepo(db *sql.DB) *TripRepo {
	return &TripRepo{db: db}
}

func (r *TripRepo) SaveTrip(ctx context.Context, trip *domain.Trip) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin trip tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, vehicle_id, start_time, end_time, total_distance, travel_time, stopped_time, average_speed, max_speed, stops_count) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		trip.ID, trip.VehicleID, trip.StartTime, trip.EndTime, trip.TotalDistance,
		int64(trip.TravelTime.Seconds()), int64(trip.StoppedTime.Seconds()),
		trip.AverageSpeed, trip.MaxSpeed, trip.StopsCount,
	)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}

	for _, p := range trip.Points {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO location_points (trip_id, latitude, longitude, speed, heading, accuracy, timestamp) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			trip.ID, p.Position.Lat, p.Position.Lon, p.Speed, p.Heading, p.Accuracy, p.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert trip point: %w", err)
		}
	}

	for _, ev := range trip.Events {
		row := flattenEvent(ev)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO route_events (trip_id, type, latitude, longitude, timestamp, duration, speed, speed_limit, geofence_name) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			trip.ID, row.kind, row.lat, row.lon, row.ts, row.duration, row.speed, row.speedLimit, row.geofenceName,
		)
		if err != nil {
			return fmt.Errorf("insert route event: %w", err)
		}
	}

	return tx.Commit()
}

func (r *TripRepo) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, vehicle_id, start_time, end_time, total_distance, travel_time, stopped_time, average_speed, max_speed, stops_count FROM trips WHERE id = $1`,
		tripID,
	)
	trip, err := scanTrip(row)
	if err != nil {
		return nil, err
	}

	if trip.Points, err = r.tripPoints(ctx, tripID); err != nil {
		return nil, err
	}
	if trip.Events, err = r.tripEvents(ctx, tripID); err != nil {
		return nil, err
	}
	return trip, nil
}

func (r *TripRepo) GetTrips(ctx context.Context, query *domain.HistoryQuery) ([]domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, vehicle_id, start_time, end_time, total_distance, travel_time, stopped_time, average_speed, max_speed, stops_count FROM trips WHERE vehicle_id = $1 AND start_time >= $2 AND start_time <= $3 ORDER BY start_time ASC`,
		query.VehicleID, query.Start, query.End,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Trip
	for rows.Next() {
		var t domain.Trip
		var travel, stopped int64
		if err := rows.Scan(&t.ID, &t.VehicleID, &t.StartTime, &t.EndTime, &t.TotalDistance, &travel, &stopped, &t.AverageSpeed, &t.MaxSpeed, &t.StopsCount); err != nil {
			return nil, err
		}
		t.TravelTime = time.Duration(travel) * time.Second
		t.StoppedTime = time.Duration(stopped) * time.Second
		results = append(results, t)
	}
	return results, rows.Err()
}

func (r *TripRepo) tripPoints(ctx context.Context, tripID string) ([]domain.LocationSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT latitude, longitude, speed, heading, accuracy, timestamp FROM location_points WHERE trip_id = $1 ORDER BY timestamp ASC`,
		tripID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var points []domain.LocationSample
	for rows.Next() {
		var p domain.LocationSample
		if err := rows.Scan(&p.Position.Lat, &p.Position.Lon, &p.Speed, &p.Heading, &p.Accuracy, &p.Timestamp); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *TripRepo) tripEvents(ctx context.Context, tripID string) ([]domain.RouteEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, latitude, longitude, timestamp, duration, speed, speed_limit, geofence_name FROM route_events WHERE trip_id = $1 ORDER BY timestamp ASC`,
		tripID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []domain.RouteEvent
	for rows.Next() {
		var (
			kind         string
			pos          domain.Position
			ts           time.Time
			duration     sql.NullInt64
			speed        sql.NullFloat64
			speedLimit   sql.NullFloat64
			geofenceName sql.NullString
		)
		if err := rows.Scan(&kind, &pos.Lat, &pos.Lon, &ts, &duration, &speed, &speedLimit, &geofenceName); err != nil {
			return nil, err
		}
		ev, err := buildEvent(kind, pos, ts, duration, speed, speedLimit, geofenceName)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func scanTrip(row *sql.Row) (*domain.Trip, error) {
	var t domain.Trip
	var travel, stopped int64
	if err := row.Scan(&t.ID, &t.VehicleID, &t.StartTime, &t.EndTime, &t.TotalDistance, &travel, &stopped, &t.AverageSpeed, &t.MaxSpeed, &t.StopsCount); err != nil {
		return nil, err
	}
	t.TravelTime = time.Duration(travel) * time.Second
	t.StoppedTime = time.Duration(stopped) * time.Second
	return &t, nil
}

// eventRow is the flattened nullable shape route_events stores.
type eventRow struct {
	kind         string
	lat, lon     float64
	ts           time.Time
	duration     sql.NullInt64
	speed        sql.NullFloat64
	speedLimit   sql.NullFloat64
	geofenceName sql.NullString
}

func flattenEvent(ev domain.RouteEvent) eventRow {
	row := eventRow{
		kind: string(ev.Kind()),
		lat:  ev.Where().Lat,
		lon:  ev.Where().Lon,
		ts:   ev.At(),
	}
	switch e := ev.(type) {
	case domain.StopEvent:
		row.duration = sql.NullInt64{Int64: int64(e.Duration.Seconds()), Valid: true}
	case domain.SpeedViolationEvent:
		row.duration = sql.NullInt64{Int64: int64(e.Duration.Seconds()), Valid: true}
		row.speed = sql.NullFloat64{Float64: e.Speed, Valid: true}
		row.speedLimit = sql.NullFloat64{Float64: e.SpeedLimit, Valid: true}
	case domain.GeofenceEntryEvent:
		row.geofenceName = sql.NullString{String: e.GeofenceName, Valid: true}
	case domain.GeofenceExitEvent:
		row.geofenceName = sql.NullString{String: e.GeofenceName, Valid: true}
	}
	return row
}

func buildEvent(kind string, pos domain.Position, ts time.Time, duration sql.NullInt64, speed, speedLimit sql.NullFloat64, geofenceName sql.NullString) (domain.RouteEvent, error) {
	switch domain.RouteEventKind(kind) {
	case domain.EventDeparture:
		return domain.DepartureEvent{Position: pos, Timestamp: ts}, nil
	case domain.EventArrival:
		return domain.ArrivalEvent{Position: pos, Timestamp: ts}, nil
	case domain.EventStop:
		return domain.StopEvent{Position: pos, Timestamp: ts, Duration: time.Duration(duration.Int64) * time.Second}, nil
	case domain.EventSpeedViolation:
		return domain.SpeedViolationEvent{
			Position:   pos,
			Timestamp:  ts,
			Speed:      speed.Float64,
			SpeedLimit: speedLimit.Float64,
			Duration:   time.Duration(duration.Int64) * time.Second,
		}, nil
	case domain.EventGeofenceEntry:
		return domain.GeofenceEntryEvent{Position: pos, Timestamp: ts, GeofenceName: geofenceName.String}, nil
	case domain.EventGeofenceExit:
		return domain.GeofenceExitEvent{Position: pos, Timestamp: ts, GeofenceName: geofenceName.String}, nil
	default:
		return nil, fmt.Errorf("unknown route event type %q", kind)
	}
}
