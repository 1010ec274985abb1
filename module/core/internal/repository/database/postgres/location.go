package postgres

import (
	"context"
	"database/sql"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
	"github.com/ryansilva512/controle-frotas/module/core/internal/repository/database"
)

var _ database.LocationRepository = (*LocationRepo)(nil)

type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) Insert(ctx context.Context, sample *domain.LocationSample) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicle_locations (vehicle_id, latitude, longitude, speed, heading, accuracy, timestamp) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sample.VehicleID, sample.Position.Lat, sample.Position.Lon, sample.Speed, sample.Heading, sample.Accuracy, sample.Timestamp,
	)
	return err
}

func (r *LocationRepo) GetLatest(ctx context.Context, vehicleID string) (*domain.LocationSample, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT vehicle_id, latitude, longitude, speed, heading, accuracy, timestamp FROM vehicle_locations WHERE vehicle_id = $1 ORDER BY timestamp DESC LIMIT 1`,
		vehicleID,
	)
	return scanSample(row)
}

func (r *LocationRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.LocationSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT vehicle_id, latitude, longitude, speed, heading, accuracy, timestamp FROM vehicle_locations WHERE vehicle_id = $1 AND timestamp >= $2 AND timestamp <= $3 ORDER BY timestamp ASC`,
		query.VehicleID, query.Start, query.End,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.LocationSample
	for rows.Next() {
		var s domain.LocationSample
		if err := rows.Scan(&s.VehicleID, &s.Position.Lat, &s.Position.Lon, &s.Speed, &s.Heading, &s.Accuracy, &s.Timestamp); err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

func (r *LocationRepo) GetAllVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT vehicle_id FROM vehicle_locations ORDER BY vehicle_id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.VehicleID); err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, rows.Err()
}

func scanSample(row *sql.Row) (*domain.LocationSample, error) {
	var s domain.LocationSample
	if err := row.Scan(&s.VehicleID, &s.Position.Lat, &s.Position.Lon, &s.Speed, &s.Heading, &s.Accuracy, &s.Timestamp); err != nil {
		return nil, err
	}
	return &s, nil
}
