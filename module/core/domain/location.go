package domain

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrStaleSample marks a sample whose timestamp is not after the last
	// one accepted for the same vehicle. Stale samples are dropped, never
	// appended.
	ErrStaleSample = errors.New("sample timestamp not after previous sample")

	// ErrInvalidSample marks a sample with non-finite coordinates or speed.
	ErrInvalidSample = errors.New("sample has non-finite values")
)

type Position struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// LocationSample is one reported telemetry point for a vehicle.
// Speed is km/h, heading degrees, accuracy meters.
type LocationSample struct {
	VehicleID string    `json:"vehicle_id"`
	Position  Position  `json:"position"`
	Speed     float64   `json:"speed"`
	Heading   float64   `json:"heading"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate rejects samples the evaluation core cannot reason about at all.
// Range checks (lat in [-90,90] and so on) happen at the ingestion boundary.
func (s *LocationSample) Validate() error {
	for _, v := range []float64{s.Position.Lat, s.Position.Lon, s.Speed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidSample
		}
	}
	return nil
}

type Vehicle struct {
	VehicleID string `json:"vehicle_id"`
}

type HistoryQuery struct {
	VehicleID string
	Start     time.Time
	End       time.Time
}
