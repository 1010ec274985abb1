package database

import (
	"context"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

type LocationRepository interface {
	Insert(ctx context.Context, sample *domain.LocationSample) error
	GetLatest(ctx context.Context, vehicleID string) (*domain.LocationSample, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.LocationSample, error)
	GetAllVehicles(ctx context.Context) ([]domain.Vehicle, error)
}

type TripRepository interface {
	SaveTrip(ctx context.Context, trip *domain.Trip) error
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	GetTrips(ctx context.Context, query *domain.HistoryQuery) ([]domain.Trip, error)
}
