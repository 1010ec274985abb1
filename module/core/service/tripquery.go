package service

import (
	"context"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
	"github.com/ryansilva512/controle-frotas/module/core/internal/repository/database"
)

// TripService answers trip queries from storage for the HTTP API.
type TripService struct {
	repo database.TripRepository
}

func NewTripService(repo database.TripRepository) *TripService {
	return &TripService{repo: repo}
}

func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	return s.repo.GetTrip(ctx, tripID)
}

func (s *TripService) GetTrips(ctx context.Context, query *domain.HistoryQuery) ([]domain.Trip, error) {
	return s.repo.GetTrips(ctx, query)
}
