package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

type locationService interface {
	GetLatest(ctx context.Context, vehicleID string) (*domain.LocationSample, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.LocationSample, error)
	GetAllVehicles(ctx context.Context) ([]domain.Vehicle, error)
}

type tripService interface {
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	GetTrips(ctx context.Context, query *domain.HistoryQuery) ([]domain.Trip, error)
}

type trackerService interface {
	MarkOffline(ctx context.Context, vehicleID string) error
}

type locationResponse struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
	Heading   float64 `json:"heading"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

type routeEventResponse struct {
	Type         string  `json:"type"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timestamp    int64   `json:"timestamp"`
	Duration     int64   `json:"duration,omitempty"`
	Speed        float64 `json:"speed,omitempty"`
	SpeedLimit   float64 `json:"speed_limit,omitempty"`
	GeofenceName string  `json:"geofence_name,omitempty"`
}

type tripResponse struct {
	ID            string               `json:"id"`
	VehicleID     string               `json:"vehicle_id"`
	StartTime     int64                `json:"start_time"`
	EndTime       int64                `json:"end_time"`
	TotalDistance float64              `json:"total_distance"`
	TravelTime    int64                `json:"travel_time"`
	StoppedTime   int64                `json:"stopped_time"`
	AverageSpeed  float64              `json:"average_speed"`
	MaxSpeed      float64              `json:"max_speed"`
	StopsCount    int                  `json:"stops_count"`
	Points        []locationResponse   `json:"points,omitempty"`
	Events        []routeEventResponse `json:"events,omitempty"`
}

type VehicleHandler struct {
	locationSvc locationService
	tripSvc     tripService
	tracker     trackerService
}

func NewVehicleHandler(locationSvc locationService, tripSvc tripService, tracker trackerService) *VehicleHandler {
	return &VehicleHandler{locationSvc: locationSvc, tripSvc: tripSvc, tracker: tracker}
}

func (h *VehicleHandler) Register(r *gin.RouterGroup) {
	r.GET("/vehicles", h.GetAllVehicles)
	r.GET("/vehicles/:vehicle_id/location", h.GetLatestLocation)
	r.GET("/vehicles/:vehicle_id/history", h.GetHistory)
	r.GET("/vehicles/:vehicle_id/trips", h.GetTrips)
	r.POST("/vehicles/:vehicle_id/offline", h.MarkOffline)
	r.GET("/trips/:trip_id", h.GetTrip)
}

func (h *VehicleHandler) GetAllVehicles(c *gin.Context) {
	vehicles, err := h.locationSvc.GetAllVehicles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch vehicles"})
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleHandler) GetLatestLocation(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")

	sample, err := h.locationSvc.GetLatest(c.Request.Context(), vehicleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, toLocationResponse(sample))
}

func (h *VehicleHandler) GetHistory(c *gin.Context) {
	query, ok := h.rangeQuery(c)
	if !ok {
		return
	}

	locations, err := h.locationSvc.GetHistory(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	results := make([]locationResponse, len(locations))
	for i := range locations {
		results[i] = toLocationResponse(&locations[i])
	}
	c.JSON(http.StatusOK, results)
}

func (h *VehicleHandler) GetTrips(c *gin.Context) {
	query, ok := h.rangeQuery(c)
	if !ok {
		return
	}

	trips, err := h.tripSvc.GetTrips(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch trips"})
		return
	}

	results := make([]tripResponse, len(trips))
	for i := range trips {
		results[i] = toTripResponse(&trips[i])
	}
	c.JSON(http.StatusOK, results)
}

func (h *VehicleHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripSvc.GetTrip(c.Request.Context(), c.Param("trip_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}

	c.JSON(http.StatusOK, toTripResponse(trip))
}

func (h *VehicleHandler) MarkOffline(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")

	if err := h.tracker.MarkOffline(c.Request.Context(), vehicleID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark vehicle offline"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle_id": vehicleID, "status": "offline"})
}

func (h *VehicleHandler) rangeQuery(c *gin.Context) (*domain.HistoryQuery, bool) {
	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
		return nil, false
	}

	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
		return nil, false
	}

	return &domain.HistoryQuery{
		VehicleID: c.Param("vehicle_id"),
		Start:     time.Unix(start, 0),
		End:       time.Unix(end, 0),
	}, true
}

func toLocationResponse(s *domain.LocationSample) locationResponse {
	return locationResponse{
		VehicleID: s.VehicleID,
		Latitude:  s.Position.Lat,
		Longitude: s.Position.Lon,
		Speed:     s.Speed,
		Heading:   s.Heading,
		Accuracy:  s.Accuracy,
		Timestamp: s.Timestamp.Unix(),
	}
}

func toTripResponse(t *domain.Trip) tripResponse {
	resp := tripResponse{
		ID:            t.ID,
		VehicleID:     t.VehicleID,
		StartTime:     t.StartTime.Unix(),
		EndTime:       t.EndTime.Unix(),
		TotalDistance: t.TotalDistance,
		TravelTime:    int64(t.TravelTime.Seconds()),
		StoppedTime:   int64(t.StoppedTime.Seconds()),
		AverageSpeed:  t.AverageSpeed,
		MaxSpeed:      t.MaxSpeed,
		StopsCount:    t.StopsCount,
	}
	for i := range t.Points {
		p := toLocationResponse(&t.Points[i])
		p.VehicleID = t.VehicleID
		resp.Points = append(resp.Points, p)
	}
	for _, ev := range t.Events {
		resp.Events = append(resp.Events, toEventResponse(ev))
	}
	return resp
}

func toEventResponse(ev domain.RouteEvent) routeEventResponse {
	resp := routeEventResponse{
		Type:      string(ev.Kind()),
		Latitude:  ev.Where().Lat,
		Longitude: ev.Where().Lon,
		Timestamp: ev.At().Unix(),
	}
	switch e := ev.(type) {
	case domain.StopEvent:
		resp.Duration = int64(e.Duration.Seconds())
	case domain.SpeedViolationEvent:
		resp.Duration = int64(e.Duration.Seconds())
		resp.Speed = e.Speed
		resp.SpeedLimit = e.SpeedLimit
	case domain.GeofenceEntryEvent:
		resp.GeofenceName = e.GeofenceName
	case domain.GeofenceExitEvent:
		resp.GeofenceName = e.GeofenceName
	}
	return resp
}
