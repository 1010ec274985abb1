package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

const topicPattern = "/fleet/vehicle/+/location"

type trackerService interface {
	Ingest(ctx context.Context, sample *domain.LocationSample) error
}

type locationMessage struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
	Heading   float64 `json:"heading"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

type LocationSubscriber struct {
	client  mqtt.Client
	tracker trackerService
}

func NewLocationSubscriber(client mqtt.Client, tracker trackerService) *LocationSubscriber {
	return &LocationSubscriber{
		client:  client,
		tracker: tracker,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("invalid location message: %v", err)
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		log.Printf("validation error: %v", err)
		return
	}

	sample := &domain.LocationSample{
		VehicleID: raw.VehicleID,
		Position:  domain.Position{Lat: raw.Latitude, Lon: raw.Longitude},
		Speed:     raw.Speed,
		Heading:   raw.Heading,
		Accuracy:  raw.Accuracy,
		Timestamp: time.Unix(raw.Timestamp, 0),
	}

	if err := s.tracker.Ingest(context.Background(), sample); err != nil {
		log.Printf("ingest error: %v", err)
	}
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.VehicleID == "" {
		return fmt.Errorf("vehicle_id: required")
	}
	if math.IsNaN(msg.Latitude) || math.IsNaN(msg.Longitude) || math.IsNaN(msg.Speed) {
		return fmt.Errorf("coordinates: must be numbers")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Speed < 0 {
		return fmt.Errorf("speed: must not be negative")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
