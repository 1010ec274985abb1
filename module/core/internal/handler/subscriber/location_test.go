package subscriber

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

type mockTracker struct {
	ingestFn func(ctx context.Context, sample *domain.LocationSample) error
}

func (m *mockTracker) Ingest(ctx context.Context, sample *domain.LocationSample) error {
	return m.ingestFn(ctx, sample)
}

type fakeMQTTMessage struct {
	payload []byte
}

func (f *fakeMQTTMessage) Duplicate() bool   { return false }
func (f *fakeMQTTMessage) Qos() byte         { return 0 }
func (f *fakeMQTTMessage) Retained() bool    { return false }
func (f *fakeMQTTMessage) Topic() string     { return "/fleet/vehicle/B1234XYZ/location" }
func (f *fakeMQTTMessage) MessageID() uint16 { return 0 }
func (f *fakeMQTTMessage) Payload() []byte   { return f.payload }
func (f *fakeMQTTMessage) Ack()              {}

func TestHandleMessage_Success(t *testing.T) {
	var got *domain.LocationSample
	tracker := &mockTracker{
		ingestFn: func(_ context.Context, sample *domain.LocationSample) error {
			got = sample
			return nil
		},
	}

	sub := &LocationSubscriber{tracker: tracker}

	msg := locationMessage{
		VehicleID: "B1234XYZ",
		Latitude:  -6.2088,
		Longitude: 106.8456,
		Speed:     42.5,
		Heading:   180,
		Accuracy:  8,
		Timestamp: 1715003456,
	}
	payload, _ := json.Marshal(msg)
	sub.handleMessage(nil, &fakeMQTTMessage{payload: payload})

	if got == nil {
		t.Fatal("expected Ingest to be called")
	}
	if got.VehicleID != "B1234XYZ" {
		t.Errorf("expected B1234XYZ, got %s", got.VehicleID)
	}
	if got.Position.Lat != -6.2088 {
		t.Errorf("expected -6.2088, got %f", got.Position.Lat)
	}
	if got.Speed != 42.5 {
		t.Errorf("expected speed 42.5, got %f", got.Speed)
	}
	expectedTs := time.Unix(1715003456, 0)
	if !got.Timestamp.Equal(expectedTs) {
		t.Errorf("expected %v, got %v", expectedTs, got.Timestamp)
	}
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	tracker := &mockTracker{
		ingestFn: func(_ context.Context, _ *domain.LocationSample) error {
			t.Fatal("Ingest should not be called")
			return nil
		},
	}

	sub := &LocationSubscriber{tracker: tracker}
	sub.handleMessage(nil, &fakeMQTTMessage{payload: []byte("invalid")})
}

func TestHandleMessage_ValidationError(t *testing.T) {
	tracker := &mockTracker{
		ingestFn: func(_ context.Context, _ *domain.LocationSample) error {
			t.Fatal("Ingest should not be called")
			return nil
		},
	}

	sub := &LocationSubscriber{tracker: tracker}

	// empty vehicle_id
	msg := locationMessage{Latitude: -6.2, Longitude: 106.8, Timestamp: 1715003456}
	payload, _ := json.Marshal(msg)
	sub.handleMessage(nil, &fakeMQTTMessage{payload: payload})
}

func TestValidateLocationMessage(t *testing.T) {
	tests := []struct {
		name    string
		msg     locationMessage
		wantErr bool
	}{
		{"valid", locationMessage{VehicleID: "X", Latitude: 0, Longitude: 0, Timestamp: 1}, false},
		{"empty vehicle_id", locationMessage{Latitude: 0, Longitude: 0, Timestamp: 1}, true},
		{"lat too low", locationMessage{VehicleID: "X", Latitude: -91, Longitude: 0, Timestamp: 1}, true},
		{"lat too high", locationMessage{VehicleID: "X", Latitude: 91, Longitude: 0, Timestamp: 1}, true},
		{"lon too low", locationMessage{VehicleID: "X", Latitude: 0, Longitude: -181, Timestamp: 1}, true},
		{"lon too high", locationMessage{VehicleID: "X", Latitude: 0, Longitude: 181, Timestamp: 1}, true},
		{"negative speed", locationMessage{VehicleID: "X", Latitude: 0, Longitude: 0, Speed: -1, Timestamp: 1}, true},
		{"zero timestamp", locationMessage{VehicleID: "X", Latitude: 0, Longitude: 0, Timestamp: 0}, true},
		{"negative timestamp", locationMessage{VehicleID: "X", Latitude: 0, Longitude: 0, Timestamp: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLocationMessage(&tt.msg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateLocationMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
