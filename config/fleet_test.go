package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

const fleetYAML = `
geofences:
  - id: depot
    name: Central Depot
    kind: circle
    center:
      latitude: -6.2088
      longitude: 106.8456
    radius: 500
    rules:
      - kind: entry
        enabled: true
      - kind: dwell
        enabled: true
        dwell_minutes: 15
    vehicles:
      - B1234XYZ
  - id: port
    name: Port Area
    kind: polygon
    active: false
    points:
      - latitude: -6.10
        longitude: 106.80
      - latitude: -6.10
        longitude: 106.90
      - latitude: -6.15
        longitude: 106.85
    rules:
      - kind: time_window
        enabled: true
        start_time: "08:00"
        end_time: "17:00"
        tolerance_seconds: 300
speed_limits:
  default: 60
  vehicles:
    B1234XYZ: 80
`

func TestParseFleet(t *testing.T) {
	cfg, err := parseFleet([]byte(fleetYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	geofences := cfg.Geofences()
	if len(geofences) != 2 {
		t.Fatalf("expected 2 geofences, got %d", len(geofences))
	}

	depot := geofences[0]
	if depot.ID != "depot" || depot.Name != "Central Depot" {
		t.Errorf("unexpected depot identity: %+v", depot)
	}
	if depot.Kind != domain.GeofenceCircle {
		t.Errorf("expected circle, got %s", depot.Kind)
	}
	if !depot.Active {
		t.Error("expected depot active by default")
	}
	if depot.Center == nil || depot.Center.Lat != -6.2088 {
		t.Errorf("unexpected center: %+v", depot.Center)
	}
	if depot.Radius != 500 {
		t.Errorf("expected radius 500, got %f", depot.Radius)
	}
	if len(depot.VehicleIDs) != 1 || depot.VehicleIDs[0] != "B1234XYZ" {
		t.Errorf("unexpected vehicles: %v", depot.VehicleIDs)
	}
	dwell := depot.Rule(domain.RuleDwell)
	if dwell == nil {
		t.Fatal("expected dwell rule")
	}
	if dwell.DwellTime != 15*time.Minute {
		t.Errorf("expected dwell 15m, got %v", dwell.DwellTime)
	}

	port := geofences[1]
	if port.Kind != domain.GeofencePolygon {
		t.Errorf("expected polygon, got %s", port.Kind)
	}
	if port.Active {
		t.Error("expected port inactive")
	}
	if len(port.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(port.Points))
	}
	window := port.Rule(domain.RuleTimeWindow)
	if window == nil {
		t.Fatal("expected time_window rule")
	}
	if window.StartTime != "08:00" || window.EndTime != "17:00" {
		t.Errorf("unexpected window: %s-%s", window.StartTime, window.EndTime)
	}
	if window.Tolerance != 5*time.Minute {
		t.Errorf("expected tolerance 5m, got %v", window.Tolerance)
	}
}

func TestParseFleet_SpeedLimits(t *testing.T) {
	cfg, err := parseFleet([]byte(fleetYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if limit := cfg.SpeedLimit("B1234XYZ"); limit != 80 {
		t.Errorf("expected override 80, got %f", limit)
	}
	if limit := cfg.SpeedLimit("UNKNOWN"); limit != 60 {
		t.Errorf("expected default 60, got %f", limit)
	}
}

func TestParseFleet_Invalid(t *testing.T) {
	if _, err := parseFleet([]byte("geofences: [not: valid")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFleet_MissingFile(t *testing.T) {
	cfg, err := LoadFleet(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Geofences()) != 0 {
		t.Errorf("expected no geofences, got %d", len(cfg.Geofences()))
	}
	if limit := cfg.SpeedLimit("B1234XYZ"); limit != 0 {
		t.Errorf("expected no limit, got %f", limit)
	}
}

func TestLoadFleet_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	if err := os.WriteFile(path, []byte(fleetYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFleet(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Geofences()) != 2 {
		t.Errorf("expected 2 geofences, got %d", len(cfg.Geofences()))
	}
}
