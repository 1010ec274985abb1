package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ryansilva512/controle-frotas/module/core/domain"
)

// FleetConfig is the geofence and speed limit snapshot loaded from the
// fleet YAML file. It satisfies the tracker's ConfigProvider.
type FleetConfig struct {
	geofences     []domain.Geofence
	defaultLimit  float64
	vehicleLimits map[string]float64
}

type fleetFile struct {
	Geofences []struct {
		ID     string  `yaml:"id"`
		Name   string  `yaml:"name"`
		Kind   string  `yaml:"kind"`
		Active *bool   `yaml:"active"`
		Center *latLon `yaml:"center"`
		Radius float64 `yaml:"radius"`
		Points []latLon `yaml:"points"`
		Rules  []struct {
			Kind             string `yaml:"kind"`
			Enabled          bool   `yaml:"enabled"`
			DwellMinutes     int    `yaml:"dwell_minutes"`
			StartTime        string `yaml:"start_time"`
			EndTime          string `yaml:"end_time"`
			ToleranceSeconds int    `yaml:"tolerance_seconds"`
		} `yaml:"rules"`
		Vehicles []string `yaml:"vehicles"`
	} `yaml:"geofences"`
	SpeedLimits struct {
		Default  float64            `yaml:"default"`
		Vehicles map[string]float64 `yaml:"vehicles"`
	} `yaml:"speed_limits"`
}

type latLon struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// LoadFleet reads the fleet file. A missing file is not an error: vehicles
// may be legitimately unconfigured, in which case there are no geofences
// and no speed limits.
func LoadFleet(path string) (*FleetConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &FleetConfig{vehicleLimits: map[string]float64{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fleet config: %w", err)
	}
	return parseFleet(data)
}

func parseFleet(data []byte) (*FleetConfig, error) {
	var file fleetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fleet config: %w", err)
	}

	cfg := &FleetConfig{
		defaultLimit:  file.SpeedLimits.Default,
		vehicleLimits: file.SpeedLimits.Vehicles,
	}
	if cfg.vehicleLimits == nil {
		cfg.vehicleLimits = map[string]float64{}
	}

	for _, g := range file.Geofences {
		gf := domain.Geofence{
			ID:         g.ID,
			Name:       g.Name,
			Kind:       domain.GeofenceKind(g.Kind),
			Active:     g.Active == nil || *g.Active,
			Radius:     g.Radius,
			VehicleIDs: g.Vehicles,
		}
		if g.Center != nil {
			gf.Center = &domain.Position{Lat: g.Center.Latitude, Lon: g.Center.Longitude}
		}
		for _, p := range g.Points {
			gf.Points = append(gf.Points, domain.Position{Lat: p.Latitude, Lon: p.Longitude})
		}
		for _, r := range g.Rules {
			gf.Rules = append(gf.Rules, domain.GeofenceRule{
				Kind:      domain.GeofenceRuleKind(r.Kind),
				Enabled:   r.Enabled,
				DwellTime: time.Duration(r.DwellMinutes) * time.Minute,
				StartTime: r.StartTime,
				EndTime:   r.EndTime,
				Tolerance: time.Duration(r.ToleranceSeconds) * time.Second,
			})
		}
		cfg.geofences = append(cfg.geofences, gf)
	}

	return cfg, nil
}

func (c *FleetConfig) Geofences() []domain.Geofence {
	return c.geofences
}

func (c *FleetConfig) SpeedLimit(vehicleID string) float64 {
	if limit, ok := c.vehicleLimits[vehicleID]; ok {
		return limit
	}
	return c.defaultLimit
}
