package models

import (
	"errors"
	"time"
)

// OperationalSample is an immutable time-stamped operational reading for a
// vessel. Samples are append-only and ordered by timestamp per vessel.
type OperationalSample struct {
	ID           string    `json:"id"`
	VesselID     string    `json:"vessel_id"`
	Timestamp    time.Time `json:"timestamp"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	SpeedKn      float64   `json:"speed_kn"`
	FuelFlowKgH  *float64  `json:"fuel_flow_kg_h,omitempty"`
	WaterTempC   float64   `json:"water_temp_c"`
	SalinityPSU  float64   `json:"salinity_psu"`
	WaveHeightM  float64   `json:"wave_height_m"`
	WindSpeedKn  float64   `json:"wind_speed_kn"`
	LoadPercent  float64   `json:"load_percent"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the operational sample invariants.
func (s *OperationalSample) Validate() error {
	if s.VesselID == "" {
		return NewInvalidInput("sample.validate", errors.New("vessel id is required"))
	}
	if s.Timestamp.IsZero() {
		return NewInvalidInput("sample.validate", errors.New("timestamp is required"))
	}
	if s.SpeedKn < 0 {
		return NewInvalidInput("sample.validate", errors.New("speed cannot be negative"))
	}
	if s.LoadPercent < 0 || s.LoadPercent > 100 {
		return NewInvalidInput("sample.validate", errors.New("load percent must be within [0,100]"))
	}
	return nil
}
