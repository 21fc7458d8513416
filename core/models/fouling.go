package models

import "time"

// Fouling severity classes derived from estimated thickness.
const (
	SeverityLight    = "light"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
	SeverityCritical = "critical"
)

// VesselFeatures is the feature bundle consumed by the growth models.
// Zero values are meaningful defaults for the plain fields; optional
// nutrient proxies are pointers because their absence changes behaviour.
type VesselFeatures struct {
	VesselType        string   `json:"vessel_type"`
	DaysSinceCleaning float64  `json:"days_since_cleaning"`
	WaterTempC        float64  `json:"water_temp_c"`
	SalinityPSU       float64  `json:"salinity_psu"`
	PortHours         float64  `json:"port_hours"`
	AvgSpeedKn        float64  `json:"avg_speed_kn"`
	Region            string   `json:"region"`
	Season            string   `json:"season,omitempty"` // winter, autumn, spring, summer; empty = unknown
	PaintType         string   `json:"paint_type,omitempty"`
	PaintAgeDays      float64  `json:"paint_age_days"`
	ChlorophyllA      *float64 `json:"chlorophyll_a,omitempty"`  // mg/m3
	DissolvedO2       *float64 `json:"dissolved_o2,omitempty"`   // mg/L
	PH                float64  `json:"ph,omitempty"`
	TurbidityNTU      float64  `json:"turbidity_ntu,omitempty"`
	CurrentVelocityKn float64  `json:"current_velocity_kn,omitempty"`
	DepthM            float64  `json:"depth_m,omitempty"`
	WaterQualityIndex float64  `json:"water_quality_index,omitempty"`

	// Operating profile used for the fuel and CO2 impact figures.
	TypicalConsumptionKgH float64 `json:"typical_consumption_kg_h"`
	EnginePowerKW         float64 `json:"engine_power_kw"`
	DesignSpeedKn         float64 `json:"design_speed_kn"`
	HullAreaM2            float64 `json:"hull_area_m2"`
}

// Validate checks the feature bundle preconditions.
func (f *VesselFeatures) Validate() error {
	if f.DaysSinceCleaning < 0 {
		return NewInvalidInput("features.validate", errInvalidFeature("days_since_cleaning cannot be negative"))
	}
	if f.AvgSpeedKn < 0 {
		return NewInvalidInput("features.validate", errInvalidFeature("avg_speed_kn cannot be negative"))
	}
	if f.PortHours < 0 {
		return NewInvalidInput("features.validate", errInvalidFeature("port_hours cannot be negative"))
	}
	return nil
}

type errInvalidFeature string

func (e errInvalidFeature) Error() string { return string(e) }

// FoulingEstimate is the hybrid predictor's output at a point in time.
// Never mutated after creation.
type FoulingEstimate struct {
	ID                 string    `json:"id"`
	VesselID           string    `json:"vessel_id,omitempty"`
	ThicknessMM        float64   `json:"thickness_mm"`         // [0, 15]
	RoughnessUM        float64   `json:"roughness_um"`         // [0, 1000]
	Severity           string    `json:"severity"`             // light, moderate, severe, critical
	Confidence         float64   `json:"confidence"`           // [0, 1]
	FuelImpactPercent  float64   `json:"fuel_impact_percent"`  // capped at 50
	CO2ImpactKgH       float64   `json:"co2_impact_kg_h"`
	PhysicalMM         float64   `json:"physical_mm"`
	EnsembleMM         *float64  `json:"ensemble_mm,omitempty"`
	BasePredictionsMM  []float64 `json:"base_predictions_mm,omitempty"`
	Reasoning          string    `json:"reasoning,omitempty"`
	EstimatedAt        time.Time `json:"estimated_at"`
}
