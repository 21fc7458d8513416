package models

// FuelFeatures is the operational feature set accepted by the
// counterfactual fuel model. Thickness and roughness are only consumed by
// the "real" regressor.
type FuelFeatures struct {
	SpeedKn       float64 `json:"speed_kn"`
	EnginePowerKW float64 `json:"engine_power_kw"`
	DesignSpeedKn float64 `json:"design_speed_kn"`
	LoadPercent   float64 `json:"load_percent"`
	WaveHeightM   float64 `json:"wave_height_m"`
	WindSpeedKn   float64 `json:"wind_speed_kn"`
	WaterTempC    float64 `json:"water_temp_c"`
	ThicknessMM   float64 `json:"thickness_mm"`
	RoughnessUM   float64 `json:"roughness_um"`
}

// FuelImpactResult attributes excess consumption to fouling and other
// causes by differencing the ideal and real consumption figures.
type FuelImpactResult struct {
	IdealKgH         float64            `json:"ideal_kg_h"`
	RealKgH          float64            `json:"real_kg_h"`
	DeltaKgH         float64            `json:"delta_kg_h"`
	DeltaPercent     float64            `json:"delta_percent"`
	DeltaCO2KgH      float64            `json:"delta_co2_kg_h"`
	Attribution      map[string]float64 `json:"attribution,omitempty"` // fouling, weather, load, other (shares of delta_percent)
	Confidence       float64            `json:"confidence"`            // [0, 1]
	ObservedSupplied bool               `json:"observed_supplied"`
}
