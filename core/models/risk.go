package models

import "time"

// Risk levels for forecasts and anomaly severities.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// RiskFactor names a driver of forecast risk with its normalised
// contribution. Contributions across a forecast sum to at most 1.
type RiskFactor struct {
	Name         string  `json:"name"`
	Severity     string  `json:"severity"` // low, medium, high, critical
	Description  string  `json:"description"`
	Contribution float64 `json:"contribution"` // [0, 1]
	Mitigation   string  `json:"mitigation"`
}

// RiskForecast is a conformity status projected N days ahead.
type RiskForecast struct {
	VesselID     string            `json:"vessel_id,omitempty"`
	DaysAhead    int               `json:"days_ahead"`
	ForecastDate time.Time         `json:"forecast_date"`
	ProjectedMM  float64           `json:"projected_thickness_mm"`
	ProjectedUM  float64           `json:"projected_roughness_um"`
	Status       *ConformityStatus `json:"status"`
	RiskScore    float64           `json:"risk_score"` // [0, 1]
	RiskLevel    string            `json:"risk_level"` // low, medium, high, critical
	Factors      []RiskFactor      `json:"factors"`
}
