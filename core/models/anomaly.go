package models

import "time"

// Anomaly types emitted by the time-series detector.
const (
	AnomalySuddenChange    = "sudden-change"
	AnomalyConcerningTrend = "concerning-trend"
	AnomalyInconsistent    = "inconsistent-value"
	AnomalyOutlier         = "outlier"
	AnomalyMissingData     = "missing-data"
)

// CompliancePoint is one entry of the per-vessel compliance time series
// scanned by the anomaly detector.
type CompliancePoint struct {
	Timestamp   time.Time `json:"timestamp"`
	VesselID    string    `json:"vessel_id"`
	ThicknessMM float64   `json:"thickness_mm"`
	RoughnessUM float64   `json:"roughness_um"`
	Status      string    `json:"status"`
	Score       float64   `json:"score"`
	Source      string    `json:"source"` // estimate, inspection, import
}

// Anomaly is one finding of the detector, with the raw points that
// witness it.
type Anomaly struct {
	Type        string            `json:"type"`     // sudden-change, concerning-trend, inconsistent-value, outlier, missing-data
	Severity    string            `json:"severity"` // low, medium, high, critical
	Timestamp   time.Time         `json:"timestamp"`
	Metrics     []string          `json:"metrics"`
	Description string            `json:"description"`
	Action      string            `json:"action"`
	Confidence  float64           `json:"confidence"` // [0, 1]
	Witnesses   []CompliancePoint `json:"witnesses"`
}
