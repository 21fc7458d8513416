package models

import "time"

// Conformity statuses under the NORMAM-401 limit table.
const (
	StatusCompliant    = "compliant"
	StatusAtRisk       = "at-risk"
	StatusNonCompliant = "non-compliant"
	StatusCritical     = "critical"
)

// Violation severities. A breach at or beyond 120% of the limit is
// critical; below that it is high.
const (
	ViolationHigh     = "high"
	ViolationCritical = "critical"
)

// Violation records a single exceeded limit.
type Violation struct {
	Metric   string  `json:"metric"` // thickness, roughness, inspection
	Severity string  `json:"severity"`
	Measured float64 `json:"measured"`
	Limit    float64 `json:"limit"`
	Message  string  `json:"message"`
}

// Warning records a metric inside the 80% warning band of its limit.
type Warning struct {
	Metric   string  `json:"metric"`
	Measured float64 `json:"measured"`
	Limit    float64 `json:"limit"`
	Message  string  `json:"message"`
}

// ConformityStatus is an immutable snapshot produced by the conformity
// checker. It is a pure function of its inputs.
type ConformityStatus struct {
	ID                string      `json:"id"`
	VesselID          string      `json:"vessel_id,omitempty"`
	Status            string      `json:"status"` // compliant, at-risk, non-compliant, critical
	ThicknessMM       float64     `json:"thickness_mm"`
	RoughnessUM       float64     `json:"roughness_um"`
	ThicknessLimitMM  float64     `json:"thickness_limit_mm"`
	RoughnessLimitUM  float64     `json:"roughness_limit_um"`
	Violations        []Violation `json:"violations"`
	Warnings          []Warning   `json:"warnings"`
	ComplianceScore   float64     `json:"compliance_score"` // [0, 1]
	NextInspectionDue time.Time   `json:"next_inspection_due"`
	Recommendations   []string    `json:"recommendations"`
	CheckedAt         time.Time   `json:"checked_at"`
}
