package models

import "time"

// Recommendation kinds.
const (
	RecommendImmediateCleaning  = "immediate-cleaning"
	RecommendScheduledCleaning  = "scheduled-cleaning"
	RecommendMonitorIntensified = "monitor-intensified"
	RecommendPreventiveAction   = "preventive-action"
	RecommendNoAction           = "no-action"
)

// Recommendation priorities.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Recommendation decision statuses.
const (
	RecommendationPending   = "pending"
	RecommendationAccepted  = "accepted"
	RecommendationRejected  = "rejected"
	RecommendationCompleted = "completed"
)

// CandidateEvaluation is the optimizer's assessment of one candidate
// cleaning date. Exposed on the recommendation for auditability.
type CandidateEvaluation struct {
	OffsetDays      int       `json:"offset_days"`
	Date            time.Time `json:"date"`
	ProjectedMM     float64   `json:"projected_thickness_mm"`
	ProjectedUM     float64   `json:"projected_roughness_um"`
	CleaningCost    float64   `json:"cleaning_cost"`
	DowntimeCost    float64   `json:"downtime_cost"`
	SavingsKg       float64   `json:"savings_kg"`
	SavingsCurrency float64   `json:"savings_currency"`
	CO2ReductionKg  float64   `json:"co2_reduction_kg"`
	NetBenefit      float64   `json:"net_benefit"`
	ComplianceScore float64   `json:"compliance_score"`
}

// Recommendation is the cleaning-schedule optimizer's decision artefact.
type Recommendation struct {
	ID              string                `json:"id"`
	VesselID        string                `json:"vessel_id,omitempty"`
	Kind            string                `json:"kind"`     // immediate-cleaning, scheduled-cleaning, monitor-intensified, preventive-action, no-action
	Priority        string                `json:"priority"` // critical, high, medium, low
	RecommendedDate time.Time             `json:"recommended_date"`
	EstimatedBenefit float64              `json:"estimated_benefit"`
	CO2ReductionKg  float64               `json:"co2_reduction_kg"`
	EstimatedCost   float64               `json:"estimated_cost"`
	NetBenefit      float64               `json:"net_benefit"`
	ConformityRisk  float64               `json:"conformity_risk"` // [0, 1]
	Reasoning       string                `json:"reasoning"`
	Status          string                `json:"status"` // pending, accepted, rejected, completed
	Candidates      []CandidateEvaluation `json:"candidates,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}
