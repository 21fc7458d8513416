package models

// InvasiveRisk is the assessor's verdict for one species matching the
// queried conditions.
type InvasiveRisk struct {
	Species        string   `json:"species"`
	CommonName     string   `json:"common_name"`
	RiskScore      float64  `json:"risk_score"` // [0, 1]
	RiskLevel      string   `json:"risk_level"` // low, medium, high, critical
	GrowthRate     float64  `json:"growth_rate_multiplier"`
	RemovalIndex   float64  `json:"removal_difficulty_index"`
	ControlMethods []string `json:"control_methods"`
	Prevention     string   `json:"prevention"`
}
