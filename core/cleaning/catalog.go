// Package cleaning scores hull-cleaning methods against the fouling
// state, vessel type and operational constraints. The catalogue is
// immutable configuration loaded at init.
package cleaning

import "hullzero/server/core/models"

// Environmental impact tags.
const (
	EnvLow    = "low"
	EnvMedium = "medium"
	EnvHigh   = "high"
)

// Urgency classes accepted by the selector.
const (
	UrgencyPreventive = "preventive"
	UrgencyNormal     = "normal"
	UrgencyUrgent     = "urgent"
	UrgencyCritical   = "critical"
)

// Method describes one cleaning technique in the catalogue.
type Method struct {
	Name           string   `json:"name"`
	Effectiveness  float64  `json:"effectiveness"` // [0, 1]
	CostPerM2      float64  `json:"cost_per_m2"`
	HoursPer1000M2 float64  `json:"hours_per_1000_m2"`
	EnvImpact      string   `json:"env_impact"` // low, medium, high
	MinThicknessMM float64  `json:"min_thickness_mm"`
	MaxThicknessMM float64  `json:"max_thickness_mm"`
	VesselTypes    []string `json:"vessel_types"` // empty = all types
	NormamApproved bool     `json:"normam_approved"`
	Steps          []string `json:"steps"`
}

var catalogue = []Method{
	{
		Name:           "soft-brush",
		Effectiveness:  0.55,
		CostPerM2:      8,
		HoursPer1000M2: 6,
		EnvImpact:      EnvLow,
		MinThicknessMM: 0,
		MaxThicknessMM: 2,
		NormamApproved: true,
		Steps: []string{
			"Confirm slime/soft-growth stage by diver inspection.",
			"Brush hull sections in overlapping passes, waterline to bilge keel.",
			"Verify coating integrity after brushing.",
		},
	},
	{
		Name:           "rotary-brush",
		Effectiveness:  0.75,
		CostPerM2:      14,
		HoursPer1000M2: 8,
		EnvImpact:      EnvMedium,
		MinThicknessMM: 1,
		MaxThicknessMM: 5,
		NormamApproved: true,
		Steps: []string{
			"Deploy diver-operated rotary unit with debris capture skirt.",
			"Work flat hull panels first, then appendages.",
			"Collect removed material per port environmental rules.",
			"Record before/after roughness readings.",
		},
	},
	{
		Name:           "high-pressure-water",
		Effectiveness:  0.8,
		CostPerM2:      18,
		HoursPer1000M2: 10,
		EnvImpact:      EnvMedium,
		MinThicknessMM: 1,
		MaxThicknessMM: 6,
		NormamApproved: true,
		Steps: []string{
			"Stage HP pumps and containment barriers at the berth.",
			"Jet hull at 500-800 bar, keeping standoff to protect coating.",
			"Filter effluent before discharge.",
			"Inspect anodes and sea chests after the pass.",
		},
	},
	{
		Name:           "cavitation-jet",
		Effectiveness:  0.85,
		CostPerM2:      26,
		HoursPer1000M2: 12,
		EnvImpact:      EnvLow,
		MinThicknessMM: 2,
		MaxThicknessMM: 8,
		NormamApproved: true,
		Steps: []string{
			"Deploy cavitation unit with ROV or diver guidance.",
			"Sweep hard-fouled areas; cavitation lifts calcareous growth without coating damage.",
			"Capture debris with suction shroud.",
			"Log removed biomass for invasive-species reporting.",
		},
	},
	{
		Name:           "rov-inspection-clean",
		Effectiveness:  0.65,
		CostPerM2:      22,
		HoursPer1000M2: 14,
		EnvImpact:      EnvLow,
		MinThicknessMM: 0,
		MaxThicknessMM: 4,
		NormamApproved: true,
		Steps: []string{
			"Launch ROV with brush and camera payload.",
			"Map fouling coverage before cleaning.",
			"Clean prioritised sections; re-survey after.",
		},
	},
	{
		Name:           "drydock-blast-repaint",
		Effectiveness:  1.0,
		CostPerM2:      60,
		HoursPer1000M2: 48,
		EnvImpact:      EnvHigh,
		MinThicknessMM: 4,
		MaxThicknessMM: 15,
		VesselTypes: []string{
			models.VesselTypeTanker, models.VesselTypeCargo, models.VesselTypeContainer,
			models.VesselTypeGasCarrier,
		},
		NormamApproved: true,
		Steps: []string{
			"Book drydock slot and prepare docking plan.",
			"Grit-blast hull to bare metal where coating has failed.",
			"Dispose of removed fouling as controlled waste.",
			"Apply full antifouling scheme and record application date.",
		},
	},
}

// Catalogue returns the method catalogue.
func Catalogue() []Method {
	return catalogue
}
