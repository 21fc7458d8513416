// Package conformity checks hull fouling against the NORMAM-401 limit
// table and derives typed statuses, violations and compliance scores.
package conformity

import "hullzero/server/core/models"

// Limit is the per-vessel-type maxima pair.
type Limit struct {
	ThicknessMM float64
	RoughnessUM float64
}

// warningFraction is the share of a limit at which a warning is emitted.
const warningFraction = 0.8

// criticalFraction is the share of a limit at or beyond which a breach
// becomes a critical-severity violation.
const criticalFraction = 1.2

// nearLimitFraction flags metrics within 10% of their limit for the
// metric-specific recommendation reminders.
const nearLimitFraction = 0.9

// Inspection intervals in days. High-risk classes use the shorter one.
const (
	DefaultInspectionIntervalDays  = 90
	HighRiskInspectionIntervalDays = 30
)

// standardLimit backs unknown vessel types.
var standardLimit = Limit{ThicknessMM: 5.0, RoughnessUM: 500}

var limitTable = map[string]Limit{
	models.VesselTypeTanker:     {ThicknessMM: 5.0, RoughnessUM: 500},
	models.VesselTypeCargo:      {ThicknessMM: 5.0, RoughnessUM: 500},
	models.VesselTypeContainer:  {ThicknessMM: 4.5, RoughnessUM: 450},
	models.VesselTypeGasCarrier: {ThicknessMM: 5.0, RoughnessUM: 500},
	models.VesselTypeTug:        {ThicknessMM: 6.0, RoughnessUM: 600},
	models.VesselTypeBarge:      {ThicknessMM: 6.0, RoughnessUM: 600},
}

// LimitFor returns the limits for a vessel type, defaulting to the
// standard pair for unknown types.
func LimitFor(vesselType string) Limit {
	if l, ok := limitTable[vesselType]; ok {
		return l
	}
	return standardLimit
}
