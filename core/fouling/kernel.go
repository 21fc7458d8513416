// Package fouling implements the biofouling growth models: the
// deterministic physical kernel, the opportunistically trained tree
// ensemble, and the hybrid predictor that blends the two.
package fouling

import (
	"math"

	"hullzero/server/core/models"
	"hullzero/server/core/species"
)

// Physical model constants.
const (
	baseGrowthRate = 0.05 // k0, mm/day at reference conditions
	maxThicknessMM = 15.0
	maxRoughnessUM = 1000.0

	tempOptimumC  = 25.0
	tempSigmaC    = 4.0
	salinityOptPSU = 32.5
	salinitySigma  = 3.0
)

// PhysicalThickness returns the kernel's thickness estimate in mm for the
// given features. Deterministic, stateless and side-effect-free; out-of-range
// inputs are absorbed by clamping factors rather than rejected.
func PhysicalThickness(f models.VesselFeatures) float64 {
	k := baseGrowthRate *
		tempFactor(f.WaterTempC) *
		salinityFactor(f.SalinityPSU) *
		portFactor(f.PortHours) *
		speedFactor(f.AvgSpeedKn) *
		seasonFactor(f.Season) *
		invasiveFactor(f.Region, f.WaterTempC) *
		nutrientFactor(f.ChlorophyllA, f.DissolvedO2)

	t := maxThicknessMM * (1 - math.Exp(-k*f.DaysSinceCleaning/30))
	return clamp(t, 0, maxThicknessMM)
}

// RoughnessFromThickness maps thickness (mm) to hull roughness (um),
// saturating at 1000 um.
func RoughnessFromThickness(thicknessMM float64) float64 {
	return math.Min(maxRoughnessUM, 50*thicknessMM+100)
}

// tempFactor is a Gaussian centred on 25 C, attenuated to 0.3 outside the
// viable [18, 32] band.
func tempFactor(tempC float64) float64 {
	if tempC < 18 || tempC > 32 {
		return 0.3
	}
	d := tempC - tempOptimumC
	return math.Exp(-(d * d) / (2 * tempSigmaC * tempSigmaC))
}

// salinityFactor is a Gaussian centred on 32.5 PSU clipped to [0.1, 1];
// outside [28, 38] growth collapses to half rate.
func salinityFactor(psu float64) float64 {
	if psu < 28 || psu > 38 {
		return 0.5
	}
	d := psu - salinityOptPSU
	return clamp(math.Exp(-(d*d)/(2*salinitySigma*salinitySigma)), 0.1, 1)
}

// portFactor rewards idle time: settlement happens at rest.
func portFactor(portHours float64) float64 {
	if portHours < 0 {
		portHours = 0
	}
	return 1 + (portHours/24)*0.10
}

// speedFactor penalises growth at speed; shear above ~20 kn strips most
// early settlement, floored at 0.2.
func speedFactor(speedKn float64) float64 {
	if speedKn < 0 {
		speedKn = 0
	}
	return math.Max(0.2, 1-(speedKn/20)*0.8)
}

func seasonFactor(season string) float64 {
	switch season {
	case "winter":
		return 0.7
	case "autumn":
		return 0.9
	case "spring":
		return 1.1
	case "summer":
		return 1.3
	default:
		return 1.0
	}
}

// invasiveFactor scales growth by the worst regional species risk
// (1 low .. 3 high): f = 1 + 0.5*(risk - 1).
func invasiveFactor(region string, tempC float64) float64 {
	return 1 + 0.5*(species.MaxRegionalRisk(region, tempC)-1)
}

// nutrientFactor derives a [0.7, 1.4] multiplier from chlorophyll-a and
// dissolved oxygen when supplied, else 1.0.
func nutrientFactor(chlorophyllA, dissolvedO2 *float64) float64 {
	if chlorophyllA == nil && dissolvedO2 == nil {
		return 1.0
	}
	f := 1.0
	if chlorophyllA != nil {
		switch chl := *chlorophyllA; {
		case chl > 10:
			f += 0.4
		case chl > 5:
			f += 0.2
		case chl < 1:
			f -= 0.15
		}
	}
	if dissolvedO2 != nil {
		switch o2 := *dissolvedO2; {
		case o2 < 4:
			f -= 0.3
		case o2 > 8:
			f += 0.1
		}
	}
	return clamp(f, 0.7, 1.4)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
