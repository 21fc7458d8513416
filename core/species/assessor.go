package species

import (
	"math"
	"sort"

	"hullzero/server/core/models"
)

// Assess evaluates settlement risk for every species present in region
// whose temperature, salinity and depth bands contain the queried
// conditions. Season may be empty. Results are sorted by descending risk
// score.
func Assess(region string, tempC, salinityPSU, depthM float64, season string) []*models.InvasiveRisk {
	var out []*models.InvasiveRisk
	for _, s := range defaultTable {
		if !inRegion(s, region) {
			continue
		}
		if !s.TempC.Contains(tempC) || !s.SalinityPSU.Contains(salinityPSU) || !s.DepthM.Contains(depthM) {
			continue
		}

		// Closer to the species' optimum temperature means higher risk.
		score := 0.5 + 0.2*(1-math.Abs(tempC-s.TempOptC)/(0.3*s.TempOptC))
		if m, ok := s.Seasonal[season]; ok {
			score *= m
		}
		score = clamp01(score)

		out = append(out, &models.InvasiveRisk{
			Species:        s.Name,
			CommonName:     s.CommonName,
			RiskScore:      score,
			RiskLevel:      riskLevel(score),
			GrowthRate:     s.GrowthRate,
			RemovalIndex:   s.RemovalIndex,
			ControlMethods: s.ControlMethods,
			Prevention:     s.Prevention,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RiskScore > out[j].RiskScore
	})
	return out
}

func inRegion(s Species, region string) bool {
	for _, r := range s.Regions {
		if r == region {
			return true
		}
	}
	return false
}

func riskLevel(score float64) string {
	switch {
	case score < 0.4:
		return models.RiskLow
	case score < 0.6:
		return models.RiskMedium
	case score < 0.8:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
