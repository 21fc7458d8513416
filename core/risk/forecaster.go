// Package risk projects fouling growth forward and scores the resulting
// conformity exposure over a planning horizon.
package risk

import (
	"errors"
	"math"
	"sort"
	"time"

	"hullzero/server/core/conformity"
	"hullzero/server/core/fouling"
	"hullzero/server/core/models"
	"hullzero/server/core/species"
)

// DefaultIntervals is the default forecast interval set, clipped to the
// requested horizon.
var DefaultIntervals = []int{7, 14, 30, 60, 90}

// nearLimitBonus is added to the risk score when either projected metric
// sits within 10% of its limit.
const nearLimitBonus = 0.2

// Forecaster rolls the hybrid predictor forward and reruns the conformity
// checker on each projected state.
type Forecaster struct {
	predictor *fouling.Predictor
	checker   *conformity.Checker
	now       func() time.Time
}

// NewForecaster wires the forecaster's collaborators.
func NewForecaster(p *fouling.Predictor, c *conformity.Checker, now func() time.Time) *Forecaster {
	if now == nil {
		now = time.Now
	}
	return &Forecaster{predictor: p, checker: c, now: now}
}

// Forecast projects the feature bundle horizonDays ahead at each interval.
// A nil interval set selects the default {7, 14, 30, 60, 90}.
func (f *Forecaster) Forecast(features models.VesselFeatures, horizonDays int, intervals []int) ([]*models.RiskForecast, error) {
	if horizonDays <= 0 {
		return nil, models.NewInvalidInput("risk.forecast", errors.New("horizon must be positive"))
	}
	if err := features.Validate(); err != nil {
		return nil, err
	}
	if intervals == nil {
		intervals = DefaultIntervals
	}

	now := f.now().UTC()
	var out []*models.RiskForecast
	for _, n := range intervals {
		if n <= 0 || n > horizonDays {
			continue
		}
		future := features
		future.DaysSinceCleaning += float64(n)
		future.PaintAgeDays += float64(n)

		est, err := f.predictor.Predict(future)
		if err != nil {
			return nil, err
		}
		status, err := f.checker.Check(conformity.Input{
			ThicknessMM: est.ThicknessMM,
			RoughnessUM: est.RoughnessUM,
			VesselType:  features.VesselType,
		})
		if err != nil {
			return nil, err
		}

		score := 1 - status.ComplianceScore
		if nearLimit(est.ThicknessMM, status.ThicknessLimitMM) || nearLimit(est.RoughnessUM, status.RoughnessLimitUM) {
			score += nearLimitBonus
		}
		score = math.Min(1, score)

		out = append(out, &models.RiskForecast{
			DaysAhead:    n,
			ForecastDate: now.Add(time.Duration(n) * 24 * time.Hour),
			ProjectedMM:  est.ThicknessMM,
			ProjectedUM:  est.RoughnessUM,
			Status:       status,
			RiskScore:    score,
			RiskLevel:    levelFor(score),
			Factors:      deriveFactors(future),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysAhead < out[j].DaysAhead })
	return out, nil
}

func nearLimit(v, limit float64) bool {
	return v > 0.9*limit
}

func levelFor(score float64) string {
	switch {
	case score < 0.3:
		return models.RiskLow
	case score < 0.6:
		return models.RiskMedium
	case score < 0.8:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// deriveFactors names the risk drivers present in the projected bundle by
// fixed rules. Contributions are renormalised to sum to at most 1.
func deriveFactors(f models.VesselFeatures) []models.RiskFactor {
	var factors []models.RiskFactor

	if f.DaysSinceCleaning > 90 {
		severity := models.RiskMedium
		if f.DaysSinceCleaning > 120 {
			severity = models.RiskHigh
		}
		factors = append(factors, models.RiskFactor{
			Name:         "time-since-cleaning",
			Severity:     severity,
			Description:  "Growth compounds with time since the last hull cleaning.",
			Contribution: math.Min(0.4, (f.DaysSinceCleaning-90)/100),
			Mitigation:   "Bring the next cleaning forward.",
		})
	}
	if f.WaterTempC >= 22 && f.WaterTempC <= 30 {
		factors = append(factors, models.RiskFactor{
			Name:         "warm-water-route",
			Severity:     models.RiskMedium,
			Description:  "Route water temperature sits in the optimal settlement band.",
			Contribution: 0.2,
			Mitigation:   "Shorten inspection intervals while on this route.",
		})
	}
	if f.PortHours > 100 {
		factors = append(factors, models.RiskFactor{
			Name:         "extended-port-stays",
			Severity:     models.RiskMedium,
			Description:  "Long idle periods in port favour larval settlement.",
			Contribution: 0.2,
			Mitigation:   "Reduce anchorage time or schedule in-port brushing.",
		})
	}
	if f.AvgSpeedKn < 8 {
		factors = append(factors, models.RiskFactor{
			Name:         "low-operating-speed",
			Severity:     models.RiskLow,
			Description:  "Low speed removes the hull's hydrodynamic self-cleaning.",
			Contribution: 0.15,
			Mitigation:   "Plan periodic higher-speed legs where the schedule allows.",
		})
	}
	if f.PaintAgeDays > 730 {
		factors = append(factors, models.RiskFactor{
			Name:         "aged-antifouling-paint",
			Severity:     models.RiskMedium,
			Description:  "Antifouling coating efficacy degrades after two years.",
			Contribution: 0.15,
			Mitigation:   "Plan repainting at the next docking.",
		})
	}
	if species.MaxRegionalRisk(f.Region, f.WaterTempC) >= 3 {
		factors = append(factors, models.RiskFactor{
			Name:         "invasive-species-region",
			Severity:     models.RiskHigh,
			Description:  "Route crosses a region with high invasive-species pressure.",
			Contribution: 0.2,
			Mitigation:   "Inspect within 30 days of transit and report sightings.",
		})
	}

	var total float64
	for _, fc := range factors {
		total += fc.Contribution
	}
	if total > 1 {
		for i := range factors {
			factors[i].Contribution /= total
		}
	}
	return factors
}
