// Package fuel isolates the fuel-consumption excess attributable to hull
// fouling by differencing a no-fouling ("ideal") regressor against a
// "real" regressor trained with fouling features.
package fuel

import (
	"math"

	"hullzero/server/core/fouling"
	"hullzero/server/core/models"
)

// CleanThicknessMM bounds the post-cleaning window: samples at or below
// this thickness are considered fouling-free and train the ideal model.
const CleanThicknessMM = 0.5

// Specific fuel consumption baseline for the closed-form fallback, kg/h
// per (MW)^1.5.
const fallbackBaseKgH = 190.0

// Sample is one consumption observation with its fouling context.
type Sample struct {
	Features         models.FuelFeatures
	ConsumptionKgH   float64
}

// Options tunes a single estimate call.
type Options struct {
	// DisableAttribution suppresses the heuristic {fouling, weather,
	// load, other} split when honesty matters more than UX.
	DisableAttribution bool
}

// Model holds the paired regressors. Untrained, every estimate uses the
// closed-form cubic fallback.
type Model struct {
	ideal *fouling.Ensemble
	real  *fouling.Ensemble
}

// NewModel returns an untrained counterfactual model.
func NewModel() *Model {
	return &Model{ideal: fouling.NewEnsemble(), real: fouling.NewEnsemble()}
}

// Train fits the ideal regressor on the post-cleaning window and the real
// regressor on the whole history. Either side failing to reach the
// training floor is a graceful degradation, not an error.
func (m *Model) Train(history []Sample) {
	var idealX, realX [][]float64
	var idealY, realY []float64
	for _, s := range history {
		realX = append(realX, realVector(s.Features))
		realY = append(realY, s.ConsumptionKgH)
		if s.Features.ThicknessMM <= CleanThicknessMM {
			idealX = append(idealX, idealVector(s.Features))
			idealY = append(idealY, s.ConsumptionKgH)
		}
	}
	// Errors here are the insufficient-history degradation; Estimate
	// falls back to the closed form when either side is untrained.
	_ = m.ideal.Train(idealX, idealY)
	_ = m.real.Train(realX, realY)
}

// Trained reports whether both paired regressors are fitted.
func (m *Model) Trained() bool {
	return m.ideal.Trained() && m.real.Trained()
}

// Estimate computes the fouling-attributable consumption excess for one
// query sample. When observed is non-nil it is taken as the real
// consumption and the confidence is 1.0.
func (m *Model) Estimate(f models.FuelFeatures, observed *float64, opts Options) (*models.FuelImpactResult, error) {
	if f.SpeedKn < 0 || f.EnginePowerKW < 0 || f.ThicknessMM < 0 || f.RoughnessUM < 0 {
		return nil, models.NewInvalidInput("fuel.estimate", errNegativeFeature)
	}

	var ideal, real float64
	var confidence float64
	if m.Trained() {
		ideal = m.predictIdeal(f)
		real = m.predictReal(f)
		confidence = 0.85 * (modelConfidence(m.ideal) + modelConfidence(m.real)) / 2
	} else {
		ideal = fallbackConsumption(f, false)
		real = fallbackConsumption(f, true)
		confidence = 0.7 // closed form carries less signal than fitted models
	}
	if observed != nil {
		real = *observed
		confidence = 1.0
	}
	if ideal <= 0 {
		ideal = math.SmallestNonzeroFloat64
	}

	delta := real - ideal
	deltaPct := delta / ideal * 100

	res := &models.FuelImpactResult{
		IdealKgH:         ideal,
		RealKgH:          real,
		DeltaKgH:         delta,
		DeltaPercent:     deltaPct,
		DeltaCO2KgH:      delta * fouling.CO2Factor,
		Confidence:       confidence,
		ObservedSupplied: observed != nil,
	}
	if !opts.DisableAttribution {
		res.Attribution = attribute(f, deltaPct)
	}
	return res, nil
}

var errNegativeFeature = models.NewInvalidInput("fuel.features", errString("negative feature value"))

type errString string

func (e errString) Error() string { return string(e) }

// modelConfidence summarises an ensemble as the mean of its validation
// R-squared values, floored at 0.5 so one weak side cannot zero the
// combined confidence.
func modelConfidence(e *fouling.Ensemble) float64 {
	scores := e.ValidationScores()
	if len(scores) == 0 {
		return 0.5
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return clamp(sum/float64(len(scores)), 0.5, 1)
}

func (m *Model) predictIdeal(f models.FuelFeatures) float64 {
	v, _, err := m.ideal.Predict(idealVector(f))
	if err != nil || v <= 0 {
		return fallbackConsumption(f, false)
	}
	return v
}

func (m *Model) predictReal(f models.FuelFeatures) float64 {
	v, _, err := m.real.Predict(realVector(f))
	if err != nil || v <= 0 {
		return fallbackConsumption(f, true)
	}
	return v
}

func idealVector(f models.FuelFeatures) []float64 {
	return []float64{f.SpeedKn, f.EnginePowerKW, f.DesignSpeedKn, f.LoadPercent, f.WaveHeightM, f.WindSpeedKn, f.WaterTempC}
}

func realVector(f models.FuelFeatures) []float64 {
	return append(idealVector(f), f.ThicknessMM, f.RoughnessUM)
}

// fallbackConsumption is the closed-form cubic estimate used when either
// regressor is untrained: power-law base scaled by speed, weather and load
// factors, with a fouling uplift on the "real" side.
func fallbackConsumption(f models.FuelFeatures, withFouling bool) float64 {
	c := fallbackBaseKgH * math.Pow(f.EnginePowerKW/1000, 1.5) *
		speedFactor(f) * weatherFactor(f) * loadFactor(f)
	if withFouling {
		c *= 1 + 0.01*f.ThicknessMM + 0.00005*f.RoughnessUM
	}
	return c
}

// speedFactor follows the cubic propeller law against design speed,
// clamped to a sane operating band.
func speedFactor(f models.FuelFeatures) float64 {
	design := f.DesignSpeedKn
	if design <= 0 {
		design = 14
	}
	r := f.SpeedKn / design
	return clamp(r*r*r, 0.2, 1.5)
}

func weatherFactor(f models.FuelFeatures) float64 {
	return clamp(1+0.08*f.WaveHeightM+0.005*f.WindSpeedKn, 1, 1.6)
}

func loadFactor(f models.FuelFeatures) float64 {
	return 0.6 + 0.4*clamp(f.LoadPercent/100, 0, 1)
}

// attribute partitions the excess percentage into {fouling, weather,
// load, other} by the fixed heuristic: fouling takes at most 70% of the
// total and no more than the physics-derived portion; weather and load
// shares come from their factor excesses; the remainder is "other".
func attribute(f models.FuelFeatures, deltaPct float64) map[string]float64 {
	if deltaPct <= 0 {
		return map[string]float64{"fouling": 0, "weather": 0, "load": 0, "other": deltaPct}
	}
	physics := fouling.FuelImpactPercent(f.ThicknessMM)
	foulingShare := math.Min(0.7*deltaPct, physics)

	weatherShare := math.Min((weatherFactor(f)-1)*100, deltaPct-foulingShare)
	if weatherShare < 0 {
		weatherShare = 0
	}
	loadShare := math.Min(0.1*clamp(f.LoadPercent/100, 0, 1)*deltaPct, deltaPct-foulingShare-weatherShare)
	if loadShare < 0 {
		loadShare = 0
	}
	other := deltaPct - foulingShare - weatherShare - loadShare

	return map[string]float64{
		"fouling": foulingShare,
		"weather": weatherShare,
		"load":    loadShare,
		"other":   other,
	}
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
