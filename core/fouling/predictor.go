package fouling

import (
	"fmt"
	"math"
	"strings"
	"time"

	"hullzero/server/core/models"
)

// Default blend weights when the ensemble is trained. Untrained the
// predictor falls back to (1.0, 0.0).
const (
	DefaultPhysicalWeight = 0.25
	DefaultMLWeight       = 0.75
)

// CO2Factor is the fixed combustion factor, kg CO2 per kg fuel.
const CO2Factor = 3.15

// TrainingSample pairs a feature bundle with a known thickness outcome.
type TrainingSample struct {
	Features    models.VesselFeatures
	ThicknessMM float64
}

// Predictor is the hybrid fouling estimator (physical kernel blended with
// the tree ensemble). One instance per caller; it shares no state.
type Predictor struct {
	ensemble *Ensemble
	physW    float64
	mlW      float64
	now      func() time.Time
}

// NewPredictor returns a predictor with the given blend weights and clock.
// The weights must sum to 1.
func NewPredictor(physicalWeight, mlWeight float64, now func() time.Time) (*Predictor, error) {
	if math.Abs(physicalWeight+mlWeight-1) > 1e-9 {
		return nil, models.NewInvalidInput("predictor.new",
			fmt.Errorf("weights must sum to 1, got %.3f + %.3f", physicalWeight, mlWeight))
	}
	if now == nil {
		now = time.Now
	}
	return &Predictor{
		ensemble: NewEnsemble(),
		physW:    physicalWeight,
		mlW:      mlWeight,
		now:      now,
	}, nil
}

// TrainFromHistory opportunistically fits the ensemble. Insufficient
// history is not an error for the caller: the predictor simply stays on
// the physical kernel.
func (p *Predictor) TrainFromHistory(history []TrainingSample) error {
	x := make([][]float64, len(history))
	y := make([]float64, len(history))
	for i, s := range history {
		x[i] = FeatureVector(s.Features)
		y[i] = s.ThicknessMM
	}
	return p.ensemble.Train(x, y)
}

// Trained reports whether the ensemble contributes to predictions.
func (p *Predictor) Trained() bool {
	return p.ensemble.Trained()
}

// Predict produces a fouling estimate for the bundle. Deterministic for
// identical inputs and identical ensemble state.
func (p *Predictor) Predict(f models.VesselFeatures) (*models.FoulingEstimate, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var notes []string
	phys := PhysicalThickness(f)

	thickness := phys
	var ensembleMM *float64
	var perBase []float64
	confidence := 0.6 // clamp floor; no base spread to measure untrained

	if p.ensemble.Trained() {
		ml, bases, err := p.ensemble.Predict(FeatureVector(f))
		if err == nil {
			ml = clamp(ml, 0, maxThicknessMM)
			thickness = p.physW*phys + p.mlW*ml
			ensembleMM = &ml
			perBase = bases
			confidence = hybridConfidence(phys, ml, bases)
		}
	}

	if thickness > maxThicknessMM {
		notes = append(notes, fmt.Sprintf("thickness clamped to %.0f mm cap", maxThicknessMM))
	}
	thickness = clamp(thickness, 0, maxThicknessMM)

	roughness := RoughnessFromThickness(thickness)
	if 50*thickness+100 > maxRoughnessUM {
		notes = append(notes, fmt.Sprintf("roughness saturated at %.0f um", maxRoughnessUM))
	}

	impact := FuelImpactPercent(thickness)
	if rawFuelImpact(thickness) > 50 {
		notes = append(notes, "fuel impact capped at 50%")
	}

	// The ID is assigned by the repository at persistence time so that
	// identical inputs yield identical estimates.
	est := &models.FoulingEstimate{
		ThicknessMM:       thickness,
		RoughnessUM:       roughness,
		Severity:          SeverityFromThickness(thickness),
		Confidence:        confidence,
		FuelImpactPercent: impact,
		CO2ImpactKgH:      f.TypicalConsumptionKgH * impact / 100 * CO2Factor,
		PhysicalMM:        phys,
		EnsembleMM:        ensembleMM,
		BasePredictionsMM: perBase,
		Reasoning:         buildReasoning(f, thickness, p.ensemble.Trained(), notes),
		EstimatedAt:       p.now().UTC(),
	}
	return est, nil
}

// SeverityFromThickness maps thickness to the fouling severity class.
func SeverityFromThickness(t float64) string {
	switch {
	case t < 2:
		return models.SeverityLight
	case t < 5:
		return models.SeverityModerate
	case t < 8:
		return models.SeveritySevere
	default:
		return models.SeverityCritical
	}
}

// FuelImpactPercent is the piecewise-linear thickness-to-excess-fuel map,
// capped at 50%.
func FuelImpactPercent(t float64) float64 {
	return math.Min(50, rawFuelImpact(t))
}

func rawFuelImpact(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t <= 2:
		return 2 * t
	case t <= 5:
		return 4 + 3*(t-2)
	default:
		return 13 + 7*(t-5)
	}
}

// hybridConfidence scores 0.6*base-consistency + 0.4*phys/ml agreement,
// clamped to [0.6, 0.98].
func hybridConfidence(phys, ml float64, bases []float64) float64 {
	consistency := 1.0
	if len(bases) > 1 {
		var mean float64
		for _, b := range bases {
			mean += b
		}
		mean /= float64(len(bases))
		var sq float64
		for _, b := range bases {
			d := b - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(len(bases)))
		scale := math.Max(math.Abs(mean), 1)
		consistency = clamp(1-std/scale, 0, 1)
	}

	scale := math.Max(math.Max(phys, ml), 0.5)
	agreement := clamp(1-math.Abs(phys-ml)/scale, 0, 1)

	return clamp(0.6*consistency+0.4*agreement, 0.6, 0.98)
}

func buildReasoning(f models.VesselFeatures, thickness float64, trained bool, notes []string) string {
	var b strings.Builder
	source := "physical model only (ensemble untrained)"
	if trained {
		source = "hybrid physical/ensemble blend"
	}
	fmt.Fprintf(&b, "Estimated %.2f mm after %.0f days since cleaning via %s.",
		thickness, f.DaysSinceCleaning, source)
	if f.PortHours > 100 {
		fmt.Fprintf(&b, " Extended port stay (%.0f h) accelerates settlement.", f.PortHours)
	}
	if f.AvgSpeedKn < 8 {
		fmt.Fprintf(&b, " Low average speed (%.1f kn) reduces hydrodynamic self-cleaning.", f.AvgSpeedKn)
	}
	if len(notes) > 0 {
		fmt.Fprintf(&b, " Notes: %s.", strings.Join(notes, "; "))
	}
	return b.String()
}
