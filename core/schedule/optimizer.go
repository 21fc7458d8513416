// Package schedule enumerates candidate cleaning dates and recommends the
// one with the best net benefit subject to conformity constraints.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"hullzero/server/core/conformity"
	"hullzero/server/core/fouling"
	"hullzero/server/core/models"
)

// DefaultOffsets is the default candidate cleaning-date set, in days from
// now.
var DefaultOffsets = []int{7, 14, 21, 30, 45, 60, 90}

// Config carries the optimizer's economics.
type Config struct {
	FuelPrice           float64 // currency per kg
	BaseCleanCost       float64
	CostPerMM           float64
	DailyDowntimeCost   float64
	CleaningDays        int
	PlanningHorizonDays int // lifecycle window the savings term integrates over
	Offsets             []int
}

// DefaultConfig returns the optimizer defaults.
func DefaultConfig() Config {
	return Config{
		FuelPrice:           3.5,
		BaseCleanCost:       250000,
		CostPerMM:           15000,
		DailyDowntimeCost:   50000,
		CleaningDays:        3,
		PlanningHorizonDays: 180,
		Offsets:             DefaultOffsets,
	}
}

// Window is an availability interval for cleaning operations.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Options are the per-call constraints.
type Options struct {
	// Availability drops candidate dates outside every window. Empty
	// means unconstrained.
	Availability []Window
	// DrydockCapacity maps "2006-01-02" dates to free slots; a chosen
	// date with no slot advances to the next day that has one.
	DrydockCapacity map[string]int
}

// Optimizer evaluates candidate cleaning dates with the growth model and
// the conformity checker.
type Optimizer struct {
	predictor *fouling.Predictor
	checker   *conformity.Checker
	cfg       Config
	now       func() time.Time
}

// NewOptimizer wires the optimizer's collaborators.
func NewOptimizer(p *fouling.Predictor, c *conformity.Checker, cfg Config, now func() time.Time) *Optimizer {
	if len(cfg.Offsets) == 0 {
		cfg.Offsets = DefaultOffsets
	}
	if cfg.PlanningHorizonDays <= 0 {
		cfg.PlanningHorizonDays = 180
	}
	if cfg.CleaningDays <= 0 {
		cfg.CleaningDays = 3
	}
	if now == nil {
		now = time.Now
	}
	return &Optimizer{predictor: p, checker: c, cfg: cfg, now: now}
}

// Recommend returns a single cleaning recommendation for the vessel's
// current state. currentMM/currentUM are the present measured or
// estimated fouling values.
func (o *Optimizer) Recommend(features models.VesselFeatures, currentMM, currentUM float64, opts Options) (*models.Recommendation, error) {
	if currentMM < 0 || currentUM < 0 {
		return nil, models.NewInvalidInput("schedule.recommend", errors.New("current fouling values cannot be negative"))
	}
	if err := features.Validate(); err != nil {
		return nil, err
	}

	now := o.now().UTC()
	limit := conformity.LimitFor(features.VesselType)

	// A limit already breached overrides the benefit ranking entirely.
	if currentMM > limit.ThicknessMM || currentUM > limit.RoughnessUM {
		return o.forcedImmediate(features, currentMM, currentUM, now)
	}

	candidates, err := o.evaluate(features, now, opts)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, models.NewInvalidInput("schedule.recommend", errors.New("no candidate date satisfies the availability windows"))
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.NetBenefit > best.NetBenefit {
			best = c
		}
	}

	date := o.applyDrydock(best.Date, opts.DrydockCapacity)

	kind, priority := classify(currentMM, currentUM, limit, best)
	risk := 1 - best.ComplianceScore

	rec := &models.Recommendation{
		Kind:             kind,
		Priority:         priority,
		RecommendedDate:  date,
		EstimatedBenefit: best.SavingsCurrency,
		CO2ReductionKg:   best.CO2ReductionKg,
		EstimatedCost:    best.CleaningCost + best.DowntimeCost,
		NetBenefit:       best.NetBenefit,
		ConformityRisk:   clamp01(risk),
		Reasoning:        o.reasoning(features, currentMM, best, kind),
		Status:           models.RecommendationPending,
		Candidates:       candidates,
		CreatedAt:        now,
	}
	return rec, nil
}

// evaluate scores every admissible candidate offset over the planning
// horizon: extra fuel burned before the cleaning plus regrowth after it,
// against the never-clean baseline.
func (o *Optimizer) evaluate(features models.VesselFeatures, now time.Time, opts Options) ([]models.CandidateEvaluation, error) {
	horizon := o.cfg.PlanningHorizonDays
	baseline := o.extraUpTo(features, 0, horizon)

	var out []models.CandidateEvaluation
	for _, offset := range o.cfg.Offsets {
		date := now.Add(time.Duration(offset) * 24 * time.Hour)
		if !inWindows(date, opts.Availability) {
			continue
		}

		future := features
		future.DaysSinceCleaning += float64(offset)
		est, err := o.predictor.Predict(future)
		if err != nil {
			return nil, err
		}

		// Extra fuel with cleaning at `offset`: growth continues until
		// the cleaning, then restarts from a clean hull.
		preClean := o.extraUpTo(features, 0, offset)
		regrown := features
		regrown.DaysSinceCleaning = 0
		postClean := o.extraUpTo(regrown, 0, horizon-offset)

		savingsKg := math.Max(0, baseline-(preClean+postClean))
		savingsCurrency := savingsKg * o.cfg.FuelPrice

		cleanCost := o.cfg.BaseCleanCost + o.cfg.CostPerMM*est.ThicknessMM
		downtime := float64(o.cfg.CleaningDays) * o.cfg.DailyDowntimeCost

		out = append(out, models.CandidateEvaluation{
			OffsetDays:      offset,
			Date:            date,
			ProjectedMM:     est.ThicknessMM,
			ProjectedUM:     est.RoughnessUM,
			CleaningCost:    cleanCost,
			DowntimeCost:    downtime,
			SavingsKg:       savingsKg,
			SavingsCurrency: savingsCurrency,
			CO2ReductionKg:  savingsKg * fouling.CO2Factor,
			NetBenefit:      savingsCurrency - cleanCost - downtime,
			ComplianceScore: conformity.ComplianceScoreFor(est.ThicknessMM, est.RoughnessUM, features.VesselType),
		})
	}
	return out, nil
}

// extraUpTo integrates the daily excess consumption (kg) of the physical
// growth curve from day `from` to day `to` relative to the bundle's
// days-since-cleaning.
func (o *Optimizer) extraUpTo(features models.VesselFeatures, from, to int) float64 {
	var total float64
	day := features
	for n := from + 1; n <= to; n++ {
		day.DaysSinceCleaning = features.DaysSinceCleaning + float64(n)
		t := fouling.PhysicalThickness(day)
		total += features.TypicalConsumptionKgH * fouling.FuelImpactPercent(t) / 100 * 24
	}
	return total
}

func (o *Optimizer) forcedImmediate(features models.VesselFeatures, currentMM, currentUM float64, now time.Time) (*models.Recommendation, error) {
	date := now.Add(24 * time.Hour)
	status, err := o.checker.Check(conformity.Input{
		ThicknessMM: currentMM,
		RoughnessUM: currentUM,
		VesselType:  features.VesselType,
	})
	if err != nil {
		return nil, err
	}

	cleanCost := o.cfg.BaseCleanCost + o.cfg.CostPerMM*currentMM
	downtime := float64(o.cfg.CleaningDays) * o.cfg.DailyDowntimeCost

	// Benefit over the full horizon of restoring a clean hull now.
	baseline := o.extraUpTo(features, 0, o.cfg.PlanningHorizonDays)
	regrown := features
	regrown.DaysSinceCleaning = 0
	savingsKg := math.Max(0, baseline-o.extraUpTo(regrown, 0, o.cfg.PlanningHorizonDays))
	savings := savingsKg * o.cfg.FuelPrice

	return &models.Recommendation{
		Kind:             models.RecommendImmediateCleaning,
		Priority:         models.PriorityCritical,
		RecommendedDate:  date,
		EstimatedBenefit: savings,
		CO2ReductionKg:   savingsKg * fouling.CO2Factor,
		EstimatedCost:    cleanCost + downtime,
		NetBenefit:       savings - cleanCost - downtime,
		ConformityRisk:   clamp01(1 - status.ComplianceScore),
		Reasoning: fmt.Sprintf(
			"Current fouling (%.1f mm / %.0f um) exceeds the NORMAM-401 limits for type %q; cleaning is mandatory regardless of net benefit.",
			currentMM, currentUM, features.VesselType),
		Status:    models.RecommendationPending,
		CreatedAt: now,
	}, nil
}

func (o *Optimizer) applyDrydock(date time.Time, capacity map[string]int) time.Time {
	if capacity == nil {
		return date
	}
	// Bounded forward scan; a fleet without slots for a year is a data
	// problem, not a scheduling one.
	for i := 0; i < 365; i++ {
		key := date.Format("2006-01-02")
		if slots, ok := capacity[key]; !ok || slots > 0 {
			return date
		}
		date = date.Add(24 * time.Hour)
	}
	return date
}

func inWindows(date time.Time, windows []Window) bool {
	if len(windows) == 0 {
		return true
	}
	for _, w := range windows {
		if !date.Before(w.From) && !date.After(w.To) {
			return true
		}
	}
	return false
}

func classify(currentMM, currentUM float64, limit conformity.Limit, best models.CandidateEvaluation) (string, string) {
	nearLimit := currentMM > 0.9*limit.ThicknessMM || currentUM > 0.9*limit.RoughnessUM
	severity := fouling.SeverityFromThickness(currentMM)

	switch {
	case nearLimit:
		return models.RecommendScheduledCleaning, models.PriorityHigh
	case best.NetBenefit > 0 && best.OffsetDays <= 30:
		return models.RecommendScheduledCleaning, models.PriorityMedium
	case best.NetBenefit > 0:
		return models.RecommendScheduledCleaning, models.PriorityLow
	case severity != models.SeverityLight:
		return models.RecommendMonitorIntensified, models.PriorityMedium
	case best.ProjectedMM >= 2:
		return models.RecommendPreventiveAction, models.PriorityLow
	default:
		return models.RecommendNoAction, models.PriorityLow
	}
}

func (o *Optimizer) reasoning(features models.VesselFeatures, currentMM float64, best models.CandidateEvaluation, kind string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Best candidate is day +%d: projected %.2f mm at cleaning, savings %.0f over the %d-day planning horizon against costs of %.0f, net %.0f.",
		best.OffsetDays, best.ProjectedMM, best.SavingsCurrency, o.cfg.PlanningHorizonDays,
		best.CleaningCost+best.DowntimeCost, best.NetBenefit)
	fmt.Fprintf(&b, " Current fouling is %.2f mm (%s).", currentMM, fouling.SeverityFromThickness(currentMM))
	if kind == models.RecommendNoAction || kind == models.RecommendMonitorIntensified {
		b.WriteString(" No candidate yields a positive net benefit yet; keep the vessel under observation.")
	}
	return b.String()
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
