package conformity

import (
	"errors"
	"fmt"
	"math"
	"time"

	"hullzero/server/core/models"
)

// Input is one conformity check request.
type Input struct {
	ThicknessMM      float64
	RoughnessUM      float64
	VesselType       string
	LastInspectionAt *time.Time
	HighRisk         bool // use the 30-day inspection interval
}

// Checker applies the NORMAM-401 limit table. The output is a pure
// function of the input and the injected clock.
type Checker struct {
	intervalDays int
	now          func() time.Time
}

// NewChecker returns a checker with the given minimum inspection interval
// (days; 0 means the 90-day default) and clock.
func NewChecker(intervalDays int, now func() time.Time) *Checker {
	if intervalDays <= 0 {
		intervalDays = DefaultInspectionIntervalDays
	}
	if now == nil {
		now = time.Now
	}
	return &Checker{intervalDays: intervalDays, now: now}
}

// Check evaluates the measured pair against the vessel type's limits.
func (c *Checker) Check(in Input) (*models.ConformityStatus, error) {
	if in.ThicknessMM < 0 || in.RoughnessUM < 0 {
		return nil, models.NewInvalidInput("conformity.check", errors.New("thickness and roughness cannot be negative"))
	}

	limit := LimitFor(in.VesselType)
	now := c.now().UTC()
	interval := c.intervalDays
	if in.HighRisk {
		interval = HighRiskInspectionIntervalDays
	}

	violations := make([]models.Violation, 0, 3)
	warnings := make([]models.Warning, 0, 2)

	appendMetric(&violations, &warnings, "thickness", in.ThicknessMM, limit.ThicknessMM, "mm")
	appendMetric(&violations, &warnings, "roughness", in.RoughnessUM, limit.RoughnessUM, "um")

	if in.LastInspectionAt != nil && now.Sub(*in.LastInspectionAt) > time.Duration(interval)*24*time.Hour {
		days := int(now.Sub(*in.LastInspectionAt).Hours() / 24)
		violations = append(violations, models.Violation{
			Metric:   "inspection",
			Severity: models.ViolationHigh,
			Measured: float64(days),
			Limit:    float64(interval),
			Message:  fmt.Sprintf("hull inspection overdue: %d days since last, %d-day interval required", days, interval),
		})
	}

	status := deriveStatus(violations, warnings)
	score := complianceScore(in.ThicknessMM, in.RoughnessUM, limit)

	due := now.Add(time.Duration(interval) * 24 * time.Hour)
	if in.LastInspectionAt != nil {
		due = in.LastInspectionAt.Add(time.Duration(interval) * 24 * time.Hour)
	}

	// The ID is assigned by the repository at persistence time, keeping
	// Check a pure, idempotent function of its inputs.
	return &models.ConformityStatus{
		Status:            status,
		ThicknessMM:       in.ThicknessMM,
		RoughnessUM:       in.RoughnessUM,
		ThicknessLimitMM:  limit.ThicknessMM,
		RoughnessLimitUM:  limit.RoughnessUM,
		Violations:        violations,
		Warnings:          warnings,
		ComplianceScore:   score,
		NextInspectionDue: due,
		Recommendations:   recommendations(status, in, limit),
		CheckedAt:         now,
	}, nil
}

// ComplianceScoreFor exposes the raw score for callers (the optimizer)
// that do not need the full snapshot.
func ComplianceScoreFor(thicknessMM, roughnessUM float64, vesselType string) float64 {
	return complianceScore(thicknessMM, roughnessUM, LimitFor(vesselType))
}

func appendMetric(violations *[]models.Violation, warnings *[]models.Warning, metric string, measured, limit float64, unit string) {
	switch {
	case measured > limit:
		severity := models.ViolationHigh
		if measured >= criticalFraction*limit {
			severity = models.ViolationCritical
		}
		*violations = append(*violations, models.Violation{
			Metric:   metric,
			Severity: severity,
			Measured: measured,
			Limit:    limit,
			Message:  fmt.Sprintf("%s %.1f %s exceeds NORMAM-401 limit of %.1f %s", metric, measured, unit, limit, unit),
		})
	case measured > warningFraction*limit:
		*warnings = append(*warnings, models.Warning{
			Metric:   metric,
			Measured: measured,
			Limit:    limit,
			Message:  fmt.Sprintf("%s %.1f %s is above 80%% of the %.1f %s limit", metric, measured, unit, limit, unit),
		})
	}
}

func deriveStatus(violations []models.Violation, warnings []models.Warning) string {
	for _, v := range violations {
		if v.Severity == models.ViolationCritical {
			return models.StatusCritical
		}
	}
	if len(violations) > 0 {
		return models.StatusNonCompliant
	}
	if len(warnings) > 0 {
		return models.StatusAtRisk
	}
	return models.StatusCompliant
}

func complianceScore(t, r float64, limit Limit) float64 {
	tTerm := 1 - math.Min(1, t/limit.ThicknessMM)
	rTerm := 1 - math.Min(1, r/limit.RoughnessUM)
	score := 0.6*tTerm + 0.4*rTerm
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func recommendations(status string, in Input, limit Limit) []string {
	var recs []string
	switch status {
	case models.StatusCritical:
		recs = append(recs,
			"Schedule immediate hull cleaning; operation above limits exposes the vessel to detention.",
			"Notify the maritime authority of the remediation plan.")
	case models.StatusNonCompliant:
		recs = append(recs,
			"Schedule hull cleaning within the next port call.",
			"Book an inspection to confirm post-cleaning conformity.")
	case models.StatusAtRisk:
		recs = append(recs,
			"Plan cleaning within 30 days before limits are breached.",
			"Increase monitoring frequency for this vessel.")
	default:
		recs = append(recs, "Maintain the current cleaning and inspection schedule.")
	}
	if in.ThicknessMM > nearLimitFraction*limit.ThicknessMM && in.ThicknessMM <= limit.ThicknessMM {
		recs = append(recs, fmt.Sprintf("Thickness %.1f mm is within 10%% of the %.1f mm limit.", in.ThicknessMM, limit.ThicknessMM))
	}
	if in.RoughnessUM > nearLimitFraction*limit.RoughnessUM && in.RoughnessUM <= limit.RoughnessUM {
		recs = append(recs, fmt.Sprintf("Roughness %.0f um is within 10%% of the %.0f um limit.", in.RoughnessUM, limit.RoughnessUM))
	}
	return recs
}
