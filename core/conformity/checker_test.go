package conformity

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"hullzero/server/core/models"
	"hullzero/server/utils/clock"
)

var checkNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestChecker() *Checker {
	return NewChecker(0, clock.Fixed(checkNow).Now)
}

func TestCheckCompliant(t *testing.T) {
	status, err := newTestChecker().Check(Input{
		ThicknessMM: 2.0,
		RoughnessUM: 300,
		VesselType:  models.VesselTypeTanker,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.Status != models.StatusCompliant {
		t.Fatalf("expected compliant, got %s", status.Status)
	}
	if len(status.Violations) != 0 || len(status.Warnings) != 0 {
		t.Fatalf("compliant hull must carry no findings: %d violations, %d warnings",
			len(status.Violations), len(status.Warnings))
	}
	// 0.6*(1 - 2/5) + 0.4*(1 - 300/500)
	if math.Abs(status.ComplianceScore-0.52) > 1e-12 {
		t.Fatalf("score = %f, want 0.52", status.ComplianceScore)
	}
	want := checkNow.Add(90 * 24 * time.Hour)
	if !status.NextInspectionDue.Equal(want) {
		t.Fatalf("next inspection due %v, want %v", status.NextInspectionDue, want)
	}
}

func TestCheckWarningBand(t *testing.T) {
	status, err := newTestChecker().Check(Input{
		ThicknessMM: 4.2, // above 80% of the 5 mm limit
		RoughnessUM: 350,
		VesselType:  models.VesselTypeTanker,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.Status != models.StatusAtRisk {
		t.Fatalf("expected at-risk, got %s", status.Status)
	}
	if len(status.Warnings) != 1 || status.Warnings[0].Metric != "thickness" {
		t.Fatalf("expected a single thickness warning, got %+v", status.Warnings)
	}
	if len(status.Violations) != 0 {
		t.Fatalf("warning band must not violate: %+v", status.Violations)
	}
}

func TestCheckHighViolation(t *testing.T) {
	status, err := newTestChecker().Check(Input{
		ThicknessMM: 5.5, // above the limit, below the 120% critical line
		RoughnessUM: 300,
		VesselType:  models.VesselTypeTanker,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.Status != models.StatusNonCompliant {
		t.Fatalf("expected non-compliant, got %s", status.Status)
	}
	if len(status.Violations) != 1 || status.Violations[0].Severity != models.ViolationHigh {
		t.Fatalf("expected one high-severity violation, got %+v", status.Violations)
	}
}

func TestCheckCriticalViolation(t *testing.T) {
	status, err := newTestChecker().Check(Input{
		ThicknessMM: 6.5, // at or beyond 120% of the limit
		RoughnessUM: 300,
		VesselType:  models.VesselTypeTanker,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.Status != models.StatusCritical {
		t.Fatalf("expected critical, got %s", status.Status)
	}
	if status.Violations[0].Severity != models.ViolationCritical {
		t.Fatalf("expected critical severity, got %s", status.Violations[0].Severity)
	}
	if status.ComplianceScore >= 0.5 {
		t.Fatalf("critical breach must depress the score, got %f", status.ComplianceScore)
	}
}

func TestCheckContainerTighterLimits(t *testing.T) {
	// 4.6 mm passes a tanker but breaches a container hull.
	status, err := newTestChecker().Check(Input{
		ThicknessMM: 4.6,
		RoughnessUM: 300,
		VesselType:  models.VesselTypeContainer,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.Status != models.StatusNonCompliant {
		t.Fatalf("container hull at 4.6 mm must be non-compliant, got %s", status.Status)
	}
	if status.ThicknessLimitMM != 4.5 || status.RoughnessLimitUM != 450 {
		t.Fatalf("wrong container limits: %.1f mm / %.0f um", status.ThicknessLimitMM, status.RoughnessLimitUM)
	}
}

func TestCheckInspectionOverdue(t *testing.T) {
	last := checkNow.Add(-100 * 24 * time.Hour)
	status, err := newTestChecker().Check(Input{
		ThicknessMM:      1.0,
		RoughnessUM:      150,
		VesselType:       models.VesselTypeTanker,
		LastInspectionAt: &last,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.Status != models.StatusNonCompliant {
		t.Fatalf("overdue inspection must make the vessel non-compliant, got %s", status.Status)
	}
	if len(status.Violations) != 1 || status.Violations[0].Metric != "inspection" {
		t.Fatalf("expected an inspection violation, got %+v", status.Violations)
	}
	if status.Violations[0].Severity != models.ViolationHigh {
		t.Fatalf("inspection violation must be high severity, got %s", status.Violations[0].Severity)
	}
	want := last.Add(90 * 24 * time.Hour)
	if !status.NextInspectionDue.Equal(want) {
		t.Fatalf("next inspection due %v, want %v", status.NextInspectionDue, want)
	}
}

func TestCheckHighRiskShortensInterval(t *testing.T) {
	last := checkNow.Add(-40 * 24 * time.Hour) // inside 90 days, past 30
	status, err := newTestChecker().Check(Input{
		ThicknessMM:      1.0,
		RoughnessUM:      150,
		VesselType:       models.VesselTypeTanker,
		LastInspectionAt: &last,
		HighRisk:         true,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(status.Violations) != 1 || status.Violations[0].Metric != "inspection" {
		t.Fatalf("high-risk waters must enforce the 30-day interval, got %+v", status.Violations)
	}
	if status.Violations[0].Limit != 30 {
		t.Fatalf("violation limit %f, want 30", status.Violations[0].Limit)
	}
}

func TestCheckIdempotent(t *testing.T) {
	c := newTestChecker()
	in := Input{ThicknessMM: 4.2, RoughnessUM: 420, VesselType: models.VesselTypeTanker}
	a, err := c.Check(in)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	b, err := c.Check(in)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("checks with a fixed clock and identical inputs must be identical")
	}
}

func TestCheckRejectsNegativeValues(t *testing.T) {
	_, err := newTestChecker().Check(Input{ThicknessMM: -1, VesselType: models.VesselTypeTanker})
	if models.KindOf(err) != models.KindInvalidInput {
		t.Fatalf("negative thickness must be invalid input, got %v", err)
	}
}

func TestLimitForUnknownType(t *testing.T) {
	l := LimitFor("hovercraft")
	if l.ThicknessMM != 5.0 || l.RoughnessUM != 500 {
		t.Fatalf("unknown types must fall back to standard limits, got %+v", l)
	}
	tug := LimitFor(models.VesselTypeTug)
	if tug.ThicknessMM != 6.0 || tug.RoughnessUM != 600 {
		t.Fatalf("wrong tug limits: %+v", tug)
	}
}

func TestNearLimitRecommendation(t *testing.T) {
	status, err := newTestChecker().Check(Input{
		ThicknessMM: 4.6, // within 10% of the 5 mm limit but not over it
		RoughnessUM: 200,
		VesselType:  models.VesselTypeTanker,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	found := false
	for _, r := range status.Recommendations {
		if strings.Contains(r, "within 10%") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a near-limit reminder in %v", status.Recommendations)
	}
}

func TestComplianceScoreForBounds(t *testing.T) {
	if got := ComplianceScoreFor(0, 0, models.VesselTypeTanker); got != 1 {
		t.Fatalf("clean hull must score 1, got %f", got)
	}
	if got := ComplianceScoreFor(10, 1200, models.VesselTypeTanker); got != 0 {
		t.Fatalf("fully breached hull must score 0, got %f", got)
	}
}
