package anomaly

import (
	"testing"
	"time"

	"hullzero/server/core/models"
)

var seriesStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func point(day int, mm, um float64) models.CompliancePoint {
	return models.CompliancePoint{
		Timestamp:   seriesStart.Add(time.Duration(day) * 24 * time.Hour),
		VesselID:    "v-1",
		ThicknessMM: mm,
		RoughnessUM: um,
		Source:      "estimate",
	}
}

func TestDetectStatisticalOutlier(t *testing.T) {
	// Eleven identical roughness readings plus one small spike: the
	// spike's z-score is 3.18 regardless of its size, so 12 um stays
	// under the sudden-change and consistency thresholds and only the
	// outlier scan fires. Thickness is flat, so its zero deviation must
	// not divide by a zero standard deviation.
	var pts []models.CompliancePoint
	for i := 0; i < 12; i++ {
		um := 100.0
		if i == 5 {
			um = 112.0
		}
		pts = append(pts, point(3*i, 1.0, um))
	}
	got, err := Detect(pts)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected a single finding, got %d: %+v", len(got), got)
	}
	a := got[0]
	if a.Type != models.AnomalyOutlier {
		t.Fatalf("expected an outlier, got %s", a.Type)
	}
	if a.Severity != models.RiskMedium {
		t.Fatalf("outliers are medium severity, got %s", a.Severity)
	}
	if len(a.Metrics) != 1 || a.Metrics[0] != "roughness" {
		t.Fatalf("only roughness deviates, got %v", a.Metrics)
	}
	if !a.Timestamp.Equal(pts[5].Timestamp) {
		t.Fatalf("finding must point at the spike, got %v", a.Timestamp)
	}
	if len(a.Witnesses) != 1 || a.Witnesses[0].RoughnessUM != 112.0 {
		t.Fatalf("the spike reading must be the witness, got %+v", a.Witnesses)
	}
	if a.Confidence != 0.7 {
		t.Fatalf("outlier confidence is 0.7, got %.2f", a.Confidence)
	}
}

func TestDetectConstantSeriesHasNoOutliers(t *testing.T) {
	var pts []models.CompliancePoint
	for i := 0; i < 12; i++ {
		pts = append(pts, point(3*i, 1.0, 100))
	}
	got, err := Detect(pts)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("a zero-variance series must yield no findings, got %+v", got)
	}
}

func TestDetectRejectsNilSeries(t *testing.T) {
	if _, err := Detect(nil); models.KindOf(err) != models.KindInvalidInput {
		t.Fatalf("nil series must be invalid input, got %v", err)
	}
}

func TestDetectShortSeriesIsEmpty(t *testing.T) {
	got, err := Detect([]models.CompliancePoint{point(0, 1, 100), point(10, 1.1, 110)})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fewer than three points must yield no findings, got %d", len(got))
	}
}

func TestDetectRejectsUnsortedSeries(t *testing.T) {
	pts := []models.CompliancePoint{point(10, 1, 100), point(0, 1, 100), point(20, 1, 100)}
	if _, err := Detect(pts); models.KindOf(err) != models.KindInvalidInput {
		t.Fatalf("unsorted series must be invalid input, got %v", err)
	}
}

func TestDetectSuddenJump(t *testing.T) {
	pts := []models.CompliancePoint{
		point(0, 2.0, 200),
		point(30, 2.1, 210),
		point(60, 5.0, 500),
	}
	got, err := Detect(pts)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected a single finding, got %d: %+v", len(got), got)
	}
	a := got[0]
	if a.Type != models.AnomalySuddenChange {
		t.Fatalf("expected sudden-change, got %s", a.Type)
	}
	if a.Severity != models.RiskHigh {
		t.Fatalf("a jump landing at 5 mm must be high severity, got %s", a.Severity)
	}
	if a.Confidence != 0.6 {
		t.Fatalf("a 30-day reading gap must lower confidence to 0.6, got %f", a.Confidence)
	}
	if len(a.Metrics) != 2 {
		t.Fatalf("both metrics jumped, got %v", a.Metrics)
	}
	if len(a.Witnesses) != 2 {
		t.Fatalf("sudden change must carry both witnesses, got %d", len(a.Witnesses))
	}
}

func TestDetectSuddenJumpCloseReadings(t *testing.T) {
	pts := []models.CompliancePoint{
		point(0, 1.0, 100),
		point(2, 1.0, 100),
		point(5, 3.5, 350),
	}
	got, err := Detect(pts)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected a single finding, got %d: %+v", len(got), got)
	}
	if got[0].Confidence != 0.8 {
		t.Fatalf("readings within a week must score 0.8 confidence, got %f", got[0].Confidence)
	}
}

func TestDetectConcerningTrend(t *testing.T) {
	// A perfect linear ramp at 0.25 mm/day: the slope test is exact, so
	// thickness escalates to critical and the matching roughness ramp
	// (25 um/day) to high.
	var pts []models.CompliancePoint
	for d := 0; d < 10; d++ {
		mm := 0.25 * float64(d)
		pts = append(pts, point(d, mm, 100*mm))
	}
	got, err := Detect(pts)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected thickness and roughness trends, got %d: %+v", len(got), got)
	}
	if got[0].Type != models.AnomalyConcerningTrend || got[0].Severity != models.RiskCritical {
		t.Fatalf("first finding must be the critical thickness trend, got %+v", got[0])
	}
	if got[0].Metrics[0] != "thickness" {
		t.Fatalf("critical trend must name thickness, got %v", got[0].Metrics)
	}
	if got[1].Severity != models.RiskHigh || got[1].Metrics[0] != "roughness" {
		t.Fatalf("second finding must be the high roughness trend, got %+v", got[1])
	}
}

func TestDetectInconsistentPair(t *testing.T) {
	pts := []models.CompliancePoint{
		point(0, 1.0, 105),
		point(10, 1.0, 160), // expected ~100 um for 1 mm
		point(20, 1.0, 110),
	}
	got, err := Detect(pts)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected a single finding, got %d: %+v", len(got), got)
	}
	a := got[0]
	if a.Type != models.AnomalyInconsistent {
		t.Fatalf("expected inconsistent-value, got %s", a.Type)
	}
	if !a.Timestamp.Equal(pts[1].Timestamp) {
		t.Fatalf("finding must point at the disagreeing reading, got %v", a.Timestamp)
	}
}

func TestDetectDataGaps(t *testing.T) {
	pts := []models.CompliancePoint{
		point(0, 1.0, 100),
		point(40, 1.0, 100),  // 40-day gap: low
		point(135, 1.0, 100), // 95-day gap: high
	}
	got, err := Detect(pts)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected two gap findings, got %d: %+v", len(got), got)
	}
	// Sorted by severity: the high-severity 95-day gap comes first.
	if got[0].Type != models.AnomalyMissingData || got[0].Severity != models.RiskHigh {
		t.Fatalf("first finding must be the high-severity gap, got %+v", got[0])
	}
	if got[1].Severity != models.RiskLow {
		t.Fatalf("second finding must be the low-severity gap, got %s", got[1].Severity)
	}
}
