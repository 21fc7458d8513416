// Package anomaly scans per-vessel compliance time series for sudden
// changes, concerning trends, inconsistent values, outliers and data gaps.
package anomaly

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"hullzero/server/core/models"
)

// Detection thresholds.
const (
	minPoints = 3

	suddenThicknessMM = 2.0   // consecutive-point jump
	suddenRoughnessUM = 200.0
	suddenHighLevelMM = 3.0   // post-jump level escalating severity
	suddenHighLevelUM = 300.0

	trendPValue       = 0.05
	trendSlopeMM      = 0.1 // mm/day
	trendSlopeUM      = 2.0 // um/day
	trendHighSlopeMM  = 0.15
	trendCritSlopeMM  = 0.2

	inconsistencyRatio = 0.5 // tolerated |r - 100t| as share of expected
	outlierZScore      = 3.0

	gapLowDays    = 30
	gapMediumDays = 60
	gapHighDays   = 90
)

// Detect scans the series, which must be sorted by timestamp. Fewer than
// three points is a graceful degradation: the scan returns empty. Output
// is sorted by severity, then timestamp descending.
func Detect(points []models.CompliancePoint) ([]*models.Anomaly, error) {
	if points == nil {
		return nil, models.NewInvalidInput("anomaly.detect", errors.New("nil compliance series"))
	}
	if len(points) < minPoints {
		return []*models.Anomaly{}, nil
	}
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp.Before(points[i-1].Timestamp) {
			return nil, models.NewInvalidInput("anomaly.detect", errors.New("series is not sorted by timestamp"))
		}
	}

	var out []*models.Anomaly
	out = append(out, suddenChanges(points)...)
	out = append(out, trends(points)...)
	out = append(out, inconsistencies(points)...)
	out = append(out, outliers(points)...)
	out = append(out, gaps(points)...)

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := severityRank(out[i].Severity), severityRank(out[j].Severity)
		if si != sj {
			return si > sj
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func suddenChanges(points []models.CompliancePoint) []*models.Anomaly {
	var out []*models.Anomaly
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		dT := cur.ThicknessMM - prev.ThicknessMM
		dR := cur.RoughnessUM - prev.RoughnessUM
		if math.Abs(dT) <= suddenThicknessMM && math.Abs(dR) <= suddenRoughnessUM {
			continue
		}

		severity := models.RiskMedium
		if cur.ThicknessMM >= suddenHighLevelMM || cur.RoughnessUM >= suddenHighLevelUM {
			severity = models.RiskHigh
		}
		confidence := 0.6
		if cur.Timestamp.Sub(prev.Timestamp) <= 7*24*time.Hour {
			confidence = 0.8
		}

		metrics := affectedMetrics(math.Abs(dT) > suddenThicknessMM, math.Abs(dR) > suddenRoughnessUM)
		out = append(out, &models.Anomaly{
			Type:        models.AnomalySuddenChange,
			Severity:    severity,
			Timestamp:   cur.Timestamp,
			Metrics:     metrics,
			Description: fmt.Sprintf("Thickness moved %.1f mm and roughness %.0f um between consecutive readings.", dT, dR),
			Action:      "Verify the reading source; if confirmed, order a diver inspection.",
			Confidence:  confidence,
			Witnesses:   []models.CompliancePoint{prev, cur},
		})
	}
	return out
}

// trends regresses each metric on time and flags statistically significant
// growth above the slope thresholds.
func trends(points []models.CompliancePoint) []*models.Anomaly {
	var out []*models.Anomaly
	days := make([]float64, len(points))
	t0 := points[0].Timestamp
	for i, p := range points {
		days[i] = p.Timestamp.Sub(t0).Hours() / 24
	}

	check := func(metric string, values []float64, slopeThreshold float64) {
		slope, p := regressionSlope(days, values)
		if p >= trendPValue || slope <= slopeThreshold {
			return
		}
		severity := models.RiskMedium
		if metric == "thickness" {
			if slope > trendCritSlopeMM {
				severity = models.RiskCritical
			} else if slope > trendHighSlopeMM {
				severity = models.RiskHigh
			}
		} else if slope > 2*slopeThreshold {
			severity = models.RiskHigh
		}
		out = append(out, &models.Anomaly{
			Type:        models.AnomalyConcerningTrend,
			Severity:    severity,
			Timestamp:   points[len(points)-1].Timestamp,
			Metrics:     []string{metric},
			Description: fmt.Sprintf("%s is growing at %.3f per day (p=%.3f) over %d readings.", metric, slope, p, len(points)),
			Action:      "Bring the cleaning schedule forward; growth outpaces the model baseline.",
			Confidence:  1 - p,
			Witnesses:   points,
		})
	}

	thickness := make([]float64, len(points))
	roughness := make([]float64, len(points))
	for i, pt := range points {
		thickness[i] = pt.ThicknessMM
		roughness[i] = pt.RoughnessUM
	}
	check("thickness", thickness, trendSlopeMM)
	check("roughness", roughness, trendSlopeUM)
	return out
}

func inconsistencies(points []models.CompliancePoint) []*models.Anomaly {
	var out []*models.Anomaly
	for _, p := range points {
		expected := 100 * p.ThicknessMM
		if expected <= 0 {
			continue
		}
		if math.Abs(p.RoughnessUM-expected) > inconsistencyRatio*expected {
			out = append(out, &models.Anomaly{
				Type:        models.AnomalyInconsistent,
				Severity:    models.RiskMedium,
				Timestamp:   p.Timestamp,
				Metrics:     []string{"thickness", "roughness"},
				Description: fmt.Sprintf("Roughness %.0f um disagrees with the %.0f um expected for %.1f mm thickness.", p.RoughnessUM, expected, p.ThicknessMM),
				Action:      "Cross-check the measurement pair; one of the two sensors is likely off.",
				Confidence:  0.7,
				Witnesses:   []models.CompliancePoint{p},
			})
		}
	}
	return out
}

func outliers(points []models.CompliancePoint) []*models.Anomaly {
	var out []*models.Anomaly
	thickness := make([]float64, len(points))
	roughness := make([]float64, len(points))
	for i, p := range points {
		thickness[i] = p.ThicknessMM
		roughness[i] = p.RoughnessUM
	}
	tMean, tStd := stat.MeanStdDev(thickness, nil)
	rMean, rStd := stat.MeanStdDev(roughness, nil)

	for i, p := range points {
		var metrics []string
		if tStd > 0 && math.Abs(thickness[i]-tMean)/tStd > outlierZScore {
			metrics = append(metrics, "thickness")
		}
		if rStd > 0 && math.Abs(roughness[i]-rMean)/rStd > outlierZScore {
			metrics = append(metrics, "roughness")
		}
		if len(metrics) == 0 {
			continue
		}
		out = append(out, &models.Anomaly{
			Type:        models.AnomalyOutlier,
			Severity:    models.RiskMedium,
			Timestamp:   p.Timestamp,
			Metrics:     metrics,
			Description: fmt.Sprintf("Reading deviates more than %g standard deviations from the window mean.", outlierZScore),
			Action:      "Review the reading before it skews trend detection.",
			Confidence:  0.7,
			Witnesses:   []models.CompliancePoint{p},
		})
	}
	return out
}

func gaps(points []models.CompliancePoint) []*models.Anomaly {
	var out []*models.Anomaly
	for i := 1; i < len(points); i++ {
		gapDays := points[i].Timestamp.Sub(points[i-1].Timestamp).Hours() / 24
		if gapDays <= gapLowDays {
			continue
		}
		severity := models.RiskLow
		switch {
		case gapDays > gapHighDays:
			severity = models.RiskHigh
		case gapDays > gapMediumDays:
			severity = models.RiskMedium
		}
		out = append(out, &models.Anomaly{
			Type:        models.AnomalyMissingData,
			Severity:    severity,
			Timestamp:   points[i].Timestamp,
			Metrics:     []string{"thickness", "roughness"},
			Description: fmt.Sprintf("%.0f days without compliance data before this reading.", gapDays),
			Action:      "Close the monitoring gap; estimates over the gap carry low confidence.",
			Confidence:  0.9,
			Witnesses:   []models.CompliancePoint{points[i-1], points[i]},
		})
	}
	return out
}

// regressionSlope returns the OLS slope of y on x and its two-sided
// p-value from the t-distribution with n-2 degrees of freedom.
func regressionSlope(x, y []float64) (slope, pValue float64) {
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	slope = beta
	n := len(x)
	if n < 3 {
		return slope, 1
	}

	var sse, sxx float64
	xMean := stat.Mean(x, nil)
	for i := range x {
		res := y[i] - (alpha + beta*x[i])
		sse += res * res
		d := x[i] - xMean
		sxx += d * d
	}
	if sxx == 0 {
		return slope, 1
	}
	s2 := sse / float64(n-2)
	se := math.Sqrt(s2 / sxx)
	if se == 0 {
		// Perfect fit: any non-zero slope is exact.
		if slope != 0 {
			return slope, 0
		}
		return slope, 1
	}
	t := math.Abs(beta / se)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	pValue = 2 * (1 - dist.CDF(t))
	return slope, pValue
}

func affectedMetrics(thickness, roughness bool) []string {
	var m []string
	if thickness {
		m = append(m, "thickness")
	}
	if roughness {
		m = append(m, "roughness")
	}
	return m
}

func severityRank(s string) int {
	switch s {
	case models.RiskCritical:
		return 4
	case models.RiskHigh:
		return 3
	case models.RiskMedium:
		return 2
	default:
		return 1
	}
}
