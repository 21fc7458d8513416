package species

import (
	"testing"

	"hullzero/server/core/models"
)

func TestAssessCoralSolSummer(t *testing.T) {
	out := Assess("Southeast_Brazil", 26, 34, 10, "summer")
	if len(out) != 2 {
		t.Fatalf("expected both Tubastraea species, got %d: %+v", len(out), out)
	}
	if out[0].Species != "Tubastraea coccinea" {
		t.Fatalf("coral-sol must rank first, got %s", out[0].Species)
	}
	if out[0].RiskScore <= out[1].RiskScore {
		t.Fatal("results must be sorted by descending risk")
	}
	if out[0].RiskLevel != models.RiskCritical {
		t.Fatalf("coral-sol in summer at 26 C must be critical, got %s", out[0].RiskLevel)
	}
	if out[1].RiskLevel != models.RiskHigh {
		t.Fatalf("T. tagusensis must score high, got %s", out[1].RiskLevel)
	}
	if len(out[0].ControlMethods) == 0 || out[0].Prevention == "" {
		t.Fatal("assessments must carry control methods and prevention guidance")
	}
}

func TestAssessFreshwaterMussel(t *testing.T) {
	out := Assess("Parana_Basin", 22, 2, 5, "")
	if len(out) != 1 || out[0].CommonName != "mexilhao-dourado" {
		t.Fatalf("expected only the golden mussel in fresh water, got %+v", out)
	}
	// At the optimum temperature with no seasonal multiplier the score is 0.7.
	if out[0].RiskScore != 0.7 {
		t.Fatalf("score %f, want 0.7", out[0].RiskScore)
	}
	if out[0].RiskLevel != models.RiskHigh {
		t.Fatalf("expected high, got %s", out[0].RiskLevel)
	}
}

func TestAssessUnknownRegionIsEmpty(t *testing.T) {
	if out := Assess("Baltic_Sea", 20, 30, 10, "summer"); len(out) != 0 {
		t.Fatalf("no tracked species in the region, got %+v", out)
	}
}

func TestAssessSalinityExcludes(t *testing.T) {
	// Marine salinity excludes the freshwater mussel even in its region.
	if out := Assess("Parana_Basin", 22, 30, 5, ""); len(out) != 0 {
		t.Fatalf("salinity band must exclude the mussel, got %+v", out)
	}
}

func TestMaxRegionalRisk(t *testing.T) {
	cases := []struct {
		region string
		tempC  float64
		want   float64
	}{
		{"Southeast_Brazil", 26, 3}, // coral-sol
		{"South_Atlantic", 12, 2},   // too cold for coral-sol, barnacles remain
		{"Mediterranean", 18, 1},    // only sea lettuce, weight 1
		{"Unknown_Region", 25, 1},   // degenerate: kernel factor becomes 1.0
	}
	for _, c := range cases {
		if got := MaxRegionalRisk(c.region, c.tempC); got != c.want {
			t.Errorf("MaxRegionalRisk(%s, %.0f) = %f, want %f", c.region, c.tempC, got, c.want)
		}
	}
}

func TestBandContains(t *testing.T) {
	b := Band{Min: 20, Max: 30}
	if !b.Contains(20) || !b.Contains(30) || !b.Contains(25) {
		t.Fatal("band bounds are inclusive")
	}
	if b.Contains(19.9) || b.Contains(30.1) {
		t.Fatal("values outside the band must be rejected")
	}
}
