package fouling

import (
	"math"
	"testing"

	"hullzero/server/core/models"
)

func TestPhysicalThicknessWinterLowGrowth(t *testing.T) {
	f := models.VesselFeatures{
		VesselType:        models.VesselTypeTanker,
		DaysSinceCleaning: 30,
		WaterTempC:        16, // below the viable band
		SalinityPSU:       33,
		PortHours:         24,
		AvgSpeedKn:        14,
		Region:            "South_Atlantic",
		Season:            "winter",
	}
	got := PhysicalThickness(f)
	if got < 0.05 || got > 0.2 {
		t.Fatalf("expected thin winter growth around 0.11 mm, got %.3f", got)
	}
}

func TestPhysicalThicknessHeavyGrowth(t *testing.T) {
	f := models.VesselFeatures{
		VesselType:        models.VesselTypeTanker,
		DaysSinceCleaning: 120,
		WaterTempC:        28,
		SalinityPSU:       34,
		PortHours:         200,
		AvgSpeedKn:        8,
		Region:            "Southeast_Brazil", // coral-sol territory
		Season:            "summer",
	}
	got := PhysicalThickness(f)
	if math.Abs(got-5.26) > 0.05 {
		t.Fatalf("expected about 5.26 mm after 120 summer days, got %.3f", got)
	}
	if SeverityFromThickness(got) != models.SeveritySevere {
		t.Fatalf("expected severe classification at %.2f mm", got)
	}
}

func TestPhysicalThicknessMonotonicInDays(t *testing.T) {
	f := models.VesselFeatures{
		DaysSinceCleaning: 30,
		WaterTempC:        16,
		SalinityPSU:       33,
		PortHours:         24,
		AvgSpeedKn:        14,
		Region:            "South_Atlantic",
		Season:            "winter",
	}
	d30 := PhysicalThickness(f)
	f.DaysSinceCleaning = 60
	d60 := PhysicalThickness(f)
	if d60 <= d30 {
		t.Fatalf("growth must be monotonic in days: %.3f at 30d, %.3f at 60d", d30, d60)
	}
}

func TestTempFactorBand(t *testing.T) {
	if got := tempFactor(25); got != 1 {
		t.Fatalf("optimum temperature must score 1, got %f", got)
	}
	if got := tempFactor(10); got != 0.3 {
		t.Fatalf("temperature outside the band must score 0.3, got %f", got)
	}
	if got := tempFactor(35); got != 0.3 {
		t.Fatalf("temperature outside the band must score 0.3, got %f", got)
	}
	if tempFactor(22) >= tempFactor(24) {
		t.Fatal("factor must fall away from the optimum")
	}
}

func TestSalinityFactorBand(t *testing.T) {
	if got := salinityFactor(32.5); got != 1 {
		t.Fatalf("optimum salinity must score 1, got %f", got)
	}
	if got := salinityFactor(20); got != 0.5 {
		t.Fatalf("salinity outside the band must score 0.5, got %f", got)
	}
	if got := salinityFactor(40); got != 0.5 {
		t.Fatalf("salinity outside the band must score 0.5, got %f", got)
	}
}

func TestSpeedFactorFloor(t *testing.T) {
	if got := speedFactor(30); got != 0.2 {
		t.Fatalf("speed factor must floor at 0.2, got %f", got)
	}
	if got := speedFactor(0); got != 1 {
		t.Fatalf("stationary vessel must score 1, got %f", got)
	}
	if got := speedFactor(-5); got != 1 {
		t.Fatalf("negative speed must be treated as 0, got %f", got)
	}
	if got := speedFactor(10); math.Abs(got-0.6) > 1e-12 {
		t.Fatalf("10 kn must score 0.6, got %f", got)
	}
}

func TestPortFactor(t *testing.T) {
	if got := portFactor(0); got != 1 {
		t.Fatalf("no port time must score 1, got %f", got)
	}
	if got := portFactor(-5); got != 1 {
		t.Fatalf("negative port hours must be treated as 0, got %f", got)
	}
	if got := portFactor(240); math.Abs(got-2.0) > 1e-12 {
		t.Fatalf("240 port hours must double the rate, got %f", got)
	}
}

func TestNutrientFactorClamps(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }

	if got := nutrientFactor(nil, nil); got != 1.0 {
		t.Fatalf("absent nutrients must be neutral, got %f", got)
	}
	// Rich chlorophyll plus high oxygen overshoots and clamps at 1.4.
	if got := nutrientFactor(ptr(15), ptr(9)); got != 1.4 {
		t.Fatalf("expected upper clamp 1.4, got %f", got)
	}
	// Oligotrophic, hypoxic water clamps at 0.7.
	if got := nutrientFactor(ptr(0.5), ptr(3)); got != 0.7 {
		t.Fatalf("expected lower clamp 0.7, got %f", got)
	}
	if got := nutrientFactor(ptr(6), nil); math.Abs(got-1.2) > 1e-12 {
		t.Fatalf("moderate chlorophyll must score 1.2, got %f", got)
	}
}

func TestRoughnessFromThickness(t *testing.T) {
	if got := RoughnessFromThickness(2); got != 200 {
		t.Fatalf("2 mm must map to 200 um, got %f", got)
	}
	if got := RoughnessFromThickness(20); got != 1000 {
		t.Fatalf("roughness must saturate at 1000 um, got %f", got)
	}
	if got := RoughnessFromThickness(0); got != 100 {
		t.Fatalf("clean hull baseline is 100 um, got %f", got)
	}
}
