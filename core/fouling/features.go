package fouling

import (
	"hash/fnv"

	"hullzero/server/core/models"
)

// hashBuckets is the modulus for hashed categorical features. The contract
// is only that the same string always maps to the same bucket.
const hashBuckets = 1000

// Defaults filled in for absent numeric features. Values are typical South
// Atlantic coastal conditions.
const (
	defaultPH          = 8.1
	defaultTurbidity   = 5.0  // NTU
	defaultCurrent     = 0.5  // kn
	defaultDepth       = 20.0 // m
	defaultWQI         = 70.0
	defaultChlorophyll = 2.0 // mg/m3
	defaultDissolvedO2 = 6.5 // mg/L
)

// FeatureVector flattens a feature bundle into the fixed numeric layout the
// ensemble trains on: the physical-kernel inputs, the water-quality block,
// and hashed categorical IDs.
func FeatureVector(f models.VesselFeatures) []float64 {
	chl := defaultChlorophyll
	if f.ChlorophyllA != nil {
		chl = *f.ChlorophyllA
	}
	o2 := defaultDissolvedO2
	if f.DissolvedO2 != nil {
		o2 = *f.DissolvedO2
	}
	return []float64{
		f.DaysSinceCleaning,
		f.WaterTempC,
		f.SalinityPSU,
		f.PortHours,
		f.AvgSpeedKn,
		f.PaintAgeDays,
		orDefault(f.WaterQualityIndex, defaultWQI),
		chl,
		o2,
		orDefault(f.PH, defaultPH),
		orDefault(f.TurbidityNTU, defaultTurbidity),
		orDefault(f.CurrentVelocityKn, defaultCurrent),
		orDefault(f.DepthM, defaultDepth),
		hashCategory(f.Region),
		hashCategory(f.PaintType),
		hashCategory(f.VesselType),
		hashCategory(f.Season),
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func hashCategory(s string) float64 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return float64(h.Sum32() % hashBuckets)
}
