// Package species assesses invasive-species settlement risk for a route
// region and water conditions. The table is loaded once at init and never
// mutated at run time; operators extend it through configuration releases.
package species

// Band is a closed numeric interval.
type Band struct {
	Min float64
	Max float64
}

// Contains reports whether v falls inside the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Species describes one invasive species tracked by the assessor.
// RiskWeight uses the 1 (low) / 2 (medium) / 3 (high) scale consumed by
// the physical growth kernel's invasive factor.
type Species struct {
	Name           string
	CommonName     string
	Regions        []string
	TempC          Band
	TempOptC       float64
	SalinityPSU    Band
	DepthM         Band
	Seasonal       map[string]float64 // seasonal risk multiplier; 1.0 when absent
	RiskWeight     float64            // 1 low, 2 medium, 3 high
	GrowthRate     float64            // growth-rate multiplier relative to baseline fouling
	RemovalIndex   float64            // removal-difficulty index, 1 easy .. 10 drydock-only
	ControlMethods []string
	Prevention     string
}

// defaultTable is the shipped species catalogue, centred on the South
// Atlantic routes the fleet operates.
var defaultTable = []Species{
	{
		Name:        "Tubastraea coccinea",
		CommonName:  "coral-sol",
		Regions:     []string{"South_Atlantic", "Southeast_Brazil", "Northeast_Brazil"},
		TempC:       Band{Min: 20, Max: 30},
		TempOptC:    25,
		SalinityPSU: Band{Min: 30, Max: 38},
		DepthM:      Band{Min: 0, Max: 40},
		Seasonal:    map[string]float64{"summer": 1.2, "spring": 1.1, "autumn": 1.0, "winter": 0.8},
		RiskWeight:  3,
		GrowthRate:  1.5,
		RemovalIndex: 8,
		ControlMethods: []string{"mechanical-scraping", "drydock-removal", "early-settlement-inspection"},
		Prevention:  "Inspect within 30 days after transit through infested ports; avoid long anchorage in affected bays.",
	},
	{
		Name:        "Tubastraea tagusensis",
		CommonName:  "coral-sol-tagusensis",
		Regions:     []string{"South_Atlantic", "Southeast_Brazil"},
		TempC:       Band{Min: 21, Max: 29},
		TempOptC:    24,
		SalinityPSU: Band{Min: 31, Max: 37},
		DepthM:      Band{Min: 0, Max: 30},
		Seasonal:    map[string]float64{"summer": 1.2, "spring": 1.1, "winter": 0.8},
		RiskWeight:  3,
		GrowthRate:  1.4,
		RemovalIndex: 8,
		ControlMethods: []string{"mechanical-scraping", "drydock-removal"},
		Prevention:  "Same controls as Tubastraea coccinea; colonies spread from oil platforms and buoys.",
	},
	{
		Name:        "Limnoperna fortunei",
		CommonName:  "mexilhao-dourado",
		Regions:     []string{"Parana_Basin", "Rio_de_la_Plata", "Guaiba_Estuary"},
		TempC:       Band{Min: 8, Max: 32},
		TempOptC:    22,
		SalinityPSU: Band{Min: 0, Max: 5},
		DepthM:      Band{Min: 0, Max: 20},
		Seasonal:    map[string]float64{"summer": 1.3, "spring": 1.2, "winter": 0.7},
		RiskWeight:  3,
		GrowthRate:  1.8,
		RemovalIndex: 7,
		ControlMethods: []string{"high-pressure-water", "thermal-treatment", "anti-fouling-coating"},
		Prevention:  "Freshwater/estuarine only; flush ballast and sea chests after river navigation.",
	},
	{
		Name:        "Amphibalanus amphitrite",
		CommonName:  "craca",
		Regions:     []string{"South_Atlantic", "North_Atlantic", "Caribbean", "Indian_Ocean"},
		TempC:       Band{Min: 10, Max: 35},
		TempOptC:    26,
		SalinityPSU: Band{Min: 20, Max: 40},
		DepthM:      Band{Min: 0, Max: 60},
		Seasonal:    map[string]float64{"summer": 1.2, "spring": 1.1},
		RiskWeight:  2,
		GrowthRate:  1.2,
		RemovalIndex: 5,
		ControlMethods: []string{"rotary-brush", "high-pressure-water"},
		Prevention:  "Keep speed above 10 kn where route allows; barnacle cyprids settle during idle periods.",
	},
	{
		Name:        "Ulva lactuca",
		CommonName:  "alface-do-mar",
		Regions:     []string{"South_Atlantic", "North_Atlantic", "Mediterranean"},
		TempC:       Band{Min: 5, Max: 28},
		TempOptC:    18,
		SalinityPSU: Band{Min: 15, Max: 40},
		DepthM:      Band{Min: 0, Max: 15},
		Seasonal:    map[string]float64{"spring": 1.3, "summer": 1.1},
		RiskWeight:  1,
		GrowthRate:  1.1,
		RemovalIndex: 2,
		ControlMethods: []string{"soft-brush", "high-pressure-water"},
		Prevention:  "Slime and weed precede hard fouling; keep cleaning intervals short in nutrient-rich waters.",
	},
}

// Table returns the species catalogue.
func Table() []Species {
	return defaultTable
}

// MaxRegionalRisk returns the highest RiskWeight among species whose region
// set contains region and whose temperature window contains tempC.
// Returns 1 when nothing matches, so the kernel's invasive factor
// degenerates to 1.0.
func MaxRegionalRisk(region string, tempC float64) float64 {
	max := 1.0
	for _, s := range defaultTable {
		if !s.TempC.Contains(tempC) {
			continue
		}
		for _, r := range s.Regions {
			if r == region && s.RiskWeight > max {
				max = s.RiskWeight
				break
			}
		}
	}
	return max
}
