package cleaning

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"hullzero/server/core/models"
)

// Scoring weights per attribute.
const (
	weightEffectiveness = 0.40
	weightCost          = 0.25
	weightTime          = 0.15
	weightEnv           = 0.10
	weightUrgency       = 0.10
)

// Input is one method-selection request.
type Input struct {
	ThicknessMM     float64 `json:"thickness_mm"`
	VesselType      string  `json:"vessel_type"`
	HullAreaM2      float64 `json:"hull_area_m2"`
	Budget          float64 `json:"budget,omitempty"`            // 0 = unconstrained
	TimeBudgetHours float64 `json:"time_budget_hours,omitempty"` // 0 = unconstrained
	Urgency         string  `json:"urgency,omitempty"`           // preventive, normal, urgent, critical
}

// ScoredMethod is one catalogue entry with its computed score.
type ScoredMethod struct {
	Method         Method  `json:"method"`
	Score          float64 `json:"score"`
	EstimatedCost  float64 `json:"estimated_cost"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// Selection is the selector's output: the recommended method, up to three
// alternatives, and the reasoning.
type Selection struct {
	Recommended  ScoredMethod   `json:"recommended"`
	Alternatives []ScoredMethod `json:"alternatives"`
	Reasoning    string         `json:"reasoning"`
	Steps        []string       `json:"steps"`
}

// Select ranks the catalogue against the fouling state and constraints.
// Methods whose thickness range or vessel-type list excludes the request
// are eliminated before scoring.
func Select(in Input) (*Selection, error) {
	if in.ThicknessMM < 0 {
		return nil, models.NewInvalidInput("cleaning.select", errors.New("thickness cannot be negative"))
	}
	if in.HullAreaM2 <= 0 {
		return nil, models.NewInvalidInput("cleaning.select", errors.New("hull area must be positive"))
	}
	urgency := in.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}

	var scored []ScoredMethod
	for _, m := range catalogue {
		if in.ThicknessMM < m.MinThicknessMM || in.ThicknessMM > m.MaxThicknessMM {
			continue
		}
		if !supportsVessel(m, in.VesselType) {
			continue
		}
		cost := m.CostPerM2 * in.HullAreaM2
		hours := m.HoursPer1000M2 * in.HullAreaM2 / 1000
		score := weightEffectiveness*m.Effectiveness +
			weightCost*costTerm(cost, in.Budget) +
			weightTime*timeTerm(hours, in.TimeBudgetHours) +
			weightEnv*envTerm(m.EnvImpact) +
			weightUrgency*urgencyTerm(m, urgency)
		scored = append(scored, ScoredMethod{
			Method:         m,
			Score:          score,
			EstimatedCost:  cost,
			EstimatedHours: hours,
		})
	}
	if len(scored) == 0 {
		return nil, models.NewInvalidInput("cleaning.select",
			fmt.Errorf("no catalogue method supports %.1f mm fouling on vessel type %q", in.ThicknessMM, in.VesselType))
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	best := scored[0]
	alternatives := scored[1:]
	if len(alternatives) > 3 {
		alternatives = alternatives[:3]
	}

	return &Selection{
		Recommended:  best,
		Alternatives: alternatives,
		Reasoning:    reasoning(best, in, urgency),
		Steps:        best.Method.Steps,
	}, nil
}

func supportsVessel(m Method, vesselType string) bool {
	if len(m.VesselTypes) == 0 {
		return true
	}
	for _, t := range m.VesselTypes {
		if t == vesselType {
			return true
		}
	}
	return false
}

// costTerm is 1 at or below half the budget, falls linearly to 0 at the
// budget, and is a neutral 0.5 when no budget was given.
func costTerm(cost, budget float64) float64 {
	if budget <= 0 {
		return 0.5
	}
	if cost <= budget/2 {
		return 1
	}
	if cost >= budget {
		return 0
	}
	return (budget - cost) / (budget / 2)
}

// timeTerm mirrors costTerm over the time budget.
func timeTerm(hours, budgetHours float64) float64 {
	if budgetHours <= 0 {
		return 0.5
	}
	if hours <= budgetHours/2 {
		return 1
	}
	if hours >= budgetHours {
		return 0
	}
	return (budgetHours - hours) / (budgetHours / 2)
}

func envTerm(impact string) float64 {
	switch impact {
	case EnvLow:
		return 1
	case EnvMedium:
		return 0.6
	default:
		return 0.2
	}
}

// urgencyTerm trades thoroughness against turnaround: urgent work favours
// effective methods, preventive work favours gentle ones, normal is
// neutral.
func urgencyTerm(m Method, urgency string) float64 {
	switch urgency {
	case UrgencyCritical:
		return m.Effectiveness
	case UrgencyUrgent:
		return 0.5*m.Effectiveness + 0.5*speedScore(m)
	case UrgencyPreventive:
		return envTerm(m.EnvImpact)
	default:
		return 0.7
	}
}

// speedScore normalises hours-per-area into [0, 1], faster is better.
func speedScore(m Method) float64 {
	s := 1 - m.HoursPer1000M2/48
	if s < 0 {
		return 0
	}
	return s
}

func reasoning(best ScoredMethod, in Input, urgency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s scores %.2f for %.1f mm fouling on a %s hull (%.0f m2): effectiveness %.0f%%, estimated cost %.0f, %.0f h.",
		best.Method.Name, best.Score, in.ThicknessMM, in.VesselType, in.HullAreaM2,
		best.Method.Effectiveness*100, best.EstimatedCost, best.EstimatedHours)
	if in.Budget > 0 && best.EstimatedCost > in.Budget {
		b.WriteString(" Estimated cost exceeds the stated budget; review before booking.")
	}
	if urgency == UrgencyCritical {
		b.WriteString(" Critical urgency weighted effectiveness over cost and environmental impact.")
	}
	if !best.Method.NormamApproved {
		b.WriteString(" Method is not NORMAM-401 approved; confirm with the authority first.")
	}
	return b.String()
}
