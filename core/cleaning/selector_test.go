package cleaning

import (
	"strings"
	"testing"

	"hullzero/server/core/models"
)

func TestSelectLightFouling(t *testing.T) {
	sel, err := Select(Input{
		ThicknessMM: 0.5,
		VesselType:  models.VesselTypeTanker,
		HullAreaM2:  10000,
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	// Only soft-brush and the ROV clean cover the sub-millimetre band;
	// the ROV's higher effectiveness wins under the default weights.
	if sel.Recommended.Method.Name != "rov-inspection-clean" {
		t.Fatalf("expected rov-inspection-clean, got %s", sel.Recommended.Method.Name)
	}
	if len(sel.Alternatives) != 1 || sel.Alternatives[0].Method.Name != "soft-brush" {
		t.Fatalf("expected soft-brush as the only alternative, got %+v", sel.Alternatives)
	}
	if len(sel.Steps) == 0 {
		t.Fatal("selection must carry the method's procedure steps")
	}
}

func TestSelectHeavyFoulingRequiresDrydock(t *testing.T) {
	sel, err := Select(Input{
		ThicknessMM: 9,
		VesselType:  models.VesselTypeTanker,
		HullAreaM2:  12000,
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Recommended.Method.Name != "drydock-blast-repaint" {
		t.Fatalf("9 mm of growth leaves only drydock, got %s", sel.Recommended.Method.Name)
	}
	if len(sel.Alternatives) != 0 {
		t.Fatalf("no alternative covers 9 mm, got %+v", sel.Alternatives)
	}
	if sel.Recommended.EstimatedCost != 60*12000 {
		t.Fatalf("estimated cost %f, want %f", sel.Recommended.EstimatedCost, 60.0*12000)
	}
}

func TestSelectHeavyFoulingOnTugFails(t *testing.T) {
	// The drydock entry excludes tugs, so nothing covers 9 mm.
	_, err := Select(Input{
		ThicknessMM: 9,
		VesselType:  models.VesselTypeTug,
		HullAreaM2:  800,
	})
	if models.KindOf(err) != models.KindInvalidInput {
		t.Fatalf("expected invalid input when no method fits, got %v", err)
	}
}

func TestSelectCapsAlternatives(t *testing.T) {
	sel, err := Select(Input{
		ThicknessMM: 3,
		VesselType:  models.VesselTypeTanker,
		HullAreaM2:  5000,
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	// Four catalogue entries cover 3 mm on a tanker.
	if len(sel.Alternatives) != 3 {
		t.Fatalf("alternatives must be capped at three, got %d", len(sel.Alternatives))
	}
	prev := sel.Recommended.Score
	for _, a := range sel.Alternatives {
		if a.Score > prev {
			t.Fatal("alternatives must be ranked by descending score")
		}
		prev = a.Score
	}
}

func TestSelectCriticalUrgencyWeighsEffectiveness(t *testing.T) {
	sel, err := Select(Input{
		ThicknessMM: 4.5,
		VesselType:  models.VesselTypeTanker,
		HullAreaM2:  10000,
		Urgency:     UrgencyCritical,
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Recommended.Method.Name != "cavitation-jet" {
		t.Fatalf("critical urgency at 4.5 mm favours the cavitation jet, got %s", sel.Recommended.Method.Name)
	}
	if !strings.Contains(sel.Reasoning, "Critical urgency") {
		t.Fatalf("reasoning must explain the urgency weighting: %q", sel.Reasoning)
	}
}

func TestSelectFlagsBudgetOverrun(t *testing.T) {
	sel, err := Select(Input{
		ThicknessMM: 0.5,
		VesselType:  models.VesselTypeTanker,
		HullAreaM2:  10000,
		Budget:      1000, // every method costs far more
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if !strings.Contains(sel.Reasoning, "exceeds the stated budget") {
		t.Fatalf("reasoning must flag the overrun: %q", sel.Reasoning)
	}
}

func TestSelectRejectsBadInput(t *testing.T) {
	if _, err := Select(Input{ThicknessMM: -1, HullAreaM2: 100}); models.KindOf(err) != models.KindInvalidInput {
		t.Fatalf("negative thickness must be invalid input, got %v", err)
	}
	if _, err := Select(Input{ThicknessMM: 1, HullAreaM2: 0}); models.KindOf(err) != models.KindInvalidInput {
		t.Fatalf("non-positive hull area must be invalid input, got %v", err)
	}
}

func TestCostTerm(t *testing.T) {
	if got := costTerm(5000, 0); got != 0.5 {
		t.Fatalf("no budget must be neutral, got %f", got)
	}
	if got := costTerm(40, 100); got != 1 {
		t.Fatalf("cost under half the budget must score 1, got %f", got)
	}
	if got := costTerm(100, 100); got != 0 {
		t.Fatalf("cost at the budget must score 0, got %f", got)
	}
	if got := costTerm(75, 100); got != 0.5 {
		t.Fatalf("cost at 75%% of budget must score 0.5, got %f", got)
	}
}

func TestEnvTerm(t *testing.T) {
	if envTerm(EnvLow) != 1 || envTerm(EnvMedium) != 0.6 || envTerm(EnvHigh) != 0.2 {
		t.Fatal("environmental scoring tiers are wrong")
	}
}

func TestCatalogueIsWellFormed(t *testing.T) {
	for _, m := range Catalogue() {
		if m.Name == "" {
			t.Fatal("catalogue method without a name")
		}
		if m.Effectiveness <= 0 || m.Effectiveness > 1 {
			t.Fatalf("%s: effectiveness %f outside (0, 1]", m.Name, m.Effectiveness)
		}
		if m.MinThicknessMM > m.MaxThicknessMM {
			t.Fatalf("%s: inverted thickness range", m.Name)
		}
		if len(m.Steps) == 0 {
			t.Fatalf("%s: no procedure steps", m.Name)
		}
	}
}
