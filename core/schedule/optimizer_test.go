package schedule

import (
	"testing"
	"time"

	"hullzero/server/core/conformity"
	"hullzero/server/core/fouling"
	"hullzero/server/core/models"
	"hullzero/server/utils/clock"
)

var scheduleNow = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func buildOptimizer(t *testing.T) *Optimizer {
	t.Helper()
	now := clock.Fixed(scheduleNow).Now
	p, err := fouling.NewPredictor(fouling.DefaultPhysicalWeight, fouling.DefaultMLWeight, now)
	if err != nil {
		t.Fatalf("new predictor: %v", err)
	}
	return NewOptimizer(p, conformity.NewChecker(0, now), DefaultConfig(), now)
}

func scheduleFeatures() models.VesselFeatures {
	return models.VesselFeatures{
		VesselType:            models.VesselTypeTanker,
		DaysSinceCleaning:     90,
		WaterTempC:            27,
		SalinityPSU:           34,
		PortHours:             150,
		AvgSpeedKn:            9,
		Region:                "Southeast_Brazil",
		Season:                "summer",
		TypicalConsumptionKgH: 2800,
	}
}

func TestRecommendForcedImmediateOverLimit(t *testing.T) {
	o := buildOptimizer(t)
	rec, err := o.Recommend(scheduleFeatures(), 5.5, 400, Options{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.Kind != models.RecommendImmediateCleaning {
		t.Fatalf("a breached limit must force immediate cleaning, got %s", rec.Kind)
	}
	if rec.Priority != models.PriorityCritical {
		t.Fatalf("forced cleaning must be critical priority, got %s", rec.Priority)
	}
	want := scheduleNow.Add(24 * time.Hour)
	if !rec.RecommendedDate.Equal(want) {
		t.Fatalf("forced cleaning must be next-day, got %v", rec.RecommendedDate)
	}
	if rec.Status != models.RecommendationPending {
		t.Fatalf("new recommendations start pending, got %s", rec.Status)
	}
}

func TestRecommendForcedImmediateOnRoughness(t *testing.T) {
	o := buildOptimizer(t)
	rec, err := o.Recommend(scheduleFeatures(), 3.0, 520, Options{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.Kind != models.RecommendImmediateCleaning {
		t.Fatalf("a roughness breach alone must force cleaning, got %s", rec.Kind)
	}
}

func TestRecommendRejectsNegativeState(t *testing.T) {
	o := buildOptimizer(t)
	if _, err := o.Recommend(scheduleFeatures(), -1, 100, Options{}); models.KindOf(err) != models.KindInvalidInput {
		t.Fatalf("negative fouling state must be invalid input, got %v", err)
	}
}

func TestRecommendEvaluatesAllOffsets(t *testing.T) {
	o := buildOptimizer(t)
	rec, err := o.Recommend(scheduleFeatures(), 3.0, 400, Options{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(rec.Candidates) != len(DefaultOffsets) {
		t.Fatalf("unconstrained call must evaluate every offset, got %d", len(rec.Candidates))
	}
	for i, c := range rec.Candidates {
		if c.OffsetDays != DefaultOffsets[i] {
			t.Fatalf("candidate %d offset %d, want %d", i, c.OffsetDays, DefaultOffsets[i])
		}
		if c.NetBenefit != c.SavingsCurrency-c.CleaningCost-c.DowntimeCost {
			t.Fatalf("candidate %d net benefit is inconsistent", i)
		}
	}
	if !rec.CreatedAt.Equal(scheduleNow) {
		t.Fatalf("recommendation must be stamped with the injected clock, got %v", rec.CreatedAt)
	}
}

func TestRecommendPicksNetBenefitArgmax(t *testing.T) {
	o := buildOptimizer(t)
	rec, err := o.Recommend(scheduleFeatures(), 3.0, 400, Options{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(rec.Candidates) == 0 {
		t.Fatal("expected candidates")
	}

	best := rec.Candidates[0]
	for _, c := range rec.Candidates[1:] {
		if c.NetBenefit > best.NetBenefit {
			best = c
		}
	}
	if rec.NetBenefit != best.NetBenefit {
		t.Fatalf("recommendation net benefit %.0f, want the candidate maximum %.0f (offset %d)",
			rec.NetBenefit, best.NetBenefit, best.OffsetDays)
	}
	want := scheduleNow.Add(time.Duration(best.OffsetDays) * 24 * time.Hour)
	if !rec.RecommendedDate.Equal(want) {
		t.Fatalf("recommended date %v, want now + %d days = %v", rec.RecommendedDate, best.OffsetDays, want)
	}
	if rec.EstimatedCost != best.CleaningCost+best.DowntimeCost {
		t.Fatalf("estimated cost %.0f must match the winning candidate's costs %.0f",
			rec.EstimatedCost, best.CleaningCost+best.DowntimeCost)
	}
	if rec.EstimatedBenefit != best.SavingsCurrency {
		t.Fatalf("estimated benefit %.0f must match the winning candidate's savings %.0f",
			rec.EstimatedBenefit, best.SavingsCurrency)
	}
}

func TestRecommendHonoursAvailabilityWindows(t *testing.T) {
	o := buildOptimizer(t)
	windows := []Window{{
		From: scheduleNow.Add(28 * 24 * time.Hour),
		To:   scheduleNow.Add(32 * 24 * time.Hour),
	}}
	rec, err := o.Recommend(scheduleFeatures(), 3.0, 400, Options{Availability: windows})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(rec.Candidates) != 1 || rec.Candidates[0].OffsetDays != 30 {
		t.Fatalf("only the day-30 candidate fits the window, got %+v", rec.Candidates)
	}
}

func TestRecommendFailsWhenNoDateFits(t *testing.T) {
	o := buildOptimizer(t)
	windows := []Window{{
		From: scheduleNow.Add(400 * 24 * time.Hour),
		To:   scheduleNow.Add(410 * 24 * time.Hour),
	}}
	_, err := o.Recommend(scheduleFeatures(), 3.0, 400, Options{Availability: windows})
	if models.KindOf(err) != models.KindInvalidInput {
		t.Fatalf("an unsatisfiable window set must fail, got %v", err)
	}
}

func TestApplyDrydockAdvancesToFreeSlot(t *testing.T) {
	o := buildOptimizer(t)
	date := scheduleNow
	day := func(n int) string {
		return scheduleNow.Add(time.Duration(n) * 24 * time.Hour).Format("2006-01-02")
	}
	capacity := map[string]int{day(0): 0, day(1): 0, day(2): 2}
	got := o.applyDrydock(date, capacity)
	want := scheduleNow.Add(48 * time.Hour)
	if !got.Equal(want) {
		t.Fatalf("date must advance to the first free slot: got %v, want %v", got, want)
	}

	// Dates missing from the map are treated as unconstrained.
	open := scheduleNow.Add(10 * 24 * time.Hour)
	if got := o.applyDrydock(open, capacity); !got.Equal(open) {
		t.Fatalf("unlisted dates must pass through, got %v", got)
	}
	if got := o.applyDrydock(date, nil); !got.Equal(date) {
		t.Fatalf("nil capacity must pass through, got %v", got)
	}
}

func TestClassify(t *testing.T) {
	limit := conformity.LimitFor(models.VesselTypeTanker)

	kind, priority := classify(4.6, 300, limit, models.CandidateEvaluation{NetBenefit: -1})
	if kind != models.RecommendScheduledCleaning || priority != models.PriorityHigh {
		t.Fatalf("near-limit fouling must schedule with high priority, got %s/%s", kind, priority)
	}

	kind, priority = classify(2.5, 250, limit, models.CandidateEvaluation{NetBenefit: 1000, OffsetDays: 14})
	if kind != models.RecommendScheduledCleaning || priority != models.PriorityMedium {
		t.Fatalf("a near-term positive benefit must schedule at medium, got %s/%s", kind, priority)
	}

	kind, priority = classify(2.5, 250, limit, models.CandidateEvaluation{NetBenefit: 1000, OffsetDays: 60})
	if kind != models.RecommendScheduledCleaning || priority != models.PriorityLow {
		t.Fatalf("a far-out positive benefit must schedule at low, got %s/%s", kind, priority)
	}

	kind, _ = classify(2.5, 250, limit, models.CandidateEvaluation{NetBenefit: -1})
	if kind != models.RecommendMonitorIntensified {
		t.Fatalf("moderate fouling without benefit must intensify monitoring, got %s", kind)
	}

	kind, _ = classify(0.5, 120, limit, models.CandidateEvaluation{NetBenefit: -1, ProjectedMM: 2.4})
	if kind != models.RecommendPreventiveAction {
		t.Fatalf("light fouling projected past 2 mm warrants preventive action, got %s", kind)
	}

	kind, _ = classify(0.5, 120, limit, models.CandidateEvaluation{NetBenefit: -1, ProjectedMM: 1.0})
	if kind != models.RecommendNoAction {
		t.Fatalf("a clean stable hull needs no action, got %s", kind)
	}
}

func TestInWindows(t *testing.T) {
	if !inWindows(scheduleNow, nil) {
		t.Fatal("no windows means unconstrained")
	}
	w := []Window{{From: scheduleNow, To: scheduleNow.Add(24 * time.Hour)}}
	if !inWindows(scheduleNow, w) {
		t.Fatal("window bounds are inclusive")
	}
	if inWindows(scheduleNow.Add(48*time.Hour), w) {
		t.Fatal("dates past the window must be excluded")
	}
}
