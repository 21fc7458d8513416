package repository

import (
	"testing"
	"time"

	"hullzero/server/core/models"
)

func TestEventLogRepositoryFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewEventLogRepository(db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []*models.EventLog{
		{EventType: "vessel", Level: "info", VesselID: "v-1", Message: "Vessel Alpha registered", CreatedAt: base},
		{EventType: "decision", Level: "warning", VesselID: "v-1", Message: "Vessel v-1 fouling is severe (5.10 mm)", CreatedAt: base.Add(time.Hour)},
		{EventType: "decision", Level: "info", VesselID: "v-2", Message: "Recommendation for vessel v-2", CreatedAt: base.Add(2 * time.Hour)},
		{EventType: "ingest", Level: "info", Message: "Ingested 40 operational samples", CreatedAt: base.Add(3 * time.Hour)},
	}
	for i, e := range entries {
		if err := repo.Create(e); err != nil {
			t.Fatalf("create entry %d: %v", i, err)
		}
		if e.ID == 0 {
			t.Fatalf("entry %d must get an assigned id", i)
		}
	}

	all, err := repo.List(EventFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(all))
	}
	if all[0].EventType != "ingest" {
		t.Fatalf("list must be newest first, got %s", all[0].EventType)
	}
	if all[0].VesselID != "" {
		t.Fatalf("a fleet-wide event must read back with no vessel, got %q", all[0].VesselID)
	}

	perVessel, err := repo.List(EventFilter{VesselID: "v-1"})
	if err != nil {
		t.Fatalf("list by vessel: %v", err)
	}
	if len(perVessel) != 2 {
		t.Fatalf("expected 2 entries for v-1, got %d", len(perVessel))
	}
	for _, e := range perVessel {
		if e.VesselID != "v-1" {
			t.Fatalf("vessel filter leaked entry for %q", e.VesselID)
		}
	}

	combined, err := repo.List(EventFilter{EventType: "decision", VesselID: "v-1"})
	if err != nil {
		t.Fatalf("list combined: %v", err)
	}
	if len(combined) != 1 || combined[0].Level != "warning" {
		t.Fatalf("type and vessel filters must compose, got %+v", combined)
	}

	limited, err := repo.List(EventFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limit must cap the result, got %d", len(limited))
	}
}
