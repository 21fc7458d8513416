package repository

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hullzero/server/core/models"
	"hullzero/server/database"
)

// openTestDB initialises a throwaway sqlite database with the full schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hullzero_test.db")
	if err := database.Initialize(path); err != nil {
		t.Fatalf("initialize test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("close test database: %v", err)
		}
	})
	return database.GetDB()
}

func testVessel(id string) *models.VesselProfile {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return &models.VesselProfile{
		ID:             id,
		Name:           "MT " + id,
		IMO:            "9300001",
		Type:           models.VesselTypeTanker,
		LengthM:        250,
		WidthM:         44,
		DraftM:         15,
		HullAreaM2:     12000,
		PaintType:      "SPC",
		TypicalSpeedKn: 12.5,
		EnginePowerKW:  15000,
		FuelType:       "HFO",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestVesselRepositoryCRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewVesselRepository(db)

	v := testVessel("v-crud")
	if err := repo.Create(v); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID("v-crud")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Name != v.Name || got.Type != v.Type || got.HullAreaM2 != v.HullAreaM2 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if got.PaintAppliedAt != nil {
		t.Fatal("unset paint date must read back nil")
	}

	byName, err := repo.GetByName(v.Name)
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if byName.ID != v.ID {
		t.Fatalf("get by name returned %q", byName.ID)
	}

	v.Name = "MT Renamed"
	v.UpdatedAt = v.UpdatedAt.Add(time.Hour)
	if err := repo.Update(v); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = repo.GetByID("v-crud")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Name != "MT Renamed" {
		t.Fatalf("update not persisted: %q", got.Name)
	}

	if err := repo.Delete("v-crud"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID("v-crud"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("deleted vessel must yield ErrNoRows, got %v", err)
	}
}

func TestVesselRepositoryUpdateMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewVesselRepository(db)
	if err := repo.Update(testVessel("v-ghost")); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("updating a missing vessel must yield ErrNoRows, got %v", err)
	}
}

func TestVesselRepositoryList(t *testing.T) {
	db := openTestDB(t)
	repo := NewVesselRepository(db)

	b := testVessel("v-b")
	b.Name = "MT Bravo"
	a := testVessel("v-a")
	a.Name = "MT Alpha"
	for _, v := range []*models.VesselProfile{b, a} {
		if err := repo.Create(v); err != nil {
			t.Fatalf("create %s: %v", v.ID, err)
		}
	}

	vessels, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(vessels) != 2 {
		t.Fatalf("expected 2 vessels, got %d", len(vessels))
	}
	if vessels[0].Name != "MT Alpha" || vessels[1].Name != "MT Bravo" {
		t.Fatalf("list must be ordered by name: %s, %s", vessels[0].Name, vessels[1].Name)
	}
}

func TestFoulingEstimateRepositoryRoundtrip(t *testing.T) {
	db := openTestDB(t)
	vessels := NewVesselRepository(db)
	estimates := NewFoulingEstimateRepository(db)

	v := testVessel("v-est")
	if err := vessels.Create(v); err != nil {
		t.Fatalf("create vessel: %v", err)
	}

	if _, err := estimates.GetLatest("v-est"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("no estimates must yield ErrNoRows, got %v", err)
	}

	base := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	for i, mm := range []float64{1.1, 1.6, 2.4} {
		e := &models.FoulingEstimate{
			ID:                "e-" + string(rune('a'+i)),
			VesselID:          "v-est",
			ThicknessMM:       mm,
			RoughnessUM:       50*mm + 100,
			Severity:          models.SeverityLight,
			Confidence:        0.6,
			FuelImpactPercent: 2 * mm,
			PhysicalMM:        mm,
			Reasoning:         "test estimate",
			EstimatedAt:       base.Add(time.Duration(i) * 24 * time.Hour),
		}
		if err := estimates.Create(e); err != nil {
			t.Fatalf("create estimate %d: %v", i, err)
		}
	}

	latest, err := estimates.GetLatest("v-est")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if latest.ThicknessMM != 2.4 {
		t.Fatalf("latest estimate = %.1f mm, want 2.4", latest.ThicknessMM)
	}
	if latest.EnsembleMM != nil {
		t.Fatal("ensemble thickness was not stored and must read back nil")
	}

	window, err := estimates.GetRange("v-est", base, base.Add(36*time.Hour))
	if err != nil {
		t.Fatalf("get range: %v", err)
	}
	if len(window) != 2 {
		t.Fatalf("expected 2 estimates in range, got %d", len(window))
	}
	if window[0].EstimatedAt.After(window[1].EstimatedAt) {
		t.Fatal("range must be ordered ascending")
	}

	// Deleting the vessel cascades to its estimates.
	if err := vessels.Delete("v-est"); err != nil {
		t.Fatalf("delete vessel: %v", err)
	}
	if _, err := estimates.GetLatest("v-est"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("cascade delete must clear estimates, got %v", err)
	}
}
