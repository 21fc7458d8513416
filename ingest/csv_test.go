package ingest

import (
	"strings"
	"testing"
	"time"

	"hullzero/server/core/models"
)

const sampleCSV = `timestamp,speed_kn,fuel_flow_kg_h,water_temp_c,salinity_psu,wave_height_m,wind_speed_kn,load_percent,latitude,longitude
2026-01-10T00:00:00Z,12.5,2100,26.1,34.2,1.2,14,82,-23.96,-46.33
2026-01-10T01:00:00Z,0.2,,26.0,34.1,0.8,10,80,,
`

func TestReadSamples(t *testing.T) {
	samples, err := ReadSamples(strings.NewReader(sampleCSV), "v-1")
	if err != nil {
		t.Fatalf("read samples: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	s := samples[0]
	if s.VesselID != "v-1" {
		t.Fatalf("vessel id not propagated: %q", s.VesselID)
	}
	if !s.Timestamp.Equal(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("wrong timestamp: %v", s.Timestamp)
	}
	if s.FuelFlowKgH == nil || *s.FuelFlowKgH != 2100 {
		t.Fatalf("fuel flow not parsed: %v", s.FuelFlowKgH)
	}
	if s.Latitude == nil || *s.Latitude != -23.96 {
		t.Fatalf("latitude not parsed: %v", s.Latitude)
	}
	// Empty optional columns stay nil.
	if samples[1].FuelFlowKgH != nil || samples[1].Latitude != nil {
		t.Fatal("empty optional columns must parse to nil")
	}
}

func TestReadSamplesRejectsBadHeader(t *testing.T) {
	csv := "timestamp,speed,fuel_flow_kg_h,water_temp_c,salinity_psu,wave_height_m,wind_speed_kn,load_percent,latitude,longitude\n"
	_, err := ReadSamples(strings.NewReader(csv), "v-1")
	if err == nil || !strings.Contains(err.Error(), "header column 2") {
		t.Fatalf("expected a header column error, got %v", err)
	}
}

func TestReadSamplesRejectsEmptyFile(t *testing.T) {
	csv := "timestamp,speed_kn,fuel_flow_kg_h,water_temp_c,salinity_psu,wave_height_m,wind_speed_kn,load_percent,latitude,longitude\n"
	_, err := ReadSamples(strings.NewReader(csv), "v-1")
	if models.KindOf(err) != models.KindInvalidInput {
		t.Fatalf("a header-only file must be invalid input, got %v", err)
	}
}

func TestReadSamplesReportsLineNumber(t *testing.T) {
	csv := sampleCSV + "2026-01-10T02:00:00Z,not-a-number,,26.0,34.1,0.8,10,80,,\n"
	_, err := ReadSamples(strings.NewReader(csv), "v-1")
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("expected the offending line number, got %v", err)
	}
}

func TestReadSamplesRejectsInvalidRow(t *testing.T) {
	csv := "timestamp,speed_kn,fuel_flow_kg_h,water_temp_c,salinity_psu,wave_height_m,wind_speed_kn,load_percent,latitude,longitude\n" +
		"2026-01-10T00:00:00Z,12.5,2100,26.1,34.2,1.2,14,150,,\n" // load > 100
	_, err := ReadSamples(strings.NewReader(csv), "v-1")
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("domain validation must fail with the line number, got %v", err)
	}
}

const maintenanceCSV = `started_at,ended_at,kind,method,status,thickness_before_mm,thickness_after_mm,cost
2025-11-02T08:00:00Z,2025-11-04T17:00:00Z,cleaning,rotary-brush,,3.4,0.2,180000
2026-01-15T09:00:00Z,,inspection,,planned,,,
`

func TestReadMaintenance(t *testing.T) {
	events, err := ReadMaintenance(strings.NewReader(maintenanceCSV), "v-1")
	if err != nil {
		t.Fatalf("read maintenance: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	e := events[0]
	if e.Kind != models.MaintenanceCleaning || e.Method != "rotary-brush" {
		t.Fatalf("wrong event: %+v", e)
	}
	// An omitted status on a finished row defaults to completed.
	if e.Status != models.MaintenanceCompleted {
		t.Fatalf("empty status must default to completed, got %q", e.Status)
	}
	if e.ThicknessBeforeMM == nil || *e.ThicknessBeforeMM != 3.4 {
		t.Fatalf("before-thickness not parsed: %v", e.ThicknessBeforeMM)
	}
	if e.EndedAt == nil {
		t.Fatal("ended_at not parsed")
	}
	if events[1].Status != models.MaintenancePlanned || events[1].EndedAt != nil {
		t.Fatalf("planned inspection parsed wrong: %+v", events[1])
	}
}

func TestReadMaintenanceRejectsUnknownKind(t *testing.T) {
	csv := "started_at,ended_at,kind,method,status,thickness_before_mm,thickness_after_mm,cost\n" +
		"2025-11-02T08:00:00Z,,scrubbing,,planned,,,\n"
	_, err := ReadMaintenance(strings.NewReader(csv), "v-1")
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("unknown kind must fail with the line number, got %v", err)
	}
}

func TestReadMaintenanceRejectsCompletedCleaningWithoutThickness(t *testing.T) {
	csv := "started_at,ended_at,kind,method,status,thickness_before_mm,thickness_after_mm,cost\n" +
		"2025-11-02T08:00:00Z,2025-11-04T17:00:00Z,cleaning,rotary-brush,completed,,,\n"
	_, err := ReadMaintenance(strings.NewReader(csv), "v-1")
	if err == nil {
		t.Fatal("a completed cleaning without a before-thickness must fail")
	}
}
