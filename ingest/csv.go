// Package ingest parses operator-supplied CSV files into domain records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"hullzero/server/core/models"
)

// Sample CSV column layout. A header row is required and validated.
var sampleHeader = []string{
	"timestamp", "speed_kn", "fuel_flow_kg_h", "water_temp_c",
	"salinity_psu", "wave_height_m", "wind_speed_kn", "load_percent",
	"latitude", "longitude",
}

var maintenanceHeader = []string{
	"started_at", "ended_at", "kind", "method", "status",
	"thickness_before_mm", "thickness_after_mm", "cost",
}

// ReadSamples parses an operational sample CSV for one vessel. Rows with
// malformed numbers fail the whole file with the offending line number.
func ReadSamples(r io.Reader, vesselID string) ([]*models.OperationalSample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := checkHeader(header, sampleHeader); err != nil {
		return nil, err
	}

	var samples []*models.OperationalSample
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		s, err := parseSample(record, vesselID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, s)
	}

	if len(samples) == 0 {
		return nil, models.NewInvalidInput("ingest.samples", errors.New("CSV contains no data rows"))
	}
	return samples, nil
}

// ReadMaintenance parses a maintenance event CSV for one vessel.
func ReadMaintenance(r io.Reader, vesselID string) ([]*models.MaintenanceEvent, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := checkHeader(header, maintenanceHeader); err != nil {
		return nil, err
	}

	var events []*models.MaintenanceEvent
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		e, err := parseMaintenance(record, vesselID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, e)
	}

	if len(events) == 0 {
		return nil, models.NewInvalidInput("ingest.maintenance", errors.New("CSV contains no data rows"))
	}
	return events, nil
}

func parseSample(record []string, vesselID string) (*models.OperationalSample, error) {
	if len(record) != len(sampleHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(sampleHeader), len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", record[0], err)
	}

	s := &models.OperationalSample{
		VesselID:  vesselID,
		Timestamp: ts,
	}

	if s.SpeedKn, err = parseFloat(record[1], "speed_kn"); err != nil {
		return nil, err
	}
	if s.FuelFlowKgH, err = parseOptFloat(record[2], "fuel_flow_kg_h"); err != nil {
		return nil, err
	}
	if s.WaterTempC, err = parseFloat(record[3], "water_temp_c"); err != nil {
		return nil, err
	}
	if s.SalinityPSU, err = parseFloat(record[4], "salinity_psu"); err != nil {
		return nil, err
	}
	if s.WaveHeightM, err = parseFloat(record[5], "wave_height_m"); err != nil {
		return nil, err
	}
	if s.WindSpeedKn, err = parseFloat(record[6], "wind_speed_kn"); err != nil {
		return nil, err
	}
	if s.LoadPercent, err = parseFloat(record[7], "load_percent"); err != nil {
		return nil, err
	}
	if s.Latitude, err = parseOptFloat(record[8], "latitude"); err != nil {
		return nil, err
	}
	if s.Longitude, err = parseOptFloat(record[9], "longitude"); err != nil {
		return nil, err
	}

	return s, s.Validate()
}

func parseMaintenance(record []string, vesselID string) (*models.MaintenanceEvent, error) {
	if len(record) != len(maintenanceHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(maintenanceHeader), len(record))
	}

	startedAt, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", record[0], err)
	}

	e := &models.MaintenanceEvent{
		VesselID:  vesselID,
		StartedAt: startedAt,
		Kind:      record[2],
		Method:    record[3],
		Status:    record[4],
	}

	if record[1] != "" {
		endedAt, err := time.Parse(time.RFC3339, record[1])
		if err != nil {
			return nil, fmt.Errorf("invalid ended_at %q: %w", record[1], err)
		}
		e.EndedAt = &endedAt
	}
	if e.Status == "" {
		e.Status = models.MaintenanceCompleted
	}

	if e.ThicknessBeforeMM, err = parseOptFloat(record[5], "thickness_before_mm"); err != nil {
		return nil, err
	}
	if e.ThicknessAfterMM, err = parseOptFloat(record[6], "thickness_after_mm"); err != nil {
		return nil, err
	}
	if record[7] != "" {
		if e.Cost, err = parseFloat(record[7], "cost"); err != nil {
			return nil, err
		}
	}

	return e, e.Validate()
}

func parseFloat(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", field, s)
	}
	return v, nil
}

func parseOptFloat(s, field string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", field, s)
	}
	return &v, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("expected %d header columns, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("header column %d: expected %q, got %q", i+1, want[i], got[i])
		}
	}
	return nil
}
