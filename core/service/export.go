package service

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"
)

// ExportService builds downloadable archives of a vessel's recorded
// history for auditors and port authorities.
type ExportService struct {
	vessels *VesselService
}

// NewExportService creates a new export service.
func NewExportService(vessels *VesselService) *ExportService {
	return &ExportService{vessels: vessels}
}

// CreateHistoryArchive writes a ZIP archive with the vessel's operational
// samples, maintenance events and inspections as CSV files.
func (s *ExportService) CreateHistoryArchive(vesselID string, from, to time.Time, writer io.Writer) error {
	vessel, err := s.vessels.GetVessel(vesselID)
	if err != nil {
		return fmt.Errorf("failed to load vessel: %w", err)
	}

	zipWriter := zip.NewWriter(writer)
	defer zipWriter.Close()

	timestamp := to.Format("20060102-150405")

	if err := s.writeSamplesCSV(zipWriter, vesselID, from, to, vessel.Name, timestamp); err != nil {
		return err
	}
	if err := s.writeMaintenanceCSV(zipWriter, vesselID, vessel.Name, timestamp); err != nil {
		return err
	}
	if err := s.writeInspectionsCSV(zipWriter, vesselID, vessel.Name, timestamp); err != nil {
		return err
	}

	log.Printf("Created history archive for vessel %s", vessel.Name)
	return nil
}

func (s *ExportService) writeSamplesCSV(zw *zip.Writer, vesselID string, from, to time.Time, name, timestamp string) error {
	samples, err := s.vessels.GetSamples(vesselID, from, to)
	if err != nil {
		return fmt.Errorf("failed to load samples: %w", err)
	}

	fileWriter, err := zw.Create(fmt.Sprintf("%s_samples_%s.csv", name, timestamp))
	if err != nil {
		return fmt.Errorf("failed to create zip entry: %w", err)
	}

	w := csv.NewWriter(fileWriter)
	if err := w.Write([]string{
		"timestamp", "speed_kn", "fuel_flow_kg_h", "water_temp_c",
		"salinity_psu", "wave_height_m", "wind_speed_kn", "load_percent",
	}); err != nil {
		return err
	}

	for _, sample := range samples {
		fuelFlow := ""
		if sample.FuelFlowKgH != nil {
			fuelFlow = strconv.FormatFloat(*sample.FuelFlowKgH, 'f', 2, 64)
		}
		record := []string{
			sample.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(sample.SpeedKn, 'f', 2, 64),
			fuelFlow,
			strconv.FormatFloat(sample.WaterTempC, 'f', 2, 64),
			strconv.FormatFloat(sample.SalinityPSU, 'f', 2, 64),
			strconv.FormatFloat(sample.WaveHeightM, 'f', 2, 64),
			strconv.FormatFloat(sample.WindSpeedKn, 'f', 2, 64),
			strconv.FormatFloat(sample.LoadPercent, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *ExportService) writeMaintenanceCSV(zw *zip.Writer, vesselID, name, timestamp string) error {
	events, err := s.vessels.GetMaintenance(vesselID, 1000)
	if err != nil {
		return fmt.Errorf("failed to load maintenance events: %w", err)
	}

	fileWriter, err := zw.Create(fmt.Sprintf("%s_maintenance_%s.csv", name, timestamp))
	if err != nil {
		return fmt.Errorf("failed to create zip entry: %w", err)
	}

	w := csv.NewWriter(fileWriter)
	if err := w.Write([]string{"started_at", "kind", "method", "status", "cost"}); err != nil {
		return err
	}

	for _, e := range events {
		record := []string{
			e.StartedAt.Format(time.RFC3339),
			e.Kind,
			e.Method,
			e.Status,
			strconv.FormatFloat(e.Cost, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *ExportService) writeInspectionsCSV(zw *zip.Writer, vesselID, name, timestamp string) error {
	inspections, err := s.vessels.GetInspections(vesselID, 1000)
	if err != nil {
		return fmt.Errorf("failed to load inspections: %w", err)
	}

	fileWriter, err := zw.Create(fmt.Sprintf("%s_inspections_%s.csv", name, timestamp))
	if err != nil {
		return fmt.Errorf("failed to create zip entry: %w", err)
	}

	w := csv.NewWriter(fileWriter)
	if err := w.Write([]string{"inspected_at", "inspector", "thickness_mm", "roughness_um", "notes"}); err != nil {
		return err
	}

	for _, i := range inspections {
		record := []string{
			i.InspectedAt.Format(time.RFC3339),
			i.Inspector,
			strconv.FormatFloat(i.ThicknessMM, 'f', 2, 64),
			strconv.FormatFloat(i.RoughnessUM, 'f', 2, 64),
			i.Notes,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
