// Package service provides business logic for hull fouling decision support.
package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"hullzero/server/core/models"
	"hullzero/server/core/repository"
	"hullzero/server/utils/clock"

	"github.com/google/uuid"
)

// VesselService handles vessel registration and data ingestion.
type VesselService struct {
	vesselRepo     *repository.VesselRepository
	sampleRepo     *repository.OperationalSampleRepository
	maintRepo      *repository.MaintenanceRepository
	inspectionRepo *repository.InspectionRepository
	eventLogRepo   *repository.EventLogRepository
	clk            clock.Clock
}

// NewVesselService creates a new vessel service.
func NewVesselService(
	vesselRepo *repository.VesselRepository,
	sampleRepo *repository.OperationalSampleRepository,
	maintRepo *repository.MaintenanceRepository,
	inspectionRepo *repository.InspectionRepository,
	eventLogRepo *repository.EventLogRepository,
	clk clock.Clock,
) *VesselService {
	if clk == nil {
		clk = clock.Real()
	}
	return &VesselService{
		vesselRepo:     vesselRepo,
		sampleRepo:     sampleRepo,
		maintRepo:      maintRepo,
		inspectionRepo: inspectionRepo,
		eventLogRepo:   eventLogRepo,
		clk:            clk,
	}
}

// CreateVessel validates and registers a new vessel profile.
func (s *VesselService) CreateVessel(v *models.VesselProfile) error {
	now := s.clk.Now()
	if err := v.Validate(now); err != nil {
		return err
	}
	if !models.KnownVesselType(v.Type) {
		return models.NewInvalidInput("vessel.create", errors.New("unknown vessel type: "+v.Type))
	}

	v.ID = uuid.NewString()
	v.CreatedAt = now
	v.UpdatedAt = now

	if err := s.vesselRepo.Create(v); err != nil {
		log.Printf("Failed to create vessel %s: %v", v.Name, err)
		return err
	}

	s.logEvent("vessel", "info", v.ID, fmt.Sprintf("Vessel %s registered", v.Name))
	return nil
}

// UpdateVessel validates and updates an existing vessel profile.
func (s *VesselService) UpdateVessel(v *models.VesselProfile) error {
	now := s.clk.Now()
	if err := v.Validate(now); err != nil {
		return err
	}

	v.UpdatedAt = now
	if err := s.vesselRepo.Update(v); err != nil {
		return err
	}

	s.logEvent("vessel", "info", v.ID, fmt.Sprintf("Vessel %s updated", v.Name))
	return nil
}

// GetVessel retrieves a vessel profile by id.
func (s *VesselService) GetVessel(id string) (*models.VesselProfile, error) {
	return s.vesselRepo.GetByID(id)
}

// ListVessels retrieves all registered vessels.
func (s *VesselService) ListVessels() ([]*models.VesselProfile, error) {
	return s.vesselRepo.List()
}

// DeleteVessel removes a vessel and all of its dependent records.
func (s *VesselService) DeleteVessel(id string) error {
	if err := s.vesselRepo.Delete(id); err != nil {
		return err
	}
	s.logEvent("vessel", "warning", id, fmt.Sprintf("Vessel %s deleted", id))
	return nil
}

// RecordSample validates and stores a single operational sample.
func (s *VesselService) RecordSample(sample *models.OperationalSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}
	if _, err := s.vesselRepo.GetByID(sample.VesselID); err != nil {
		return err
	}

	sample.ID = uuid.NewString()
	sample.CreatedAt = s.clk.Now()
	return s.sampleRepo.Create(sample)
}

// RecordSampleBatch validates and stores a batch of operational samples
// in one transaction. The whole batch is rejected on the first invalid
// sample.
func (s *VesselService) RecordSampleBatch(samples []*models.OperationalSample) error {
	now := s.clk.Now()
	for _, sample := range samples {
		if err := sample.Validate(); err != nil {
			return err
		}
		sample.ID = uuid.NewString()
		sample.CreatedAt = now
	}

	if err := s.sampleRepo.CreateBatch(samples); err != nil {
		return err
	}

	s.logEvent("ingest", "info", "", fmt.Sprintf("Ingested %d operational samples", len(samples)))
	return nil
}

// GetSamples retrieves samples for a vessel within [from, to].
func (s *VesselService) GetSamples(vesselID string, from, to time.Time) ([]*models.OperationalSample, error) {
	return s.sampleRepo.GetRange(vesselID, from, to)
}

// RecordMaintenance validates and stores a maintenance event.
func (s *VesselService) RecordMaintenance(e *models.MaintenanceEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.vesselRepo.GetByID(e.VesselID); err != nil {
		return err
	}

	e.ID = uuid.NewString()
	e.CreatedAt = s.clk.Now()
	if e.Status == "" {
		e.Status = models.MaintenancePlanned
	}

	if err := s.maintRepo.Create(e); err != nil {
		return err
	}

	s.logEvent("vessel", "info", e.VesselID, fmt.Sprintf("Maintenance %s recorded for vessel %s", e.Kind, e.VesselID))
	return nil
}

// GetMaintenance retrieves maintenance events for a vessel.
func (s *VesselService) GetMaintenance(vesselID string, limit int) ([]*models.MaintenanceEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.maintRepo.GetByVessel(vesselID, limit)
}

// LastCleaning retrieves the most recent completed cleaning for a vessel,
// or nil when the vessel has never been cleaned.
func (s *VesselService) LastCleaning(vesselID string) (*models.MaintenanceEvent, error) {
	e, err := s.maintRepo.GetLatestCompleted(vesselID, models.MaintenanceCleaning)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// RecordInspection validates and stores a hull inspection record.
func (s *VesselService) RecordInspection(i *models.InspectionRecord) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if _, err := s.vesselRepo.GetByID(i.VesselID); err != nil {
		return err
	}

	i.ID = uuid.NewString()
	i.CreatedAt = s.clk.Now()

	if err := s.inspectionRepo.Create(i); err != nil {
		return err
	}

	s.logEvent("vessel", "info", i.VesselID, fmt.Sprintf("Inspection recorded for vessel %s (%.2f mm)", i.VesselID, i.ThicknessMM))
	return nil
}

// GetInspections retrieves inspection records for a vessel.
func (s *VesselService) GetInspections(vesselID string, limit int) ([]*models.InspectionRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.inspectionRepo.GetByVessel(vesselID, limit)
}

// GetEvents retrieves recent audit-trail entries, optionally filtered by
// event type and vessel.
func (s *VesselService) GetEvents(eventType, vesselID string, limit int) ([]*models.EventLog, error) {
	return s.eventLogRepo.List(repository.EventFilter{
		EventType: eventType,
		VesselID:  vesselID,
		Limit:     limit,
	})
}

// logEvent writes an audit-trail entry; failures are logged and dropped.
func (s *VesselService) logEvent(eventType, level, vesselID, message string) {
	entry := &models.EventLog{
		EventType: eventType,
		Level:     level,
		VesselID:  vesselID,
		Message:   message,
		CreatedAt: s.clk.Now(),
	}
	if err := s.eventLogRepo.Create(entry); err != nil {
		log.Printf("Failed to store event log: %v", err)
	}
}
