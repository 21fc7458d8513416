package models

import (
	"errors"
	"time"
)

// InspectionRecord is a hull inspection result filed by a surveyor.
type InspectionRecord struct {
	ID          string    `json:"id"`
	VesselID    string    `json:"vessel_id"`
	InspectedAt time.Time `json:"inspected_at"`
	Inspector   string    `json:"inspector,omitempty"`
	ThicknessMM float64   `json:"thickness_mm"`
	RoughnessUM float64   `json:"roughness_um"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the inspection record invariants.
func (i *InspectionRecord) Validate() error {
	if i.VesselID == "" {
		return NewInvalidInput("inspection.validate", errors.New("vessel id is required"))
	}
	if i.InspectedAt.IsZero() {
		return NewInvalidInput("inspection.validate", errors.New("inspection timestamp is required"))
	}
	if i.ThicknessMM < 0 || i.RoughnessUM < 0 {
		return NewInvalidInput("inspection.validate", errors.New("thickness and roughness cannot be negative"))
	}
	return nil
}

// EventLog is an operator-audit trail entry. VesselID is empty for
// fleet-wide events such as ingestion runs.
type EventLog struct {
	ID        int64     `json:"id"`
	EventType string    `json:"event_type"` // vessel, ingest, decision, monitor
	Level     string    `json:"level"`      // info, warning, error
	VesselID  string    `json:"vessel_id,omitempty"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata,omitempty"` // JSON-encoded additional data
	CreatedAt time.Time `json:"created_at"`
}
