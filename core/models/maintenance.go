package models

import (
	"errors"
	"time"
)

// Maintenance event kinds.
const (
	MaintenanceCleaning    = "cleaning"
	MaintenanceInspection  = "inspection"
	MaintenanceRepair      = "repair"
	MaintenancePaint       = "paint-application"
	MaintenanceDocking     = "docking"
)

// Maintenance event statuses.
const (
	MaintenancePlanned    = "planned"
	MaintenanceInProgress = "in-progress"
	MaintenanceCompleted  = "completed"
	MaintenanceCancelled  = "cancelled"
)

// MaintenanceEvent is a time-stamped maintenance act on a vessel hull.
type MaintenanceEvent struct {
	ID                string     `json:"id"`
	VesselID          string     `json:"vessel_id"`
	Kind              string     `json:"kind"` // cleaning, inspection, repair, paint-application, docking
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
	Method            string     `json:"method,omitempty"` // cleaning method used
	ThicknessBeforeMM *float64   `json:"thickness_before_mm,omitempty"`
	ThicknessAfterMM  *float64   `json:"thickness_after_mm,omitempty"`
	RoughnessBeforeUM *float64   `json:"roughness_before_um,omitempty"`
	RoughnessAfterUM  *float64   `json:"roughness_after_um,omitempty"`
	Cost              float64    `json:"cost"`
	Status            string     `json:"status"` // planned, in-progress, completed, cancelled
	CreatedAt         time.Time  `json:"created_at"`
}

// Validate checks the maintenance event invariants: end >= start when both
// are set, and a completed cleaning must carry a before-thickness.
func (m *MaintenanceEvent) Validate() error {
	if m.VesselID == "" {
		return NewInvalidInput("maintenance.validate", errors.New("vessel id is required"))
	}
	switch m.Kind {
	case MaintenanceCleaning, MaintenanceInspection, MaintenanceRepair, MaintenancePaint, MaintenanceDocking:
	default:
		return NewInvalidInput("maintenance.validate", errors.New("unknown maintenance kind: "+m.Kind))
	}
	if m.StartedAt.IsZero() {
		return NewInvalidInput("maintenance.validate", errors.New("start timestamp is required"))
	}
	if m.EndedAt != nil && m.EndedAt.Before(m.StartedAt) {
		return NewInvalidInput("maintenance.validate", errors.New("end timestamp precedes start"))
	}
	if m.Kind == MaintenanceCleaning && m.Status == MaintenanceCompleted && m.ThicknessBeforeMM == nil {
		return NewInvalidInput("maintenance.validate", errors.New("completed cleaning requires a before-thickness"))
	}
	return nil
}
