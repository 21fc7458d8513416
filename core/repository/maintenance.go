package repository

import (
	"database/sql"

	"hullzero/server/core/models"
)

// MaintenanceRepository handles persistence of maintenance events.
type MaintenanceRepository struct {
	db *sql.DB
}

// NewMaintenanceRepository creates a new maintenance event repository.
func NewMaintenanceRepository(db *sql.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// Create stores a maintenance event in the database.
func (r *MaintenanceRepository) Create(e *models.MaintenanceEvent) error {
	query := `
		INSERT INTO maintenance_events (
			id, vessel_id, kind, started_at, ended_at, method,
			thickness_before_mm, thickness_after_mm,
			roughness_before_um, roughness_after_um,
			cost, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(
		query,
		e.ID,
		e.VesselID,
		e.Kind,
		e.StartedAt,
		e.EndedAt,
		e.Method,
		e.ThicknessBeforeMM,
		e.ThicknessAfterMM,
		e.RoughnessBeforeUM,
		e.RoughnessAfterUM,
		e.Cost,
		e.Status,
		e.CreatedAt,
	)
	return err
}

// UpdateStatus transitions the status of a maintenance event.
func (r *MaintenanceRepository) UpdateStatus(id, status string) error {
	result, err := r.db.Exec(`UPDATE maintenance_events SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// GetByVessel retrieves maintenance events for a vessel ordered by start
// time descending.
func (r *MaintenanceRepository) GetByVessel(vesselID string, limit int) ([]*models.MaintenanceEvent, error) {
	query := `
		SELECT id, vessel_id, kind, started_at, ended_at, method,
		       thickness_before_mm, thickness_after_mm,
		       roughness_before_um, roughness_after_um,
		       cost, status, created_at
		FROM maintenance_events
		WHERE vessel_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, vesselID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMaintenanceEvents(rows)
}

// GetByKind retrieves maintenance events of one kind for a vessel ordered
// by start time descending.
func (r *MaintenanceRepository) GetByKind(vesselID, kind string, limit int) ([]*models.MaintenanceEvent, error) {
	query := `
		SELECT id, vessel_id, kind, started_at, ended_at, method,
		       thickness_before_mm, thickness_after_mm,
		       roughness_before_um, roughness_after_um,
		       cost, status, created_at
		FROM maintenance_events
		WHERE vessel_id = ? AND kind = ?
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, vesselID, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMaintenanceEvents(rows)
}

// GetLatestCompleted retrieves the most recent completed event of one kind
// for a vessel, or sql.ErrNoRows when none exists.
func (r *MaintenanceRepository) GetLatestCompleted(vesselID, kind string) (*models.MaintenanceEvent, error) {
	query := `
		SELECT id, vessel_id, kind, started_at, ended_at, method,
		       thickness_before_mm, thickness_after_mm,
		       roughness_before_um, roughness_after_um,
		       cost, status, created_at
		FROM maintenance_events
		WHERE vessel_id = ? AND kind = ? AND status = ?
		ORDER BY started_at DESC
		LIMIT 1
	`

	return scanMaintenanceEvent(r.db.QueryRow(query, vesselID, kind, models.MaintenanceCompleted))
}

func scanMaintenanceEvents(rows *sql.Rows) ([]*models.MaintenanceEvent, error) {
	var events []*models.MaintenanceEvent
	for rows.Next() {
		e, err := scanMaintenanceEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanMaintenanceEvent(row rowScanner) (*models.MaintenanceEvent, error) {
	e := &models.MaintenanceEvent{}
	var endedAt sql.NullTime
	var thicknessBefore, thicknessAfter, roughnessBefore, roughnessAfter sql.NullFloat64

	err := row.Scan(
		&e.ID,
		&e.VesselID,
		&e.Kind,
		&e.StartedAt,
		&endedAt,
		&e.Method,
		&thicknessBefore,
		&thicknessAfter,
		&roughnessBefore,
		&roughnessAfter,
		&e.Cost,
		&e.Status,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endedAt.Valid {
		t := endedAt.Time
		e.EndedAt = &t
	}
	if thicknessBefore.Valid {
		v := thicknessBefore.Float64
		e.ThicknessBeforeMM = &v
	}
	if thicknessAfter.Valid {
		v := thicknessAfter.Float64
		e.ThicknessAfterMM = &v
	}
	if roughnessBefore.Valid {
		v := roughnessBefore.Float64
		e.RoughnessBeforeUM = &v
	}
	if roughnessAfter.Valid {
		v := roughnessAfter.Float64
		e.RoughnessAfterUM = &v
	}

	return e, nil
}
