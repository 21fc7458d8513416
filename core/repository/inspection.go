package repository

import (
	"database/sql"

	"hullzero/server/core/models"
)

// InspectionRepository handles persistence of hull inspection records.
type InspectionRepository struct {
	db *sql.DB
}

// NewInspectionRepository creates a new inspection repository.
func NewInspectionRepository(db *sql.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// Create stores an inspection record in the database.
func (r *InspectionRepository) Create(i *models.InspectionRecord) error {
	query := `
		INSERT INTO inspections (
			id, vessel_id, inspected_at, inspector, thickness_mm,
			roughness_um, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(
		query,
		i.ID,
		i.VesselID,
		i.InspectedAt,
		i.Inspector,
		i.ThicknessMM,
		i.RoughnessUM,
		i.Notes,
		i.CreatedAt,
	)
	return err
}

// GetLatest retrieves the most recent inspection for a vessel, or
// sql.ErrNoRows when the vessel has never been inspected.
func (r *InspectionRepository) GetLatest(vesselID string) (*models.InspectionRecord, error) {
	query := `
		SELECT id, vessel_id, inspected_at, inspector, thickness_mm,
		       roughness_um, notes, created_at
		FROM inspections
		WHERE vessel_id = ?
		ORDER BY inspected_at DESC
		LIMIT 1
	`

	return scanInspection(r.db.QueryRow(query, vesselID))
}

// GetByVessel retrieves inspections for a vessel ordered by inspection
// time descending.
func (r *InspectionRepository) GetByVessel(vesselID string, limit int) ([]*models.InspectionRecord, error) {
	query := `
		SELECT id, vessel_id, inspected_at, inspector, thickness_mm,
		       roughness_um, notes, created_at
		FROM inspections
		WHERE vessel_id = ?
		ORDER BY inspected_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, vesselID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []*models.InspectionRecord
	for rows.Next() {
		i, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		inspections = append(inspections, i)
	}

	return inspections, rows.Err()
}

func scanInspection(row rowScanner) (*models.InspectionRecord, error) {
	i := &models.InspectionRecord{}

	err := row.Scan(
		&i.ID,
		&i.VesselID,
		&i.InspectedAt,
		&i.Inspector,
		&i.ThicknessMM,
		&i.RoughnessUM,
		&i.Notes,
		&i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return i, nil
}
