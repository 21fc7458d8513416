package repository

import (
	"database/sql"
	"encoding/json"

	"hullzero/server/core/models"
)

// ConformityRepository handles persistence of conformity status snapshots.
// Violation, warning and recommendation lists are stored as JSON text.
type ConformityRepository struct {
	db *sql.DB
}

// NewConformityRepository creates a new conformity status repository.
func NewConformityRepository(db *sql.DB) *ConformityRepository {
	return &ConformityRepository{db: db}
}

// Create stores a conformity status snapshot in the database.
func (r *ConformityRepository) Create(s *models.ConformityStatus) error {
	violations, err := json.Marshal(s.Violations)
	if err != nil {
		return err
	}
	warnings, err := json.Marshal(s.Warnings)
	if err != nil {
		return err
	}
	recommendations, err := json.Marshal(s.Recommendations)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO conformity_statuses (
			id, vessel_id, status, thickness_mm, roughness_um,
			thickness_limit_mm, roughness_limit_um, violations, warnings,
			compliance_score, next_inspection_due, recommendations, checked_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(
		query,
		s.ID,
		s.VesselID,
		s.Status,
		s.ThicknessMM,
		s.RoughnessUM,
		s.ThicknessLimitMM,
		s.RoughnessLimitUM,
		string(violations),
		string(warnings),
		s.ComplianceScore,
		s.NextInspectionDue,
		string(recommendations),
		s.CheckedAt,
	)
	return err
}

// GetLatest retrieves the most recent conformity snapshot for a vessel, or
// sql.ErrNoRows when none exists.
func (r *ConformityRepository) GetLatest(vesselID string) (*models.ConformityStatus, error) {
	query := `
		SELECT id, vessel_id, status, thickness_mm, roughness_um,
		       thickness_limit_mm, roughness_limit_um, violations, warnings,
		       compliance_score, next_inspection_due, recommendations, checked_at
		FROM conformity_statuses
		WHERE vessel_id = ?
		ORDER BY checked_at DESC
		LIMIT 1
	`

	return scanConformityStatus(r.db.QueryRow(query, vesselID))
}

// ListByStatus retrieves the latest snapshot per vessel filtered to the
// given status. Used by the fleet summary.
func (r *ConformityRepository) ListByStatus(status string, limit int) ([]*models.ConformityStatus, error) {
	query := `
		SELECT c.id, c.vessel_id, c.status, c.thickness_mm, c.roughness_um,
		       c.thickness_limit_mm, c.roughness_limit_um, c.violations, c.warnings,
		       c.compliance_score, c.next_inspection_due, c.recommendations, c.checked_at
		FROM conformity_statuses c
		INNER JOIN (
			SELECT vessel_id, MAX(checked_at) AS latest
			FROM conformity_statuses
			GROUP BY vessel_id
		) m ON c.vessel_id = m.vessel_id AND c.checked_at = m.latest
		WHERE c.status = ?
		ORDER BY c.checked_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*models.ConformityStatus
	for rows.Next() {
		s, err := scanConformityStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}

	return statuses, rows.Err()
}

func scanConformityStatus(row rowScanner) (*models.ConformityStatus, error) {
	s := &models.ConformityStatus{}
	var violations, warnings, recommendations string

	err := row.Scan(
		&s.ID,
		&s.VesselID,
		&s.Status,
		&s.ThicknessMM,
		&s.RoughnessUM,
		&s.ThicknessLimitMM,
		&s.RoughnessLimitUM,
		&violations,
		&warnings,
		&s.ComplianceScore,
		&s.NextInspectionDue,
		&recommendations,
		&s.CheckedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(violations), &s.Violations); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(warnings), &s.Warnings); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(recommendations), &s.Recommendations); err != nil {
		return nil, err
	}

	return s, nil
}
