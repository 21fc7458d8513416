package repository

import (
	"database/sql"
	"time"

	"hullzero/server/core/models"
)

// FoulingEstimateRepository handles persistence of fouling estimates.
type FoulingEstimateRepository struct {
	db *sql.DB
}

// NewFoulingEstimateRepository creates a new fouling estimate repository.
func NewFoulingEstimateRepository(db *sql.DB) *FoulingEstimateRepository {
	return &FoulingEstimateRepository{db: db}
}

// Create stores a fouling estimate in the database.
func (r *FoulingEstimateRepository) Create(e *models.FoulingEstimate) error {
	query := `
		INSERT INTO fouling_estimates (
			id, vessel_id, thickness_mm, roughness_um, severity, confidence,
			fuel_impact_percent, co2_impact_kg_h, physical_mm, ensemble_mm,
			reasoning, estimated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(
		query,
		e.ID,
		e.VesselID,
		e.ThicknessMM,
		e.RoughnessUM,
		e.Severity,
		e.Confidence,
		e.FuelImpactPercent,
		e.CO2ImpactKgH,
		e.PhysicalMM,
		e.EnsembleMM,
		e.Reasoning,
		e.EstimatedAt,
	)
	return err
}

// GetLatest retrieves the most recent estimate for a vessel, or
// sql.ErrNoRows when none exists.
func (r *FoulingEstimateRepository) GetLatest(vesselID string) (*models.FoulingEstimate, error) {
	query := `
		SELECT id, vessel_id, thickness_mm, roughness_um, severity, confidence,
		       fuel_impact_percent, co2_impact_kg_h, physical_mm, ensemble_mm,
		       reasoning, estimated_at
		FROM fouling_estimates
		WHERE vessel_id = ?
		ORDER BY estimated_at DESC
		LIMIT 1
	`

	return scanFoulingEstimate(r.db.QueryRow(query, vesselID))
}

// GetRange retrieves estimates for a vessel within [from, to] ordered by
// estimation time ascending. This is the feed for the anomaly detector.
func (r *FoulingEstimateRepository) GetRange(vesselID string, from, to time.Time) ([]*models.FoulingEstimate, error) {
	query := `
		SELECT id, vessel_id, thickness_mm, roughness_um, severity, confidence,
		       fuel_impact_percent, co2_impact_kg_h, physical_mm, ensemble_mm,
		       reasoning, estimated_at
		FROM fouling_estimates
		WHERE vessel_id = ? AND estimated_at >= ? AND estimated_at <= ?
		ORDER BY estimated_at
	`

	rows, err := r.db.Query(query, vesselID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var estimates []*models.FoulingEstimate
	for rows.Next() {
		e, err := scanFoulingEstimate(rows)
		if err != nil {
			return nil, err
		}
		estimates = append(estimates, e)
	}

	return estimates, rows.Err()
}

// DeleteOlderThan removes estimates older than the specified number of days.
func (r *FoulingEstimateRepository) DeleteOlderThan(days int) (int64, error) {
	query := `DELETE FROM fouling_estimates WHERE estimated_at < datetime('now', '-' || ? || ' days')`
	result, err := r.db.Exec(query, days)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanFoulingEstimate(row rowScanner) (*models.FoulingEstimate, error) {
	e := &models.FoulingEstimate{}
	var ensembleMM sql.NullFloat64

	err := row.Scan(
		&e.ID,
		&e.VesselID,
		&e.ThicknessMM,
		&e.RoughnessUM,
		&e.Severity,
		&e.Confidence,
		&e.FuelImpactPercent,
		&e.CO2ImpactKgH,
		&e.PhysicalMM,
		&ensembleMM,
		&e.Reasoning,
		&e.EstimatedAt,
	)
	if err != nil {
		return nil, err
	}

	if ensembleMM.Valid {
		v := ensembleMM.Float64
		e.EnsembleMM = &v
	}

	return e, nil
}
