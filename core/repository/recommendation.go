package repository

import (
	"database/sql"

	"hullzero/server/core/models"
)

// RecommendationRepository handles persistence of cleaning recommendations.
type RecommendationRepository struct {
	db *sql.DB
}

// NewRecommendationRepository creates a new recommendation repository.
func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Create stores a recommendation in the database. Candidate evaluations
// are transient decision detail and are not persisted.
func (r *RecommendationRepository) Create(rec *models.Recommendation) error {
	query := `
		INSERT INTO recommendations (
			id, vessel_id, kind, priority, recommended_date,
			estimated_benefit, co2_reduction_kg, estimated_cost, net_benefit,
			conformity_risk, reasoning, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(
		query,
		rec.ID,
		rec.VesselID,
		rec.Kind,
		rec.Priority,
		rec.RecommendedDate,
		rec.EstimatedBenefit,
		rec.CO2ReductionKg,
		rec.EstimatedCost,
		rec.NetBenefit,
		rec.ConformityRisk,
		rec.Reasoning,
		rec.Status,
		rec.CreatedAt,
	)
	return err
}

// UpdateStatus transitions the decision status of a recommendation.
func (r *RecommendationRepository) UpdateStatus(id, status string) error {
	result, err := r.db.Exec(`UPDATE recommendations SET status = ? WHERE id = ?`, status, id)
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

// GetByVessel retrieves recommendations for a vessel ordered by creation
// time descending.
func (r *RecommendationRepository) GetByVessel(vesselID string, limit int) ([]*models.Recommendation, error) {
	query := `
		SELECT id, vessel_id, kind, priority, recommended_date,
		       estimated_benefit, co2_reduction_kg, estimated_cost, net_benefit,
		       conformity_risk, reasoning, status, created_at
		FROM recommendations
		WHERE vessel_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, vesselID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecommendations(rows)
}

// GetPending retrieves pending recommendations across the fleet ordered by
// creation time descending.
func (r *RecommendationRepository) GetPending(limit int) ([]*models.Recommendation, error) {
	query := `
		SELECT id, vessel_id, kind, priority, recommended_date,
		       estimated_benefit, co2_reduction_kg, estimated_cost, net_benefit,
		       conformity_risk, reasoning, status, created_at
		FROM recommendations
		WHERE status = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, models.RecommendationPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecommendations(rows)
}

func scanRecommendations(rows *sql.Rows) ([]*models.Recommendation, error) {
	var recs []*models.Recommendation
	for rows.Next() {
		rec := &models.Recommendation{}
		err := rows.Scan(
			&rec.ID,
			&rec.VesselID,
			&rec.Kind,
			&rec.Priority,
			&rec.RecommendedDate,
			&rec.EstimatedBenefit,
			&rec.CO2ReductionKg,
			&rec.EstimatedCost,
			&rec.NetBenefit,
			&rec.ConformityRisk,
			&rec.Reasoning,
			&rec.Status,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
