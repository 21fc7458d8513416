// Package repository provides the data access layer over sqlite.
package repository

import (
	"database/sql"

	"hullzero/server/core/models"
)

// VesselRepository handles persistence of vessel profiles.
type VesselRepository struct {
	db *sql.DB
}

// NewVesselRepository creates a new vessel repository.
func NewVesselRepository(db *sql.DB) *VesselRepository {
	return &VesselRepository{db: db}
}

// Create stores a vessel profile in the database.
func (r *VesselRepository) Create(v *models.VesselProfile) error {
	query := `
		INSERT INTO vessels (
			id, name, imo, type, length_m, width_m, draft_m, hull_area_m2,
			paint_type, paint_applied_at, typical_speed_kn, engine_power_kw,
			fuel_type, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(
		query,
		v.ID,
		v.Name,
		v.IMO,
		v.Type,
		v.LengthM,
		v.WidthM,
		v.DraftM,
		v.HullAreaM2,
		v.PaintType,
		v.PaintAppliedAt,
		v.TypicalSpeedKn,
		v.EnginePowerKW,
		v.FuelType,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

// Update replaces the mutable fields of an existing vessel profile.
func (r *VesselRepository) Update(v *models.VesselProfile) error {
	query := `
		UPDATE vessels SET
			name = ?, imo = ?, type = ?, length_m = ?, width_m = ?, draft_m = ?,
			hull_area_m2 = ?, paint_type = ?, paint_applied_at = ?,
			typical_speed_kn = ?, engine_power_kw = ?, fuel_type = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(
		query,
		v.Name,
		v.IMO,
		v.Type,
		v.LengthM,
		v.WidthM,
		v.DraftM,
		v.HullAreaM2,
		v.PaintType,
		v.PaintAppliedAt,
		v.TypicalSpeedKn,
		v.EnginePowerKW,
		v.FuelType,
		v.UpdatedAt,
		v.ID,
	)
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

// GetByID retrieves a vessel profile by its id.
func (r *VesselRepository) GetByID(id string) (*models.VesselProfile, error) {
	query := `
		SELECT id, name, imo, type, length_m, width_m, draft_m, hull_area_m2,
		       paint_type, paint_applied_at, typical_speed_kn, engine_power_kw,
		       fuel_type, created_at, updated_at
		FROM vessels
		WHERE id = ?
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByName retrieves a vessel profile by its unique name.
func (r *VesselRepository) GetByName(name string) (*models.VesselProfile, error) {
	query := `
		SELECT id, name, imo, type, length_m, width_m, draft_m, hull_area_m2,
		       paint_type, paint_applied_at, typical_speed_kn, engine_power_kw,
		       fuel_type, created_at, updated_at
		FROM vessels
		WHERE name = ?
	`
	return r.scanOne(r.db.QueryRow(query, name))
}

// List retrieves all registered vessel profiles ordered by name.
func (r *VesselRepository) List() ([]*models.VesselProfile, error) {
	query := `
		SELECT id, name, imo, type, length_m, width_m, draft_m, hull_area_m2,
		       paint_type, paint_applied_at, typical_speed_kn, engine_power_kw,
		       fuel_type, created_at, updated_at
		FROM vessels
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vessels []*models.VesselProfile
	for rows.Next() {
		v, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		vessels = append(vessels, v)
	}

	return vessels, rows.Err()
}

// Delete removes a vessel profile and, via cascading foreign keys, all of
// its dependent records.
func (r *VesselRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM vessels WHERE id = ?`, id)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *VesselRepository) scanOne(row *sql.Row) (*models.VesselProfile, error) {
	return r.scanRow(row)
}

func (r *VesselRepository) scanRow(row rowScanner) (*models.VesselProfile, error) {
	v := &models.VesselProfile{}
	var paintAppliedAt sql.NullTime

	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.IMO,
		&v.Type,
		&v.LengthM,
		&v.WidthM,
		&v.DraftM,
		&v.HullAreaM2,
		&v.PaintType,
		&paintAppliedAt,
		&v.TypicalSpeedKn,
		&v.EnginePowerKW,
		&v.FuelType,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paintAppliedAt.Valid {
		t := paintAppliedAt.Time
		v.PaintAppliedAt = &t
	}

	return v, nil
}
