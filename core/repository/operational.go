package repository

import (
	"database/sql"
	"time"

	"hullzero/server/core/models"
)

// OperationalSampleRepository handles persistence of operational samples.
type OperationalSampleRepository struct {
	db *sql.DB
}

// NewOperationalSampleRepository creates a new operational sample repository.
func NewOperationalSampleRepository(db *sql.DB) *OperationalSampleRepository {
	return &OperationalSampleRepository{db: db}
}

// Create stores an operational sample in the database.
func (r *OperationalSampleRepository) Create(s *models.OperationalSample) error {
	query := `
		INSERT INTO operational_samples (
			id, vessel_id, timestamp, latitude, longitude, speed_kn,
			fuel_flow_kg_h, water_temp_c, salinity_psu, wave_height_m,
			wind_speed_kn, load_percent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(
		query,
		s.ID,
		s.VesselID,
		s.Timestamp,
		s.Latitude,
		s.Longitude,
		s.SpeedKn,
		s.FuelFlowKgH,
		s.WaterTempC,
		s.SalinityPSU,
		s.WaveHeightM,
		s.WindSpeedKn,
		s.LoadPercent,
		s.CreatedAt,
	)
	return err
}

// CreateBatch stores a batch of operational samples in a single transaction.
func (r *OperationalSampleRepository) CreateBatch(samples []*models.OperationalSample) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO operational_samples (
			id, vessel_id, timestamp, latitude, longitude, speed_kn,
			fuel_flow_kg_h, water_temp_c, salinity_psu, wave_height_m,
			wind_speed_kn, load_percent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, s := range samples {
		_, err := stmt.Exec(
			s.ID, s.VesselID, s.Timestamp, s.Latitude, s.Longitude,
			s.SpeedKn, s.FuelFlowKgH, s.WaterTempC, s.SalinityPSU,
			s.WaveHeightM, s.WindSpeedKn, s.LoadPercent, s.CreatedAt,
		)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// GetRange retrieves samples for a vessel within [from, to] ordered by
// timestamp ascending.
func (r *OperationalSampleRepository) GetRange(vesselID string, from, to time.Time) ([]*models.OperationalSample, error) {
	query := `
		SELECT id, vessel_id, timestamp, latitude, longitude, speed_kn,
		       fuel_flow_kg_h, water_temp_c, salinity_psu, wave_height_m,
		       wind_speed_kn, load_percent, created_at
		FROM operational_samples
		WHERE vessel_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp
	`

	rows, err := r.db.Query(query, vesselID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetRecent retrieves the most recent samples for a vessel ordered by
// timestamp descending.
func (r *OperationalSampleRepository) GetRecent(vesselID string, limit int) ([]*models.OperationalSample, error) {
	query := `
		SELECT id, vessel_id, timestamp, latitude, longitude, speed_kn,
		       fuel_flow_kg_h, water_temp_c, salinity_psu, wave_height_m,
		       wind_speed_kn, load_percent, created_at
		FROM operational_samples
		WHERE vessel_id = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, vesselID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetLatest retrieves the single most recent sample for a vessel.
func (r *OperationalSampleRepository) GetLatest(vesselID string) (*models.OperationalSample, error) {
	query := `
		SELECT id, vessel_id, timestamp, latitude, longitude, speed_kn,
		       fuel_flow_kg_h, water_temp_c, salinity_psu, wave_height_m,
		       wind_speed_kn, load_percent, created_at
		FROM operational_samples
		WHERE vessel_id = ?
		ORDER BY timestamp DESC
		LIMIT 1
	`

	return scanSample(r.db.QueryRow(query, vesselID))
}

func scanSamples(rows *sql.Rows) ([]*models.OperationalSample, error) {
	var samples []*models.OperationalSample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func scanSample(row rowScanner) (*models.OperationalSample, error) {
	s := &models.OperationalSample{}
	var lat, lon, fuelFlow sql.NullFloat64

	err := row.Scan(
		&s.ID,
		&s.VesselID,
		&s.Timestamp,
		&lat,
		&lon,
		&s.SpeedKn,
		&fuelFlow,
		&s.WaterTempC,
		&s.SalinityPSU,
		&s.WaveHeightM,
		&s.WindSpeedKn,
		&s.LoadPercent,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid {
		v := lat.Float64
		s.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		s.Longitude = &v
	}
	if fuelFlow.Valid {
		v := fuelFlow.Float64
		s.FuelFlowKgH = &v
	}

	return s, nil
}
