// Package database provides schema migrations for the HullZero database.
package database

import (
	"log"
)

// migrate runs all database migrations to create the schema.
// Creates tables for vessels, operational samples, maintenance events,
// fouling estimates, conformity statuses, inspections, recommendations
// and event logs.
//
// Returns an error if any migration fails.
func migrate() error {
	migrations := []struct {
		name string
		sql  string
	}{
		{
			name: "create_vessels_table",
			sql: `
CREATE TABLE IF NOT EXISTS vessels (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    imo TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL,
    length_m REAL NOT NULL DEFAULT 0,
    width_m REAL NOT NULL DEFAULT 0,
    draft_m REAL NOT NULL DEFAULT 0,
    hull_area_m2 REAL NOT NULL,
    paint_type TEXT NOT NULL DEFAULT '',
    paint_applied_at TIMESTAMP,
    typical_speed_kn REAL NOT NULL DEFAULT 0,
    engine_power_kw REAL NOT NULL DEFAULT 0,
    fuel_type TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_vessels_name ON vessels(name);
CREATE INDEX IF NOT EXISTS idx_vessels_imo ON vessels(imo);
CREATE INDEX IF NOT EXISTS idx_vessels_type ON vessels(type);
			`,
		},
		{
			name: "create_operational_samples_table",
			sql: `
CREATE TABLE IF NOT EXISTS operational_samples (
    id TEXT PRIMARY KEY,
    vessel_id TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL,
    latitude REAL,
    longitude REAL,
    speed_kn REAL NOT NULL DEFAULT 0,
    fuel_flow_kg_h REAL,
    water_temp_c REAL NOT NULL DEFAULT 0,
    salinity_psu REAL NOT NULL DEFAULT 0,
    wave_height_m REAL NOT NULL DEFAULT 0,
    wind_speed_kn REAL NOT NULL DEFAULT 0,
    load_percent REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (vessel_id) REFERENCES vessels(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_samples_vessel_ts ON operational_samples(vessel_id, timestamp);
			`,
		},
		{
			name: "create_maintenance_events_table",
			sql: `
CREATE TABLE IF NOT EXISTS maintenance_events (
    id TEXT PRIMARY KEY,
    vessel_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    ended_at TIMESTAMP,
    method TEXT NOT NULL DEFAULT '',
    thickness_before_mm REAL,
    thickness_after_mm REAL,
    roughness_before_um REAL,
    roughness_after_um REAL,
    cost REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'planned',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (vessel_id) REFERENCES vessels(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_maintenance_vessel_kind ON maintenance_events(vessel_id, kind);
CREATE INDEX IF NOT EXISTS idx_maintenance_started_at ON maintenance_events(started_at);
			`,
		},
		{
			name: "create_fouling_estimates_table",
			sql: `
CREATE TABLE IF NOT EXISTS fouling_estimates (
    id TEXT PRIMARY KEY,
    vessel_id TEXT NOT NULL,
    thickness_mm REAL NOT NULL,
    roughness_um REAL NOT NULL,
    severity TEXT NOT NULL,
    confidence REAL NOT NULL,
    fuel_impact_percent REAL NOT NULL,
    co2_impact_kg_h REAL NOT NULL,
    physical_mm REAL NOT NULL,
    ensemble_mm REAL,
    reasoning TEXT NOT NULL DEFAULT '',
    estimated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (vessel_id) REFERENCES vessels(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_estimates_vessel_ts ON fouling_estimates(vessel_id, estimated_at);
CREATE INDEX IF NOT EXISTS idx_estimates_severity ON fouling_estimates(severity);
			`,
		},
		{
			name: "create_conformity_statuses_table",
			sql: `
CREATE TABLE IF NOT EXISTS conformity_statuses (
    id TEXT PRIMARY KEY,
    vessel_id TEXT NOT NULL,
    status TEXT NOT NULL,
    thickness_mm REAL NOT NULL,
    roughness_um REAL NOT NULL,
    thickness_limit_mm REAL NOT NULL,
    roughness_limit_um REAL NOT NULL,
    violations TEXT NOT NULL DEFAULT '[]',
    warnings TEXT NOT NULL DEFAULT '[]',
    compliance_score REAL NOT NULL,
    next_inspection_due TIMESTAMP NOT NULL,
    recommendations TEXT NOT NULL DEFAULT '[]',
    checked_at TIMESTAMP NOT NULL,
    FOREIGN KEY (vessel_id) REFERENCES vessels(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_conformity_vessel_ts ON conformity_statuses(vessel_id, checked_at);
CREATE INDEX IF NOT EXISTS idx_conformity_status ON conformity_statuses(status);
			`,
		},
		{
			name: "create_inspections_table",
			sql: `
CREATE TABLE IF NOT EXISTS inspections (
    id TEXT PRIMARY KEY,
    vessel_id TEXT NOT NULL,
    inspected_at TIMESTAMP NOT NULL,
    inspector TEXT NOT NULL DEFAULT '',
    thickness_mm REAL NOT NULL,
    roughness_um REAL NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (vessel_id) REFERENCES vessels(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_inspections_vessel_ts ON inspections(vessel_id, inspected_at);
			`,
		},
		{
			name: "create_recommendations_table",
			sql: `
CREATE TABLE IF NOT EXISTS recommendations (
    id TEXT PRIMARY KEY,
    vessel_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    priority TEXT NOT NULL,
    recommended_date TIMESTAMP NOT NULL,
    estimated_benefit REAL NOT NULL,
    co2_reduction_kg REAL NOT NULL,
    estimated_cost REAL NOT NULL,
    net_benefit REAL NOT NULL,
    conformity_risk REAL NOT NULL,
    reasoning TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (vessel_id) REFERENCES vessels(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_recommendations_vessel ON recommendations(vessel_id, created_at);
CREATE INDEX IF NOT EXISTS idx_recommendations_status ON recommendations(status);
			`,
		},
		{
			name: "create_event_logs_table",
			sql: `
CREATE TABLE IF NOT EXISTS event_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_type TEXT NOT NULL,
    level TEXT NOT NULL,
    vessel_id TEXT,
    message TEXT NOT NULL,
    metadata TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_event_logs_type ON event_logs(event_type);
CREATE INDEX IF NOT EXISTS idx_event_logs_level ON event_logs(level);
CREATE INDEX IF NOT EXISTS idx_event_logs_vessel ON event_logs(vessel_id);
CREATE INDEX IF NOT EXISTS idx_event_logs_created_at ON event_logs(created_at);
			`,
		},
	}

	for _, migration := range migrations {
		log.Printf("Running migration: %s", migration.name)
		if _, err := db.Exec(migration.sql); err != nil {
			log.Printf("Migration failed for %s: %v", migration.name, err)
			return err
		}
		log.Printf("Migration completed: %s", migration.name)
	}

	return nil
}
