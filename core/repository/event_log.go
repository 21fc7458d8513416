// Package repository provides the data access layer over sqlite.
package repository

import (
	"database/sql"

	"hullzero/server/core/models"
)

// EventLogRepository persists the operator audit trail. Entries are
// deliberately not foreign-keyed to vessels: the trail must survive a
// vessel's deletion.
type EventLogRepository struct {
	db *sql.DB
}

// NewEventLogRepository creates a new event log repository.
func NewEventLogRepository(db *sql.DB) *EventLogRepository {
	return &EventLogRepository{db: db}
}

// EventFilter narrows a List call. Zero-value fields are unconstrained.
type EventFilter struct {
	EventType string
	VesselID  string
	Limit     int
}

// Create stores an audit-trail entry and backfills its assigned ID.
func (r *EventLogRepository) Create(entry *models.EventLog) error {
	query := `
		INSERT INTO event_logs (event_type, level, vessel_id, message, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(
		query,
		entry.EventType,
		entry.Level,
		nullable(entry.VesselID),
		entry.Message,
		nullable(entry.Metadata),
		entry.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id

	return nil
}

// List retrieves audit-trail entries, newest first, narrowed by the
// filter's event type and vessel.
func (r *EventLogRepository) List(f EventFilter) ([]*models.EventLog, error) {
	query := `
		SELECT id, event_type, level, vessel_id, message, metadata, created_at
		FROM event_logs
		WHERE (? = '' OR event_type = ?)
		  AND (? = '' OR vessel_id = ?)
		ORDER BY created_at DESC
		LIMIT ?
	`
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(query, f.EventType, f.EventType, f.VesselID, f.VesselID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.EventLog
	for rows.Next() {
		entry := &models.EventLog{}
		var vesselID, metadata sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.EventType,
			&entry.Level,
			&vesselID,
			&entry.Message,
			&metadata,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		entry.VesselID = vesselID.String
		entry.Metadata = metadata.String

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// DeleteOlderThan removes audit-trail entries older than the given number
// of days.
func (r *EventLogRepository) DeleteOlderThan(days int) (int64, error) {
	query := `DELETE FROM event_logs WHERE created_at < datetime('now', '-' || ? || ' days')`
	result, err := r.db.Exec(query, days)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
