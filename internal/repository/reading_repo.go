package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"office_climate/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

const (
	insertReadingSQL  = `INSERT INTO temperature_log (timestamp, temperature) VALUES (?, ?)`
	recentReadingsSQL = `
		SELECT timestamp, temperature
		FROM temperature_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	deleteReadingsSinceSQL = `DELETE FROM temperature_log WHERE timestamp >= ?`
)

// Append inserts a reading. A zero Timestamp is set to now; any other is stored as UTC.
func (r *ReadingSQLite) Append(ctx context.Context, rd models.Reading) error {
	ts := rd.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}
	if _, err := r.db.ExecContext(ctx, insertReadingSQL, ts, rd.Temperature); err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// Recent returns up to limit readings, newest first.
func (r *ReadingSQLite) Recent(ctx context.Context, limit int) ([]models.Reading, error) {
	rows, err := r.db.QueryContext(ctx, recentReadingsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select readings: %w", err)
	}
	defer rows.Close()

	out := make([]models.Reading, 0, limit)
	for rows.Next() {
		var rd models.Reading
		if err := rows.Scan(&rd.Timestamp, &rd.Temperature); err != nil {
			return nil, err
		}
		rd.Timestamp = rd.Timestamp.UTC()
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSince removes readings at or after since and reports how many were removed.
func (r *ReadingSQLite) DeleteSince(ctx context.Context, since time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteReadingsSinceSQL, since.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete readings: %w", err)
	}
	return res.RowsAffected()
}
