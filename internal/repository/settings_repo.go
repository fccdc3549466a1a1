package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite {
	return &SettingsSQLite{db: db}
}

// the settings table always holds exactly one row, id=1
const (
	settingsRowID = 1

	selectTargetSQL = `SELECT target_temperature FROM settings WHERE id = ?`
	upsertTargetSQL = `
		INSERT INTO settings (id, target_temperature) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET target_temperature = excluded.target_temperature
	`
)

// GetBaseTargetTemperature returns the global default target.
func (r *SettingsSQLite) GetBaseTargetTemperature(ctx context.Context) (float64, error) {
	var v float64
	if err := r.db.QueryRowContext(ctx, selectTargetSQL, settingsRowID).Scan(&v); err != nil {
		return 0, fmt.Errorf("select target temperature: %w", err)
	}
	return v, nil
}

// SetBaseTargetTemperature stores the global default target.
func (r *SettingsSQLite) SetBaseTargetTemperature(ctx context.Context, value float64) error {
	if _, err := r.db.ExecContext(ctx, upsertTargetSQL, settingsRowID, value); err != nil {
		return fmt.Errorf("update target temperature: %w", err)
	}
	return nil
}
