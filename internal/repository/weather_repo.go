package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"office_climate/internal/models"
)

type WeatherSQLite struct {
	db *sql.DB
}

func NewWeatherSQLite(db *sql.DB) *WeatherSQLite { return &WeatherSQLite{db: db} }

const (
	weatherRowID = 1

	selectWeatherSettingsSQL = `SELECT lat, lon, label FROM weather_settings WHERE id = ?`
	upsertWeatherSettingsSQL = `
		INSERT INTO weather_settings (id, lat, lon, label) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET lat = excluded.lat, lon = excluded.lon, label = excluded.label
	`
	selectForecastCacheSQL = `SELECT updated_at, payload FROM weather_forecast_cache WHERE id = ?`
	upsertForecastCacheSQL = `INSERT OR REPLACE INTO weather_forecast_cache (id, updated_at, payload) VALUES (?, ?, ?)`
	deleteForecastCacheSQL = `DELETE FROM weather_forecast_cache WHERE id = ?`
	insertObservationSQL   = `INSERT INTO weather_current_log (timestamp, temperature, weather_code) VALUES (?, ?, ?)`
	recentObservationsSQL  = `
		SELECT timestamp, temperature, weather_code
		FROM weather_current_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	deleteObservationsSinceSQL = `DELETE FROM weather_current_log WHERE timestamp >= ?`
)

// GetSettings returns the weather location row.
func (r *WeatherSQLite) GetSettings(ctx context.Context) (models.WeatherSettings, error) {
	var s models.WeatherSettings
	err := r.db.QueryRowContext(ctx, selectWeatherSettingsSQL, weatherRowID).Scan(&s.Lat, &s.Lon, &s.Label)
	if err != nil {
		return models.WeatherSettings{}, fmt.Errorf("select weather settings: %w", err)
	}
	return s, nil
}

// SetSettings stores the weather location.
func (r *WeatherSQLite) SetSettings(ctx context.Context, s models.WeatherSettings) error {
	if _, err := r.db.ExecContext(ctx, upsertWeatherSettingsSQL, weatherRowID, s.Lat, s.Lon, s.Label); err != nil {
		return fmt.Errorf("update weather settings: %w", err)
	}
	return nil
}

// GetForecastCache returns the cached forecast, or (nil, nil) when nothing is cached.
func (r *WeatherSQLite) GetForecastCache(ctx context.Context) (*models.ForecastCache, error) {
	var (
		c       models.ForecastCache
		payload string
	)
	err := r.db.QueryRowContext(ctx, selectForecastCacheSQL, weatherRowID).Scan(&c.UpdatedAt, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select forecast cache: %w", err)
	}
	c.UpdatedAt = c.UpdatedAt.UTC()
	c.Payload = json.RawMessage(payload)
	return &c, nil
}

// SetForecastCache replaces the cached forecast.
func (r *WeatherSQLite) SetForecastCache(ctx context.Context, c models.ForecastCache) error {
	ts := c.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	if _, err := r.db.ExecContext(ctx, upsertForecastCacheSQL, weatherRowID, ts.UTC(), string(c.Payload)); err != nil {
		return fmt.Errorf("update forecast cache: %w", err)
	}
	return nil
}

// ClearForecastCache drops the cached forecast.
func (r *WeatherSQLite) ClearForecastCache(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deleteForecastCacheSQL, weatherRowID); err != nil {
		return fmt.Errorf("delete forecast cache: %w", err)
	}
	return nil
}

// AppendObservation logs an outdoor temperature.
func (r *WeatherSQLite) AppendObservation(ctx context.Context, o models.WeatherObservation) error {
	ts := o.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	if _, err := r.db.ExecContext(ctx, insertObservationSQL, ts.UTC(), o.Temperature, o.WeatherCode); err != nil {
		return fmt.Errorf("insert weather observation: %w", err)
	}
	return nil
}

// RecentObservations returns up to limit outdoor observations, newest first.
func (r *WeatherSQLite) RecentObservations(ctx context.Context, limit int) ([]models.WeatherObservation, error) {
	rows, err := r.db.QueryContext(ctx, recentObservationsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select weather observations: %w", err)
	}
	defer rows.Close()

	out := make([]models.WeatherObservation, 0, limit)
	for rows.Next() {
		var (
			o    models.WeatherObservation
			code sql.NullInt64
		)
		if err := rows.Scan(&o.Timestamp, &o.Temperature, &code); err != nil {
			return nil, err
		}
		o.Timestamp = o.Timestamp.UTC()
		if code.Valid {
			c := int(code.Int64)
			o.WeatherCode = &c
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteObservationsSince removes outdoor observations at or after since.
func (r *WeatherSQLite) DeleteObservationsSince(ctx context.Context, since time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteObservationsSinceSQL, since.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete weather observations: %w", err)
	}
	return res.RowsAffected()
}
