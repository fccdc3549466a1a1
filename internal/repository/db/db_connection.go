package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db folder %q: %w", dir, err)
		}
	}

	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// A single connection serializes writers, so every transaction below is
	// also the only thing touching the file while it runs.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaSettings = `
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    target_temperature REAL NOT NULL
);
`

const schemaTemperatureLog = `
CREATE TABLE IF NOT EXISTS temperature_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TIMESTAMP NOT NULL,
    temperature REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_temperature_log_timestamp ON temperature_log(timestamp);
`

const schemaSchemas = `
CREATE TABLE IF NOT EXISTS schemas (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL UNIQUE,
    description TEXT,
    in_office_temp REAL NOT NULL,
    out_of_office_temp REAL NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_schemas_single_active ON schemas(is_active) WHERE is_active = 1;
`

const schemaIntervals = `
CREATE TABLE IF NOT EXISTS schema_intervals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    schema_id INTEGER NOT NULL REFERENCES schemas(id) ON DELETE CASCADE,
    day_of_week INTEGER NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
    start_time_minutes INTEGER NOT NULL CHECK (start_time_minutes BETWEEN 0 AND 1439),
    end_time_minutes INTEGER NOT NULL CHECK (end_time_minutes BETWEEN 1 AND 1440),
    CHECK (end_time_minutes > start_time_minutes)
);
CREATE INDEX IF NOT EXISTS idx_schema_intervals_schema ON schema_intervals(schema_id);
`

const schemaEvents = `
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaWeather = `
CREATE TABLE IF NOT EXISTS weather_settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    lat REAL NOT NULL,
    lon REAL NOT NULL,
    label TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS weather_forecast_cache (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    updated_at TIMESTAMP NOT NULL,
    payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS weather_current_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TIMESTAMP NOT NULL,
    temperature REAL NOT NULL,
    weather_code INTEGER
);
`

const seedRows = `
INSERT OR IGNORE INTO settings (id, target_temperature) VALUES (1, 22.0);
INSERT OR IGNORE INTO weather_settings (id, lat, lon, label) VALUES (1, 52.2297, 21.0122, 'Office');
`

// EnsureSchema applies the DDL and seed rows in one transaction.
func EnsureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaSettings,
		schemaTemperatureLog,
		schemaSchemas,
		schemaIntervals,
		schemaEvents,
		schemaWeather,
		seedRows,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
