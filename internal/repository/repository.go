package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"office_climate/internal/models"
)

var (
	// ErrSchemaNotFound is returned when a schema id does not exist.
	ErrSchemaNotFound = errors.New("schema not found")
	// ErrDuplicateSchemaName is returned when a schema name collides (case-insensitive).
	ErrDuplicateSchemaName = errors.New("schema with this name already exists")
)

// SettingsRepo owns the global default target temperature.
type SettingsRepo interface {
	GetBaseTargetTemperature(ctx context.Context) (float64, error)
	SetBaseTargetTemperature(ctx context.Context, value float64) error
}

// SchemaRepo owns schemas, their intervals and the single active flag.
type SchemaRepo interface {
	List(ctx context.Context) ([]models.Schema, error)
	GetByID(ctx context.Context, id int64) (*models.SchemaWithIntervals, error)
	GetActive(ctx context.Context) (*models.SchemaWithIntervals, error)
	Create(ctx context.Context, in models.SchemaInput) (*models.SchemaWithIntervals, error)
	Update(ctx context.Context, id int64, in models.SchemaInput) (*models.SchemaWithIntervals, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SetActive(ctx context.Context, id *int64) error
}

// ReadingRepo is the append-only indoor temperature log.
type ReadingRepo interface {
	Append(ctx context.Context, r models.Reading) error
	Recent(ctx context.Context, limit int) ([]models.Reading, error)
	DeleteSince(ctx context.Context, since time.Time) (int64, error)
}

// EventRepo is the append-only audit log.
type EventRepo interface {
	Append(ctx context.Context, e models.Event) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.Event, error)
}

// WeatherRepo stores the weather location, forecast cache and outdoor temperature log.
type WeatherRepo interface {
	GetSettings(ctx context.Context) (models.WeatherSettings, error)
	SetSettings(ctx context.Context, s models.WeatherSettings) error
	GetForecastCache(ctx context.Context) (*models.ForecastCache, error)
	SetForecastCache(ctx context.Context, c models.ForecastCache) error
	ClearForecastCache(ctx context.Context) error
	AppendObservation(ctx context.Context, o models.WeatherObservation) error
	RecentObservations(ctx context.Context, limit int) ([]models.WeatherObservation, error)
	DeleteObservationsSince(ctx context.Context, since time.Time) (int64, error)
}

type Repository struct {
	Settings SettingsRepo
	Schemas  SchemaRepo
	Readings ReadingRepo
	Events   EventRepo
	Weather  WeatherRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Settings: NewSettingsSQLite(db),
		Schemas:  NewSchemaSQLite(db),
		Readings: NewReadingSQLite(db),
		Events:   NewEventSQLite(db),
		Weather:  NewWeatherSQLite(db),
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
