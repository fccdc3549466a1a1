package service

import (
	"context"
	"time"

	"office_climate/internal/logger"
	"office_climate/internal/models"
	"office_climate/internal/repository"
)

// Targets resolves and edits the temperature in force.
type Targets interface {
	Effective(ctx context.Context, now time.Time) (models.EffectiveTarget, error)
	Default(ctx context.Context) (float64, error)
	SetDefault(ctx context.Context, value float64) error
}

// Readings owns the indoor temperature log.
type Readings interface {
	Log(ctx context.Context, temperature float64) error
	History(ctx context.Context, limit int) ([]models.Reading, error)
	Latest(ctx context.Context) (*models.Reading, error)
	Status(ctx context.Context, now time.Time) (models.Status, error)
}

// Schemas exposes weekly schedule CRUD and the active-schema switch.
type Schemas interface {
	ListSchemas(ctx context.Context) ([]models.Schema, error)
	GetSchema(ctx context.Context, id int64) (*models.SchemaWithIntervals, error)
	CreateSchema(ctx context.Context, in models.SchemaInput) (*models.SchemaWithIntervals, error)
	UpdateSchema(ctx context.Context, id int64, in models.SchemaInput) (*models.SchemaWithIntervals, error)
	DeleteSchema(ctx context.Context, id int64) error
	ActiveSchema(ctx context.Context) (*models.SchemaWithIntervals, error)
	SetActiveSchema(ctx context.Context, id *int64) error
}

// Power derives the socket on/off recommendation.
type Power interface {
	Recommend(ctx context.Context, now time.Time) (models.PowerRecommendation, error)
}

// EventLog exposes append-only audit logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Event, error)
}

// Publisher runs the background loop that pushes recommendations to the socket.
// Stop via context cancellation in main() for graceful shutdown.
type Publisher interface {
	Run(ctx context.Context, tick time.Duration)
}

// Weather exposes the outdoor weather location, forecast and log.
type Weather interface {
	WeatherSettings(ctx context.Context) (models.WeatherSettings, error)
	UpdateWeatherSettings(ctx context.Context, s models.WeatherSettings) (models.WeatherSettings, error)
	Forecast(ctx context.Context) (Forecast, error)
	RefreshForecast(ctx context.Context) (Forecast, error)
	WeatherHistory(ctx context.Context, limit int) ([]models.WeatherObservation, error)
}

// Service aggregates all sub-services.
type Service struct {
	Targets
	Readings
	Schemas
	Power
	EventLog
	Publisher
	Weather
}

// Options carries the collaborators that do not live in the repository layer.
// Nil members fall back to no-op implementations.
type Options struct {
	Log            *logger.Logger
	Sink           PowerSink
	Recorder       Recorder
	Fetcher        ForecastFetcher
	WeatherTTL     time.Duration
	HistoryDefault int
	HistoryMax     int
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	targets := NewTargetService(repos.Settings, repos.Schemas, repos.Events, opts.Log)
	readings := NewReadingService(repos.Readings, targets, opts.HistoryDefault, opts.HistoryMax)
	power := NewPowerService(repos.Readings, targets)
	return &Service{
		Targets:   targets,
		Readings:  readings,
		Schemas:   NewSchemaService(repos.Schemas, repos.Events, opts.Log),
		Power:     power,
		EventLog:  NewEventLogService(repos.Events),
		Publisher: NewPublisherService(power, repos.Events, opts.Sink, opts.Recorder, opts.Log),
		Weather:   NewWeatherService(repos.Weather, opts.Fetcher, opts.WeatherTTL, opts.Log),
	}
}
