package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"office_climate/internal/logger"
	"office_climate/internal/models"
	"office_climate/internal/repository"
)

var (
	// ErrWeatherUnavailable is returned when no forecast can be fetched and nothing is cached.
	ErrWeatherUnavailable = errors.New("weather forecast unavailable")
	ErrInvalidCoordinates = errors.New("lat must be in [-90,90] and lon in [-180,180]")
)

const (
	DefaultWeatherLabel   = "Custom location"
	DefaultWeatherTTL     = 30 * time.Minute
	MaxWeatherHistory     = 500
	defaultWeatherHistory = 500
)

// ForecastFetcher downloads a raw forecast payload for a location.
type ForecastFetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (json.RawMessage, error)
}

// Forecast is the client-facing forecast envelope.
type Forecast struct {
	Label     string          `json:"label"`
	Lat       float64         `json:"lat"`
	Lon       float64         `json:"lon"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Stale     bool            `json:"stale"`
	Current   json.RawMessage `json:"current"`
	Daily     json.RawMessage `json:"daily"`
}

type forecastPayload struct {
	Current json.RawMessage `json:"current"`
	Daily   json.RawMessage `json:"daily"`
}

type currentConditions struct {
	Temperature *float64 `json:"temperature_2m"`
	WeatherCode *int     `json:"weather_code"`
}

type WeatherService struct {
	repo    repository.WeatherRepo
	fetcher ForecastFetcher
	ttl     time.Duration
	log     *logger.Logger
	now     func() time.Time
}

func NewWeatherService(repo repository.WeatherRepo, fetcher ForecastFetcher, ttl time.Duration, log *logger.Logger) *WeatherService {
	if ttl <= 0 {
		ttl = DefaultWeatherTTL
	}
	return &WeatherService{repo: repo, fetcher: fetcher, ttl: ttl, log: log, now: time.Now}
}

func (s *WeatherService) WeatherSettings(ctx context.Context) (models.WeatherSettings, error) {
	return s.repo.GetSettings(ctx)
}

// UpdateWeatherSettings stores a new location and drops the cached forecast.
func (s *WeatherService) UpdateWeatherSettings(ctx context.Context, in models.WeatherSettings) (models.WeatherSettings, error) {
	if !validCoordinate(in.Lat, 90) || !validCoordinate(in.Lon, 180) {
		return models.WeatherSettings{}, fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidCoordinates)
	}
	in.Label = strings.TrimSpace(in.Label)
	if in.Label == "" {
		in.Label = DefaultWeatherLabel
	}

	if err := s.repo.SetSettings(ctx, in); err != nil {
		return models.WeatherSettings{}, err
	}
	if err := s.repo.ClearForecastCache(ctx); err != nil {
		return models.WeatherSettings{}, err
	}
	return in, nil
}

func validCoordinate(v, limit float64) bool {
	return isFinite(v) && math.Abs(v) <= limit
}

// Forecast serves the cached forecast while it is younger than the TTL.
func (s *WeatherService) Forecast(ctx context.Context) (Forecast, error) {
	return s.forecast(ctx, false)
}

// RefreshForecast bypasses the cache.
func (s *WeatherService) RefreshForecast(ctx context.Context) (Forecast, error) {
	return s.forecast(ctx, true)
}

func (s *WeatherService) forecast(ctx context.Context, force bool) (Forecast, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return Forecast{}, err
	}
	cached, err := s.repo.GetForecastCache(ctx)
	if err != nil {
		return Forecast{}, err
	}
	now := s.now().UTC()
	if !force && cached != nil && now.Sub(cached.UpdatedAt) < s.ttl {
		return buildForecast(settings, *cached, false)
	}

	if s.fetcher == nil {
		return s.fallback(settings, cached, errors.New("weather fetching disabled"))
	}
	payload, err := s.fetcher.Fetch(ctx, settings.Lat, settings.Lon)
	if err != nil {
		return s.fallback(settings, cached, err)
	}

	fresh := models.ForecastCache{UpdatedAt: now, Payload: payload}
	if err := s.repo.SetForecastCache(ctx, fresh); err != nil {
		return Forecast{}, err
	}
	s.logObservation(ctx, fresh)
	return buildForecast(settings, fresh, false)
}

func (s *WeatherService) fallback(settings models.WeatherSettings, cached *models.ForecastCache, cause error) (Forecast, error) {
	if s.log != nil {
		s.log.Warnw("weather_fetch_failed", "err", cause, "stale_cache", cached != nil)
	}
	if cached == nil {
		return Forecast{}, fmt.Errorf("%w: %w", ErrWeatherUnavailable, cause)
	}
	return buildForecast(settings, *cached, true)
}

// logObservation appends the current outdoor temperature; a payload without one is skipped.
func (s *WeatherService) logObservation(ctx context.Context, c models.ForecastCache) {
	var p forecastPayload
	if err := json.Unmarshal(c.Payload, &p); err != nil || len(p.Current) == 0 {
		return
	}
	var cur currentConditions
	if err := json.Unmarshal(p.Current, &cur); err != nil || cur.Temperature == nil {
		return
	}
	obs := models.WeatherObservation{Timestamp: c.UpdatedAt, Temperature: *cur.Temperature, WeatherCode: cur.WeatherCode}
	if err := s.repo.AppendObservation(ctx, obs); err != nil && s.log != nil {
		s.log.Warnw("weather_observation_failed", "err", err)
	}
}

func buildForecast(settings models.WeatherSettings, c models.ForecastCache, stale bool) (Forecast, error) {
	var p forecastPayload
	if err := json.Unmarshal(c.Payload, &p); err != nil {
		return Forecast{}, fmt.Errorf("decode cached forecast: %w", err)
	}
	return Forecast{
		Label:     settings.Label,
		Lat:       settings.Lat,
		Lon:       settings.Lon,
		UpdatedAt: c.UpdatedAt,
		Stale:     stale,
		Current:   p.Current,
		Daily:     p.Daily,
	}, nil
}

// WeatherHistory returns logged outdoor temperatures, newest first.
func (s *WeatherService) WeatherHistory(ctx context.Context, limit int) ([]models.WeatherObservation, error) {
	return s.repo.RecentObservations(ctx, ClampLimit(limit, defaultWeatherHistory, MaxWeatherHistory))
}
