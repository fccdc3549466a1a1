package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office_climate/internal/models"
)

const samplePayload = `{
	"current": {"time": "2024-01-01T09:00", "temperature_2m": 3.4, "weather_code": 61},
	"daily": {"time": ["2024-01-01"], "weather_code": [61], "temperature_2m_max": [5.1], "temperature_2m_min": [-1.2]}
}`

func newWeather(repo *fakeWeatherRepo, fetcher ForecastFetcher, now time.Time) *WeatherService {
	svc := NewWeatherService(repo, fetcher, 30*time.Minute, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func officeLocation() models.WeatherSettings {
	return models.WeatherSettings{Lat: 52.2297, Lon: 21.0122, Label: "Office"}
}

func TestWeatherService_ForecastFetchesCachesAndLogs(t *testing.T) {
	t.Parallel()

	repo := &fakeWeatherRepo{settings: officeLocation()}
	fetcher := &fakeFetcher{payload: json.RawMessage(samplePayload)}
	svc := newWeather(repo, fetcher, monday09)

	fc, err := svc.Forecast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Office", fc.Label)
	assert.Equal(t, monday09, fc.UpdatedAt)
	assert.False(t, fc.Stale)
	assert.JSONEq(t, `{"time": "2024-01-01T09:00", "temperature_2m": 3.4, "weather_code": 61}`, string(fc.Current))
	assert.NotEmpty(t, fc.Daily)

	require.NotNil(t, repo.cache)
	require.Len(t, repo.observations, 1)
	assert.Equal(t, 3.4, repo.observations[0].Temperature)
	require.NotNil(t, repo.observations[0].WeatherCode)
	assert.Equal(t, 61, *repo.observations[0].WeatherCode)

	// within TTL the cache is served
	_, err = svc.Forecast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	// refresh always fetches
	_, err = svc.RefreshForecast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestWeatherService_ExpiredCacheIsRefetched(t *testing.T) {
	t.Parallel()

	repo := &fakeWeatherRepo{
		settings: officeLocation(),
		cache:    &models.ForecastCache{UpdatedAt: monday09.Add(-time.Hour), Payload: json.RawMessage(samplePayload)},
	}
	fetcher := &fakeFetcher{payload: json.RawMessage(samplePayload)}

	fc, err := newWeather(repo, fetcher, monday09).Forecast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, monday09, fc.UpdatedAt)
}

func TestWeatherService_FetchFailureServesStaleCache(t *testing.T) {
	t.Parallel()

	stale := monday09.Add(-2 * time.Hour)
	repo := &fakeWeatherRepo{
		settings: officeLocation(),
		cache:    &models.ForecastCache{UpdatedAt: stale, Payload: json.RawMessage(samplePayload)},
	}
	fc, err := newWeather(repo, &fakeFetcher{err: errors.New("timeout")}, monday09).Forecast(context.Background())
	require.NoError(t, err)
	assert.True(t, fc.Stale)
	assert.Equal(t, stale, fc.UpdatedAt)
	assert.Empty(t, repo.observations)
}

func TestWeatherService_FetchFailureWithoutCache(t *testing.T) {
	t.Parallel()

	repo := &fakeWeatherRepo{settings: officeLocation()}
	_, err := newWeather(repo, &fakeFetcher{err: errors.New("timeout")}, monday09).Forecast(context.Background())
	assert.ErrorIs(t, err, ErrWeatherUnavailable)

	_, err = newWeather(repo, nil, monday09).Forecast(context.Background())
	assert.ErrorIs(t, err, ErrWeatherUnavailable)
}

func TestWeatherService_UpdateSettings(t *testing.T) {
	t.Parallel()

	repo := &fakeWeatherRepo{
		settings: officeLocation(),
		cache:    &models.ForecastCache{UpdatedAt: monday09, Payload: json.RawMessage(samplePayload)},
	}
	svc := newWeather(repo, nil, monday09)

	got, err := svc.UpdateWeatherSettings(context.Background(), models.WeatherSettings{Lat: 50.06, Lon: 19.94, Label: "  "})
	require.NoError(t, err)
	assert.Equal(t, DefaultWeatherLabel, got.Label)
	assert.Equal(t, got, repo.settings)
	assert.Nil(t, repo.cache)
	assert.Equal(t, 1, repo.cleared)
}

func TestWeatherService_UpdateSettingsRejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	bad := []models.WeatherSettings{
		{Lat: 90.1, Lon: 0},
		{Lat: -91, Lon: 0},
		{Lat: 0, Lon: 180.5},
		{Lat: math.NaN(), Lon: 0},
		{Lat: 0, Lon: math.Inf(-1)},
	}
	for _, s := range bad {
		repo := &fakeWeatherRepo{settings: officeLocation()}
		_, err := newWeather(repo, nil, monday09).UpdateWeatherSettings(context.Background(), s)
		assert.ErrorIs(t, err, ErrInvalidCoordinates)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, officeLocation(), repo.settings)
	}
}

func TestWeatherService_HistoryLimit(t *testing.T) {
	t.Parallel()

	repo := &fakeWeatherRepo{}
	svc := newWeather(repo, nil, monday09)

	_, err := svc.WeatherHistory(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 500, repo.gotLimit)

	_, err = svc.WeatherHistory(context.Background(), 24)
	require.NoError(t, err)
	assert.Equal(t, 24, repo.gotLimit)
}
