package handlers

import (
	"context"
	"net/http"
	"time"

	"office_climate/internal/models"
	"office_climate/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockTargets struct {
	effective models.EffectiveTarget
	err       error
	setErr    error
	lastSet   *float64
	lastNow   time.Time
}

func (m *mockTargets) Effective(_ context.Context, now time.Time) (models.EffectiveTarget, error) {
	m.lastNow = now
	return m.effective, m.err
}
func (m *mockTargets) Default(context.Context) (float64, error) {
	return m.effective.Temperature, m.err
}
func (m *mockTargets) SetDefault(_ context.Context, v float64) error {
	m.lastSet = &v
	return m.setErr
}

type mockReadings struct {
	status    models.Status
	statusErr error
	history   []models.Reading
	logErr    error

	logged    []float64
	lastLimit int
}

func (m *mockReadings) Log(_ context.Context, v float64) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.logged = append(m.logged, v)
	return nil
}
func (m *mockReadings) History(_ context.Context, limit int) ([]models.Reading, error) {
	m.lastLimit = limit
	return m.history, nil
}
func (m *mockReadings) Latest(context.Context) (*models.Reading, error) {
	return m.status.Reading, nil
}
func (m *mockReadings) Status(context.Context, time.Time) (models.Status, error) {
	return m.status, m.statusErr
}

type mockSchemas struct {
	list      []models.Schema
	schema    *models.SchemaWithIntervals
	active    *models.SchemaWithIntervals
	err       error
	lastInput *models.SchemaInput
	lastID    int64
	lastSetID *int64
	setCalled bool
}

func (m *mockSchemas) ListSchemas(context.Context) ([]models.Schema, error) { return m.list, m.err }
func (m *mockSchemas) GetSchema(_ context.Context, id int64) (*models.SchemaWithIntervals, error) {
	m.lastID = id
	return m.schema, m.err
}
func (m *mockSchemas) CreateSchema(_ context.Context, in models.SchemaInput) (*models.SchemaWithIntervals, error) {
	m.lastInput = &in
	return m.schema, m.err
}
func (m *mockSchemas) UpdateSchema(_ context.Context, id int64, in models.SchemaInput) (*models.SchemaWithIntervals, error) {
	m.lastID = id
	m.lastInput = &in
	return m.schema, m.err
}
func (m *mockSchemas) DeleteSchema(_ context.Context, id int64) error {
	m.lastID = id
	return m.err
}
func (m *mockSchemas) ActiveSchema(context.Context) (*models.SchemaWithIntervals, error) {
	return m.active, m.err
}
func (m *mockSchemas) SetActiveSchema(_ context.Context, id *int64) error {
	m.setCalled = true
	m.lastSetID = id
	return m.err
}

type mockPower struct {
	rec models.PowerRecommendation
	err error
}

func (m *mockPower) Recommend(context.Context, time.Time) (models.PowerRecommendation, error) {
	return m.rec, m.err
}

type mockEventLog struct {
	resp     []models.Event
	err      error
	lastType string
	lastFrom time.Time
	lastTo   time.Time
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.Event, error) {
	m.lastType, m.lastFrom, m.lastTo = f.Type, f.From, f.To
	return m.resp, m.err
}

type mockWeather struct {
	settings   models.WeatherSettings
	forecast   service.Forecast
	err        error
	refreshed  bool
	lastUpdate *models.WeatherSettings
	history    []models.WeatherObservation
	lastLimit  int
}

func (m *mockWeather) WeatherSettings(context.Context) (models.WeatherSettings, error) {
	return m.settings, m.err
}
func (m *mockWeather) UpdateWeatherSettings(_ context.Context, s models.WeatherSettings) (models.WeatherSettings, error) {
	m.lastUpdate = &s
	return s, m.err
}
func (m *mockWeather) Forecast(context.Context) (service.Forecast, error) {
	return m.forecast, m.err
}
func (m *mockWeather) RefreshForecast(context.Context) (service.Forecast, error) {
	m.refreshed = true
	return m.forecast, m.err
}
func (m *mockWeather) WeatherHistory(_ context.Context, limit int) ([]models.WeatherObservation, error) {
	m.lastLimit = limit
	return m.history, m.err
}

// ---- Test helpers ----

// fixedNow is Monday 2024-01-01 10:00 UTC.
var fixedNow = time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	h.now = func() time.Time { return fixedNow }
	return h.InitRoutes()
}

func jsonHeader() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}
