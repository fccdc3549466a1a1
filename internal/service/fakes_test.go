package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"office_climate/internal/models"
	"office_climate/internal/repository"
)

// fakeEventRepo captures List arguments and appended events.
type fakeEventRepo struct {
	mu sync.Mutex

	gotFrom time.Time
	gotTo   time.Time
	gotType string
	calls   int

	events    []models.Event
	err       error
	appendErr error
	appended  []models.Event
}

func (f *fakeEventRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(_ context.Context, e models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

type fakeSettingsRepo struct {
	value  float64
	err    error
	setErr error
	sets   []float64
}

func (f *fakeSettingsRepo) GetBaseTargetTemperature(context.Context) (float64, error) {
	return f.value, f.err
}

func (f *fakeSettingsRepo) SetBaseTargetTemperature(_ context.Context, v float64) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets = append(f.sets, v)
	f.value = v
	return nil
}

// fakeSchemaRepo keeps schemas in memory; only the calls the services make are modelled.
type fakeSchemaRepo struct {
	active    *models.SchemaWithIntervals
	activeErr error

	created   []models.SchemaInput
	createErr error
	updateErr error
	deleted   bool
	deleteErr error
	setActive []*int64
	setErr    error
}

func (f *fakeSchemaRepo) List(context.Context) ([]models.Schema, error) { return nil, nil }

func (f *fakeSchemaRepo) GetByID(_ context.Context, id int64) (*models.SchemaWithIntervals, error) {
	return nil, repository.ErrSchemaNotFound
}

func (f *fakeSchemaRepo) GetActive(context.Context) (*models.SchemaWithIntervals, error) {
	return f.active, f.activeErr
}

func (f *fakeSchemaRepo) Create(_ context.Context, in models.SchemaInput) (*models.SchemaWithIntervals, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, in)
	return &models.SchemaWithIntervals{
		Schema:    models.Schema{ID: int64(len(f.created)), Name: in.Name, InOfficeTemperature: in.InOfficeTemperature, OutOfOfficeTemperature: in.OutOfOfficeTemperature},
		Intervals: in.Intervals,
	}, nil
}

func (f *fakeSchemaRepo) Update(_ context.Context, id int64, in models.SchemaInput) (*models.SchemaWithIntervals, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.SchemaWithIntervals{Schema: models.Schema{ID: id, Name: in.Name}, Intervals: in.Intervals}, nil
}

func (f *fakeSchemaRepo) Delete(context.Context, int64) (bool, error) {
	return f.deleted, f.deleteErr
}

func (f *fakeSchemaRepo) SetActive(_ context.Context, id *int64) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setActive = append(f.setActive, id)
	return nil
}

type fakeReadingRepo struct {
	mu       sync.Mutex
	rows     []models.Reading // newest first
	err      error
	gotLimit int
}

func (f *fakeReadingRepo) Append(_ context.Context, r models.Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append([]models.Reading{r}, f.rows...)
	return nil
}

func (f *fakeReadingRepo) Recent(_ context.Context, limit int) ([]models.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.rows) {
		limit = len(f.rows)
	}
	return append([]models.Reading(nil), f.rows[:limit]...), nil
}

func (f *fakeReadingRepo) DeleteSince(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeReadingRepo) set(temps ...float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = nil
	for _, t := range temps {
		f.rows = append(f.rows, models.Reading{Timestamp: time.Now().UTC(), Temperature: t})
	}
}

type fakeWeatherRepo struct {
	settings     models.WeatherSettings
	cache        *models.ForecastCache
	observations []models.WeatherObservation
	cleared      int
	gotLimit     int
}

func (f *fakeWeatherRepo) GetSettings(context.Context) (models.WeatherSettings, error) {
	return f.settings, nil
}

func (f *fakeWeatherRepo) SetSettings(_ context.Context, s models.WeatherSettings) error {
	f.settings = s
	return nil
}

func (f *fakeWeatherRepo) GetForecastCache(context.Context) (*models.ForecastCache, error) {
	return f.cache, nil
}

func (f *fakeWeatherRepo) SetForecastCache(_ context.Context, c models.ForecastCache) error {
	f.cache = &c
	return nil
}

func (f *fakeWeatherRepo) ClearForecastCache(context.Context) error {
	f.cleared++
	f.cache = nil
	return nil
}

func (f *fakeWeatherRepo) AppendObservation(_ context.Context, o models.WeatherObservation) error {
	f.observations = append(f.observations, o)
	return nil
}

func (f *fakeWeatherRepo) RecentObservations(_ context.Context, limit int) ([]models.WeatherObservation, error) {
	f.gotLimit = limit
	return f.observations, nil
}

func (f *fakeWeatherRepo) DeleteObservationsSince(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeFetcher struct {
	payload json.RawMessage
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(context.Context, float64, float64) (json.RawMessage, error) {
	f.calls++
	return f.payload, f.err
}

type fakeSink struct {
	mu      sync.Mutex
	err     error
	updates []models.PowerUpdate
	calls   int
}

func (f *fakeSink) Publish(_ context.Context, u models.PowerUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, u)
	return nil
}

func (f *fakeSink) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSink) published() []models.PowerUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PowerUpdate(nil), f.updates...)
}

type fakeRecorder struct {
	mu        sync.Mutex
	observed  int
	pubErrors int
}

func (f *fakeRecorder) ObserveRecommendation(models.PowerRecommendation) {
	f.mu.Lock()
	f.observed++
	f.mu.Unlock()
}

func (f *fakeRecorder) ObservePublishError() {
	f.mu.Lock()
	f.pubErrors++
	f.mu.Unlock()
}

// monday09 is Monday 2024-01-01 09:00 UTC.
var monday09 = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

func officeHours() *models.SchemaWithIntervals {
	return &models.SchemaWithIntervals{
		Schema: models.Schema{ID: 7, Name: "Office", InOfficeTemperature: 21, OutOfOfficeTemperature: 17, IsActive: true},
		Intervals: []models.Interval{
			{DayOfWeek: 1, StartTimeMinutes: 8 * 60, EndTimeMinutes: 17 * 60},
		},
	}
}
