package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"office_climate/internal/models"
	"office_climate/internal/repository"
	"office_climate/internal/repository/db"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func countActive(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM schemas WHERE is_active = 1`).Scan(&n); err != nil {
		t.Fatalf("count active: %v", err)
	}
	return n
}

func officeInput(name string) models.SchemaInput {
	return models.SchemaInput{
		Name:                   name,
		InOfficeTemperature:    21,
		OutOfOfficeTemperature: 17,
		Intervals: []models.Interval{
			{DayOfWeek: 2, StartTimeMinutes: 540, EndTimeMinutes: 1020},
			{DayOfWeek: 1, StartTimeMinutes: 540, EndTimeMinutes: 1020},
		},
	}
}

func TestSQLite_DefaultTargetSeeded(t *testing.T) {
	conn := openMemoryDB(t)
	settings := repository.NewSettingsSQLite(conn)
	c := context.Background()

	v, err := settings.GetBaseTargetTemperature(c)
	if err != nil || v != 22.0 {
		t.Fatalf("seeded default: got %v, %v", v, err)
	}
	if err := settings.SetBaseTargetTemperature(c, 19.5); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := settings.GetBaseTargetTemperature(c); v != 19.5 {
		t.Fatalf("want 19.5, got %v", v)
	}
}

func TestSQLite_SchemaLifecycleKeepsAtMostOneActive(t *testing.T) {
	conn := openMemoryDB(t)
	schemas := repository.NewSchemaSQLite(conn)
	c := context.Background()

	a, err := schemas.Create(c, officeInput("Office"))
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	if len(a.Intervals) != 2 || a.Intervals[0].DayOfWeek != 1 {
		t.Fatalf("intervals not ordered by day: %+v", a.Intervals)
	}
	b, err := schemas.Create(c, officeInput("Holidays"))
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	if err := schemas.SetActive(c, &a.ID); err != nil {
		t.Fatalf("activate a: %v", err)
	}
	if err := schemas.SetActive(c, &b.ID); err != nil {
		t.Fatalf("activate b: %v", err)
	}
	if n := countActive(t, conn); n != 1 {
		t.Fatalf("want exactly one active, got %d", n)
	}
	active, err := schemas.GetActive(c)
	if err != nil || active == nil || active.ID != b.ID {
		t.Fatalf("active should be b: %+v, %v", active, err)
	}

	missing := int64(4242)
	if err := schemas.SetActive(c, &missing); !errors.Is(err, repository.ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
	if active, _ := schemas.GetActive(c); active == nil || active.ID != b.ID {
		t.Fatalf("failed activation must keep previous active schema, got %+v", active)
	}

	deleted, err := schemas.Delete(c, b.ID)
	if err != nil || !deleted {
		t.Fatalf("delete b: %v, %v", deleted, err)
	}
	if active, _ := schemas.GetActive(c); active != nil {
		t.Fatalf("deleting active schema must leave none active, got %+v", active)
	}
	var orphans int
	_ = conn.QueryRow(`SELECT COUNT(*) FROM schema_intervals WHERE schema_id = ?`, b.ID).Scan(&orphans)
	if orphans != 0 {
		t.Fatalf("intervals of deleted schema remain: %d", orphans)
	}

	if deleted, _ := schemas.Delete(c, b.ID); deleted {
		t.Fatalf("second delete should report false")
	}
}

func TestSQLite_DuplicateNameIsCaseInsensitive(t *testing.T) {
	conn := openMemoryDB(t)
	schemas := repository.NewSchemaSQLite(conn)
	c := context.Background()

	if _, err := schemas.Create(c, officeInput("Office")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := schemas.Create(c, officeInput("OFFICE")); !errors.Is(err, repository.ErrDuplicateSchemaName) {
		t.Fatalf("expected ErrDuplicateSchemaName, got %v", err)
	}

	other, err := schemas.Create(c, officeInput("Lab"))
	if err != nil {
		t.Fatalf("create lab: %v", err)
	}
	if _, err := schemas.Update(c, other.ID, officeInput("office")); !errors.Is(err, repository.ErrDuplicateSchemaName) {
		t.Fatalf("expected ErrDuplicateSchemaName on update, got %v", err)
	}

	for _, tc := range []struct{ first, second string }{
		{"Büro", "BÜRO"},
		{"Biuro Łódź", "BIURO ŁÓDŹ"},
	} {
		if _, err := schemas.Create(c, officeInput(tc.first)); err != nil {
			t.Fatalf("create %q: %v", tc.first, err)
		}
		if _, err := schemas.Create(c, officeInput(tc.second)); !errors.Is(err, repository.ErrDuplicateSchemaName) {
			t.Fatalf("%q accepted alongside %q: %v", tc.second, tc.first, err)
		}
	}

	// Renaming a schema to a different case of its own name is allowed.
	if _, err := schemas.Update(c, other.ID, officeInput("LAB")); err != nil {
		t.Fatalf("rename to own name in other case: %v", err)
	}
}

func TestSQLite_UpdateReplacesIntervalsAtomically(t *testing.T) {
	conn := openMemoryDB(t)
	schemas := repository.NewSchemaSQLite(conn)
	c := context.Background()

	s, err := schemas.Create(c, officeInput("Office"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	desc := "mornings only"
	in := models.SchemaInput{
		Name:                   "Office",
		Description:            &desc,
		InOfficeTemperature:    22,
		OutOfOfficeTemperature: 16,
		Intervals:              []models.Interval{{DayOfWeek: 3, StartTimeMinutes: 480, EndTimeMinutes: 720}},
	}
	got, err := schemas.Update(c, s.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(got.Intervals) != 1 || got.Intervals[0].DayOfWeek != 3 || got.InOfficeTemperature != 22 {
		t.Fatalf("unexpected update result: %+v", got)
	}
	if got.Description == nil || *got.Description != desc {
		t.Fatalf("description not stored")
	}

	// A batch with a bad interval fails in the store and leaves the old set intact.
	bad := in
	bad.Intervals = []models.Interval{
		{DayOfWeek: 4, StartTimeMinutes: 480, EndTimeMinutes: 720},
		{DayOfWeek: 4, StartTimeMinutes: 900, EndTimeMinutes: 800},
	}
	if _, err := schemas.Update(c, s.ID, bad); err == nil {
		t.Fatalf("expected CHECK violation")
	}
	after, err := schemas.GetByID(c, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(after.Intervals) != 1 || after.Intervals[0].DayOfWeek != 3 {
		t.Fatalf("partial update leaked: %+v", after.Intervals)
	}

	if _, err := schemas.Update(c, 777, in); !errors.Is(err, repository.ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
}

func TestSQLite_ReadingsNewestFirst(t *testing.T) {
	conn := openMemoryDB(t)
	readings := repository.NewReadingSQLite(conn)
	c := context.Background()

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, v := range []float64{19, 20, 21} {
		if err := readings.Append(c, models.Reading{Timestamp: base.Add(time.Duration(i) * time.Minute), Temperature: v}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := readings.Recent(c, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].Temperature != 21 || got[1].Temperature != 20 {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !got[0].Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("timestamp round trip: %v", got[0].Timestamp)
	}

	n, err := readings.DeleteSince(c, base.Add(time.Minute))
	if err != nil || n != 2 {
		t.Fatalf("delete since: %d, %v", n, err)
	}
}

func TestSQLite_WeatherCache(t *testing.T) {
	conn := openMemoryDB(t)
	weather := repository.NewWeatherSQLite(conn)
	c := context.Background()

	s, err := weather.GetSettings(c)
	if err != nil || s.Label != "Office" {
		t.Fatalf("seeded settings: %+v, %v", s, err)
	}

	if cache, err := weather.GetForecastCache(c); err != nil || cache != nil {
		t.Fatalf("expected empty cache, got %+v, %v", cache, err)
	}
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := weather.SetForecastCache(c, models.ForecastCache{UpdatedAt: at, Payload: []byte(`{"a":1}`)}); err != nil {
		t.Fatalf("set cache: %v", err)
	}
	cache, err := weather.GetForecastCache(c)
	if err != nil || cache == nil || string(cache.Payload) != `{"a":1}` || !cache.UpdatedAt.Equal(at) {
		t.Fatalf("cache round trip: %+v, %v", cache, err)
	}
	if err := weather.ClearForecastCache(c); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cache, _ := weather.GetForecastCache(c); cache != nil {
		t.Fatalf("cache not cleared")
	}

	code := 3
	if err := weather.AppendObservation(c, models.WeatherObservation{Timestamp: at, Temperature: 4.5, WeatherCode: &code}); err != nil {
		t.Fatalf("append observation: %v", err)
	}
	obs, err := weather.RecentObservations(c, 10)
	if err != nil || len(obs) != 1 || obs[0].WeatherCode == nil || *obs[0].WeatherCode != 3 {
		t.Fatalf("observations: %+v, %v", obs, err)
	}
}
