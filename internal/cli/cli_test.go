package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office_climate/internal/models"
	"office_climate/internal/repository"
	"office_climate/internal/repository/db"
	"office_climate/internal/service"
)

var monday09 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func setupTestCLI(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	database, err := db.InitDB(filepath.Join(t.TempDir(), "climate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	repos := repository.NewRepository(database)
	out := &bytes.Buffer{}
	return &Context{
		Ctx:      context.Background(),
		Services: service.NewService(repos, service.Options{}),
		Repos:    repos,
		Out:      out,
		Now:      func() time.Time { return monday09 },
		Rand:     func() float64 { return 1 },
	}, out
}

func createOfficeHours(t *testing.T, ctx *Context) int64 {
	t.Helper()
	s, err := ctx.Services.CreateSchema(ctx.Ctx, models.SchemaInput{
		Name:                   "Office hours",
		InOfficeTemperature:    21,
		OutOfOfficeTemperature: 17,
		Intervals:              []models.Interval{{DayOfWeek: 1, StartTimeMinutes: 480, EndTimeMinutes: 1020}},
	})
	require.NoError(t, err)
	return s.ID
}

func TestSeedCmd_WipesAndFills(t *testing.T) {
	ctx, out := setupTestCLI(t)

	// inside the window: wiped. Before it: kept.
	require.NoError(t, ctx.Repos.Readings.Append(ctx.Ctx, models.Reading{Timestamp: monday09.Add(-30 * time.Minute), Temperature: 5}))
	require.NoError(t, ctx.Repos.Readings.Append(ctx.Ctx, models.Reading{Timestamp: monday09.Add(-3 * time.Hour), Temperature: 6}))

	cmd := &SeedCmd{Office: 20, Weather: 10, Hours: 1, Step: 15 * time.Minute}
	require.NoError(t, cmd.Run(ctx))

	readings, err := ctx.Repos.Readings.Recent(ctx.Ctx, 100)
	require.NoError(t, err)
	// 5 generated (09:00 back to 08:00 every 15m) plus the old one
	require.Len(t, readings, 6)
	for _, r := range readings[:5] {
		assert.InDelta(t, 22.0, r.Temperature, 1e-9)
	}
	assert.InDelta(t, 6.0, readings[5].Temperature, 1e-9)

	obs, err := ctx.Repos.Weather.RecentObservations(ctx.Ctx, 100)
	require.NoError(t, err)
	require.Len(t, obs, 5)
	assert.InDelta(t, 11.0, obs[0].Temperature, 1e-9)
	assert.Nil(t, obs[0].WeatherCode)

	assert.Contains(t, out.String(), "Wiped 1 office and 0 weather readings")
	assert.Contains(t, out.String(), "Inserted 5 office and 5 weather readings")
}

func TestSeedCmd_StaysWithinSpread(t *testing.T) {
	ctx, _ := setupTestCLI(t)
	ctx.Rand = func() float64 { return 0 }

	cmd := &SeedCmd{Office: 21, Weather: -5, Hours: 1, Step: time.Hour}
	require.NoError(t, cmd.Run(ctx))

	readings, err := ctx.Repos.Readings.Recent(ctx.Ctx, 10)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.InDelta(t, 18.9, readings[0].Temperature, 1e-9)

	obs, err := ctx.Repos.Weather.RecentObservations(ctx.Ctx, 10)
	require.NoError(t, err)
	assert.InDelta(t, -4.5, obs[0].Temperature, 1e-9)
}

func TestSeedCmd_Validate(t *testing.T) {
	assert.Error(t, (&SeedCmd{Hours: 0, Step: time.Minute}).Validate())
	assert.Error(t, (&SeedCmd{Hours: 1, Step: 0}).Validate())
	assert.NoError(t, (&SeedCmd{Hours: 24, Step: 10 * time.Minute}).Validate())
}

func TestStatusCmd(t *testing.T) {
	ctx, out := setupTestCLI(t)

	require.NoError(t, (&StatusCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "22.0°C (default)")
	assert.Contains(t, out.String(), "Reading: none")
	assert.Contains(t, out.String(), "UNKNOWN")

	id := createOfficeHours(t, ctx)
	require.NoError(t, ctx.Services.SetActiveSchema(ctx.Ctx, &id))
	require.NoError(t, ctx.Repos.Readings.Append(ctx.Ctx, models.Reading{Timestamp: monday09, Temperature: 20.4}))

	out.Reset()
	require.NoError(t, (&StatusCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "21.0°C (schema #")
	assert.Contains(t, out.String(), "in-office")
	assert.Contains(t, out.String(), "20.4°C")
	assert.Contains(t, out.String(), "ON")

	// Sunday: out of office, 17 < 20.4
	out.Reset()
	require.NoError(t, (&StatusCmd{At: time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC)}).Run(ctx))
	assert.Contains(t, out.String(), "17.0°C")
	assert.Contains(t, out.String(), "out-of-office")
	assert.Contains(t, out.String(), "OFF")
}

func TestSchemaListCmd(t *testing.T) {
	ctx, out := setupTestCLI(t)

	require.NoError(t, (&SchemaListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "No schemas found")

	id := createOfficeHours(t, ctx)
	require.NoError(t, ctx.Services.SetActiveSchema(ctx.Ctx, &id))

	out.Reset()
	require.NoError(t, (&SchemaListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Office hours - in office 21.0°C, out of office 17.0°C")
	assert.Contains(t, out.String(), "*")
}

func TestSchemaActivateCmd(t *testing.T) {
	ctx, out := setupTestCLI(t)
	id := createOfficeHours(t, ctx)

	require.NoError(t, (&SchemaActivateCmd{ID: id}).Run(ctx))
	active, err := ctx.Services.ActiveSchema(ctx.Ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, id, active.ID)
	assert.Contains(t, out.String(), "is now active")

	require.NoError(t, (&SchemaActivateCmd{None: true}).Run(ctx))
	active, err = ctx.Services.ActiveSchema(ctx.Ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	err = (&SchemaActivateCmd{ID: id + 100}).Run(ctx)
	assert.ErrorIs(t, err, repository.ErrSchemaNotFound)

	assert.Error(t, (&SchemaActivateCmd{}).Run(ctx))
	assert.Error(t, (&SchemaActivateCmd{ID: id, None: true}).Run(ctx))
}

func TestTargetSetCmd(t *testing.T) {
	ctx, out := setupTestCLI(t)

	require.NoError(t, (&TargetSetCmd{Value: 19.5}).Run(ctx))
	got, err := ctx.Services.Default(ctx.Ctx)
	require.NoError(t, err)
	assert.InDelta(t, 19.5, got, 1e-9)
	assert.Contains(t, out.String(), "19.5°C")

	events, err := ctx.Services.List(ctx.Ctx, service.LogFilter{Type: "TARGET_CHANGED"})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
