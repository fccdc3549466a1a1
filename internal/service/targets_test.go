package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office_climate/internal/models"
)

func TestTargetService_EffectiveDefaultWithoutSchema(t *testing.T) {
	t.Parallel()

	got, err := newTargets(22, nil).Effective(context.Background(), monday09)
	require.NoError(t, err)
	assert.Equal(t, models.EffectiveTarget{Temperature: 22, Source: models.SourceDefault}, got)
}

func TestTargetService_EffectiveFollowsActiveSchema(t *testing.T) {
	t.Parallel()

	svc := newTargets(22, officeHours())

	in, err := svc.Effective(context.Background(), monday09)
	require.NoError(t, err)
	assert.Equal(t, 21.0, in.Temperature)
	assert.Equal(t, models.SourceSchema, in.Source)
	require.NotNil(t, in.SchemaID)
	assert.Equal(t, int64(7), *in.SchemaID)

	evening := monday09.Add(9 * time.Hour)
	require.Equal(t, 18, evening.Hour())
	out, err := svc.Effective(context.Background(), evening)
	require.NoError(t, err)
	assert.Equal(t, 17.0, out.Temperature)
	assert.Equal(t, models.ModeOutOfOffice, out.Mode)
	assert.Equal(t, models.SourceSchema, out.Source)
}

func TestTargetService_EffectivePropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("locked")
	svc := NewTargetService(&fakeSettingsRepo{value: 22}, &fakeSchemaRepo{activeErr: boom}, nil, nil)
	_, err := svc.Effective(context.Background(), monday09)
	assert.ErrorIs(t, err, boom)

	svc = NewTargetService(&fakeSettingsRepo{err: boom}, &fakeSchemaRepo{}, nil, nil)
	_, err = svc.Effective(context.Background(), monday09)
	assert.ErrorIs(t, err, boom)
}

func TestTargetService_SetDefault(t *testing.T) {
	t.Parallel()

	settings := &fakeSettingsRepo{value: 22}
	events := &fakeEventRepo{}
	svc := NewTargetService(settings, &fakeSchemaRepo{}, events, nil)

	require.NoError(t, svc.SetDefault(context.Background(), 20.5))
	assert.Equal(t, []float64{20.5}, settings.sets)
	assert.Equal(t, []string{models.EventTargetChanged}, events.types())

	got, err := svc.Default(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20.5, got)
}

func TestTargetService_SetDefaultRejectsNonFinite(t *testing.T) {
	t.Parallel()

	settings := &fakeSettingsRepo{value: 22}
	svc := NewTargetService(settings, &fakeSchemaRepo{}, &fakeEventRepo{}, nil)

	assert.ErrorIs(t, svc.SetDefault(context.Background(), math.NaN()), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetDefault(context.Background(), math.Inf(1)), ErrInvalidTemperature)
	assert.Empty(t, settings.sets)
}

func TestTargetService_AuditFailureDoesNotFailMutation(t *testing.T) {
	t.Parallel()

	settings := &fakeSettingsRepo{value: 22}
	svc := NewTargetService(settings, &fakeSchemaRepo{}, &fakeEventRepo{appendErr: errors.New("disk full")}, nil)

	require.NoError(t, svc.SetDefault(context.Background(), 19))
	assert.Equal(t, 19.0, settings.value)
}
