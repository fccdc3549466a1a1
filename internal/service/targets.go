package service

import (
	"context"
	"fmt"
	"time"

	"office_climate/internal/logger"
	"office_climate/internal/models"
	"office_climate/internal/repository"
	"office_climate/internal/schedule"
)

type TargetService struct {
	settings repository.SettingsRepo
	schemas  repository.SchemaRepo
	events   repository.EventRepo
	log      *logger.Logger
}

func NewTargetService(settings repository.SettingsRepo, schemas repository.SchemaRepo, events repository.EventRepo, log *logger.Logger) *TargetService {
	return &TargetService{settings: settings, schemas: schemas, events: events, log: log}
}

// Effective reads the default target and the active schema and resolves them for now.
func (s *TargetService) Effective(ctx context.Context, now time.Time) (models.EffectiveTarget, error) {
	def, err := s.settings.GetBaseTargetTemperature(ctx)
	if err != nil {
		return models.EffectiveTarget{}, err
	}
	active, err := s.schemas.GetActive(ctx)
	if err != nil {
		return models.EffectiveTarget{}, err
	}
	return schedule.Resolve(def, active, now), nil
}

// Default returns the global default target.
func (s *TargetService) Default(ctx context.Context) (float64, error) {
	return s.settings.GetBaseTargetTemperature(ctx)
}

// SetDefault stores a new global default target. Non-finite values are rejected.
func (s *TargetService) SetDefault(ctx context.Context, value float64) error {
	if !isFinite(value) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidTemperature)
	}
	if err := s.settings.SetBaseTargetTemperature(ctx, value); err != nil {
		return err
	}
	recordEvent(ctx, s.events, s.log, models.Event{
		Type:        models.EventTargetChanged,
		Description: fmt.Sprintf("Default target set to %.1f", value),
		Metadata:    map[string]any{"target_temperature": value},
	})
	return nil
}
