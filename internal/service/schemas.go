package service

import (
	"context"
	"fmt"
	"strings"

	"office_climate/internal/logger"
	"office_climate/internal/models"
	"office_climate/internal/repository"
	"office_climate/internal/schedule"
)

type SchemaService struct {
	repo   repository.SchemaRepo
	events repository.EventRepo
	log    *logger.Logger
}

func NewSchemaService(repo repository.SchemaRepo, events repository.EventRepo, log *logger.Logger) *SchemaService {
	return &SchemaService{repo: repo, events: events, log: log}
}

// normalizeInput trims the name and validates everything before the store is touched,
// so a rejected request never leaves partial writes behind.
func normalizeInput(in models.SchemaInput) (models.SchemaInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if !isFinite(in.InOfficeTemperature) || !isFinite(in.OutOfOfficeTemperature) {
		return in, fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidTemperature)
	}
	if err := schedule.ValidateIntervals(in.Intervals); err != nil {
		return in, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return in, nil
}

func (s *SchemaService) ListSchemas(ctx context.Context) ([]models.Schema, error) {
	return s.repo.List(ctx)
}

func (s *SchemaService) GetSchema(ctx context.Context, id int64) (*models.SchemaWithIntervals, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SchemaService) ActiveSchema(ctx context.Context) (*models.SchemaWithIntervals, error) {
	return s.repo.GetActive(ctx)
}

func (s *SchemaService) CreateSchema(ctx context.Context, in models.SchemaInput) (*models.SchemaWithIntervals, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	recordEvent(ctx, s.events, s.log, models.Event{
		Type:        models.EventSchemaCreated,
		Description: fmt.Sprintf("Schema %q created", created.Name),
		Metadata:    map[string]any{"schema_id": created.ID, "intervals": len(created.Intervals)},
	})
	return created, nil
}

// UpdateSchema replaces the schema fields and its whole interval set.
func (s *SchemaService) UpdateSchema(ctx context.Context, id int64, in models.SchemaInput) (*models.SchemaWithIntervals, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	recordEvent(ctx, s.events, s.log, models.Event{
		Type:        models.EventSchemaUpdated,
		Description: fmt.Sprintf("Schema %q updated", updated.Name),
		Metadata:    map[string]any{"schema_id": updated.ID, "intervals": len(updated.Intervals)},
	})
	return updated, nil
}

// DeleteSchema removes a schema with its intervals. Deleting the active schema
// leaves no schema active.
func (s *SchemaService) DeleteSchema(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrSchemaNotFound
	}
	recordEvent(ctx, s.events, s.log, models.Event{
		Type:        models.EventSchemaDeleted,
		Description: fmt.Sprintf("Schema %d deleted", id),
		Metadata:    map[string]any{"schema_id": id},
	})
	return nil
}

// SetActiveSchema activates id, or deactivates all schemas when id is nil.
func (s *SchemaService) SetActiveSchema(ctx context.Context, id *int64) error {
	if err := s.repo.SetActive(ctx, id); err != nil {
		return err
	}
	e := models.Event{Type: models.EventSchemaDeactivated, Description: "All schemas deactivated"}
	if id != nil {
		e = models.Event{
			Type:        models.EventSchemaActivated,
			Description: fmt.Sprintf("Schema %d activated", *id),
			Metadata:    map[string]any{"schema_id": *id},
		}
	}
	recordEvent(ctx, s.events, s.log, e)
	return nil
}
