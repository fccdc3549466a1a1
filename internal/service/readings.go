package service

import (
	"context"
	"fmt"
	"time"

	"office_climate/internal/models"
	"office_climate/internal/repository"
)

type ReadingService struct {
	readings     repository.ReadingRepo
	targets      Targets
	defaultLimit int
	maxLimit     int
}

// NewReadingService builds the reading service; non-positive limits fall back to 50/500.
func NewReadingService(readings repository.ReadingRepo, targets Targets, defaultLimit, maxLimit int) *ReadingService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultHistoryLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxHistoryLimit
	}
	return &ReadingService{readings: readings, targets: targets, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Log appends a measured temperature stamped with the current UTC time.
func (s *ReadingService) Log(ctx context.Context, temperature float64) error {
	if !isFinite(temperature) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidTemperature)
	}
	return s.readings.Append(ctx, models.Reading{Timestamp: time.Now().UTC(), Temperature: temperature})
}

// History returns readings newest first. Out-of-range limits use the default.
func (s *ReadingService) History(ctx context.Context, limit int) ([]models.Reading, error) {
	return s.readings.Recent(ctx, ClampLimit(limit, s.defaultLimit, s.maxLimit))
}

// Latest returns the newest reading, or nil when the log is empty.
func (s *ReadingService) Latest(ctx context.Context) (*models.Reading, error) {
	return latestReading(ctx, s.readings)
}

// Status merges the effective target with the latest reading.
func (s *ReadingService) Status(ctx context.Context, now time.Time) (models.Status, error) {
	target, err := s.targets.Effective(ctx, now)
	if err != nil {
		return models.Status{}, err
	}
	latest, err := s.Latest(ctx)
	if err != nil {
		return models.Status{}, err
	}
	return models.Status{Target: target, Reading: latest}, nil
}

func latestReading(ctx context.Context, repo repository.ReadingRepo) (*models.Reading, error) {
	rows, err := repo.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &r, nil
}
