package service

import (
	"context"
	"time"

	"office_climate/internal/models"
	"office_climate/internal/repository"
	"office_climate/internal/schedule"
)

type PowerService struct {
	readings repository.ReadingRepo
	targets  Targets
}

func NewPowerService(readings repository.ReadingRepo, targets Targets) *PowerService {
	return &PowerService{readings: readings, targets: targets}
}

// Recommend compares the latest reading with the effective target at now.
// State is nil when nothing has been measured yet; callers must not read that as "off".
func (s *PowerService) Recommend(ctx context.Context, now time.Time) (models.PowerRecommendation, error) {
	latest, err := latestReading(ctx, s.readings)
	if err != nil {
		return models.PowerRecommendation{}, err
	}
	target, err := s.targets.Effective(ctx, now)
	if err != nil {
		return models.PowerRecommendation{}, err
	}

	rec := models.PowerRecommendation{Target: target, Reading: latest}
	if state, ok := schedule.Recommend(latest, target); ok {
		rec.State = &state
	}
	return rec, nil
}
