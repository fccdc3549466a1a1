package service

import (
	"context"
	"errors"
	"math"
	"time"

	"office_climate/internal/logger"
	"office_climate/internal/models"
	"office_climate/internal/repository"
)

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "TARGET_CHANGED", "SCHEMA_*", "POWER_*"
}

// Client-facing validation failures. Handlers map these to 400.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTemperature = errors.New("temperature must be a finite number")
)

// Default and maximum page sizes for reading history.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ClampLimit returns limit when it lies in (0, max], otherwise def.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 || limit > max {
		return def
	}
	return limit
}

// recordEvent appends an audit event. Failures are logged and never bubble up:
// the mutation being audited has already been committed.
func recordEvent(ctx context.Context, repo repository.EventRepo, log *logger.Logger, e models.Event) {
	if repo == nil {
		return
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := repo.Append(ctx, e); err != nil && log != nil {
		log.Warnw("audit_append_failed", "err", err, "type", e.Type)
	}
}
