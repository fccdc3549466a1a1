package schedule

import (
	"time"

	"office_climate/internal/models"
)

// Resolve picks the temperature in force at now.
//
// With no active schema the global default applies. An active schema fully
// replaces the default: its in-office temperature applies inside any of its
// intervals and its out-of-office temperature everywhere else.
func Resolve(defaultTarget float64, active *models.SchemaWithIntervals, now time.Time) models.EffectiveTarget {
	if active == nil {
		return models.EffectiveTarget{
			Temperature: defaultTarget,
			Source:      models.SourceDefault,
			Mode:        models.ModeNone,
		}
	}

	id := active.ID
	day, minute := WeekPosition(now)
	if IsWithinSchedule(active.Intervals, day, minute) {
		return models.EffectiveTarget{
			Temperature: active.InOfficeTemperature,
			Source:      models.SourceSchema,
			SchemaID:    &id,
			Mode:        models.ModeInOffice,
		}
	}
	return models.EffectiveTarget{
		Temperature: active.OutOfOfficeTemperature,
		Source:      models.SourceSchema,
		SchemaID:    &id,
		Mode:        models.ModeOutOfOffice,
	}
}
