// Package schedule holds the pure schedule evaluation logic: interval matching,
// effective target resolution and the power on/off comparator.
package schedule

import (
	"time"

	"office_climate/internal/models"
)

// Week geometry. Days use calendar numbering (0 = Sunday), not ISO.
const (
	MinDayOfWeek  = 0
	MaxDayOfWeek  = 6
	MinutesPerDay = 24 * 60
)

// IsWithinSchedule reports whether any interval covers minuteOfDay on dayOfWeek.
// Overlapping intervals are allowed; any match suffices.
func IsWithinSchedule(intervals []models.Interval, dayOfWeek, minuteOfDay int) bool {
	for _, iv := range intervals {
		if covers(iv, dayOfWeek, minuteOfDay) {
			return true
		}
	}
	return false
}

// WeekPosition returns the UTC day of week and minute of day of t.
func WeekPosition(t time.Time) (dayOfWeek, minuteOfDay int) {
	u := t.UTC()
	return int(u.Weekday()), u.Hour()*60 + u.Minute()
}

func covers(iv models.Interval, dayOfWeek, minuteOfDay int) bool {
	return iv.DayOfWeek == dayOfWeek &&
		iv.StartTimeMinutes <= minuteOfDay &&
		minuteOfDay < iv.EndTimeMinutes
}
