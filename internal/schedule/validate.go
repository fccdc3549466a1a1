package schedule

import (
	"errors"
	"fmt"

	"office_climate/internal/models"
)

var (
	ErrMalformedClock  = errors.New("time must be in HH:MM format")
	ErrClockOutOfRange = errors.New("time must be between 00:00 and 23:59")
	ErrInvalidDay      = errors.New("dayOfWeek must be an integer between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidStart    = errors.New("start must be between 0 and 1439 minutes")
	ErrInvalidEnd      = errors.New("end must be between 1 and 1440 minutes")
	ErrEmptyRange      = errors.New("end time must be after start time")
)

// ValidationError reports which interval of a batch was rejected.
type ValidationError struct {
	Index int
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("interval %d: %v", e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidateInterval checks day range, minute bounds and end > start.
func ValidateInterval(iv models.Interval) error {
	if iv.DayOfWeek < MinDayOfWeek || iv.DayOfWeek > MaxDayOfWeek {
		return ErrInvalidDay
	}
	if iv.StartTimeMinutes < 0 || iv.StartTimeMinutes > MinutesPerDay-1 {
		return ErrInvalidStart
	}
	if iv.EndTimeMinutes < 1 || iv.EndTimeMinutes > MinutesPerDay {
		return ErrInvalidEnd
	}
	if iv.EndTimeMinutes <= iv.StartTimeMinutes {
		return ErrEmptyRange
	}
	return nil
}

// ValidateIntervals validates every interval and fails the whole batch on the first bad one.
func ValidateIntervals(intervals []models.Interval) error {
	for i, iv := range intervals {
		if err := ValidateInterval(iv); err != nil {
			return &ValidationError{Index: i, Err: err}
		}
	}
	return nil
}
