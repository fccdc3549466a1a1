package models

// Schema is a named weekly temperature plan.
type Schema struct {
	ID                     int64   `json:"id"`
	Name                   string  `json:"name"`
	Description            *string `json:"description"`
	InOfficeTemperature    float64 `json:"inOfficeTemperature"`    // °C
	OutOfOfficeTemperature float64 `json:"outOfOfficeTemperature"` // °C
	IsActive               bool    `json:"isActive"`
}

// Interval is a half-open [start, end) window on one day of the week, in UTC minutes since midnight.
type Interval struct {
	ID               int64 `json:"id,omitempty"`
	DayOfWeek        int   `json:"dayOfWeek"`        // 0 = Sunday ... 6 = Saturday
	StartTimeMinutes int   `json:"startTimeMinutes"` // 0..1439
	EndTimeMinutes   int   `json:"endTimeMinutes"`   // 1..1440
}

// SchemaWithIntervals is a schema together with the intervals it owns.
type SchemaWithIntervals struct {
	Schema
	Intervals []Interval `json:"intervals"`
}

// SchemaInput carries the mutable fields of a schema for create and update.
type SchemaInput struct {
	Name                   string
	Description            *string
	InOfficeTemperature    float64
	OutOfOfficeTemperature float64
	Intervals              []Interval
}
