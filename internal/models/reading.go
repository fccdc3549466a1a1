package models

import "time"

// Reading is an immutable indoor temperature measurement.
type Reading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"` // °C
}
