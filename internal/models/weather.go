package models

import (
	"encoding/json"
	"time"
)

// WeatherSettings is the location used for outdoor weather lookups.
type WeatherSettings struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

// ForecastCache is the last raw forecast payload fetched from the weather provider.
type ForecastCache struct {
	UpdatedAt time.Time
	Payload   json.RawMessage
}

// WeatherObservation is one logged outdoor temperature.
type WeatherObservation struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	WeatherCode *int      `json:"weatherCode"`
}
