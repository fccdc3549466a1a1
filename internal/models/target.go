package models

import (
	"encoding/json"
	"time"
)

// TargetSource tells where an effective target came from.
type TargetSource string

const (
	SourceSchema  TargetSource = "schema"
	SourceDefault TargetSource = "default"
)

// ScheduleMode is the state an active schema reports for a given instant.
// The zero value means no schema is active and is encoded as JSON null.
type ScheduleMode string

const (
	ModeNone        ScheduleMode = ""
	ModeInOffice    ScheduleMode = "in-office"
	ModeOutOfOffice ScheduleMode = "out-of-office"
)

// MarshalJSON encodes ModeNone as null.
func (m ScheduleMode) MarshalJSON() ([]byte, error) {
	if m == ModeNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

// UnmarshalJSON accepts null as ModeNone.
func (m *ScheduleMode) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = ModeNone
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*m = ScheduleMode(s)
	return nil
}

// EffectiveTarget is the single temperature in force at an instant.
type EffectiveTarget struct {
	Temperature float64      `json:"temperature"`
	Source      TargetSource `json:"source"`
	SchemaID    *int64       `json:"schemaId"`
	Mode        ScheduleMode `json:"mode"`
}

// PowerState is the on/off signal for the heater socket.
type PowerState int

const (
	PowerOff PowerState = 0
	PowerOn  PowerState = 1
)

func (p PowerState) String() string {
	if p == PowerOn {
		return "on"
	}
	return "off"
}

// SamePowerState reports whether two optional states are equal. Nil is the
// unknown state, equal only to another nil.
func SamePowerState(a, b *PowerState) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// PowerRecommendation is the recommended socket state plus the inputs it was derived from.
// State is nil when there is no reading yet.
type PowerRecommendation struct {
	State   *PowerState     `json:"state"`
	Target  EffectiveTarget `json:"target"`
	Reading *Reading        `json:"reading"`
}

// Status merges the effective target with the latest reading.
type Status struct {
	Target  EffectiveTarget `json:"target"`
	Reading *Reading        `json:"reading"`
}

// PowerUpdate is the message pushed to the socket when the recommendation changes.
type PowerUpdate struct {
	State   *PowerState `json:"state"`
	Target  float64     `json:"target"`
	Current *float64    `json:"current"`
	At      time.Time   `json:"at"`
}
