package models

import "time"

// Audit event types.
const (
	EventTargetChanged     = "TARGET_CHANGED"
	EventSchemaCreated     = "SCHEMA_CREATED"
	EventSchemaUpdated     = "SCHEMA_UPDATED"
	EventSchemaDeleted     = "SCHEMA_DELETED"
	EventSchemaActivated   = "SCHEMA_ACTIVATED"
	EventSchemaDeactivated = "SCHEMA_DEACTIVATED"
	EventPowerOn           = "POWER_ON"
	EventPowerOff          = "POWER_OFF"
	EventPowerUnknown      = "POWER_UNKNOWN"
)

// Event is a single audit log entry.
type Event struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // TARGET_CHANGED | SCHEMA_* | POWER_*
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
