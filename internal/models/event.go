package models

import "time"

// Control event types recorded in the action log.
const (
	EventHeaterOperation   = "HEATER_OPERATION"
	EventTemperatureChange = "TEMPERATURE_CHANGE"
	EventAuth              = "AUTH"
	EventSystem            = "SYSTEM_EVENT"
	EventError             = "ERROR"
)

// ControlEvent is a single entry in the action log.
type ControlEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	RoomID      string    `json:"room_id,omitempty"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
