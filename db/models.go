package db

import (
	"encoding/json"
	"time"
)

const (
	CommandStatusPending = "pending"
	CommandStatusAck     = "ack"
)

// Well-known actuation actions. Unknown actions are stored and delivered
// as-is so new actuators can be added without a server change.
const (
	ActionWater = "water"
	ActionLight = "light"
	ActionFan   = "fan"
)

type Reading struct {
	DeviceID  string    `json:"device_id"`
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type DeviceStatus struct {
	DeviceID string    `json:"device_id"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}

type Command struct {
	ID         string          `json:"id"`
	DeviceID   string          `json:"device_id"`
	Command    json.RawMessage `json:"command"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	ExecutedAt *time.Time      `json:"executed_at,omitempty"`
}

type CommandPayload struct {
	Action     string `json:"action"`
	DurationMS int    `json:"duration_ms,omitempty"`
}

// ActionName extracts the action from a raw command payload. Empty when the
// payload is malformed or carries no action.
func ActionName(payload json.RawMessage) string {
	var p CommandPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return ""
	}
	return p.Action
}
