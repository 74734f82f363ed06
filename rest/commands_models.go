package rest

import (
	"encoding/json"
	"time"
)

type IssueCommandRequest struct {
	DeviceID string          `json:"device_id"`
	Command  json.RawMessage `json:"command"`
}

type CommandDetail struct {
	ID         string          `json:"id"`
	DeviceID   string          `json:"device_id"`
	Command    json.RawMessage `json:"command"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	ExecutedAt *time.Time      `json:"executed_at,omitempty"`
}

type AcknowledgeRequest struct {
	CommandID string `json:"command_id"`
	Status    string `json:"status"`
}
