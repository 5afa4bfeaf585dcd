// internal/workers/interviews/manage-interview/models.go
package manageinterview

import (
	"time"

	"placement-workers/internal/common/validation"
)

type Input struct {
	RequestID string `json:"requestId"`
	Action    string `json:"action"`
	// ScheduledAt is RFC 3339 or the minute-precision form of an HTML
	// datetime-local field, read as UTC.
	ScheduledAt string `json:"scheduledAt,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type Output struct {
	RequestID   string     `json:"requestId"`
	PostingID   string     `json:"postingId"`
	StudentID   string     `json:"studentId"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["requestId", "action"],
	"properties": {
		"requestId": {"type": "string", "minLength": 1},
		"action": {"type": "string", "minLength": 1},
		"scheduledAt": {"type": "string"},
		"notes": {"type": "string"}
	}
}`)
