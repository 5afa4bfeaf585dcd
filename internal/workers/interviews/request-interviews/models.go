// internal/workers/interviews/request-interviews/models.go
package requestinterviews

import "placement-workers/internal/common/validation"

type Input struct {
	PostingID   string   `json:"postingId"`
	StudentIDs  []string `json:"studentIds"`
	RequestedBy string   `json:"requestedBy"`
}

type Output struct {
	PostingID    string   `json:"postingId"`
	RequestIDs   []string `json:"requestIds"`
	RequestCount int      `json:"requestCount"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["postingId", "studentIds", "requestedBy"],
	"properties": {
		"postingId": {"type": "string", "minLength": 1},
		"studentIds": {"type": "array", "items": {"type": "string"}},
		"requestedBy": {"type": "string", "minLength": 1}
	}
}`)
