// internal/workers/notifications/mark-all-read/models.go
package markallread

import "placement-workers/internal/common/validation"

type Input struct {
	Role string `json:"role"`
}

type Output struct {
	Role   string `json:"role"`
	Marked int    `json:"marked"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["role"],
	"properties": {
		"role": {"type": "string", "minLength": 1}
	}
}`)
