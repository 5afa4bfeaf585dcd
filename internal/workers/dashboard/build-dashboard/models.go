// internal/workers/dashboard/build-dashboard/models.go
package builddashboard

import (
	"placement-workers/internal/common/validation"
	"placement-workers/internal/placement"
)

type Input struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Output struct {
	Dashboard *placement.Dashboard `json:"dashboard"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "role"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"role": {"type": "string", "minLength": 1}
	}
}`)
