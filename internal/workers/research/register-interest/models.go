// internal/workers/research/register-interest/models.go
package registerinterest

import "placement-workers/internal/common/validation"

type Input struct {
	PostingID string `json:"postingId"`
}

type Output struct {
	PostingID     string   `json:"postingId"`
	Title         string   `json:"title"`
	ResearchArea  string   `json:"researchArea,omitempty"`
	NotifiedRoles []string `json:"notifiedRoles"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["postingId"],
	"properties": {
		"postingId": {"type": "string", "minLength": 1}
	}
}`)
