// internal/workers/students/search-students/models.go
package searchstudents

import (
	"placement-workers/internal/common/validation"
	"placement-workers/internal/matching"
	"placement-workers/internal/search"
)

type Input struct {
	Text        string             `json:"text,omitempty"`
	Skills      matching.SkillList `json:"skills,omitempty"`
	MinLanguage string             `json:"minLanguage,omitempty"`
	Branch      string             `json:"branch,omitempty"`
	From        int                `json:"from,omitempty"`
	Size        int                `json:"size,omitempty"`
}

type Output struct {
	Total    int64        `json:"total"`
	Students []search.Hit `json:"students"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"text": {"type": "string"},
		"skills": {
			"oneOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}}
			]
		},
		"minLanguage": {"type": "string"},
		"branch": {"type": "string"},
		"from": {"type": "integer", "minimum": 0},
		"size": {"type": "integer", "minimum": 0, "maximum": 100}
	}
}`)
