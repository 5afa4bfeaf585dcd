// internal/workers/matching/rank-candidates/models.go
package rankcandidates

import (
	"placement-workers/internal/common/validation"
	"placement-workers/internal/matching"
)

type Input struct {
	PostingID        string             `json:"postingId,omitempty"`
	PostingType      string             `json:"postingType,omitempty"`
	RequiredSkills   matching.SkillList `json:"requiredSkills,omitempty"`
	RequiredLanguage string             `json:"requiredLanguage,omitempty"`
	Limit            int                `json:"limit,omitempty"`
}

type Output struct {
	PostingID  string                 `json:"postingId,omitempty"`
	Matches    []matching.MatchResult `json:"matches"`
	MatchCount int                    `json:"matchCount"`
	TopMatch   string                 `json:"topMatch,omitempty"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"anyOf": [
		{"required": ["postingId"]},
		{"required": ["requiredSkills"]}
	],
	"properties": {
		"postingId": {"type": "string", "minLength": 1},
		"postingType": {"type": "string", "enum": ["INTERNSHIP", "VACANCY", "RESEARCH", "internship", "vacancy", "research"]},
		"requiredSkills": {
			"oneOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}}
			]
		},
		"requiredLanguage": {"type": "string"},
		"limit": {"type": "integer", "minimum": 0}
	}
}`)
