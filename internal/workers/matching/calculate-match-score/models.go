// internal/workers/matching/calculate-match-score/models.go
package calculatematchscore

import (
	"placement-workers/internal/common/validation"
	"placement-workers/internal/matching"
)

// Input scores one student either against a stored posting or against an
// inline requirement. postingId wins when both are given.
type Input struct {
	StudentID        string             `json:"studentId"`
	PostingID        string             `json:"postingId,omitempty"`
	RequiredSkills   matching.SkillList `json:"requiredSkills,omitempty"`
	RequiredLanguage string             `json:"requiredLanguage,omitempty"`
}

type Output struct {
	StudentID     string  `json:"studentId"`
	PostingID     string  `json:"postingId,omitempty"`
	Score         float64 `json:"score"`
	SkillScore    float64 `json:"skillScore"`
	LanguageScore float64 `json:"languageScore"`
	Qualified     bool    `json:"qualified"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["studentId"],
	"properties": {
		"studentId": {"type": "string", "minLength": 1},
		"postingId": {"type": "string"},
		"requiredSkills": {
			"oneOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}}
			]
		},
		"requiredLanguage": {"type": "string"}
	}
}`)
