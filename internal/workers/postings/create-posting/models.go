// internal/workers/postings/create-posting/models.go
package createposting

import (
	"placement-workers/internal/common/validation"
	"placement-workers/internal/matching"
)

// Input mirrors the posting form. Stipend may arrive as a number or a string.
type Input struct {
	Type             string             `json:"type"`
	Title            string             `json:"title"`
	Description      string             `json:"description,omitempty"`
	Location         string             `json:"location,omitempty"`
	Eligibility      string             `json:"eligibility,omitempty"`
	Experience       string             `json:"experience,omitempty"`
	Duration         string             `json:"duration,omitempty"`
	Stipend          interface{}        `json:"stipend,omitempty"`
	Compensation     string             `json:"compensation,omitempty"`
	ResearchArea     string             `json:"researchArea,omitempty"`
	RequiredSkills   matching.SkillList `json:"requiredSkills,omitempty"`
	RequiredLanguage string             `json:"requiredLanguage,omitempty"`
	CreatedBy        string             `json:"createdBy"`
}

type Output struct {
	PostingID   string                 `json:"postingId"`
	PostingType string                 `json:"postingType"`
	Matchable   bool                   `json:"matchable"`
	Matches     []matching.MatchResult `json:"matches"`
	MatchCount  int                    `json:"matchCount"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["type", "title", "createdBy"],
	"properties": {
		"type": {"type": "string", "minLength": 1},
		"title": {"type": "string", "minLength": 1, "maxLength": 200},
		"description": {"type": "string"},
		"location": {"type": "string"},
		"eligibility": {"type": "string"},
		"experience": {"type": "string"},
		"duration": {"type": "string"},
		"stipend": {"type": ["string", "integer", "null"]},
		"compensation": {"type": "string"},
		"researchArea": {"type": "string"},
		"requiredSkills": {
			"oneOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}}
			]
		},
		"requiredLanguage": {"type": "string"},
		"createdBy": {"type": "string", "minLength": 1}
	}
}`)
