// internal/matching/requirement.go
package matching

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SkillList holds raw required-skill entries. In JSON it may be either a
// comma-separated string or an array of strings.
type SkillList []string

// SkillsFromText splits comma-separated free text into raw entries.
func SkillsFromText(text string) SkillList {
	if text == "" {
		return nil
	}
	return SkillList(strings.Split(text, ","))
}

func (l *SkillList) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = SkillsFromText(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("requiredSkills must be a string or a list of strings: %w", err)
	}
	*l = SkillList(list)
	return nil
}

// RawRequirement is a posting's requirement as entered by its author.
type RawRequirement struct {
	Skills   SkillList `json:"requiredSkills"`
	Language Level     `json:"requiredLanguage,omitempty"`
}

// RequirementSpec is the normalized form consumed by the scorer.
type RequirementSpec struct {
	Skills   []string `json:"skills"`
	Language Level    `json:"language"`
}

// NormalizeRequirement trims and lowercases skill tokens, drops empty ones and
// keeps duplicates in their original order. A blank or unrecognized language
// becomes NONE.
func NormalizeRequirement(raw RawRequirement) RequirementSpec {
	return RequirementSpec{
		Skills:   NormalizeSkills(raw.Skills),
		Language: LanguageScale.Normalize(raw.Language),
	}
}

// NormalizeSkills applies the token rules of NormalizeRequirement to a list.
func NormalizeSkills(entries []string) []string {
	tokens := make([]string, 0, len(entries))
	for _, e := range entries {
		t := normalizeName(e)
		if t == "" {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// Required reports whether the requirement asks for any language level.
func (r RequirementSpec) Required() bool {
	return LanguageScale.IndexOf(r.Language) > 0
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
