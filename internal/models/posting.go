// internal/models/posting.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"placement-workers/internal/matching"
)

type PostingType string

const (
	PostingInternship PostingType = "INTERNSHIP"
	PostingVacancy    PostingType = "VACANCY"
	PostingResearch   PostingType = "RESEARCH"
)

// ParsePostingType accepts any casing; unknown values return false.
func ParsePostingType(s string) (PostingType, bool) {
	switch PostingType(strings.ToUpper(strings.TrimSpace(s))) {
	case PostingInternship:
		return PostingInternship, true
	case PostingVacancy:
		return PostingVacancy, true
	case PostingResearch:
		return PostingResearch, true
	default:
		return "", false
	}
}

// Label is the display form used in notification titles.
func (t PostingType) Label() string {
	switch t {
	case PostingInternship:
		return "Internship"
	case PostingVacancy:
		return "Vacancy"
	case PostingResearch:
		return "Research"
	default:
		return string(t)
	}
}

// PostingBase holds the fields shared by every posting variant.
type PostingBase struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Location         string         `json:"location,omitempty"`
	Eligibility      string         `json:"eligibility,omitempty"`
	Experience       string         `json:"experience,omitempty"`
	RequiredSkills   []string       `json:"requiredSkills"`
	RequiredLanguage matching.Level `json:"requiredLanguage"`
	CreatedBy        string         `json:"createdBy"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// PostingDetails is the variant-specific part of a posting.
type PostingDetails interface {
	Type() PostingType
}

// MatchableDetails is implemented only by variants that candidates can be
// ranked against.
type MatchableDetails interface {
	PostingDetails
	matchable()
}

type InternshipDetails struct {
	Duration string `json:"duration,omitempty"`
	Stipend  *int   `json:"stipend,omitempty"`
}

func (InternshipDetails) Type() PostingType { return PostingInternship }
func (InternshipDetails) matchable()        {}

type VacancyDetails struct {
	Compensation string `json:"compensation,omitempty"`
}

func (VacancyDetails) Type() PostingType { return PostingVacancy }
func (VacancyDetails) matchable()        {}

type ResearchDetails struct {
	ResearchArea string `json:"researchArea,omitempty"`
}

func (ResearchDetails) Type() PostingType { return PostingResearch }

// Posting is a tagged variant: a shared base plus exactly one details value.
type Posting struct {
	PostingBase
	Details PostingDetails          `json:"-"`
	Matches []matching.MatchResult `json:"matches"`
}

// Type returns the variant tag, or "" when Details is unset.
func (p Posting) Type() PostingType {
	if p.Details == nil {
		return ""
	}
	return p.Details.Type()
}

// Matchable reports whether candidates can be ranked against the posting.
func (p Posting) Matchable() bool {
	_, ok := p.Details.(MatchableDetails)
	return ok
}

// Requirement returns the normalized requirement for matchable variants.
func (p Posting) Requirement() (matching.RequirementSpec, bool) {
	if !p.Matchable() {
		return matching.RequirementSpec{}, false
	}
	return matching.NormalizeRequirement(matching.RawRequirement{
		Skills:   matching.SkillList(p.RequiredSkills),
		Language: p.RequiredLanguage,
	}), true
}

// Clone returns a deep copy.
func (p Posting) Clone() Posting {
	out := p
	out.RequiredSkills = append([]string(nil), p.RequiredSkills...)
	if p.Matches != nil {
		out.Matches = append([]matching.MatchResult{}, p.Matches...)
	}
	if d, ok := p.Details.(InternshipDetails); ok && d.Stipend != nil {
		v := *d.Stipend
		d.Stipend = &v
		out.Details = d
	}
	return out
}

type postingJSON struct {
	PostingBase
	Type         PostingType            `json:"type"`
	Duration     string                 `json:"duration,omitempty"`
	Stipend      *int                   `json:"stipend,omitempty"`
	Compensation string                 `json:"compensation,omitempty"`
	ResearchArea string                 `json:"researchArea,omitempty"`
	Matches      []matching.MatchResult `json:"matches"`
}

func (p Posting) MarshalJSON() ([]byte, error) {
	out := postingJSON{PostingBase: p.PostingBase, Type: p.Type(), Matches: p.Matches}
	if out.Matches == nil {
		out.Matches = []matching.MatchResult{}
	}
	switch d := p.Details.(type) {
	case InternshipDetails:
		out.Duration = d.Duration
		out.Stipend = d.Stipend
	case VacancyDetails:
		out.Compensation = d.Compensation
	case ResearchDetails:
		out.ResearchArea = d.ResearchArea
	}
	return json.Marshal(out)
}

func (p *Posting) UnmarshalJSON(data []byte) error {
	var in postingJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	details, err := NewPostingDetails(string(in.Type), in.Duration, in.Stipend, in.Compensation, in.ResearchArea)
	if err != nil {
		return err
	}
	p.PostingBase = in.PostingBase
	p.Details = details
	p.Matches = in.Matches
	return nil
}

// NewPostingDetails builds the variant for postingType, keeping only the
// fields that belong to it.
func NewPostingDetails(postingType, duration string, stipend *int, compensation, researchArea string) (PostingDetails, error) {
	t, ok := ParsePostingType(postingType)
	if !ok {
		return nil, fmt.Errorf("unknown posting type %q", postingType)
	}
	switch t {
	case PostingInternship:
		return InternshipDetails{Duration: duration, Stipend: stipend}, nil
	case PostingVacancy:
		return VacancyDetails{Compensation: compensation}, nil
	default:
		return ResearchDetails{ResearchArea: researchArea}, nil
	}
}
