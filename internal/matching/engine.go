// internal/matching/engine.go
package matching

import (
	"math"
	"sort"
)

const (
	SkillWeight    = 0.8
	LanguageWeight = 0.2

	// SoftLanguageBonus is the language score granted when no level is required
	// but the candidate reaches the soft-bonus level anyway.
	SoftLanguageBonus = 0.2

	// MinScore is the inclusive threshold applied to rounded scores.
	MinScore = 0.5
)

// MatchResult is a candidate's score against one requirement. Score is rounded
// to two decimals; the components are kept unrounded.
type MatchResult struct {
	CandidateID   string  `json:"candidateId"`
	Score         float64 `json:"score"`
	SkillScore    float64 `json:"skillScore"`
	LanguageScore float64 `json:"languageScore"`
}

// Engine scores and ranks candidates. The zero value is not usable; use NewEngine.
type Engine struct {
	scale          Scale
	softBonusLevel Level
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSoftBonusLevel sets the level a candidate must reach to earn the soft
// language bonus when a posting requires no language. Values not on the scale
// are ignored.
func WithSoftBonusLevel(level Level) Option {
	return func(e *Engine) {
		if level != "" && e.scale.Contains(level) {
			e.softBonusLevel = e.scale.Normalize(level)
		}
	}
}

// NewEngine returns an engine over LanguageScale. The soft-bonus level defaults
// to the second-highest level on the scale.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		scale:          LanguageScale,
		softBonusLevel: LanguageScale.SecondHighest(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SoftBonusLevel returns the configured soft-bonus level.
func (e *Engine) SoftBonusLevel() Level { return e.softBonusLevel }

var defaultEngine = NewEngine()

// Score scores one candidate with the default engine.
func Score(c CandidateProfile, req RequirementSpec) MatchResult {
	return defaultEngine.Score(c, req)
}

// Rank ranks candidates with the default engine.
func Rank(req RequirementSpec, candidates []CandidateProfile) []MatchResult {
	return defaultEngine.Rank(req, candidates)
}

// Score computes 0.8*skill + 0.2*language for one candidate.
func (e *Engine) Score(c CandidateProfile, req RequirementSpec) MatchResult {
	skill := e.skillScore(c, req.Skills)
	lang := e.languageScore(c.Language, req.Language)
	final := SkillWeight*skill + LanguageWeight*lang
	return MatchResult{
		CandidateID:   c.ID,
		Score:         Round2(final),
		SkillScore:    skill,
		LanguageScore: lang,
	}
}

func (e *Engine) skillScore(c CandidateProfile, tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	var total float64
	for _, token := range tokens {
		if t, ok := c.TierFor(token); ok {
			total += NormalizedWeight(t)
		}
	}
	return total / float64(len(tokens))
}

func (e *Engine) languageScore(candidate, required Level) float64 {
	have := e.scale.IndexOf(candidate)
	need := e.scale.IndexOf(required)
	switch {
	case need > 0 && have >= need:
		return 1.0
	case need > 0:
		return 0.0
	case have >= e.scale.IndexOf(e.softBonusLevel):
		return SoftLanguageBonus
	default:
		return 0.0
	}
}

// Rank scores every candidate, keeps rounded scores of at least MinScore and
// orders them by score descending. Equal scores keep their input order.
func (e *Engine) Rank(req RequirementSpec, candidates []CandidateProfile) []MatchResult {
	results := make([]MatchResult, 0, len(candidates))
	for _, c := range candidates {
		r := e.Score(c, req)
		if r.Score >= MinScore {
			results = append(results, r)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
