package matching

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Helpers
// ==========================

func dataAnalystRequirement() RequirementSpec {
	return NormalizeRequirement(RawRequirement{
		Skills:   SkillsFromText("Python, SQL, Excel"),
		Language: LevelN5,
	})
}

func candidateA() CandidateProfile {
	return NewCandidateProfile("A",
		map[string]string{"python": "INTERMEDIATE", "sql": "BEGINNER"},
		map[string]string{"excel": "ADVANCED"},
		"N5",
	)
}

// ==========================
// Scale and tiers
// ==========================

func TestScale_IndexOf(t *testing.T) {
	tests := []struct {
		level Level
		want  int
	}{
		{LevelNone, 0},
		{LevelN5, 1},
		{LevelN4, 2},
		{LevelN3, 3},
		{LevelN2, 4},
		{LevelN1, 5},
		{" n3 ", 3},
		{"N6", 0},
		{"", 0},
		{"fluent", 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, LanguageScale.IndexOf(tt.level))
		})
	}
}

func TestScale_Reusable(t *testing.T) {
	s := NewScale("NONE", "TIER1", "TIER2", "TIER3", "TIER4", "TIER5")
	assert.Equal(t, 6, s.Len())
	assert.Equal(t, 3, s.IndexOf("tier3"))
	assert.Equal(t, Level("TIER4"), s.SecondHighest())
	assert.Equal(t, Level("NONE"), s.Normalize("unknown"))
	assert.Equal(t, Level("TIER5"), s.At(99))
	assert.Equal(t, Level("NONE"), s.At(-1))
}

func TestWeightOf(t *testing.T) {
	assert.Equal(t, 1.0, WeightOf(TierBeginner))
	assert.Equal(t, 2.0, WeightOf(TierIntermediate))
	assert.Equal(t, 3.0, WeightOf(TierAdvanced))
	assert.Equal(t, 3.0, WeightOf("advanced"))
	assert.Equal(t, 1.0, WeightOf("EXPERT"))
	assert.Equal(t, 1.0, WeightOf(""))
	assert.InDelta(t, 1.0/3.0, NormalizedWeight("EXPERT"), 1e-9)
	assert.InDelta(t, 1.0, NormalizedWeight(TierAdvanced), 1e-9)
}

// ==========================
// Requirement normalization
// ==========================

func TestNormalizeRequirement(t *testing.T) {
	tests := []struct {
		name       string
		raw        RawRequirement
		wantSkills []string
		wantLang   Level
	}{
		{
			name:       "free text",
			raw:        RawRequirement{Skills: SkillsFromText(" Python ,SQL,, excel ,"), Language: "n4"},
			wantSkills: []string{"python", "sql", "excel"},
			wantLang:   LevelN4,
		},
		{
			name:       "list keeps duplicates",
			raw:        RawRequirement{Skills: SkillList{"Python", "python", "  "}, Language: ""},
			wantSkills: []string{"python", "python"},
			wantLang:   LevelNone,
		},
		{
			name:       "unknown language becomes none",
			raw:        RawRequirement{Skills: nil, Language: "N6"},
			wantSkills: []string{},
			wantLang:   LevelNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRequirement(tt.raw)
			assert.Equal(t, tt.wantSkills, got.Skills)
			assert.Equal(t, tt.wantLang, got.Language)
		})
	}
}

func TestRawRequirement_UnmarshalJSON(t *testing.T) {
	var fromText RawRequirement
	require.NoError(t, json.Unmarshal([]byte(`{"requiredSkills":"python, sql","requiredLanguage":"N5"}`), &fromText))
	assert.Equal(t, []string{"python", "sql"}, NormalizeRequirement(fromText).Skills)

	var fromList RawRequirement
	require.NoError(t, json.Unmarshal([]byte(`{"requiredSkills":["Embedded C","MATLAB"]}`), &fromList))
	spec := NormalizeRequirement(fromList)
	assert.Equal(t, []string{"embedded c", "matlab"}, spec.Skills)
	assert.Equal(t, LevelNone, spec.Language)

	var bad RawRequirement
	assert.Error(t, json.Unmarshal([]byte(`{"requiredSkills":42}`), &bad))
}

// ==========================
// Scoring
// ==========================

func TestScore_WorkedScenario(t *testing.T) {
	r := Score(candidateA(), dataAnalystRequirement())
	assert.Equal(t, "A", r.CandidateID)
	assert.Equal(t, 0.73, r.Score)
	assert.InDelta(t, 2.0/3.0, r.SkillScore, 1e-9)
	assert.Equal(t, 1.0, r.LanguageScore)
}

func TestScore_DuplicateAndMissingTokensDilute(t *testing.T) {
	req := dataAnalystRequirement()
	req.Skills = append(req.Skills, "cobol")
	r := Score(candidateA(), req)
	assert.Equal(t, 0.6, r.Score)
	assert.InDelta(t, 0.5, r.SkillScore, 1e-9)
}

func TestScore_EmptySkillsGivesLanguageOnly(t *testing.T) {
	c := NewCandidateProfile("x", map[string]string{"python": "ADVANCED"}, nil, "N1")

	required := Score(c, RequirementSpec{Language: LevelN3})
	assert.Equal(t, 0.0, required.SkillScore)
	assert.Equal(t, 0.2, required.Score)

	none := Score(c, RequirementSpec{Language: LevelNone})
	assert.Equal(t, 0.0, none.SkillScore)
	assert.Equal(t, 0.04, none.Score)
}

func TestScore_SkillsBeforeSoftware(t *testing.T) {
	c := NewCandidateProfile("x",
		map[string]string{"git": "BEGINNER"},
		map[string]string{"git": "ADVANCED"},
		"NONE",
	)
	r := Score(c, RequirementSpec{Skills: []string{"git"}, Language: LevelNone})
	assert.InDelta(t, 1.0/3.0, r.SkillScore, 1e-9)
}

func TestScore_CaseInsensitiveProfileKeys(t *testing.T) {
	c := NewCandidateProfile("x", map[string]string{" Python ": "ADVANCED"}, nil, "N5")
	r := Score(c, NormalizeRequirement(RawRequirement{Skills: SkillList{"PYTHON"}}))
	assert.InDelta(t, 1.0, r.SkillScore, 1e-9)
}

func TestScore_Bounds(t *testing.T) {
	tiers := []string{"BEGINNER", "INTERMEDIATE", "ADVANCED", "UNKNOWN"}
	levels := LanguageScale.Levels()
	for _, tier := range tiers {
		for _, have := range levels {
			for _, need := range append(levels, "N9") {
				c := NewCandidateProfile("c", map[string]string{"go": tier}, map[string]string{"vim": tier}, string(have))
				req := NormalizeRequirement(RawRequirement{Skills: SkillList{"go", "vim", "rust", "go"}, Language: need})
				r := Score(c, req)
				assert.GreaterOrEqual(t, r.Score, 0.0)
				assert.LessOrEqual(t, r.Score, 1.0)
			}
		}
	}
}

func TestScore_LanguageRequired(t *testing.T) {
	req := RequirementSpec{Skills: []string{"python"}, Language: LevelN3}
	tests := []struct {
		have Level
		want float64
	}{
		{LevelNone, 0},
		{LevelN5, 0},
		{LevelN4, 0},
		{LevelN3, 1},
		{LevelN2, 1},
		{LevelN1, 1},
		{"garbage", 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.have), func(t *testing.T) {
			c := NewCandidateProfile("x", nil, nil, string(tt.have))
			assert.Equal(t, tt.want, Score(c, req).LanguageScore)
		})
	}
}

func TestScore_SoftBonusDefaultLevel(t *testing.T) {
	e := NewEngine()
	require.Equal(t, LevelN2, e.SoftBonusLevel())

	req := RequirementSpec{Skills: []string{"python"}, Language: LevelNone}
	for i, level := range LanguageScale.Levels() {
		c := NewCandidateProfile("x", nil, nil, string(level))
		want := 0.0
		if i >= LanguageScale.IndexOf(LevelN2) {
			want = SoftLanguageBonus
		}
		assert.Equal(t, want, e.Score(c, req).LanguageScore, "level %s", level)
	}
}

func TestScore_SoftBonusConfigurable(t *testing.T) {
	e := NewEngine(WithSoftBonusLevel("n4"))
	assert.Equal(t, LevelN4, e.SoftBonusLevel())

	req := RequirementSpec{Language: LevelNone}
	assert.Equal(t, 0.0, e.Score(NewCandidateProfile("a", nil, nil, "N5"), req).LanguageScore)
	assert.Equal(t, 0.2, e.Score(NewCandidateProfile("b", nil, nil, "N4"), req).LanguageScore)

	ignored := NewEngine(WithSoftBonusLevel("N9"))
	assert.Equal(t, LevelN2, ignored.SoftBonusLevel())
}

func TestScore_MonotonicInTier(t *testing.T) {
	req := RequirementSpec{Skills: []string{"python", "sql"}, Language: LevelN5}
	prev := -1.0
	for _, tier := range []string{"BEGINNER", "INTERMEDIATE", "ADVANCED"} {
		c := NewCandidateProfile("x", map[string]string{"python": tier, "sql": "BEGINNER"}, nil, "N5")
		r := Score(c, req)
		assert.Greater(t, r.SkillScore, prev)
		prev = r.SkillScore
	}
}

func TestScore_DoesNotMutateInputs(t *testing.T) {
	c := candidateA()
	req := dataAnalystRequirement()
	before := append([]string(nil), req.Skills...)
	_ = Score(c, req)
	assert.Equal(t, before, req.Skills)
	assert.Len(t, c.Skills, 2)
}

// ==========================
// Ranking
// ==========================

func TestRank_ThresholdAndOrder(t *testing.T) {
	req := RequirementSpec{Skills: []string{"python", "sql"}, Language: LevelN5}
	pool := []CandidateProfile{
		NewCandidateProfile("low", map[string]string{"python": "BEGINNER"}, nil, "N5"),
		NewCandidateProfile("mid", map[string]string{"python": "ADVANCED", "sql": "BEGINNER"}, nil, "N5"),
		NewCandidateProfile("top", map[string]string{"python": "ADVANCED", "sql": "ADVANCED"}, nil, "N1"),
	}
	got := Rank(req, pool)
	require.Len(t, got, 2)
	assert.Equal(t, "top", got[0].CandidateID)
	assert.Equal(t, 1.0, got[0].Score)
	assert.Equal(t, "mid", got[1].CandidateID)
	assert.Equal(t, 0.73, got[1].Score)
	for _, r := range got {
		assert.GreaterOrEqual(t, r.Score, MinScore)
	}
}

func TestRank_StableForTies(t *testing.T) {
	req := RequirementSpec{Skills: []string{"python"}, Language: LevelN5}
	var pool []CandidateProfile
	for i := 0; i < 10; i++ {
		pool = append(pool, NewCandidateProfile(fmt.Sprintf("c%d", i), map[string]string{"python": "ADVANCED"}, nil, "N5"))
	}
	got := Rank(req, pool)
	require.Len(t, got, 10)
	for i, r := range got {
		assert.Equal(t, fmt.Sprintf("c%d", i), r.CandidateID)
	}
}

func TestRank_BoundaryUsesRoundedScore(t *testing.T) {
	// 21 tokens, 13 held at ADVANCED: raw score 0.8*39/63 = 0.4952, rounded 0.50.
	var tokens []string
	held := map[string]string{}
	for i := 0; i < 21; i++ {
		name := fmt.Sprintf("skill%d", i)
		tokens = append(tokens, name)
		if i < 13 {
			held[name] = "ADVANCED"
		}
	}
	req := RequirementSpec{Skills: tokens, Language: LevelN1}

	edge := NewCandidateProfile("edge", held, nil, "NONE")
	r := Score(edge, req)
	assert.Less(t, SkillWeight*r.SkillScore, MinScore)
	assert.Equal(t, 0.5, r.Score)
	got := Rank(req, []CandidateProfile{edge})
	require.Len(t, got, 1)
	assert.Equal(t, "edge", got[0].CandidateID)

	delete(held, "skill0")
	held["skill0"] = "INTERMEDIATE"
	below := NewCandidateProfile("below", held, nil, "NONE")
	assert.Equal(t, 0.48, Score(below, req).Score)
	assert.Empty(t, Rank(req, []CandidateProfile{below}))
}

func TestRank_EmptyInputs(t *testing.T) {
	got := Rank(dataAnalystRequirement(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	none := Rank(RequirementSpec{Language: LevelNone}, []CandidateProfile{candidateA()})
	assert.Empty(t, none)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.73, Round2(0.7333333))
	assert.Equal(t, 0.5, Round2(0.4952))
	assert.Equal(t, 0.49, Round2(0.4949))
	assert.Equal(t, 1.0, Round2(1.0))
}
