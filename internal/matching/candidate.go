// internal/matching/candidate.go
package matching

// CandidateProfile is a read-only view of a candidate used for scoring.
// Skill and software names are stored trimmed and lowercased.
type CandidateProfile struct {
	ID       string
	Skills   map[string]Tier
	Software map[string]Tier
	Language Level
}

// NewCandidateProfile builds a profile from raw name-to-tier maps. When two raw
// names collapse onto the same key the heavier tier is kept.
func NewCandidateProfile(id string, skills, software map[string]string, language string) CandidateProfile {
	return CandidateProfile{
		ID:       id,
		Skills:   normalizeTiers(skills),
		Software: normalizeTiers(software),
		Language: Level(language),
	}
}

// TierFor looks up a token in skills first and software second.
func (c CandidateProfile) TierFor(token string) (Tier, bool) {
	if t, ok := c.Skills[token]; ok {
		return t, true
	}
	if t, ok := c.Software[token]; ok {
		return t, true
	}
	return "", false
}

func normalizeTiers(raw map[string]string) map[string]Tier {
	out := make(map[string]Tier, len(raw))
	for name, tier := range raw {
		key := normalizeName(name)
		if key == "" {
			continue
		}
		t := Tier(tier)
		if prev, ok := out[key]; ok && WeightOf(prev) >= WeightOf(t) {
			continue
		}
		out[key] = t
	}
	return out
}
