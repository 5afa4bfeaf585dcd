// internal/matching/tier.go
package matching

import "strings"

// Tier labels a candidate's proficiency with a skill or software.
type Tier string

const (
	TierBeginner     Tier = "BEGINNER"
	TierIntermediate Tier = "INTERMEDIATE"
	TierAdvanced     Tier = "ADVANCED"
)

const maxTierWeight = 3.0

var tierWeights = map[Tier]float64{
	TierBeginner:     1,
	TierIntermediate: 2,
	TierAdvanced:     3,
}

// WeightOf maps a tier to 1, 2 or 3. Unknown labels weigh 1.
func WeightOf(t Tier) float64 {
	if w, ok := tierWeights[Tier(strings.ToUpper(strings.TrimSpace(string(t))))]; ok {
		return w
	}
	return 1
}

// NormalizedWeight is WeightOf scaled into (0, 1].
func NormalizedWeight(t Tier) float64 {
	return WeightOf(t) / maxTierWeight
}
