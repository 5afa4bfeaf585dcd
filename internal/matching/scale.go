// internal/matching/scale.go
package matching

import "strings"

// Level is a textual proficiency level on an ordered Scale.
type Level string

// Japanese language levels, lowest first.
const (
	LevelNone Level = "NONE"
	LevelN5   Level = "N5"
	LevelN4   Level = "N4"
	LevelN3   Level = "N3"
	LevelN2   Level = "N2"
	LevelN1   Level = "N1"
)

// Scale is an ordered list of proficiency levels. Index 0 is the "no proficiency"
// level and doubles as the index of every value that is not on the scale.
type Scale struct {
	levels []Level
	index  map[Level]int
}

// NewScale builds a scale from levels ordered lowest first.
func NewScale(levels ...Level) Scale {
	s := Scale{
		levels: make([]Level, len(levels)),
		index:  make(map[Level]int, len(levels)),
	}
	for i, l := range levels {
		canon := canonical(l)
		s.levels[i] = canon
		if _, seen := s.index[canon]; !seen {
			s.index[canon] = i
		}
	}
	return s
}

// LanguageScale is the canonical Japanese proficiency scale.
var LanguageScale = NewScale(LevelNone, LevelN5, LevelN4, LevelN3, LevelN2, LevelN1)

// IndexOf returns the position of level on the scale, or 0 when it is unknown.
func (s Scale) IndexOf(level Level) int {
	if i, ok := s.index[canonical(level)]; ok {
		return i
	}
	return 0
}

// Contains reports whether level is one of the scale's values.
func (s Scale) Contains(level Level) bool {
	_, ok := s.index[canonical(level)]
	return ok
}

// Normalize returns the canonical form of level, or the lowest level when the
// value is not on the scale.
func (s Scale) Normalize(level Level) Level {
	if len(s.levels) == 0 {
		return level
	}
	return s.levels[s.IndexOf(level)]
}

// At returns the level at position i, clamped to the scale bounds.
func (s Scale) At(i int) Level {
	if len(s.levels) == 0 {
		return ""
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s.levels) {
		i = len(s.levels) - 1
	}
	return s.levels[i]
}

// Len returns the number of levels.
func (s Scale) Len() int { return len(s.levels) }

// Levels returns a copy of the ordered levels.
func (s Scale) Levels() []Level {
	out := make([]Level, len(s.levels))
	copy(out, s.levels)
	return out
}

// SecondHighest is the default soft-bonus threshold level.
func (s Scale) SecondHighest() Level {
	return s.At(len(s.levels) - 2)
}

func canonical(l Level) Level {
	return Level(strings.ToUpper(strings.TrimSpace(string(l))))
}
