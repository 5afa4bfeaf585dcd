// internal/models/student.go
package models

import "placement-workers/internal/matching"

type Student struct {
	ID           string            `json:"id"`
	RegNo        string            `json:"regNo"`
	Name         string            `json:"name"`
	DegreeLevel  string            `json:"degreeLevel,omitempty"`
	Branch       string            `json:"branch,omitempty"`
	TenthScore   float64           `json:"tenthScore,omitempty"`
	TwelfthScore float64           `json:"twelfthScore,omitempty"`
	Skills       map[string]string `json:"skills"`
	Softwares    map[string]string `json:"softwares"`
	Japanese     string            `json:"japanese"`
}

// Profile converts the record into the scorer's view.
func (s Student) Profile() matching.CandidateProfile {
	return matching.NewCandidateProfile(s.ID, s.Skills, s.Softwares, s.Japanese)
}

// Clone returns a deep copy.
func (s Student) Clone() Student {
	out := s
	out.Skills = cloneMap(s.Skills)
	out.Softwares = cloneMap(s.Softwares)
	return out
}

// Profiles converts students in order.
func Profiles(students []Student) []matching.CandidateProfile {
	out := make([]matching.CandidateProfile, len(students))
	for i, s := range students {
		out[i] = s.Profile()
	}
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
