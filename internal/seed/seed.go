// internal/seed/seed.go
package seed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/matching"
	"placement-workers/internal/models"
	"placement-workers/internal/placement"
	"placement-workers/internal/store"
)

// DemoCompany is the company account that owns the demo postings.
const DemoCompany = "JASA01"

// DemoUsers maps the demo accounts to their roles.
var DemoUsers = map[string]models.Role{
	"JASA01":   models.RoleCompany,
	"VIT01":    models.RoleAdmin,
	"SPORIC01": models.RoleResearch,
}

func Students() []models.Student {
	return []models.Student{
		{
			ID: "stu1", RegNo: "VIT2023CSE001", Name: "Aarya Iyer",
			DegreeLevel: "Undergrad", Branch: "CSE (AI & Robotics)",
			TenthScore: 92, TwelfthScore: 90,
			Skills: map[string]string{
				"python": "INTERMEDIATE", "c++": "INTERMEDIATE", "java": "BEGINNER", "sql": "BEGINNER",
			},
			Softwares: map[string]string{"excel": "ADVANCED", "git": "INTERMEDIATE"},
			Japanese:  "N5",
		},
		{
			ID: "stu2", RegNo: "VIT2022EEE045", Name: "Rohan Mehta",
			DegreeLevel: "Undergrad", Branch: "EEE",
			TenthScore: 88, TwelfthScore: 85,
			Skills: map[string]string{
				"embedded c": "INTERMEDIATE", "python": "BEGINNER", "matlab": "ADVANCED",
			},
			Softwares: map[string]string{"simulink": "ADVANCED", "autocad": "INTERMEDIATE"},
			Japanese:  "N4",
		},
		{
			ID: "stu3", RegNo: "VIT2021ME120", Name: "Sneha Narayanan",
			DegreeLevel: "Undergrad", Branch: "Mechanical",
			TenthScore: 95, TwelfthScore: 93,
			Skills:    map[string]string{"python": "BEGINNER"},
			Softwares: map[string]string{"solidworks": "ADVANCED", "ansys": "INTERMEDIATE"},
			Japanese:  "N3",
		},
	}
}

func Postings() []placement.CreatePostingInput {
	return []placement.CreatePostingInput{
		{
			Type: "INTERNSHIP", Title: "Data Analyst Intern (JASA)",
			Description: "Python + SQL + Excel for dashboards.", Location: "Chennai",
			Duration: "3 months", Stipend: "15000",
			Eligibility: "Undergrad (CSE/IT/DS)", Experience: "0-1 yrs",
			RequiredSkills: matching.SkillList{"python", "sql", "excel"}, RequiredLanguage: "N5",
		},
		{
			Type: "INTERNSHIP", Title: "Embedded Systems Intern",
			Description: "Work with Embedded C, MATLAB/Simulink.", Location: "Chennai",
			Duration: "2 months", Stipend: "12000",
			Eligibility: "EEE/ECE Undergrad", Experience: "0-1 yrs",
			RequiredSkills: matching.SkillList{"embedded c", "matlab", "simulink"}, RequiredLanguage: "N5",
		},
		{
			Type: "VACANCY", Title: "Junior Mechanical Design Engineer",
			Description: "CAD modeling and FEA support.", Location: "Chennai",
			Compensation: "₹5–6 LPA", Eligibility: "B.Tech Mechanical", Experience: "1-2 yrs",
			RequiredSkills: matching.SkillList{"solidworks", "ansys"}, RequiredLanguage: "N5",
		},
		{
			Type: "RESEARCH", Title: "AI for Predictive Maintenance in Manufacturing",
			Description: "Python/Pandas/Scikit for failure prediction.", ResearchArea: "AI/ML",
			RequiredSkills: matching.SkillList{"python", "pandas", "scikit-learn"}, RequiredLanguage: "N4",
		},
		{
			Type: "RESEARCH", Title: "Renewable Energy Microgrids Control",
			Description: "Control strategies in microgrids.", ResearchArea: "Power Systems",
			RequiredSkills: matching.SkillList{"matlab", "simulink", "control systems"}, RequiredLanguage: "NONE",
		},
		{
			Type: "RESEARCH", Title: "Lightweight Composite Brackets",
			Description: "Topology optimization and FEA.", ResearchArea: "Mechanical Design",
			RequiredSkills: matching.SkillList{"solidworks", "ansys"}, RequiredLanguage: "NONE",
		},
	}
}

// Seeder loads the demo data set once.
type Seeder struct {
	service *placement.Service
	store   store.Store
	logger  logger.Logger
	now     func() time.Time

	mu   sync.Mutex
	done bool
}

func NewSeeder(service *placement.Service, s store.Store, log logger.Logger) *Seeder {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Seeder{
		service: service,
		store:   s,
		logger:  log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Summary reports what a seeding run created.
type Summary struct {
	Students   int                       `json:"students"`
	Postings   []models.Posting          `json:"postings"`
	Interviews []models.InterviewRequest `json:"interviews"`
}

// Seed creates the demo students and postings, then schedules an interview
// two days out for the top match of every ranked posting. Later calls on the
// same Seeder do nothing and return nil.
func (s *Seeder) Seed(ctx context.Context) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil, nil
	}

	summary := &Summary{}
	for _, st := range Students() {
		if err := s.service.UpsertStudent(ctx, st); err != nil {
			return nil, err
		}
		summary.Students++
	}

	for _, in := range Postings() {
		in.CreatedBy = DemoCompany
		p, err := s.service.CreatePosting(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("seed posting %q: %w", in.Title, err)
		}
		summary.Postings = append(summary.Postings, p)
	}

	when := s.now().Add(48 * time.Hour).Truncate(time.Minute)
	for _, p := range summary.Postings {
		if !p.Matchable() || len(p.Matches) == 0 {
			continue
		}
		scheduled := when
		r, err := s.store.CreateInterviewRequest(ctx, models.InterviewRequest{
			PostingID:   p.ID,
			StudentID:   p.Matches[0].CandidateID,
			Status:      models.InterviewScheduled,
			ScheduledAt: &scheduled,
			Notes:       "Initial HR + tech round",
			RequestedBy: DemoCompany,
			CreatedAt:   s.now(),
		})
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("seed interview", err)
		}
		summary.Interviews = append(summary.Interviews, r)
	}

	if err := s.service.Broadcast(ctx, []models.Role{models.RoleAdmin}, "Interviews Scheduled",
		"Demo: a couple of interviews were scheduled automatically.", "/interview_requests"); err != nil {
		return nil, errors.NewQueryExecutionFailedError("seed notification", err)
	}

	s.done = true
	s.logger.Info("demo data seeded", map[string]interface{}{
		"students":   summary.Students,
		"postings":   len(summary.Postings),
		"interviews": len(summary.Interviews),
	})
	return summary, nil
}
