// internal/placement/postings.go
package placement

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/metrics"
	"placement-workers/internal/matching"
	"placement-workers/internal/models"
	"placement-workers/internal/store"
)

type CreatePostingInput struct {
	Type             string             `json:"type" validate:"required"`
	Title            string             `json:"title" validate:"required,max=200"`
	Description      string             `json:"description,omitempty"`
	Location         string             `json:"location,omitempty"`
	Eligibility      string             `json:"eligibility,omitempty"`
	Experience       string             `json:"experience,omitempty"`
	Duration         string             `json:"duration,omitempty"`
	Stipend          string             `json:"stipend,omitempty"`
	Compensation     string             `json:"compensation,omitempty"`
	ResearchArea     string             `json:"researchArea,omitempty"`
	RequiredSkills   matching.SkillList `json:"requiredSkills"`
	RequiredLanguage string             `json:"requiredLanguage,omitempty"`
	CreatedBy        string             `json:"createdBy" validate:"required"`
}

// CreatePosting stores a new posting, ranks the current students against it
// when its type supports matching, and notifies the admins.
func (s *Service) CreatePosting(ctx context.Context, in CreatePostingInput) (models.Posting, error) {
	if err := validationResult(in); err != nil {
		return models.Posting{}, err
	}

	stipend, err := parseStipend(in.Stipend)
	if err != nil {
		return models.Posting{}, errors.NewInvalidInputError(err.Error())
	}
	details, err := models.NewPostingDetails(in.Type, strings.TrimSpace(in.Duration), stipend,
		strings.TrimSpace(in.Compensation), strings.TrimSpace(in.ResearchArea))
	if err != nil {
		return models.Posting{}, errors.NewInvalidInputError(err.Error())
	}

	req := matching.NormalizeRequirement(matching.RawRequirement{
		Skills:   in.RequiredSkills,
		Language: matching.Level(in.RequiredLanguage),
	})

	posting, err := s.store.CreatePosting(ctx, models.Posting{
		PostingBase: models.PostingBase{
			Title:            strings.TrimSpace(in.Title),
			Description:      in.Description,
			Location:         in.Location,
			Eligibility:      in.Eligibility,
			Experience:       in.Experience,
			RequiredSkills:   req.Skills,
			RequiredLanguage: req.Language,
			CreatedBy:        in.CreatedBy,
			CreatedAt:        s.now(),
		},
		Details: details,
	})
	if err != nil {
		return models.Posting{}, storeError(err, "create posting", nil)
	}

	// The posting is stored either way; rank-candidates can fill in matches later.
	if posting.Matchable() {
		matches, err := s.rankAndStore(ctx, posting)
		if err != nil {
			s.logger.Warn("ranking new posting failed", map[string]interface{}{
				"postingId": posting.ID,
				"error":     err.Error(),
			})
			matches = []matching.MatchResult{}
		}
		posting.Matches = matches
	}

	s.logger.Info("posting created", map[string]interface{}{
		"postingId": posting.ID,
		"type":      string(posting.Type()),
		"createdBy": posting.CreatedBy,
		"matches":   len(posting.Matches),
	})

	link := postingLink(posting.ID)
	roles := []models.Role{models.RoleAdmin}
	if posting.Type() == models.PostingResearch {
		roles = append(roles, models.RoleResearch)
	}
	s.notify(ctx, fmt.Sprintf("New %s posted", posting.Type().Label()), posting.Title, link, roles...)
	return posting, nil
}

func parseStipend(text string) (*int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return nil, fmt.Errorf("stipend must be a whole number, got %q", text)
	}
	return &v, nil
}

func (s *Service) GetPosting(ctx context.Context, id string) (models.Posting, error) {
	p, err := s.store.GetPosting(ctx, id)
	if err != nil {
		return models.Posting{}, storeError(err, "get posting", func() *errors.StandardError {
			return errors.NewPostingNotFoundError(id)
		})
	}
	return p, nil
}

func (s *Service) ListPostings(ctx context.Context, filter store.PostingFilter) ([]models.Posting, error) {
	list, err := s.store.ListPostings(ctx, filter)
	if err != nil {
		return nil, storeError(err, "list postings", nil)
	}
	return list, nil
}

// matchablePosting loads a posting and checks that candidates can be ranked
// against it.
func (s *Service) matchablePosting(ctx context.Context, id string) (models.Posting, matching.RequirementSpec, error) {
	p, err := s.GetPosting(ctx, id)
	if err != nil {
		return models.Posting{}, matching.RequirementSpec{}, err
	}
	req, ok := p.Requirement()
	if !ok {
		return models.Posting{}, matching.RequirementSpec{}, errors.NewPostingNotMatchableError(id, string(p.Type()))
	}
	return p, req, nil
}

// RankPosting re-ranks the current student pool for a posting and stores the
// refreshed matches.
func (s *Service) RankPosting(ctx context.Context, postingID string) ([]matching.MatchResult, error) {
	p, _, err := s.matchablePosting(ctx, postingID)
	if err != nil {
		return nil, err
	}
	return s.rankAndStore(ctx, p)
}

func (s *Service) rankAndStore(ctx context.Context, p models.Posting) ([]matching.MatchResult, error) {
	req, _ := p.Requirement()
	matches, err := s.RankRequirement(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetMatches(ctx, p.ID, matches); err != nil {
		return nil, storeError(err, "store matches", func() *errors.StandardError {
			return errors.NewPostingNotFoundError(p.ID)
		})
	}
	return matches, nil
}

// RankRequirement ranks the current student pool against req.
func (s *Service) RankRequirement(ctx context.Context, req matching.RequirementSpec) ([]matching.MatchResult, error) {
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, storeError(err, "list students", nil)
	}

	started := time.Now()
	matches := s.engine.Rank(req, models.Profiles(students))
	metrics.RankingDuration.Observe(time.Since(started).Seconds())
	metrics.CandidatesScored.Add(float64(len(students)))
	metrics.MatchesReturned.Observe(float64(len(matches)))
	return matches, nil
}

// ScoreStudent scores one student against a matchable posting, without the
// ranking threshold.
func (s *Service) ScoreStudent(ctx context.Context, postingID, studentID string) (matching.MatchResult, error) {
	_, req, err := s.matchablePosting(ctx, postingID)
	if err != nil {
		return matching.MatchResult{}, err
	}
	return s.ScoreRequirement(ctx, req, studentID)
}

func (s *Service) ScoreRequirement(ctx context.Context, req matching.RequirementSpec, studentID string) (matching.MatchResult, error) {
	st, err := s.GetStudent(ctx, studentID)
	if err != nil {
		return matching.MatchResult{}, err
	}
	metrics.CandidatesScored.Inc()
	return s.engine.Score(st.Profile(), req), nil
}
