// internal/placement/dashboard.go
package placement

import (
	"context"
	"sort"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/matching"
	"placement-workers/internal/models"
	"placement-workers/internal/store"
)

// RegisterResearchInterest records that the research office wants a research
// posting and tells the admins and the company.
func (s *Service) RegisterResearchInterest(ctx context.Context, postingID string) (models.Posting, error) {
	p, err := s.GetPosting(ctx, postingID)
	if err != nil {
		return models.Posting{}, err
	}
	if p.Type() != models.PostingResearch {
		return models.Posting{}, errors.NewPostingNotFoundError(postingID).
			WithMetadata("expectedType", string(models.PostingResearch))
	}

	link := postingLink(p.ID)
	s.notify(ctx, "SPORIC interested", p.Title, link, models.RoleAdmin, models.RoleCompany)
	return p, nil
}

func (s *Service) ListNotifications(ctx context.Context, role models.Role, unreadOnly bool) ([]models.Notification, error) {
	list, err := s.store.ListNotifications(ctx, role, unreadOnly)
	if err != nil {
		return nil, storeError(err, "list notifications", nil)
	}
	return list, nil
}

// MarkAllRead marks every notification of role as read and returns how many
// changed.
func (s *Service) MarkAllRead(ctx context.Context, role models.Role) (int, error) {
	n, err := s.store.MarkAllRead(ctx, role)
	if err != nil {
		return 0, storeError(err, "mark notifications read", nil)
	}
	return n, nil
}

type PostingMatches struct {
	Posting models.Posting         `json:"posting"`
	Top     []matching.MatchResult `json:"top"`
}

// Dashboard is the role-specific overview. Only the sections for the
// requested role are filled.
type Dashboard struct {
	Role        models.Role      `json:"role"`
	Username    string           `json:"username"`
	Postings    []models.Posting `json:"postings,omitempty"`
	TopMatches  []PostingMatches `json:"topMatches,omitempty"`
	UnreadCount int              `json:"unreadCount"`
	Upcoming    []InterviewRow   `json:"upcoming,omitempty"`
	Research    []models.Posting `json:"research,omitempty"`
}

func (s *Service) Dashboard(ctx context.Context, username string, role models.Role) (*Dashboard, error) {
	role, ok := models.ParseRole(string(role))
	if !ok {
		return nil, errors.NewInvalidInputError("unknown role")
	}
	d := &Dashboard{Role: role, Username: username}

	unread, err := s.ListNotifications(ctx, role, true)
	if err != nil {
		return nil, err
	}
	d.UnreadCount = len(unread)

	switch role {
	case models.RoleCompany:
		mine, err := s.ListPostings(ctx, store.PostingFilter{CreatedBy: username})
		if err != nil {
			return nil, err
		}
		d.Postings = mine
		for _, p := range mine {
			if !p.Matchable() || len(p.Matches) == 0 {
				continue
			}
			top := p.Matches
			if len(top) > s.topN {
				top = top[:s.topN]
			}
			d.TopMatches = append(d.TopMatches, PostingMatches{
				Posting: p,
				Top:     append([]matching.MatchResult(nil), top...),
			})
		}

	case models.RoleAdmin:
		all, err := s.ListPostings(ctx, store.PostingFilter{})
		if err != nil {
			return nil, err
		}
		d.Postings = all
		upcoming, err := s.ListInterviews(ctx, store.InterviewFilter{Status: models.InterviewScheduled})
		if err != nil {
			return nil, err
		}
		sortUpcoming(upcoming)
		d.Upcoming = upcoming

	case models.RoleResearch:
		research, err := s.ListPostings(ctx, store.PostingFilter{Type: models.PostingResearch})
		if err != nil {
			return nil, err
		}
		d.Research = research
	}
	return d, nil
}

// sortUpcoming orders by scheduled time, soonest first; requests without a
// time come first.
func sortUpcoming(rows []InterviewRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Request.ScheduledAt, rows[j].Request.ScheduledAt
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
}
