package placement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/models"
	"placement-workers/internal/store"
)

type RequestInterviewsInput struct {
	PostingID   string   `json:"postingId" validate:"required"`
	StudentIDs  []string `json:"studentIds"`
	RequestedBy string   `json:"requestedBy" validate:"required"`
}

// RequestInterviews opens one PENDING request per selected student and tells
// the admins how many arrived.
func (s *Service) RequestInterviews(ctx context.Context, in RequestInterviewsInput) ([]models.InterviewRequest, error) {
	if err := validationResult(in); err != nil {
		return nil, err
	}

	posting, err := s.GetPosting(ctx, in.PostingID)
	if err != nil {
		return nil, err
	}

	ids := uniqueIDs(in.StudentIDs)
	if len(ids) == 0 {
		return nil, errors.NewNoStudentsSelectedError(in.PostingID)
	}
	for _, id := range ids {
		if _, err := s.GetStudent(ctx, id); err != nil {
			return nil, err
		}
	}

	created := make([]models.InterviewRequest, 0, len(ids))
	for _, id := range ids {
		r, err := s.store.CreateInterviewRequest(ctx, models.InterviewRequest{
			PostingID:   posting.ID,
			StudentID:   id,
			Status:      models.InterviewPending,
			RequestedBy: in.RequestedBy,
			CreatedAt:   s.now(),
		})
		if err != nil {
			return nil, storeError(err, "create interview request", nil)
		}
		created = append(created, r)
	}

	s.notify(ctx, "Interview Requests",
		fmt.Sprintf("%d request(s) for '%s'", len(created), posting.Title), "/interview_requests", models.RoleAdmin)
	return created, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

type UpdateInterviewInput struct {
	ID          string     `json:"id" validate:"required"`
	Action      string     `json:"action" validate:"required"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// UpdateInterview applies an admin decision. Scheduling replaces the
// scheduled time (possibly with none); notes are always overwritten.
func (s *Service) UpdateInterview(ctx context.Context, in UpdateInterviewInput) (models.InterviewRequest, error) {
	if err := validationResult(in); err != nil {
		return models.InterviewRequest{}, err
	}
	status, ok := models.InterviewAction(in.Action).ResultingStatus()
	if !ok {
		return models.InterviewRequest{}, errors.NewInvalidInterviewActionError(in.Action)
	}

	notFound := func() *errors.StandardError { return errors.NewInterviewNotFoundError(in.ID) }
	r, err := s.store.GetInterviewRequest(ctx, in.ID)
	if err != nil {
		return models.InterviewRequest{}, storeError(err, "get interview request", notFound)
	}

	r.Status = status
	if status == models.InterviewScheduled {
		r.ScheduledAt = nil
		if in.ScheduledAt != nil {
			ts := in.ScheduledAt.UTC()
			r.ScheduledAt = &ts
		}
	}
	r.Notes = in.Notes

	if err := s.store.UpdateInterviewRequest(ctx, r); err != nil {
		return models.InterviewRequest{}, storeError(err, "update interview request", notFound)
	}

	s.logger.Info("interview request updated", map[string]interface{}{
		"requestId": r.ID,
		"status":    string(r.Status),
	})
	return r, nil
}

// InterviewRow is a request joined with its posting and student. Either may
// be nil when the referenced record no longer exists.
type InterviewRow struct {
	Request models.InterviewRequest `json:"request"`
	Posting *models.Posting         `json:"posting,omitempty"`
	Student *models.Student         `json:"student,omitempty"`
}

func (s *Service) ListInterviews(ctx context.Context, filter store.InterviewFilter) ([]InterviewRow, error) {
	requests, err := s.store.ListInterviewRequests(ctx, filter)
	if err != nil {
		return nil, storeError(err, "list interview requests", nil)
	}
	return s.joinInterviews(ctx, requests)
}

func (s *Service) joinInterviews(ctx context.Context, requests []models.InterviewRequest) ([]InterviewRow, error) {
	postings := map[string]*models.Posting{}
	students := map[string]*models.Student{}

	rows := make([]InterviewRow, 0, len(requests))
	for _, r := range requests {
		p, ok := postings[r.PostingID]
		if !ok {
			got, err := s.store.GetPosting(ctx, r.PostingID)
			if err != nil && !isNotFound(err) {
				return nil, storeError(err, "get posting", nil)
			}
			if err == nil {
				p = &got
			}
			postings[r.PostingID] = p
		}
		st, ok := students[r.StudentID]
		if !ok {
			got, err := s.store.GetStudent(ctx, r.StudentID)
			if err != nil && !isNotFound(err) {
				return nil, storeError(err, "get student", nil)
			}
			if err == nil {
				st = &got
			}
			students[r.StudentID] = st
		}
		rows = append(rows, InterviewRow{Request: r, Posting: p, Student: st})
	}
	return rows, nil
}
