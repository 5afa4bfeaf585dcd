// internal/store/store.go
package store

import (
	"context"
	"errors"

	"placement-workers/internal/matching"
	"placement-workers/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// StudentStore owns candidate records. ListStudents returns a snapshot in
// insertion order that callers may freely modify.
type StudentStore interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	GetStudent(ctx context.Context, id string) (models.Student, error)
	UpsertStudent(ctx context.Context, s models.Student) error
}

type PostingFilter struct {
	CreatedBy string
	Type      models.PostingType
}

func (f PostingFilter) matches(p models.Posting) bool {
	if f.CreatedBy != "" && p.CreatedBy != f.CreatedBy {
		return false
	}
	if f.Type != "" && p.Type() != f.Type {
		return false
	}
	return true
}

// PostingStore owns postings and assigns their IDs.
type PostingStore interface {
	CreatePosting(ctx context.Context, p models.Posting) (models.Posting, error)
	GetPosting(ctx context.Context, id string) (models.Posting, error)
	ListPostings(ctx context.Context, filter PostingFilter) ([]models.Posting, error)
	SetMatches(ctx context.Context, id string, matches []matching.MatchResult) error
}

type InterviewFilter struct {
	Status    models.InterviewStatus
	PostingID string
}

func (f InterviewFilter) matches(r models.InterviewRequest) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.PostingID != "" && r.PostingID != f.PostingID {
		return false
	}
	return true
}

// InterviewStore owns interview requests and assigns their IDs.
type InterviewStore interface {
	CreateInterviewRequest(ctx context.Context, r models.InterviewRequest) (models.InterviewRequest, error)
	GetInterviewRequest(ctx context.Context, id string) (models.InterviewRequest, error)
	UpdateInterviewRequest(ctx context.Context, r models.InterviewRequest) error
	ListInterviewRequests(ctx context.Context, filter InterviewFilter) ([]models.InterviewRequest, error)
}

// NotificationStore owns per-role notifications.
type NotificationStore interface {
	AddNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	ListNotifications(ctx context.Context, role models.Role, unreadOnly bool) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, role models.Role) (int, error)
}

// Store aggregates every collection the placement service needs.
type Store interface {
	StudentStore
	PostingStore
	InterviewStore
	NotificationStore
}
