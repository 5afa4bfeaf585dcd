// internal/models/interview.go
package models

import (
	"strings"
	"time"
)

type InterviewStatus string

const (
	InterviewPending   InterviewStatus = "PENDING"
	InterviewApproved  InterviewStatus = "APPROVED"
	InterviewDeclined  InterviewStatus = "DECLINED"
	InterviewScheduled InterviewStatus = "SCHEDULED"
)

type InterviewAction string

const (
	ActionApprove  InterviewAction = "approve"
	ActionDecline  InterviewAction = "decline"
	ActionSchedule InterviewAction = "schedule"
)

// ResultingStatus maps an action to the status it produces.
func (a InterviewAction) ResultingStatus() (InterviewStatus, bool) {
	switch InterviewAction(strings.ToLower(strings.TrimSpace(string(a)))) {
	case ActionApprove:
		return InterviewApproved, true
	case ActionDecline:
		return InterviewDeclined, true
	case ActionSchedule:
		return InterviewScheduled, true
	default:
		return "", false
	}
}

type InterviewRequest struct {
	ID          string          `json:"id"`
	PostingID   string          `json:"postingId"`
	StudentID   string          `json:"studentId"`
	Status      InterviewStatus `json:"status"`
	ScheduledAt *time.Time      `json:"scheduledAt,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	RequestedBy string          `json:"requestedBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Clone returns a deep copy.
func (r InterviewRequest) Clone() InterviewRequest {
	out := r
	if r.ScheduledAt != nil {
		ts := *r.ScheduledAt
		out.ScheduledAt = &ts
	}
	return out
}
