// internal/store/memory.go
package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"placement-workers/internal/matching"
	"placement-workers/internal/models"
)

// Memory is an in-process Store. Every read returns deep copies.
type Memory struct {
	mu sync.RWMutex

	nextPostingID   int
	nextInterviewID int

	studentOrder  []string
	students      map[string]models.Student
	postingOrder  []string
	postings      map[string]models.Posting
	interviewSeq  []string
	interviews    map[string]models.InterviewRequest
	notifications []models.Notification

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		students:   make(map[string]models.Student),
		postings:   make(map[string]models.Posting),
		interviews: make(map[string]models.InterviewRequest),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// nextID advances one of the per-collection counters.
func nextID(counter *int) string {
	*counter++
	return strconv.Itoa(*counter)
}

// --- students ---

func (m *Memory) ListStudents(ctx context.Context) ([]models.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Student, 0, len(m.studentOrder))
	for _, id := range m.studentOrder {
		out = append(out, m.students[id].Clone())
	}
	return out, nil
}

func (m *Memory) GetStudent(ctx context.Context, id string) (models.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.students[id]
	if !ok {
		return models.Student{}, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	return s.Clone(), nil
}

func (m *Memory) UpsertStudent(ctx context.Context, s models.Student) error {
	if s.ID == "" {
		return fmt.Errorf("student id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.students[s.ID]; !exists {
		m.studentOrder = append(m.studentOrder, s.ID)
	}
	m.students[s.ID] = s.Clone()
	return nil
}

// --- postings ---

func (m *Memory) CreatePosting(ctx context.Context, p models.Posting) (models.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = p.Clone()
	p.ID = nextID(&m.nextPostingID)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.now()
	}
	m.postings[p.ID] = p
	m.postingOrder = append(m.postingOrder, p.ID)
	return p.Clone(), nil
}

func (m *Memory) GetPosting(ctx context.Context, id string) (models.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.postings[id]
	if !ok {
		return models.Posting{}, fmt.Errorf("posting %s: %w", id, ErrNotFound)
	}
	return p.Clone(), nil
}

// ListPostings returns matching postings, newest first.
func (m *Memory) ListPostings(ctx context.Context, filter PostingFilter) ([]models.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Posting, 0)
	for i := len(m.postingOrder) - 1; i >= 0; i-- {
		p := m.postings[m.postingOrder[i]]
		if filter.matches(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (m *Memory) SetMatches(ctx context.Context, id string, matches []matching.MatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.postings[id]
	if !ok {
		return fmt.Errorf("posting %s: %w", id, ErrNotFound)
	}
	p.Matches = append([]matching.MatchResult{}, matches...)
	m.postings[id] = p
	return nil
}

// --- interviews ---

func (m *Memory) CreateInterviewRequest(ctx context.Context, r models.InterviewRequest) (models.InterviewRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r = r.Clone()
	r.ID = nextID(&m.nextInterviewID)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = m.now()
	}
	m.interviews[r.ID] = r
	m.interviewSeq = append(m.interviewSeq, r.ID)
	return r.Clone(), nil
}

func (m *Memory) GetInterviewRequest(ctx context.Context, id string) (models.InterviewRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.interviews[id]
	if !ok {
		return models.InterviewRequest{}, fmt.Errorf("interview request %s: %w", id, ErrNotFound)
	}
	return r.Clone(), nil
}

func (m *Memory) UpdateInterviewRequest(ctx context.Context, r models.InterviewRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.interviews[r.ID]; !ok {
		return fmt.Errorf("interview request %s: %w", r.ID, ErrNotFound)
	}
	m.interviews[r.ID] = r.Clone()
	return nil
}

// ListInterviewRequests returns matching requests in creation order.
func (m *Memory) ListInterviewRequests(ctx context.Context, filter InterviewFilter) ([]models.InterviewRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.InterviewRequest, 0)
	for _, id := range m.interviewSeq {
		r := m.interviews[id]
		if filter.matches(r) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

// --- notifications ---

func (m *Memory) AddNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.now()
	}
	m.notifications = append(m.notifications, n)
	return n, nil
}

// ListNotifications returns a role's notifications, newest first.
func (m *Memory) ListNotifications(ctx context.Context, role models.Role, unreadOnly bool) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Notification, 0)
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if n.ToRole != role || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *Memory) MarkAllRead(ctx context.Context, role models.Role) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for i := range m.notifications {
		if m.notifications[i].ToRole == role && !m.notifications[i].Read {
			m.notifications[i].Read = true
			count++
		}
	}
	return count, nil
}

var _ Store = (*Memory)(nil)
