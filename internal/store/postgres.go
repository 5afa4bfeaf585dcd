// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"placement-workers/internal/matching"
	"placement-workers/internal/models"
)

// Postgres keeps students and postings as JSONB documents next to the
// columns used for filtering. Interviews and notifications are plain rows.
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, now: func() time.Time { return time.Now().UTC() }}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		seq BIGSERIAL,
		id TEXT PRIMARY KEY,
		document JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS postings (
		id BIGSERIAL PRIMARY KEY,
		type TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		document JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS interview_requests (
		id BIGSERIAL PRIMARY KEY,
		posting_id TEXT NOT NULL,
		student_id TEXT NOT NULL,
		status TEXT NOT NULL,
		scheduled_at TIMESTAMPTZ NULL,
		notes TEXT NOT NULL DEFAULT '',
		requested_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		to_role TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		link TEXT NOT NULL DEFAULT '',
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_role_idx ON notifications (to_role, read)`,
}

// Migrate creates the tables when they are missing.
func (s *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// --- students ---

func (s *Postgres) ListStudents(ctx context.Context) ([]models.Student, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM students ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	out := make([]models.Student, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		var st models.Student
		if err := json.Unmarshal(doc, &st); err != nil {
			return nil, fmt.Errorf("decode student: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Postgres) GetStudent(ctx context.Context, id string) (models.Student, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM students WHERE id = $1`, id).Scan(&doc)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.Student{}, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Student{}, fmt.Errorf("get student %s: %w", id, err)
	}
	var st models.Student
	if err := json.Unmarshal(doc, &st); err != nil {
		return models.Student{}, fmt.Errorf("decode student: %w", err)
	}
	return st, nil
}

func (s *Postgres) UpsertStudent(ctx context.Context, st models.Student) error {
	if st.ID == "" {
		return fmt.Errorf("student id is required")
	}
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode student: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO students (id, document) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document`,
		st.ID, doc)
	if err != nil {
		return fmt.Errorf("upsert student %s: %w", st.ID, err)
	}
	return nil
}

// --- postings ---

func (s *Postgres) CreatePosting(ctx context.Context, p models.Posting) (models.Posting, error) {
	p = p.Clone()
	p.ID = ""
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return models.Posting{}, fmt.Errorf("encode posting: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO postings (type, created_by, created_at, document) VALUES ($1, $2, $3, $4) RETURNING id`,
		string(p.Type()), p.CreatedBy, p.CreatedAt, doc,
	).Scan(&id)
	if err != nil {
		return models.Posting{}, fmt.Errorf("insert posting: %w", err)
	}
	p.ID = strconv.FormatInt(id, 10)
	return p, nil
}

func (s *Postgres) GetPosting(ctx context.Context, id string) (models.Posting, error) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return models.Posting{}, fmt.Errorf("posting %s: %w", id, ErrNotFound)
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, document FROM postings WHERE id = $1`, key)
	p, err := scanPosting(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.Posting{}, fmt.Errorf("posting %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Posting{}, fmt.Errorf("get posting %s: %w", id, err)
	}
	return p, nil
}

// ListPostings returns matching postings, newest first.
func (s *Postgres) ListPostings(ctx context.Context, filter PostingFilter) ([]models.Posting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document FROM postings
		 WHERE ($1 = '' OR created_by = $1) AND ($2 = '' OR type = $2)
		 ORDER BY id DESC`,
		filter.CreatedBy, string(filter.Type))
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	defer rows.Close()

	out := make([]models.Posting, 0)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Postgres) SetMatches(ctx context.Context, id string, matches []matching.MatchResult) error {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("posting %s: %w", id, ErrNotFound)
	}
	if matches == nil {
		matches = []matching.MatchResult{}
	}
	doc, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("encode matches: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE postings SET document = jsonb_set(document, '{matches}', $2::jsonb) WHERE id = $1`,
		key, doc)
	if err != nil {
		return fmt.Errorf("set matches %s: %w", id, err)
	}
	return requireAffected(res, "posting", id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPosting(row rowScanner) (models.Posting, error) {
	var (
		id  int64
		doc []byte
	)
	if err := row.Scan(&id, &doc); err != nil {
		return models.Posting{}, err
	}
	var p models.Posting
	if err := json.Unmarshal(doc, &p); err != nil {
		return models.Posting{}, fmt.Errorf("decode posting: %w", err)
	}
	p.ID = strconv.FormatInt(id, 10)
	return p, nil
}

// --- interviews ---

const interviewColumns = `id, posting_id, student_id, status, scheduled_at, notes, requested_by, created_at`

func (s *Postgres) CreateInterviewRequest(ctx context.Context, r models.InterviewRequest) (models.InterviewRequest, error) {
	r = r.Clone()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO interview_requests (posting_id, student_id, status, scheduled_at, notes, requested_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		r.PostingID, r.StudentID, string(r.Status), nullTime(r.ScheduledAt), r.Notes, r.RequestedBy, r.CreatedAt,
	).Scan(&id)
	if err != nil {
		return models.InterviewRequest{}, fmt.Errorf("insert interview request: %w", err)
	}
	r.ID = strconv.FormatInt(id, 10)
	return r, nil
}

func (s *Postgres) GetInterviewRequest(ctx context.Context, id string) (models.InterviewRequest, error) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return models.InterviewRequest{}, fmt.Errorf("interview request %s: %w", id, ErrNotFound)
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+interviewColumns+` FROM interview_requests WHERE id = $1`, key)
	r, err := scanInterview(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.InterviewRequest{}, fmt.Errorf("interview request %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.InterviewRequest{}, fmt.Errorf("get interview request %s: %w", id, err)
	}
	return r, nil
}

func (s *Postgres) UpdateInterviewRequest(ctx context.Context, r models.InterviewRequest) error {
	key, err := strconv.ParseInt(r.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("interview request %s: %w", r.ID, ErrNotFound)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE interview_requests SET status = $2, scheduled_at = $3, notes = $4 WHERE id = $1`,
		key, string(r.Status), nullTime(r.ScheduledAt), r.Notes)
	if err != nil {
		return fmt.Errorf("update interview request %s: %w", r.ID, err)
	}
	return requireAffected(res, "interview request", r.ID)
}

// ListInterviewRequests returns matching requests in creation order.
func (s *Postgres) ListInterviewRequests(ctx context.Context, filter InterviewFilter) ([]models.InterviewRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+interviewColumns+` FROM interview_requests
		 WHERE ($1 = '' OR status = $1) AND ($2 = '' OR posting_id = $2)
		 ORDER BY id`,
		string(filter.Status), filter.PostingID)
	if err != nil {
		return nil, fmt.Errorf("list interview requests: %w", err)
	}
	defer rows.Close()

	out := make([]models.InterviewRequest, 0)
	for rows.Next() {
		r, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview request: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanInterview(row rowScanner) (models.InterviewRequest, error) {
	var (
		r         models.InterviewRequest
		id        int64
		status    string
		scheduled sql.NullTime
	)
	if err := row.Scan(&id, &r.PostingID, &r.StudentID, &status, &scheduled, &r.Notes, &r.RequestedBy, &r.CreatedAt); err != nil {
		return models.InterviewRequest{}, err
	}
	r.ID = strconv.FormatInt(id, 10)
	r.Status = models.InterviewStatus(status)
	if scheduled.Valid {
		ts := scheduled.Time
		r.ScheduledAt = &ts
	}
	return r, nil
}

// --- notifications ---

func (s *Postgres) AddNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, to_role, title, body, link, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, string(n.ToRole), n.Title, n.Body, n.Link, n.Read, n.CreatedAt)
	if err != nil {
		return models.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

// ListNotifications returns a role's notifications, newest first.
func (s *Postgres) ListNotifications(ctx context.Context, role models.Role, unreadOnly bool) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, to_role, title, body, link, read, created_at FROM notifications
		 WHERE to_role = $1 AND (NOT $2 OR read = FALSE)
		 ORDER BY created_at DESC`,
		string(role), unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0)
	for rows.Next() {
		var (
			n    models.Notification
			role string
		)
		if err := rows.Scan(&n.ID, &role, &n.Title, &n.Body, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.ToRole = models.Role(role)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Postgres) MarkAllRead(ctx context.Context, role models.Role) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE to_role = $1 AND read = FALSE`, string(role))
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return int(n), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

var _ Store = (*Postgres)(nil)
