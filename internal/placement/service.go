// internal/placement/service.go
package placement

import (
	"context"
	"database/sql"
	"database/sql/driver"
	stderrors "errors"
	"time"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/matching"
	"placement-workers/internal/models"
	"placement-workers/internal/notify"
	"placement-workers/internal/store"
)

const DefaultTopN = 3

// Notifier stores and delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) (*notify.Result, error)
	NotifyAll(ctx context.Context, roles []models.Role, title, text, link string) error
}

// StudentIndexer mirrors student records into the search directory.
type StudentIndexer interface {
	IndexStudent(ctx context.Context, st models.Student) error
}

type Options struct {
	Store    store.Store
	Engine   *matching.Engine
	Notifier Notifier
	Index    StudentIndexer
	Logger   logger.Logger
	TopN     int
	Now      func() time.Time
}

// Service implements the placement workflows on top of a Store. It is safe
// for concurrent use when the Store is.
type Service struct {
	store    store.Store
	engine   *matching.Engine
	notifier Notifier
	index    StudentIndexer
	logger   logger.Logger
	topN     int
	now      func() time.Time
}

func NewService(opts Options) *Service {
	s := &Service{
		store:    opts.Store,
		engine:   opts.Engine,
		notifier: opts.Notifier,
		index:    opts.Index,
		logger:   opts.Logger,
		topN:     opts.TopN,
		now:      opts.Now,
	}
	if s.engine == nil {
		s.engine = matching.NewEngine()
	}
	if s.logger == nil {
		s.logger = logger.NewNoOpLogger()
	}
	if s.notifier == nil {
		s.notifier = notify.NewDispatcher(s.store, notify.Options{Logger: s.logger})
	}
	if s.topN <= 0 {
		s.topN = DefaultTopN
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

func (s *Service) Engine() *matching.Engine {
	return s.engine
}

// Broadcast records and delivers the same notification to each role.
func (s *Service) Broadcast(ctx context.Context, roles []models.Role, title, body, link string) error {
	return s.notifier.NotifyAll(ctx, roles, title, body, link)
}

// notify is Broadcast for workflow steps that have already succeeded, so
// failures are logged rather than returned.
func (s *Service) notify(ctx context.Context, title, body, link string, roles ...models.Role) {
	if err := s.Broadcast(ctx, roles, title, body, link); err != nil {
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		s.logger.Warn("failed to record notification", map[string]interface{}{
			"roles": names,
			"title": title,
			"error": err.Error(),
		})
	}
}

// storeError maps a store failure onto a workflow error code.
func storeError(err error, op string, notFound func() *errors.StandardError) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, store.ErrNotFound) && notFound != nil:
		return notFound()
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewQueryTimeoutError(op)
	case stderrors.Is(err, driver.ErrBadConn), stderrors.Is(err, sql.ErrConnDone):
		return errors.NewDatabaseConnectionFailedError(err)
	default:
		var stdErr *errors.StandardError
		if stderrors.As(err, &stdErr) {
			return stdErr
		}
		return errors.NewQueryExecutionFailedError(op, err)
	}
}

func postingLink(id string) string {
	return "/postings/" + id
}
