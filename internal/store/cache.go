// internal/store/cache.go
package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"placement-workers/internal/common/logger"
	"placement-workers/internal/common/metrics"
	"placement-workers/internal/models"
)

const (
	studentVersionKey    = "students:version"
	studentPoolPrefix    = "students:pool:"
	studentProfilePrefix = "students:profile:"
)

func studentPoolKey(version string) string {
	return studentPoolPrefix + version
}

func studentProfileKey(version, id string) string {
	return studentProfilePrefix + version + ":" + id
}

// CachedStudents fronts a StudentStore with redis. Ranking reads the whole
// pool on every call, so the pool is cached as one value. Keys carry the
// current students:version, which every write bumps after updating the
// backing store; a snapshot read before a write can only land under a
// version nobody reads any more. Redis failures fall through to the
// backing store.
type CachedStudents struct {
	next   StudentStore
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStudents(next StudentStore, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedStudents {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedStudents{next: next, redis: client, ttl: ttl, logger: log}
}

func (c *CachedStudents) ListStudents(ctx context.Context) ([]models.Student, error) {
	version, ok := c.version(ctx)
	if !ok {
		return c.next.ListStudents(ctx)
	}

	key := studentPoolKey(version)
	var cached []models.Student
	if c.get(ctx, "pool", key, &cached) {
		return cached, nil
	}

	students, err := c.next.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, students)
	return students, nil
}

func (c *CachedStudents) GetStudent(ctx context.Context, id string) (models.Student, error) {
	version, ok := c.version(ctx)
	if !ok {
		return c.next.GetStudent(ctx, id)
	}

	key := studentProfileKey(version, id)
	var cached models.Student
	if c.get(ctx, "profile", key, &cached) {
		return cached, nil
	}

	st, err := c.next.GetStudent(ctx, id)
	if err != nil {
		return models.Student{}, err
	}
	c.set(ctx, key, st)
	return st, nil
}

func (c *CachedStudents) UpsertStudent(ctx context.Context, st models.Student) error {
	if err := c.next.UpsertStudent(ctx, st); err != nil {
		return err
	}
	if err := c.redis.Incr(ctx, studentVersionKey).Err(); err != nil {
		c.logger.Warn("failed to invalidate student cache", map[string]interface{}{
			"studentId": st.ID,
			"error":     err.Error(),
		})
	}
	return nil
}

// version returns the current cache generation, "0" before the first write.
// ok is false when redis cannot be read.
func (c *CachedStudents) version(ctx context.Context) (string, bool) {
	v, err := c.redis.Get(ctx, studentVersionKey).Result()
	switch {
	case err == nil:
		return v, true
	case stderrors.Is(err, redis.Nil):
		return "0", true
	default:
		metrics.CacheLookups.WithLabelValues("version", "error").Inc()
		c.logger.Warn("student cache unavailable", map[string]interface{}{
			"key":   studentVersionKey,
			"error": err.Error(),
		})
		return "", false
	}
}

func (c *CachedStudents) get(ctx context.Context, label, key string, dest interface{}) bool {
	val, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
	case stderrors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues(label, "miss").Inc()
		return false
	default:
		metrics.CacheLookups.WithLabelValues(label, "error").Inc()
		c.logger.Warn("student cache unavailable", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheLookups.WithLabelValues(label, "corrupt").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues(label, "hit").Inc()
	return true
}

func (c *CachedStudents) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to populate student cache", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// WithStudentCache returns s with its student reads served through students.
func WithStudentCache(s Store, students *CachedStudents) Store {
	return &cachedStore{Store: s, students: students}
}

type cachedStore struct {
	Store
	students *CachedStudents
}

func (c *cachedStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	return c.students.ListStudents(ctx)
}

func (c *cachedStore) GetStudent(ctx context.Context, id string) (models.Student, error) {
	return c.students.GetStudent(ctx, id)
}

func (c *cachedStore) UpsertStudent(ctx context.Context, st models.Student) error {
	return c.students.UpsertStudent(ctx, st)
}
