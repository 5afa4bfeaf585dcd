// internal/common/database/redis.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"placement-workers/internal/common/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// RedisClient backs the student cache.
type RedisClient struct {
	Client *redis.Client
}

func NewRedis(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{Client: redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// RegisterStats exports connection pool gauges read at scrape time.
func (c *RedisClient) RegisterStats(reg prometheus.Registerer) error {
	gauges := map[string]func(*redis.PoolStats) uint32{
		"redis_pool_hits":        func(s *redis.PoolStats) uint32 { return s.Hits },
		"redis_pool_misses":      func(s *redis.PoolStats) uint32 { return s.Misses },
		"redis_pool_timeouts":    func(s *redis.PoolStats) uint32 { return s.Timeouts },
		"redis_pool_total_conns": func(s *redis.PoolStats) uint32 { return s.TotalConns },
		"redis_pool_idle_conns":  func(s *redis.PoolStats) uint32 { return s.IdleConns },
	}
	for name, read := range gauges {
		read := read
		g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: name,
			Help: "Student cache connection pool statistic " + name,
		}, func() float64 { return float64(read(c.Client.PoolStats())) })

		if err := reg.Register(g); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

func (c *RedisClient) GetClient() *redis.Client {
	return c.Client
}
