// cmd/worker-manager/deps.go
package main

import (
	"context"
	"fmt"
	"time"

	"placement-workers/internal/common/aws"
	"placement-workers/internal/common/camunda"
	"placement-workers/internal/common/config"
	"placement-workers/internal/common/database"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/notify"
	"placement-workers/internal/placement"
	"placement-workers/internal/search"
	"placement-workers/internal/store"

	"github.com/prometheus/client_golang/prometheus"
)

// dependencies holds the infrastructure clients shared by the workers. Every
// client except the store is optional and stays nil when disabled.
type dependencies struct {
	store      store.Store
	postgres   *database.PostgresClient
	redis      *database.RedisClient
	es         *database.ElasticsearchClient
	index      *search.StudentIndex
	dispatcher *notify.Dispatcher
}

func (d *dependencies) Close() {
	if d.redis != nil {
		d.redis.Close()
	}
	if d.postgres != nil {
		d.postgres.Close()
	}
}

// indexer avoids handing the service a typed nil interface.
func (d *dependencies) indexer() placement.StudentIndexer {
	if d.index == nil {
		return nil
	}
	return d.index
}

func buildDependencies(ctx context.Context, cfg *config.Config, log logger.Logger) (*dependencies, error) {
	deps := &dependencies{}

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		err := camunda.RetryWithBackoff(func() error {
			var err error
			deps.postgres, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return deps.postgres.Ping(ctx)
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			return nil, fmt.Errorf("postgres failed after retries: %w", err)
		}
		if err := deps.postgres.RegisterStats(prometheus.DefaultRegisterer); err != nil {
			log.Warn("failed to register postgres pool metrics", map[string]interface{}{"error": err.Error()})
		}
		pg := store.NewPostgres(deps.postgres.GetDB())
		if cfg.Store.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				deps.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		deps.store = pg
		log.Info("PostgreSQL connected successfully", nil)
	default:
		deps.store = store.NewMemory()
		log.Info("Using in-memory store", nil)
	}

	if cfg.Database.Redis.Enabled {
		deps.redis = database.NewRedis(cfg.Database.Redis)
		err := camunda.RetryWithBackoff(func() error {
			return deps.redis.Ping(ctx)
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("redis failed after retries: %w", err)
		}
		if err := deps.redis.RegisterStats(prometheus.DefaultRegisterer); err != nil {
			log.Warn("failed to register redis pool metrics", map[string]interface{}{"error": err.Error()})
		}
		cached := store.NewCachedStudents(deps.store, deps.redis.GetClient(), cfg.Store.CacheTTLDuration(), log)
		deps.store = store.WithStudentCache(deps.store, cached)
		log.Info("Redis connected successfully", nil)
	}

	if cfg.Database.Elasticsearch.Enabled {
		err := camunda.RetryWithBackoff(func() error {
			var err error
			deps.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return deps.es.Ping(ctx)
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("elasticsearch failed after retries: %w", err)
		}
		deps.index = search.NewStudentIndex(deps.es.Client, cfg.Database.Elasticsearch.Index)
		if err := deps.index.EnsureIndex(ctx); err != nil {
			deps.Close()
			return nil, err
		}
		log.Info("Elasticsearch connected successfully", map[string]interface{}{"index": deps.index.Index()})
	}

	opts, err := deliveryOptions(ctx, cfg, log)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.dispatcher = notify.NewDispatcher(deps.store, opts)
	return deps, nil
}

func deliveryOptions(ctx context.Context, cfg *config.Config, log logger.Logger) (notify.Options, error) {
	n := cfg.Notifications
	opts := notify.Options{Logger: log}

	if n.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, n.AWS.Region, n.Email.FromEmail)
		if err != nil {
			return opts, fmt.Errorf("ses client: %w", err)
		}
		opts.Email = sesClient
		opts.Addresses = n.Email.Addresses
	}
	if n.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, n.AWS.Region)
		if err != nil {
			return opts, fmt.Errorf("sns client: %w", err)
		}
		opts.SMS = snsClient
		opts.Topics = n.SMS.Topics
	}
	return opts, nil
}
