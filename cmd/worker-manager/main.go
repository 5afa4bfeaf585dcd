// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"placement-workers/internal/common/camunda"
	"placement-workers/internal/common/config"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/common/observability"
	"placement-workers/internal/matching"
	"placement-workers/internal/placement"
	"placement-workers/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		zapLog.Fatal("worker manager failed", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped")
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	log.Info("Starting worker manager...", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"store":       cfg.Store.Backend,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	deps, err := buildDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	svc := placement.NewService(placement.Options{
		Store:    deps.store,
		Engine:   matching.NewEngine(matching.WithSoftBonusLevel(matching.Level(cfg.Matching.SoftBonusLevel))),
		Notifier: deps.dispatcher,
		Index:    deps.indexer(),
		Logger:   log,
		TopN:     cfg.Matching.DashboardTopN,
	})

	if cfg.Seed.Enabled {
		if _, err := seed.NewSeeder(svc, deps.store, log).Seed(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	var zeebe *camunda.Client
	err = camunda.RetryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		return fmt.Errorf("zeebe client failed after retries: %w", err)
	}
	defer zeebe.Close()
	fields := map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress}
	if brokers, err := zeebe.BrokerCount(ctx); err == nil {
		fields["brokers"] = brokers
	}
	log.Info("Zeebe client connected successfully", fields)

	workerRegistry := camunda.NewRegistry(zeebe.GetClient(), log)
	if err := registerWorkers(workerRegistry, cfg, svc, deps, log, obs); err != nil {
		return err
	}
	log.Info("Workers registered", map[string]interface{}{
		"taskTypes": workerRegistry.TaskTypes(),
	})
	checkActivityCatalog(cfg.App.ActivityRegistry, workerRegistry.TaskTypes(), log)

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newRouter(readinessChecks(zeebe, deps), log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received, stopping workers...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		workerRegistry.Stop(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
