// cmd/worker-manager/workers.go
package main

import (
	"fmt"

	"placement-workers/internal/common/camunda"
	"placement-workers/internal/common/config"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/common/observability"
	"placement-workers/internal/placement"
	"placement-workers/pkg/registry"

	bd "placement-workers/internal/workers/dashboard/build-dashboard"
	mi "placement-workers/internal/workers/interviews/manage-interview"
	ri "placement-workers/internal/workers/interviews/request-interviews"
	cms "placement-workers/internal/workers/matching/calculate-match-score"
	rc "placement-workers/internal/workers/matching/rank-candidates"
	mar "placement-workers/internal/workers/notifications/mark-all-read"
	sn "placement-workers/internal/workers/notifications/send-notification"
	cp "placement-workers/internal/workers/postings/create-posting"
	rri "placement-workers/internal/workers/research/register-interest"
	ss "placement-workers/internal/workers/students/search-students"
)

func registerWorkers(
	reg *camunda.Registry,
	cfg *config.Config,
	svc *placement.Service,
	deps *dependencies,
	log logger.Logger,
	obs *observability.Observability,
) error {
	start := func(taskType string, h camunda.JobHandler, err error) error {
		if err != nil {
			return fmt.Errorf("create %s handler: %w", taskType, err)
		}
		reg.Start(taskType, config.GetWorkerConfig(cfg, taskType), h)
		return nil
	}

	{
		h, err := cms.NewHandler(cms.HandlerOptions{AppConfig: cfg, Service: svc, Logger: log, Observability: obs})
		if err := start(cms.TaskType, h, err); err != nil {
			return err
		}
	}
	{
		h, err := rc.NewHandler(rc.HandlerOptions{AppConfig: cfg, Service: svc, Logger: log, Observability: obs})
		if err := start(rc.TaskType, h, err); err != nil {
			return err
		}
	}
	{
		h, err := cp.NewHandler(cp.HandlerOptions{AppConfig: cfg, Service: svc, Logger: log, Observability: obs})
		if err := start(cp.TaskType, h, err); err != nil {
			return err
		}
	}
	{
		h, err := ri.NewHandler(ri.HandlerOptions{AppConfig: cfg, Service: svc, Logger: log, Observability: obs})
		if err := start(ri.TaskType, h, err); err != nil {
			return err
		}
	}
	{
		h, err := mi.NewHandler(mi.HandlerOptions{AppConfig: cfg, Service: svc, Logger: log, Observability: obs})
		if err := start(mi.TaskType, h, err); err != nil {
			return err
		}
	}
	{
		h, err := rri.NewHandler(rri.HandlerOptions{AppConfig: cfg, Service: svc, Logger: log, Observability: obs})
		if err := start(rri.TaskType, h, err); err != nil {
			return err
		}
	}
	{
		h, err := sn.NewHandler(sn.HandlerOptions{AppConfig: cfg, Service: deps.dispatcher, Logger: log, Observability: obs})
		if err := start(sn.TaskType, h, err); err != nil {
			return err
		}
	}
	{
		h, err := mar.NewHandler(mar.HandlerOptions{AppConfig: cfg, Service: svc, Logger: log, Observability: obs})
		if err := start(mar.TaskType, h, err); err != nil {
			return err
		}
	}
	{
		h, err := bd.NewHandler(bd.HandlerOptions{AppConfig: cfg, Service: svc, Logger: log, Observability: obs})
		if err := start(bd.TaskType, h, err); err != nil {
			return err
		}
	}

	// The directory search needs elasticsearch.
	if deps.index != nil {
		h, err := ss.NewHandler(ss.HandlerOptions{AppConfig: cfg, Searcher: deps.index, Logger: log, Observability: obs})
		if err := start(ss.TaskType, h, err); err != nil {
			return err
		}
	} else if config.IsWorkerEnabled(cfg, ss.TaskType) {
		log.Warn("worker enabled but elasticsearch is disabled, skipping", map[string]interface{}{
			"taskType": ss.TaskType,
		})
	}
	return nil
}

// checkActivityCatalog warns about started workers that process modelers
// cannot find in the activity registry. A missing catalog is not fatal.
func checkActivityCatalog(path string, taskTypes []string, log logger.Logger) []string {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry unavailable", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	missing := reg.Missing(taskTypes)
	if len(missing) > 0 {
		log.Warn("workers missing from activity registry", map[string]interface{}{
			"taskTypes": missing,
		})
	}
	return missing
}
