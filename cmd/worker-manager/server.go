// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"placement-workers/internal/common/camunda"
	"placement-workers/internal/common/logger"
)

type readinessCheck struct {
	name  string
	check func(ctx context.Context) error
}

func readinessChecks(zeebe *camunda.Client, deps *dependencies) []readinessCheck {
	checks := []readinessCheck{{name: "zeebe", check: zeebe.HealthCheck}}
	if deps.postgres != nil {
		checks = append(checks, readinessCheck{name: "postgres", check: deps.postgres.Ping})
	}
	if deps.redis != nil {
		checks = append(checks, readinessCheck{name: "redis", check: deps.redis.Ping})
	}
	if deps.es != nil {
		checks = append(checks, readinessCheck{name: "elasticsearch", check: deps.es.Ping})
	}
	return checks
}

func newRouter(checks []readinessCheck, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, results := http.StatusOK, map[string]string{}
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[c.name] = err.Error()
				log.Warn("readiness check failed", map[string]interface{}{
					"check": c.name,
					"error": err.Error(),
				})
				continue
			}
			results[c.name] = "ok"
		}

		body := map[string]interface{}{"status": "ready", "checks": results}
		if status != http.StatusOK {
			body["status"] = "not ready"
		}
		writeJSON(w, status, body)
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
