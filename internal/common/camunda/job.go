// internal/common/camunda/job.go
package camunda

import (
	"context"
	"time"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/common/metrics"
	"placement-workers/internal/common/observability"
	"placement-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

// JobFunc turns the raw job variables into the output variables of the job.
type JobFunc func(ctx context.Context, variables string) (interface{}, error)

type RunnerOptions struct {
	TaskType      string
	Timeout       time.Duration
	Schema        *validation.Schema
	Logger        logger.Logger
	Observability *observability.Observability
}

// Runner carries the bookkeeping shared by every job handler: timeout,
// input schema, span, prometheus counters and completion or failure.
type Runner struct {
	taskType string
	timeout  time.Duration
	schema   *validation.Schema
	logger   logger.Logger
	obs      *observability.Observability
	errors   *errors.ErrorHandler
}

func NewRunner(opts RunnerOptions) *Runner {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		taskType: opts.TaskType,
		timeout:  timeout,
		schema:   opts.Schema,
		logger:   log.With(map[string]interface{}{"taskType": opts.TaskType}),
		obs:      opts.Observability,
		errors:   errors.NewErrorHandler(log),
	}
}

func (r *Runner) TaskType() string {
	return r.taskType
}

// Run processes one activated job. It never returns an error: the outcome is
// reported to the engine as complete, fail or BPMN error.
func (r *Runner) Run(client worker.JobClient, job entities.Job, fn JobFunc) {
	started := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	output, err := r.Process(ctx, job, fn)
	if err != nil {
		stdErr := errors.AsStandardError(err)
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(stdErr.Code)).Inc()
		r.errors.HandleJobError(ctx, client, job, stdErr)
		return
	}

	r.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(time.Since(started).Seconds())
}

// Process validates the variables and runs fn inside a span.
func (r *Runner) Process(ctx context.Context, job entities.Job, fn JobFunc) (output interface{}, err error) {
	started := time.Now()
	if r.obs != nil {
		spanCtx, span := r.obs.StartSpan(ctx, r.taskType,
			attribute.Int64("job.key", job.GetKey()),
			attribute.Int64("process.instance.key", job.GetProcessInstanceKey()),
		)
		ctx = spanCtx
		defer func() { r.obs.Track(ctx, span, r.taskType, started, err) }()
	}

	variables := job.GetVariables()
	if variables == "" {
		variables = "{}"
	}

	if r.schema != nil {
		if res := r.schema.Validate(variables); !res.Valid {
			return nil, errors.NewInvalidInputError(res.Error()).
				WithMetadata("fields", res.GetErrorMessages())
		}
	}

	return fn(ctx, variables)
}

func (r *Runner) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) {
	if output == nil {
		output = map[string]interface{}{}
	}

	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		r.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		r.errors.HandleJobError(ctx, client, job, errors.NewInternalError(err))
		return
	}

	if _, err := request.Send(ctx); err != nil {
		r.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	r.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.GetKey(),
	})
}
