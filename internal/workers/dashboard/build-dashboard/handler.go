// internal/workers/dashboard/build-dashboard/handler.go
package builddashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"placement-workers/internal/common/camunda"
	"placement-workers/internal/common/config"
	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/common/observability"
	"placement-workers/internal/models"
	"placement-workers/internal/placement"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "build-dashboard"

type Service interface {
	Dashboard(ctx context.Context, username string, role models.Role) (*placement.Dashboard, error)
}

type Handler struct {
	config  *Config
	logger  logger.Logger
	service Service
	runner  *camunda.Runner
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Service       Service
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("%s: service is required", TaskType)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	cfg := LoadConfig(opts.AppConfig)
	return &Handler{
		config:  cfg,
		logger:  log.With(map[string]interface{}{"taskType": TaskType}),
		service: opts.Service,
		runner: camunda.NewRunner(camunda.RunnerOptions{
			TaskType:      TaskType,
			Timeout:       cfg.Timeout,
			Schema:        inputSchema,
			Logger:        log,
			Observability: opts.Observability,
		}),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, h.run)
}

func (h *Handler) run(ctx context.Context, variables string) (interface{}, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return h.execute(ctx, &input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	d, err := h.service.Dashboard(ctx, input.Username, models.Role(input.Role))
	if err != nil {
		return nil, err
	}
	return &Output{Dashboard: d}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
