// internal/workers/interviews/request-interviews/handler.go
package requestinterviews

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

const TaskType = "request-interviews"

type Service interface {
	RequestInterviews(ctx context.Context, in placement.RequestInterviewsInput) ([]models.InterviewRequest, error)
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
	requests, err := h.service.RequestInterviews(ctx, placement.RequestInterviewsInput{
		PostingID:   input.PostingID,
		StudentIDs:  input.StudentIDs,
		RequestedBy: input.RequestedBy,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}
	return &Output{
		PostingID:    input.PostingID,
		RequestIDs:   ids,
		RequestCount: len(ids),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
