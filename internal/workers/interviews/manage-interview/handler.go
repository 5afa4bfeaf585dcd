// internal/workers/interviews/manage-interview/handler.go
package manageinterview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

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

const TaskType = "manage-interview"

const datetimeLocal = "2006-01-02T15:04"

type Service interface {
	UpdateInterview(ctx context.Context, in placement.UpdateInterviewInput) (models.InterviewRequest, error)
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
	scheduledAt, err := parseScheduledAt(input.ScheduledAt)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}

	r, err := h.service.UpdateInterview(ctx, placement.UpdateInterviewInput{
		ID:          input.RequestID,
		Action:      input.Action,
		ScheduledAt: scheduledAt,
		Notes:       input.Notes,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		RequestID:   r.ID,
		PostingID:   r.PostingID,
		StudentID:   r.StudentID,
		Status:      string(r.Status),
		ScheduledAt: r.ScheduledAt,
	}, nil
}

func parseScheduledAt(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(datetimeLocal, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("scheduledAt %q is not a valid date-time", s)
	}
	return &t, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
