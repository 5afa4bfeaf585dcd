// internal/workers/students/search-students/handler.go
package searchstudents

import (
	"context"
	"encoding/json"
	"fmt"

	"placement-workers/internal/common/camunda"
	"placement-workers/internal/common/config"
	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/common/observability"
	"placement-workers/internal/matching"
	"placement-workers/internal/search"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "search-students"

// Searcher is implemented by *search.StudentIndex.
type Searcher interface {
	Search(ctx context.Context, q search.SearchQuery) (*search.Result, error)
}

type Handler struct {
	config   *Config
	logger   logger.Logger
	searcher Searcher
	runner   *camunda.Runner
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Searcher      Searcher
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Searcher == nil {
		return nil, fmt.Errorf("%s: searcher is required", TaskType)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	cfg := LoadConfig(opts.AppConfig)
	return &Handler{
		config:   cfg,
		logger:   log.With(map[string]interface{}{"taskType": TaskType}),
		searcher: opts.Searcher,
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
	res, err := h.searcher.Search(ctx, search.SearchQuery{
		Text:        input.Text,
		Skills:      matching.NormalizeSkills(input.Skills),
		MinLanguage: input.MinLanguage,
		Branch:      input.Branch,
		From:        input.From,
		Size:        input.Size,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("student search completed", map[string]interface{}{
		"total":    res.Total,
		"returned": len(res.Hits),
	})
	return &Output{Total: res.Total, Students: res.Hits}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
