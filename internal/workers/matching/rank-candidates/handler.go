// internal/workers/matching/rank-candidates/handler.go
package rankcandidates

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
	"placement-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "rank-candidates"

type Service interface {
	RankPosting(ctx context.Context, postingID string) ([]matching.MatchResult, error)
	RankRequirement(ctx context.Context, req matching.RequirementSpec) ([]matching.MatchResult, error)
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
	var (
		matches []matching.MatchResult
		err     error
	)
	if input.PostingID != "" {
		matches, err = h.service.RankPosting(ctx, input.PostingID)
	} else {
		if input.PostingType != "" {
			t, ok := models.ParsePostingType(input.PostingType)
			if !ok {
				return nil, errors.NewInvalidInputError("unknown postingType " + input.PostingType)
			}
			if t == models.PostingResearch {
				return nil, errors.NewPostingNotMatchableError("", string(t))
			}
		}
		matches, err = h.service.RankRequirement(ctx, matching.NormalizeRequirement(matching.RawRequirement{
			Skills:   input.RequiredSkills,
			Language: matching.Level(input.RequiredLanguage),
		}))
	}
	if err != nil {
		return nil, err
	}

	if input.Limit > 0 && len(matches) > input.Limit {
		matches = matches[:input.Limit]
	}
	if matches == nil {
		matches = []matching.MatchResult{}
	}

	out := &Output{
		PostingID:  input.PostingID,
		Matches:    matches,
		MatchCount: len(matches),
	}
	if len(matches) > 0 {
		out.TopMatch = matches[0].CandidateID
	}

	h.logger.Info("candidates ranked", map[string]interface{}{
		"postingId":  input.PostingID,
		"matchCount": out.MatchCount,
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
