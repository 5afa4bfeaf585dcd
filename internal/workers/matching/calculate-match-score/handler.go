// internal/workers/matching/calculate-match-score/handler.go
package calculatematchscore

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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "calculate-match-score"

// Service is implemented by *placement.Service.
type Service interface {
	ScoreStudent(ctx context.Context, postingID, studentID string) (matching.MatchResult, error)
	ScoreRequirement(ctx context.Context, req matching.RequirementSpec, studentID string) (matching.MatchResult, error)
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
		result matching.MatchResult
		err    error
	)
	switch {
	case input.PostingID != "":
		result, err = h.service.ScoreStudent(ctx, input.PostingID, input.StudentID)
	case input.RequiredSkills != nil || input.RequiredLanguage != "":
		req := matching.NormalizeRequirement(matching.RawRequirement{
			Skills:   input.RequiredSkills,
			Language: matching.Level(input.RequiredLanguage),
		})
		result, err = h.service.ScoreRequirement(ctx, req, input.StudentID)
	default:
		return nil, errors.NewInvalidInputError("postingId or requiredSkills is required")
	}
	if err != nil {
		return nil, err
	}

	h.logger.Debug("student scored", map[string]interface{}{
		"studentId": input.StudentID,
		"postingId": input.PostingID,
		"score":     result.Score,
	})

	return &Output{
		StudentID:     result.CandidateID,
		PostingID:     input.PostingID,
		Score:         result.Score,
		SkillScore:    result.SkillScore,
		LanguageScore: result.LanguageScore,
		Qualified:     result.Score >= matching.MinScore,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
