// internal/workers/postings/create-posting/handler.go
package createposting

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"placement-workers/internal/common/camunda"
	"placement-workers/internal/common/config"
	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/common/observability"
	"placement-workers/internal/matching"
	"placement-workers/internal/models"
	"placement-workers/internal/placement"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "create-posting"

type Service interface {
	CreatePosting(ctx context.Context, in placement.CreatePostingInput) (models.Posting, error)
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
	stipend, err := stipendText(input.Stipend)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}

	posting, err := h.service.CreatePosting(ctx, placement.CreatePostingInput{
		Type:             input.Type,
		Title:            input.Title,
		Description:      input.Description,
		Location:         input.Location,
		Eligibility:      input.Eligibility,
		Experience:       input.Experience,
		Duration:         input.Duration,
		Stipend:          stipend,
		Compensation:     input.Compensation,
		ResearchArea:     input.ResearchArea,
		RequiredSkills:   input.RequiredSkills,
		RequiredLanguage: input.RequiredLanguage,
		CreatedBy:        input.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	matches := posting.Matches
	if matches == nil {
		matches = []matching.MatchResult{}
	}
	return &Output{
		PostingID:   posting.ID,
		PostingType: string(posting.Type()),
		Matchable:   posting.Matchable(),
		Matches:     matches,
		MatchCount:  len(matches),
	}, nil
}

// stipendText accepts the JSON forms a form submission may produce.
func stipendText(v interface{}) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case float64:
		if s != float64(int64(s)) {
			return "", fmt.Errorf("stipend must be a whole number, got %v", s)
		}
		return strconv.FormatInt(int64(s), 10), nil
	case json.Number:
		return s.String(), nil
	default:
		return "", fmt.Errorf("stipend must be a number or a string, got %T", v)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
