package rankcandidates

import (
	"context"
	"encoding/json"
	"testing"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) RankPosting(ctx context.Context, postingID string) ([]matching.MatchResult, error) {
	args := m.Called(ctx, postingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]matching.MatchResult), args.Error(1)
}

func (m *MockService) RankRequirement(ctx context.Context, req matching.RequirementSpec) ([]matching.MatchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]matching.MatchResult), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "placement-process",
		ElementId:          "Activity_RankCandidates",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func ranked() []matching.MatchResult {
	return []matching.MatchResult{
		{CandidateID: "stu2", Score: 0.91},
		{CandidateID: "stu1", Score: 0.6},
		{CandidateID: "stu3", Score: 0.5},
	}
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	h, err := NewHandler(HandlerOptions{Service: svc, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	return h
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		setup     func(*MockService)
		wantTop   string
		wantCount int
		wantCode  errors.ErrorCode
	}{
		{
			name:  "stored posting",
			input: &Input{PostingID: "2"},
			setup: func(m *MockService) {
				m.On("RankPosting", mock.Anything, "2").Return(ranked(), nil)
			},
			wantTop:   "stu2",
			wantCount: 3,
		},
		{
			name:  "limit trims the list",
			input: &Input{PostingID: "2", Limit: 1},
			setup: func(m *MockService) {
				m.On("RankPosting", mock.Anything, "2").Return(ranked(), nil)
			},
			wantTop:   "stu2",
			wantCount: 1,
		},
		{
			name:  "inline requirement",
			input: &Input{PostingType: "vacancy", RequiredSkills: matching.SkillList{"SolidWorks", "ANSYS"}},
			setup: func(m *MockService) {
				m.On("RankRequirement", mock.Anything, matching.RequirementSpec{
					Skills:   []string{"solidworks", "ansys"},
					Language: "NONE",
				}).Return([]matching.MatchResult(nil), nil)
			},
			wantCount: 0,
		},
		{
			name:     "research is not ranked",
			input:    &Input{PostingType: "RESEARCH", RequiredSkills: matching.SkillList{"python"}},
			setup:    func(m *MockService) {},
			wantCode: errors.ErrCodePostingNotMatchable,
		},
		{
			name:  "service error",
			input: &Input{PostingID: "4"},
			setup: func(m *MockService) {
				m.On("RankPosting", mock.Anything, "4").Return(nil, errors.NewPostingNotMatchableError("4", "RESEARCH"))
			},
			wantCode: errors.ErrCodePostingNotMatchable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)

			out, err := newTestHandler(t, svc).Execute(context.Background(), tt.input)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.AsStandardError(err).Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, out.MatchCount)
			assert.Len(t, out.Matches, tt.wantCount)
			assert.NotNil(t, out.Matches)
			assert.Equal(t, tt.wantTop, out.TopMatch)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_ProcessRejectsEmptyRequest(t *testing.T) {
	h := newTestHandler(t, new(MockService))

	_, err := h.runner.Process(context.Background(), createMockJob(1, map[string]interface{}{"limit": 3}), h.run)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)
}
