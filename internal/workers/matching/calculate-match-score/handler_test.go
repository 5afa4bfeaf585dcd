package calculatematchscore

import (
	"context"
	"encoding/json"
	"testing"

	"placement-workers/internal/common/config"
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

func (m *MockService) ScoreStudent(ctx context.Context, postingID, studentID string) (matching.MatchResult, error) {
	args := m.Called(ctx, postingID, studentID)
	return args.Get(0).(matching.MatchResult), args.Error(1)
}

func (m *MockService) ScoreRequirement(ctx context.Context, req matching.RequirementSpec, studentID string) (matching.MatchResult, error) {
	args := m.Called(ctx, req, studentID)
	return args.Get(0).(matching.MatchResult), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "placement-process",
		ElementId:          "Activity_CalculateMatchScore",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newTestHandler(t *testing.T, svc *MockService) *Handler {
	h, err := NewHandler(HandlerOptions{Service: svc, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	return h
}

func TestNewHandler_RequiresService(t *testing.T) {
	_, err := NewHandler(HandlerOptions{})
	assert.Error(t, err)
}

func TestHandler_Execute_ByPosting(t *testing.T) {
	svc := new(MockService)
	svc.On("ScoreStudent", mock.Anything, "1", "stu1").Return(matching.MatchResult{
		CandidateID: "stu1", Score: 0.73, SkillScore: 0.6666, LanguageScore: 1,
	}, nil)

	out, err := newTestHandler(t, svc).Execute(context.Background(), &Input{StudentID: "stu1", PostingID: "1"})

	require.NoError(t, err)
	assert.Equal(t, "stu1", out.StudentID)
	assert.Equal(t, "1", out.PostingID)
	assert.Equal(t, 0.73, out.Score)
	assert.True(t, out.Qualified)
	svc.AssertExpectations(t)
}

func TestHandler_Execute_InlineRequirementIsNormalized(t *testing.T) {
	svc := new(MockService)
	want := matching.RequirementSpec{Skills: []string{"python", "sql"}, Language: "NONE"}
	svc.On("ScoreRequirement", mock.Anything, want, "stu3").Return(matching.MatchResult{
		CandidateID: "stu3", Score: 0.29,
	}, nil)

	out, err := newTestHandler(t, svc).Execute(context.Background(), &Input{
		StudentID:        "stu3",
		RequiredSkills:   matching.SkillList{" Python ", "SQL", ""},
		RequiredLanguage: "n7",
	})

	require.NoError(t, err)
	assert.False(t, out.Qualified)
	svc.AssertExpectations(t)
}

func TestHandler_Execute_NeedsRequirement(t *testing.T) {
	svc := new(MockService)
	_, err := newTestHandler(t, svc).Execute(context.Background(), &Input{StudentID: "stu1"})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)
	svc.AssertNotCalled(t, "ScoreStudent", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Execute_PropagatesServiceError(t *testing.T) {
	svc := new(MockService)
	svc.On("ScoreStudent", mock.Anything, "9", "stu1").
		Return(matching.MatchResult{}, errors.NewPostingNotFoundError("9"))

	_, err := newTestHandler(t, svc).Execute(context.Background(), &Input{StudentID: "stu1", PostingID: "9"})

	assert.Equal(t, errors.ErrCodePostingNotFound, errors.AsStandardError(err).Code)
}

func TestHandler_Process(t *testing.T) {
	t.Run("skills as comma separated text", func(t *testing.T) {
		svc := new(MockService)
		svc.On("ScoreRequirement", mock.Anything, mock.MatchedBy(func(req matching.RequirementSpec) bool {
			return assert.ObjectsAreEqual([]string{"matlab", "simulink"}, req.Skills) && req.Language == "N5"
		}), "stu2").Return(matching.MatchResult{CandidateID: "stu2", Score: 1}, nil)

		h := newTestHandler(t, svc)
		job := createMockJob(1, map[string]interface{}{
			"studentId":        "stu2",
			"requiredSkills":   "matlab, simulink",
			"requiredLanguage": "n5",
		})

		out, err := h.runner.Process(context.Background(), job, h.run)
		require.NoError(t, err)
		assert.Equal(t, 1.0, out.(*Output).Score)
	})

	t.Run("schema rejects missing student", func(t *testing.T) {
		h := newTestHandler(t, new(MockService))
		job := createMockJob(2, map[string]interface{}{"postingId": "1"})

		_, err := h.runner.Process(context.Background(), job, h.run)
		require.Error(t, err)
		stdErr := errors.AsStandardError(err)
		assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
		assert.Contains(t, stdErr.Metadata, "fields")
	})

	t.Run("schema rejects numeric skills", func(t *testing.T) {
		h := newTestHandler(t, new(MockService))
		job := createMockJob(3, map[string]interface{}{"studentId": "stu1", "requiredSkills": 42})

		_, err := h.runner.Process(context.Background(), job, h.run)
		assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)
	})
}

func TestLoadConfig(t *testing.T) {
	assert.Equal(t, LoadConfig(nil).Timeout.Seconds(), 10.0)

	app := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, Timeout: 2500},
	}}
	assert.Equal(t, 2.5, LoadConfig(app).Timeout.Seconds())
}
