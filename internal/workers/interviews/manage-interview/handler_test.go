package manageinterview

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/models"
	"placement-workers/internal/placement"
	"placement-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateInterview(ctx context.Context, in placement.UpdateInterviewInput) (models.InterviewRequest, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.InterviewRequest), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "interview-process",
		ElementId:          "Activity_ManageInterview",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func TestParseScheduledAt(t *testing.T) {
	want := time.Date(2025, 6, 3, 10, 30, 0, 0, time.UTC)

	got, err := parseScheduledAt("2025-06-03T10:30")
	require.NoError(t, err)
	assert.True(t, want.Equal(*got))

	got, err = parseScheduledAt("2025-06-03T16:00:00+05:30")
	require.NoError(t, err)
	assert.True(t, want.Equal(*got))

	got, err = parseScheduledAt("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseScheduledAt("next tuesday")
	assert.Error(t, err)
}

func TestHandler_Execute_Schedule(t *testing.T) {
	when := time.Date(2025, 6, 3, 10, 30, 0, 0, time.UTC)
	svc := new(MockService)
	svc.On("UpdateInterview", mock.Anything, mock.MatchedBy(func(in placement.UpdateInterviewInput) bool {
		return in.ID == "r1" && in.Action == "schedule" && in.ScheduledAt != nil && in.ScheduledAt.Equal(when)
	})).Return(models.InterviewRequest{
		ID: "r1", PostingID: "1", StudentID: "stu1", Status: models.InterviewScheduled, ScheduledAt: &when,
	}, nil)

	h, err := NewHandler(HandlerOptions{Service: svc, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), &Input{RequestID: "r1", Action: "schedule", ScheduledAt: "2025-06-03T10:30"})
	require.NoError(t, err)
	assert.Equal(t, "SCHEDULED", out.Status)
	assert.Equal(t, "stu1", out.StudentID)
	require.NotNil(t, out.ScheduledAt)
	svc.AssertExpectations(t)
}

func TestHandler_Execute_BadTimeSkipsService(t *testing.T) {
	svc := new(MockService)
	h, err := NewHandler(HandlerOptions{Service: svc})
	require.NoError(t, err)

	_, err = h.Execute(context.Background(), &Input{RequestID: "r1", Action: "schedule", ScheduledAt: "tomorrow"})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)
	svc.AssertNotCalled(t, "UpdateInterview", mock.Anything, mock.Anything)
}

func TestHandler_Process_AgainstService(t *testing.T) {
	mem := storeWithRequest(t)
	svc := placement.NewService(placement.Options{Store: mem, Logger: logger.NewTestLogger(t)})
	h, err := NewHandler(HandlerOptions{Service: svc, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	ctx := context.Background()

	out, err := h.runner.Process(ctx, createMockJob(1, map[string]interface{}{
		"requestId": "1", "action": "APPROVE", "notes": "looks good",
	}), h.run)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", out.(*Output).Status)

	_, err = h.runner.Process(ctx, createMockJob(2, map[string]interface{}{
		"requestId": "1", "action": "archive",
	}), h.run)
	assert.Equal(t, errors.ErrCodeInvalidInterviewAction, errors.AsStandardError(err).Code)

	_, err = h.runner.Process(ctx, createMockJob(3, map[string]interface{}{
		"requestId": "404", "action": "decline",
	}), h.run)
	assert.Equal(t, errors.ErrCodeInterviewNotFound, errors.AsStandardError(err).Code)
}

func storeWithRequest(t *testing.T) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	r, err := mem.CreateInterviewRequest(context.Background(), models.InterviewRequest{
		PostingID:   "1",
		StudentID:   "stu1",
		Status:      models.InterviewPending,
		RequestedBy: "JASA01",
	})
	require.NoError(t, err)
	require.Equal(t, "1", r.ID)
	return mem
}
