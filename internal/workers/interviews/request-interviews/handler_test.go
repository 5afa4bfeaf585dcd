package requestinterviews

import (
	"context"
	"encoding/json"
	"testing"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/models"
	"placement-workers/internal/placement"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) RequestInterviews(ctx context.Context, in placement.RequestInterviewsInput) ([]models.InterviewRequest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InterviewRequest), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "interview-process",
		ElementId:          "Activity_RequestInterviews",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func TestHandler_Execute(t *testing.T) {
	svc := new(MockService)
	svc.On("RequestInterviews", mock.Anything, placement.RequestInterviewsInput{
		PostingID: "1", StudentIDs: []string{"stu1", "stu3"}, RequestedBy: "JASA01",
	}).Return([]models.InterviewRequest{{ID: "r1"}, {ID: "r2"}}, nil)

	h, err := NewHandler(HandlerOptions{Service: svc, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), &Input{
		PostingID: "1", StudentIDs: []string{"stu1", "stu3"}, RequestedBy: "JASA01",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, out.RequestIDs)
	assert.Equal(t, 2, out.RequestCount)
}

func TestHandler_Execute_NoStudents(t *testing.T) {
	svc := new(MockService)
	svc.On("RequestInterviews", mock.Anything, mock.Anything).
		Return(nil, errors.NewNoStudentsSelectedError("1"))

	h, err := NewHandler(HandlerOptions{Service: svc})
	require.NoError(t, err)

	_, err = h.Execute(context.Background(), &Input{PostingID: "1", RequestedBy: "JASA01"})
	assert.Equal(t, errors.ErrCodeNoStudentsSelected, errors.AsStandardError(err).Code)
}

func TestHandler_Process_Schema(t *testing.T) {
	h, err := NewHandler(HandlerOptions{Service: new(MockService), Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	_, err = h.runner.Process(context.Background(), createMockJob(1, map[string]interface{}{
		"postingId":   "1",
		"studentIds":  "stu1",
		"requestedBy": "JASA01",
	}), h.run)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)
}
