package createposting

import (
	"context"
	"encoding/json"
	"testing"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/matching"
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

func (m *MockService) CreatePosting(ctx context.Context, in placement.CreatePostingInput) (models.Posting, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Posting), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "posting-process",
		ElementId:          "Activity_CreatePosting",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func TestStipendText(t *testing.T) {
	tests := []struct {
		in      interface{}
		want    string
		wantErr bool
	}{
		{nil, "", false},
		{"15000", "15000", false},
		{float64(12000), "12000", false},
		{json.Number("9000"), "9000", false},
		{1.5, "", true},
		{true, "", true},
	}
	for _, tt := range tests {
		got, err := stipendText(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestHandler_Execute_MapsPosting(t *testing.T) {
	svc := new(MockService)
	svc.On("CreatePosting", mock.Anything, mock.MatchedBy(func(in placement.CreatePostingInput) bool {
		return in.Stipend == "15000" && in.CreatedBy == "JASA01"
	})).Return(models.Posting{
		PostingBase: models.PostingBase{ID: "7", Title: "Data Analyst Intern"},
		Details:     models.InternshipDetails{Duration: "3 months"},
		Matches:     []matching.MatchResult{{CandidateID: "stu1", Score: 0.73}},
	}, nil)

	h, err := NewHandler(HandlerOptions{Service: svc, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), &Input{
		Type: "INTERNSHIP", Title: "Data Analyst Intern", Stipend: float64(15000), CreatedBy: "JASA01",
	})
	require.NoError(t, err)
	assert.Equal(t, "7", out.PostingID)
	assert.Equal(t, "INTERNSHIP", out.PostingType)
	assert.True(t, out.Matchable)
	assert.Equal(t, 1, out.MatchCount)
}

// Runs the whole path against the real service and an in-memory store.
func TestHandler_Process_EndToEnd(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.UpsertStudent(ctx, models.Student{
		ID: "stu3", Name: "Sneha Narayanan",
		Skills:    map[string]string{"python": "BEGINNER"},
		Softwares: map[string]string{"solidworks": "ADVANCED", "ansys": "INTERMEDIATE"},
		Japanese:  "N3",
	}))
	svc := placement.NewService(placement.Options{Store: mem, Logger: logger.NewTestLogger(t)})

	h, err := NewHandler(HandlerOptions{Service: svc, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	t.Run("vacancy is ranked", func(t *testing.T) {
		out, err := h.runner.Process(ctx, createMockJob(1, map[string]interface{}{
			"type":             "VACANCY",
			"title":            "Junior Mechanical Design Engineer",
			"compensation":     "5-6 LPA",
			"requiredSkills":   "SolidWorks, ANSYS",
			"requiredLanguage": "N5",
			"createdBy":        "JASA01",
		}), h.run)
		require.NoError(t, err)

		res := out.(*Output)
		require.Equal(t, 1, res.MatchCount)
		assert.Equal(t, "stu3", res.Matches[0].CandidateID)
		assert.Equal(t, 0.87, res.Matches[0].Score)
	})

	t.Run("research is stored without matches", func(t *testing.T) {
		out, err := h.runner.Process(ctx, createMockJob(2, map[string]interface{}{
			"type":         "research",
			"title":        "Lightweight Composite Brackets",
			"researchArea": "Mechanical Design",
			"createdBy":    "JASA01",
		}), h.run)
		require.NoError(t, err)
		assert.False(t, out.(*Output).Matchable)
		assert.Empty(t, out.(*Output).Matches)
	})

	t.Run("schema rejects missing title", func(t *testing.T) {
		_, err := h.runner.Process(ctx, createMockJob(3, map[string]interface{}{
			"type": "INTERNSHIP", "createdBy": "JASA01",
		}), h.run)
		assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)
	})

	t.Run("unknown type reaches the service", func(t *testing.T) {
		_, err := h.runner.Process(ctx, createMockJob(4, map[string]interface{}{
			"type": "FELLOWSHIP", "title": "x", "createdBy": "JASA01",
		}), h.run)
		assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)
	})
}
