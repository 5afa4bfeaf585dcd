package searchstudents

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/matching"
	"placement-workers/internal/search"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, q search.SearchQuery) (*search.Result, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.Result), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "directory-process",
		ElementId:          "Activity_SearchStudents",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func TestHandler_Execute_NormalizesSkills(t *testing.T) {
	m := new(MockSearcher)
	m.On("Search", mock.Anything, search.SearchQuery{
		Text:   "mehta",
		Skills: []string{"matlab", "embedded c"},
		Size:   5,
	}).Return(&search.Result{Total: 1, Hits: []search.Hit{{StudentID: "stu2", Name: "Rohan Mehta"}}}, nil)

	h, err := NewHandler(HandlerOptions{Searcher: m, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), &Input{
		Text:   "mehta",
		Skills: matching.SkillList{" MATLAB", "Embedded C "},
		Size:   5,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Total)
	assert.Equal(t, "stu2", out.Students[0].StudentID)
	m.AssertExpectations(t)
}

func TestHandler_Execute_SearchFailure(t *testing.T) {
	m := new(MockSearcher)
	m.On("Search", mock.Anything, mock.Anything).Return(nil, errors.NewSearchTimeoutError("students"))

	h, err := NewHandler(HandlerOptions{Searcher: m})
	require.NoError(t, err)

	_, err = h.Execute(context.Background(), &Input{Text: "x"})
	assert.Equal(t, errors.ErrCodeSearchTimeout, errors.AsStandardError(err).Code)
}

func TestHandler_Process_AgainstIndex(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":1},"hits":[
			{"_score":1.5,"_source":{"id":"stu3","name":"Sneha Narayanan","branch":"Mechanical",
			 "skills":["python"],"softwares":["ansys","solidworks"],"japanese":"N3","japaneseLevel":3}}]}}`))
	}))
	defer srv.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	h, err := NewHandler(HandlerOptions{
		Searcher: search.NewStudentIndex(client, "students"),
		Logger:   logger.NewTestLogger(t),
	})
	require.NoError(t, err)

	out, err := h.runner.Process(context.Background(), createMockJob(1, map[string]interface{}{
		"skills":      "solidworks",
		"minLanguage": "N4",
	}), h.run)
	require.NoError(t, err)

	res := out.(*Output)
	require.Len(t, res.Students, 1)
	assert.Equal(t, "stu3", res.Students[0].StudentID)
	assert.Equal(t, 1.5, res.Students[0].Score)
	assert.Contains(t, body, "query")
}

func TestHandler_Process_RejectsOversizedPage(t *testing.T) {
	h, err := NewHandler(HandlerOptions{Searcher: new(MockSearcher)})
	require.NoError(t, err)

	_, err = h.runner.Process(context.Background(), createMockJob(1, map[string]interface{}{"size": 500}), h.run)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandardError(err).Code)
}
