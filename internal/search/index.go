// internal/search/index.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/matching"
	"placement-workers/internal/models"
)

const DefaultIndex = "students"

const (
	defaultSize = 20
	maxSize     = 100
)

// StudentIndex mirrors the student directory into elasticsearch for free
// text and facet search. Scoring never reads from it.
type StudentIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewStudentIndex(client *elasticsearch.Client, index string) *StudentIndex {
	if index == "" {
		index = DefaultIndex
	}
	return &StudentIndex{client: client, index: index}
}

func (s *StudentIndex) Index() string {
	return s.index
}

var indexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "regNo":         {"type": "keyword"},
      "name":          {"type": "text"},
      "branch":        {"type": "keyword"},
      "degreeLevel":   {"type": "keyword"},
      "skills":        {"type": "keyword"},
      "softwares":     {"type": "keyword"},
      "japanese":      {"type": "keyword"},
      "japaneseLevel": {"type": "integer"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist.
func (s *StudentIndex) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return s.wrap(ctx, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = s.client.Indices.Create(s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return s.wrap(ctx, err)
	}
	defer res.Body.Close()
	if res.IsError() && !strings.Contains(readBody(res.Body), "resource_already_exists_exception") {
		return errors.NewSearchQueryFailedError(s.index, fmt.Errorf("create index: %s", res.Status()))
	}
	return nil
}

type studentDocument struct {
	ID            string   `json:"id"`
	RegNo         string   `json:"regNo"`
	Name          string   `json:"name"`
	Branch        string   `json:"branch,omitempty"`
	DegreeLevel   string   `json:"degreeLevel,omitempty"`
	Skills        []string `json:"skills"`
	Softwares     []string `json:"softwares"`
	Japanese      string   `json:"japanese"`
	JapaneseLevel int      `json:"japaneseLevel"`
}

func newStudentDocument(st models.Student) studentDocument {
	lang := matching.LanguageScale.Normalize(matching.Level(st.Japanese))
	return studentDocument{
		ID:            st.ID,
		RegNo:         st.RegNo,
		Name:          st.Name,
		Branch:        st.Branch,
		DegreeLevel:   st.DegreeLevel,
		Skills:        names(st.Skills),
		Softwares:     names(st.Softwares),
		Japanese:      string(lang),
		JapaneseLevel: matching.LanguageScale.IndexOf(lang),
	}
}

// names returns the normalized, sorted keys of a tier map.
func names(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if n := matching.NormalizeSkills([]string{k}); len(n) == 1 {
			out = append(out, n[0])
		}
	}
	sort.Strings(out)
	return out
}

// IndexStudent writes (or replaces) the student's document.
func (s *StudentIndex) IndexStudent(ctx context.Context, st models.Student) error {
	body, err := json.Marshal(newStudentDocument(st))
	if err != nil {
		return errors.NewInternalError(err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: st.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return s.wrap(ctx, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.NewSearchQueryFailedError(s.index, fmt.Errorf("index student %s: %s", st.ID, res.Status()))
	}
	return nil
}

// SearchQuery narrows the directory. Every listed skill must be present.
type SearchQuery struct {
	Text        string
	Skills      []string
	MinLanguage string
	Branch      string
	From        int
	Size        int
}

type Hit struct {
	StudentID string   `json:"studentId"`
	Name      string   `json:"name"`
	Branch    string   `json:"branch,omitempty"`
	Skills    []string `json:"skills"`
	Softwares []string `json:"softwares"`
	Japanese  string   `json:"japanese"`
	Score     float64  `json:"score"`
}

type Result struct {
	Total int64 `json:"total"`
	Hits  []Hit `json:"hits"`
}

func buildQuery(q SearchQuery) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if text := strings.TrimSpace(q.Text); text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"name^3", "regNo^3", "skills^2", "softwares", "branch"},
				"type":   "best_fields",
			},
		})
	}
	for _, skill := range matching.NormalizeSkills(q.Skills) {
		filter = append(filter, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"skills": skill}},
					map[string]interface{}{"term": map[string]interface{}{"softwares": skill}},
				},
				"minimum_should_match": 1,
			},
		})
	}
	if lvl := matching.LanguageScale.IndexOf(matching.Level(q.MinLanguage)); lvl > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"japaneseLevel": map[string]interface{}{"gte": lvl}},
		})
	}
	if branch := strings.TrimSpace(q.Branch); branch != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"branch": branch},
		})
	}

	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"sort": []interface{}{"_score", map[string]interface{}{"id": "asc"}},
	}
}

func clampSize(size int) int {
	if size < 1 {
		return defaultSize
	}
	if size > maxSize {
		return maxSize
	}
	return size
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Score  *float64        `json:"_score"`
			Source studentDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs q and returns hits in relevance order.
func (s *StudentIndex) Search(ctx context.Context, q SearchQuery) (*Result, error) {
	body, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	from := q.From
	if from < 0 {
		from = 0
	}
	size := clampSize(q.Size)
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, s.wrap(ctx, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(s.index, fmt.Errorf("search: %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, fmt.Errorf("decode response: %w", err))
	}

	out := &Result{Total: parsed.Hits.Total.Value, Hits: make([]Hit, 0, len(parsed.Hits.Hits))}
	for _, h := range parsed.Hits.Hits {
		hit := Hit{
			StudentID: h.Source.ID,
			Name:      h.Source.Name,
			Branch:    h.Source.Branch,
			Skills:    h.Source.Skills,
			Softwares: h.Source.Softwares,
			Japanese:  h.Source.Japanese,
		}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

func (s *StudentIndex) wrap(ctx context.Context, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewSearchTimeoutError(s.index)
	}
	return errors.NewSearchQueryFailedError(s.index, err)
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	return string(b)
}
