package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-workers/internal/matching"
	"placement-workers/internal/seed"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func writeStudents(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(seed.Students())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "students.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRank_SkillsFlag(t *testing.T) {
	out := execute(t, "rank", "--students", writeStudents(t), "--skills", "embedded c, matlab, simulink", "--language", "N5")

	var results []matching.MatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "stu2", results[0].CandidateID)
	assert.Equal(t, 0.91, results[0].Score)
}

func TestDemo(t *testing.T) {
	out := execute(t, "demo")

	var body struct {
		Unread map[string]int `json:"unread"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, 7, body.Unread["VIT_ADMIN"])
	assert.Equal(t, 3, body.Unread["SPORIC"])
}

func TestActivities(t *testing.T) {
	path := filepath.Join("..", "..", "configs", "activity-registry.json")

	out := execute(t, "activities", "validate", "--path", path, "--require", "rank-candidates,search-students")
	assert.Contains(t, out, "registry ok: 10 activities")

	out = execute(t, "activities", "list", "--path", path)
	assert.Contains(t, out, "register-research-interest")
	assert.Contains(t, out, "TASK TYPE")
}
