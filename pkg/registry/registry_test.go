package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCoversEveryWorker(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", DefaultPath))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	assert.Empty(t, reg.Missing([]string{
		"calculate-match-score",
		"rank-candidates",
		"create-posting",
		"request-interviews",
		"manage-interview",
		"register-research-interest",
		"send-notification",
		"mark-notifications-read",
		"build-dashboard",
		"search-students",
	}))

	rank, ok := reg.Find("rank-candidates")
	require.True(t, ok)
	assert.Contains(t, rank.ErrorCodes, "POSTING_NOT_MATCHABLE")
}

func TestValidate(t *testing.T) {
	valid := Activity{ID: "a", DisplayName: "A", TaskType: "a", Category: "matching"}

	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{"empty", ActivityRegistry{}, "no activities"},
		{"ok", ActivityRegistry{Activities: []Activity{valid}}, ""},
		{"duplicate id", ActivityRegistry{Activities: []Activity{valid, valid}}, "duplicate activity ID"},
		{
			"duplicate task type",
			ActivityRegistry{Activities: []Activity{valid, {ID: "b", DisplayName: "B", TaskType: "a", Category: "x"}}},
			"duplicate task type",
		},
		{"missing category", ActivityRegistry{Activities: []Activity{{ID: "a", DisplayName: "A", TaskType: "a"}}}, "Category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	reg := &ActivityRegistry{Version: "1.0.0", Activities: []Activity{
		{ID: "a", DisplayName: "A", TaskType: "a", Category: "matching", ErrorCodes: []string{"INVALID_INPUT"}},
	}}
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg, loaded)
}
