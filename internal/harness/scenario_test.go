package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/inventory"
	"github.com/roach88/stockroom/internal/persist"
)

// writeScenario writes content to a temp file and returns its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: sell
description: sells one sofa
strategy: binary
policy: {duplicates: reject, missing: error}
setup:
  - {id: 1, name: Sofa, price: "499.99", quantity: 5}
steps:
  - {op: sell, id: 1, quantity: 1}
  - {op: update, id: 1, price: "450", count: 1}
final:
  - {id: 1, name: Sofa, price: "450", quantity: 4}
reload: true
session: s-1
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "sell", s.Name)
	assert.Equal(t, persist.StrategyBinary, s.strategy())
	assert.Equal(t, inventory.DuplicatesReject, s.Policy.Duplicates)
	assert.Equal(t, inventory.MissingError, s.Policy.Missing)
	require.Len(t, s.Setup, 1)
	require.Len(t, s.Steps, 2)
	require.NotNil(t, s.Steps[0].Quantity)
	assert.Equal(t, 1, *s.Steps[0].Quantity)
	require.NotNil(t, s.Steps[1].Count)
	assert.Equal(t, 1, *s.Steps[1].Count)
	assert.True(t, s.Reload)
	assert.True(t, s.autosave())
	assert.Equal(t, "s-1", s.Session)
}

func TestLoadScenario_Defaults(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: minimal
description: one find
steps:
  - {op: find, id: 1, expect: NOT_FOUND}
`))
	require.NoError(t, err)

	assert.Equal(t, persist.StrategyText, s.strategy())
	assert.True(t, s.autosave())
	assert.Nil(t, s.Final)
	assert.False(t, s.Reload)
}

func TestLoadScenario_EmptyFinalIsChecked(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: empty
description: asserts an empty catalog
steps:
  - {op: clear}
final: []
`))
	require.NoError(t, err)

	assert.NotNil(t, s.Final)
	assert.Empty(t, s.Final)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	_, err := ParseScenario([]byte("name: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_UnknownFieldsRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "top level typo",
			content: `
name: typo
description: d
step:
  - {op: clear}
`,
		},
		{
			name: "step typo",
			content: `
name: typo
description: d
steps:
  - {op: sell, id: 1, qty: 2}
`,
		},
		{
			name: "policy typo",
			content: `
name: typo
description: d
policy: {duplicate: reject}
steps:
  - {op: clear}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to parse YAML")
		})
	}
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing name", "description: d\nsteps: [{op: clear}]\n", "name is required"},
		{"missing description", "name: n\nsteps: [{op: clear}]\n", "description is required"},
		{"no steps", "name: n\ndescription: d\n", "steps list is required"},
		{"bad strategy", "name: n\ndescription: d\nstrategy: csv\nsteps: [{op: clear}]\n", "unknown storage strategy"},
		{"bad policy", "name: n\ndescription: d\npolicy: {duplicates: maybe}\nsteps: [{op: clear}]\n", "policy"},
		{"missing op", "name: n\ndescription: d\nsteps: [{id: 1}]\n", "steps[0]: op is required"},
		{"unknown op", "name: n\ndescription: d\nsteps: [{op: restock}]\n", `unknown op "restock"`},
		{"add without price", "name: n\ndescription: d\nsteps: [{op: add, id: 1, name: Sofa, quantity: 1}]\n", "add requires"},
		{"sell without quantity", "name: n\ndescription: d\nsteps: [{op: sell, id: 1}]\n", "sell requires quantity"},
		{"empty update", "name: n\ndescription: d\nsteps: [{op: update, id: 1}]\n", "update requires"},
		{"unknown expect", "name: n\ndescription: d\nsteps: [{op: find, id: 1, expect: MISSING}]\n", "unknown expected outcome"},
		{"count on sell", "name: n\ndescription: d\nsteps: [{op: sell, id: 1, quantity: 1, count: 1}]\n", "count only applies"},
		{"want on remove", "name: n\ndescription: d\nsteps: [{op: remove, id: 1, want: {id: 1, name: a, price: '1', quantity: 1}}]\n", "want only applies"},
		{"bad setup price", "name: n\ndescription: d\nsetup: [{id: 1, name: a, price: cheap, quantity: 1}]\nsteps: [{op: clear}]\n", "setup[0]"},
		{"bad final price", "name: n\ndescription: d\nsteps: [{op: clear}]\nfinal: [{id: 1, name: a, price: '', quantity: 1}]\n", "final[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadExampleScenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			_, err := LoadScenario(f)
			require.NoError(t, err)
		})
	}
}
