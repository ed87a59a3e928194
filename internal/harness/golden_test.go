package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(f)
			require.NoError(t, err)
			require.Equal(t, name, scenario.Name, "scenario name must match its file name")

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestGoldenPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"scenarios/sell.yaml", filepath.Join("scenarios", "golden", "sell.golden")},
		{"/abs/path/restock.yml", filepath.Join("/abs/path", "golden", "restock.golden")},
		{"plain.yaml", filepath.Join("golden", "plain.golden")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, GoldenPath(tt.input))
		})
	}
}

func TestWriteAndCompareGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "sell.golden")
	snapshot := []byte("scenario: sell\n")

	_, err := CompareGolden(path, snapshot)
	require.Error(t, err, "missing golden file")

	require.NoError(t, WriteGolden(path, snapshot))

	match, err := CompareGolden(path, snapshot)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = CompareGolden(path, []byte("scenario: other\n"))
	require.NoError(t, err)
	assert.False(t, match)
}

func TestSnapshot_Format(t *testing.T) {
	s := &Scenario{Name: "snap", Description: "d", Setup: []RecordSpec{{ID: 1, Name: "Sofa", Price: "1", Quantity: 1}}}
	r := NewResult()
	r.addEvent(OpFind, "id=1", OutcomeOK, "1,Sofa,1,1")
	r.addEvent(OpClear, "", OutcomeOK, "")

	want := "scenario: snap\n" +
		"strategy: text\n" +
		"setup: 1 record(s)\n" +
		"001 find id=1 -> ok 1,Sofa,1,1\n" +
		"002 clear -> ok\n" +
		"final: 0 record(s)\n"
	assert.Equal(t, want, string(r.Snapshot(s)))
}
