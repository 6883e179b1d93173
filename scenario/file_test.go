package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleScenarios = `scenarios:
  - name: crash
    description: hard sell-off
    paths:
      SX5E: [1800, 1500, 1200]
  - name: rally
    paths:
      SX5E: [2100, 2200, 2300]
`

func TestParseScenarios(t *testing.T) {
	scenarios, err := Parse([]byte(sampleScenarios))
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	require.Equal(t, "crash", scenarios[0].Name)
	require.Equal(t, "hard sell-off", scenarios[0].Description)
	path, ok := scenarios[0].Prices.Path("SX5E")
	require.True(t, ok)
	require.Len(t, path, 3)
	require.True(t, path[0].Equal(d(1800)))

	require.Equal(t, "rally", scenarios[1].Name)
}

func TestParseScenarioErrors(t *testing.T) {
	type testCases struct {
		name string
		raw  string
	}

	for _, test := range []testCases{
		{
			name: "INVALID_YAML",
			raw:  "scenarios: [",
		},
		{
			name: "EMPTY_SET",
			raw:  "scenarios: []",
		},
		{
			name: "MISSING_NAME",
			raw: `scenarios:
  - description: unnamed
    paths:
      SX5E: [100]
`,
		},
		{
			name: "MISSING_PATHS",
			raw: `scenarios:
  - name: empty
`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			scenarios, err := Parse([]byte(test.raw))
			require.Error(t, err)
			require.Nil(t, scenarios)
		})
	}
}

func TestLoadScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScenarios), 0o644))

	scenarios, err := Load(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
