package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_FailedExpectationReported(t *testing.T) {
	scenario := mustParse(t, `
name: wrong_status
description: "expects the wrong status"
steps:
  - method: GET
    path: /tl/xx/kamal
    expect:
      status: 200
`)

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "steps[0]")
	assert.Contains(t, result.Errors[0], "Expected: 200")
	assert.Contains(t, result.Errors[0], "Actual: 404")
}

func TestRun_FailedAssertionReported(t *testing.T) {
	scenario := mustParse(t, `
name: wrong_count
description: "expects two queued words after one submission"
steps:
  - method: POST
    path: /learn
    form: { lang: ml, text: അമ്മ }
assertions:
  - type: pending_count
    lang: ml
    count: 2
`)

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "assertions[0]")
	assert.Contains(t, result.Errors[0], "1 pending")
}

func TestRun_RunsAreIsolated(t *testing.T) {
	scenario := mustParse(t, `
name: isolated
description: "each run starts from an empty queue"
steps:
  - method: POST
    path: /learn
    form: { lang: ml, text: അമ്മ }
assertions:
  - type: pending_count
    lang: ml
    count: 1
`)

	for i := 0; i < 2; i++ {
		result, err := Run(context.Background(), scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "run %d: %v", i, result.Errors)
	}
}

func TestRun_TraceIsDeterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/transliterate.yaml")
	require.NoError(t, err)

	first, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	second, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, "req-1", first.Trace[0].RequestID)
}

func TestRun_SetupUnknownLanguage(t *testing.T) {
	scenario := mustParse(t, `
name: bad_setup
description: "seeds learnings for a language with no scheme"
setup:
  learnings:
    - { lang: xx, pattern: a, word: b }
steps:
  - method: GET
    path: /languages
`)

	_, err := Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute setup")
}

func mustParse(t *testing.T, doc string) *Scenario {
	t.Helper()
	scenario, err := ParseScenario([]byte(doc))
	require.NoError(t, err)
	return scenario
}
