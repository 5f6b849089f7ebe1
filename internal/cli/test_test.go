package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: forename
description: "Forename maps to first name"
steps:
  - op: vendor_to_canonical
    input: "+(personal)+(person)$!(+(forename))"
    expect: "+first$!(+name)"
  - op: field
    input: "+(personal)+(person)$!(+(forename))"
    expect: "forename"
`

const failingScenario = `name: wrong_expectation
description: "Expects the wrong canonical identifier"
steps:
  - op: vendor_to_canonical
    input: "+(personal)+(person)$!(+(forename))"
    expect: "+last$!(+name)"
`

func TestTestCommand_MissingArgs(t *testing.T) {
	_, _, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommand_NonexistentDir(t *testing.T) {
	_, _, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommand_EmptyDir(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommand_Passing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "forename.yaml", passingScenario)

	out, _, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ forename")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_Failing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "forename.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_expectation")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wrong.yaml", failingScenario)

	out, _, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Scenarios, 1)
	assert.NotEmpty(t, result.Scenarios[0].Errors)
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "forename.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	out, _, err := execute(t, "test", dir, "--filter", "fore*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
}

func TestTestCommand_UpdateThenCompareGolden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "forename.yaml", passingScenario)
	goldenPath := filepath.Join(dir, "golden", "forename.golden")

	out, _, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ forename (golden updated)")
	require.FileExists(t, goldenPath)

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name": "forename"`)

	_, _, err = execute(t, "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}"), 0644))
	out, _, err = execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommand_HarnessScenarios(t *testing.T) {
	out, _, err := execute(t, "test", "../harness/testdata/scenarios")
	require.NoError(t, err)
	assert.Contains(t, out, "3 passed, 0 failed, 3 total")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", passingScenario)
	writeFile(t, dir, "nested/b.yml", passingScenario)
	writeFile(t, dir, "golden/c.yaml", passingScenario)
	writeFile(t, dir, "notes.txt", "ignored")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "nested", "b.yml"),
	}, files)

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "forename.golden"),
		goldenFilePath(filepath.Join("scenarios", "forename.yaml")))
}
