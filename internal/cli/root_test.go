package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "allfiledmap", cmd.Use)
	assert.Contains(t, cmd.Long, "ALLFILEDMAP_")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"to-canonical", "to-vendor", "split", "dump", "validate", "compile", "snapshots", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"log-level", "config", "definition", "db", "snapshot"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag --%s", name)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "yaml", "split", "+(a)+(b)$!(+(c))")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "split", "+(a)+(b)$!(+(c))")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}

func TestEnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("ALLFILEDMAP_FORMAT", "json")

	out, _, err := execute(t, "split", "+(personal)+(person)$!(+(forename))")
	require.NoError(t, err)

	var split SplitResult
	resp := decodeResponse(t, out, &split)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "forename", split.Field)
}

func TestFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("ALLFILEDMAP_FORMAT", "json")

	out, _, err := execute(t, "--format", "text", "split", "+(personal)+(person)$!(+(forename))")
	require.NoError(t, err)
	assert.Contains(t, out, "category: personal")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "small.cue", `
version: "small.1"
equivalence: {
	"+(personal)+(person)$!(+(forename))": "+given$!(+name)"
}
`)
	cfg := writeFile(t, dir, "allfiledmap.yaml", "format: json\ndefinition: "+def+"\n")

	out, _, err := execute(t, "--config", cfg, "to-canonical", "+(personal)+(person)$!(+(forename))")
	require.NoError(t, err)

	var result ConversionResult
	decodeResponse(t, out, &result)
	assert.Equal(t, "+given$!(+name)", result.Output)
}

func TestConfigFile_ExplicitMissing(t *testing.T) {
	_, _, err := execute(t, "--config", "/nonexistent/allfiledmap.yaml", "split", "+(a)+(b)$!(+(c))")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLogLevelDebugWritesToStderr(t *testing.T) {
	out, errOut, err := execute(t, "--log-level", "debug", "to-canonical", "+(personal)+(person)$!(+(forename))")
	require.NoError(t, err)
	assert.Equal(t, "+first$!(+name)\n", out)
	assert.Contains(t, errOut, "mapped and converted identifier")
}
