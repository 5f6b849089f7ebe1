package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/allfiledmap/internal/store"
)

func TestCompile_RequiresDB(t *testing.T) {
	def := writeFixtureDefinition(t)

	out, _, err := execute(t, "compile", def)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E013]: --db is required")
}

func TestCompile_StoresSnapshot(t *testing.T) {
	def := writeFixtureDefinition(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	out, _, err := execute(t, "--format", "json", "--db", db, "compile", def)
	require.NoError(t, err)

	var first CompileResult
	decodeResponse(t, out, &first)
	assert.True(t, first.Inserted)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, "test.1", first.Version)
	assert.Equal(t, 10, first.Statements)
	assert.NotEmpty(t, first.SnapshotID)
	assert.Len(t, first.ContentHash, 64)

	out, _, err = execute(t, "--format", "json", "--db", db, "compile", def)
	require.NoError(t, err)

	var second CompileResult
	decodeResponse(t, out, &second)
	assert.False(t, second.Inserted)
	assert.Equal(t, first.SnapshotID, second.SnapshotID)
	assert.Equal(t, first.Seq, second.Seq)
}

func TestCompile_Text(t *testing.T) {
	def := writeFixtureDefinition(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	out, _, err := execute(t, "--db", db, "compile", def)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Stored snapshot")
	assert.Contains(t, out, "(seq 1, version test.1)")

	out, _, err = execute(t, "--db", db, "compile", def)
	require.NoError(t, err)
	assert.Contains(t, out, "already stored")
}

func TestCompile_InvalidDefinitionNotStored(t *testing.T) {
	def := writeFile(t, t.TempDir(), "bad.cue", `
version: "bad.1"
equivalence: {
	"+(personal)$!(+(forename))": "+first$!(+name)"
}
`)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	_, _, err := execute(t, "--db", db, "compile", def)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.NoFileExists(t, db)
}

func TestCompile_Locked(t *testing.T) {
	def := writeFixtureDefinition(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	lock, err := store.AcquireLock(t.Context(), db)
	require.NoError(t, err)
	defer lock.Release()

	out, _, err := execute(t, "--db", db, "compile", def)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E011]")
}

func TestSnapshotIndex_Latest(t *testing.T) {
	def := writeFixtureDefinition(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	_, _, err := execute(t, "--db", db, "compile", def)
	require.NoError(t, err)

	out, errOut, err := execute(t, "--verbose", "--db", db, "--snapshot", "latest",
		"to-canonical", "+(personal)+(person)$!(+(nickname))")
	require.NoError(t, err)
	assert.Equal(t, "+display$!(+name)\n", out)
	assert.Contains(t, errOut, "Using snapshot dictionary (version test.1)")
}

func TestSnapshotIndex_ByID(t *testing.T) {
	def := writeFixtureDefinition(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	out, _, err := execute(t, "--format", "json", "--db", db, "compile", def)
	require.NoError(t, err)
	var compiled CompileResult
	decodeResponse(t, out, &compiled)

	out, _, err = execute(t, "--db", db, "--snapshot", compiled.SnapshotID, "to-vendor", "+last$!(+name)")
	require.NoError(t, err)
	assert.Equal(t, "+(personal)+(person)$!(+(surname))\n", out)
}

func TestSnapshotIndex_RequiresDB(t *testing.T) {
	out, _, err := execute(t, "--snapshot", "latest", "to-canonical", "+(a)+(b)$!(+(c))")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E013]: --snapshot requires --db")
}

func TestSnapshotIndex_NotFound(t *testing.T) {
	def := writeFixtureDefinition(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	_, _, err := execute(t, "--db", db, "compile", def)
	require.NoError(t, err)

	out, _, err := execute(t, "--db", db, "--snapshot", "no-such-id", "to-canonical", "+(a)+(b)$!(+(c))")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestSnapshots_List(t *testing.T) {
	def := writeFixtureDefinition(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	out, _, err := execute(t, "--format", "json", "--db", db, "compile", def)
	require.NoError(t, err)
	var compiled CompileResult
	decodeResponse(t, out, &compiled)

	out, _, err = execute(t, "--db", db, "snapshots")
	require.NoError(t, err)
	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, compiled.SnapshotID)
	assert.Contains(t, out, compiled.ContentHash[:12])
	assert.NotContains(t, out, compiled.ContentHash)

	out, _, err = execute(t, "--format", "json", "--db", db, "snapshots")
	require.NoError(t, err)
	var snapshots []store.Snapshot
	decodeResponse(t, out, &snapshots)
	require.Len(t, snapshots, 1)
	assert.Equal(t, compiled.SnapshotID, snapshots[0].ID)
	assert.Empty(t, snapshots[0].Statements)
}

func TestSnapshots_MissingDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "missing.db")

	out, _, err := execute(t, "--db", db, "snapshots")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]: database not found")
	assert.NoFileExists(t, db)
}
