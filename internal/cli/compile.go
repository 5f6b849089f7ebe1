package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/allfiledmap/internal/store"
)

// lockTimeout bounds how long compile waits for another writer.
const lockTimeout = 5 * time.Second

// CompileResult is the output of compile.
type CompileResult struct {
	SnapshotID  string `json:"snapshot_id"`
	Seq         int64  `json:"seq"`
	Version     string `json:"version"`
	ContentHash string `json:"content_hash"`
	Statements  int    `json:"statements"`
	Inserted    bool   `json:"inserted"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <definition.cue>",
		Short: "Compile a mapping definition into the snapshot database",
		Long: `Compile and validate a CUE mapping definition, then store it as a
snapshot in the database given by --db.

Storing a definition whose content is already stored is a no-op that
reports the existing snapshot. Use the snapshot id (or "latest") with
--snapshot to map against it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCompile(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if opts.DB == "" {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "--db is required")
	}

	def, err := LoadDefinition(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	if errs := validateDefinition(def); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), lockTimeout)
	defer cancel()

	var snap store.Snapshot
	var inserted bool
	err = store.WithWriteLock(ctx, opts.DB, func() error {
		st, err := store.Open(opts.DB)
		if err != nil {
			return err
		}
		defer st.Close()

		snap, inserted, err = st.WriteSnapshot(ctx, def)
		return err
	})
	if errors.Is(err, store.ErrLocked) {
		return formatter.Fail(ExitCommandError, ErrCodeLocked, err.Error())
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error())
	}

	opts.Logger().Info("snapshot stored",
		"id", snap.ID,
		"seq", snap.Seq,
		"version", snap.Version,
		"inserted", inserted,
	)

	result := CompileResult{
		SnapshotID:  snap.ID,
		Seq:         snap.Seq,
		Version:     snap.Version,
		ContentHash: snap.ContentHash,
		Statements:  len(def.Equivalences) + len(def.Rewrites),
		Inserted:    inserted,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if inserted {
		fmt.Fprintf(formatter.Writer, "✓ Stored snapshot %s (seq %d, version %s)\n", result.SnapshotID, result.Seq, result.Version)
	} else {
		fmt.Fprintf(formatter.Writer, "✓ Snapshot %s already stored (seq %d, version %s)\n", result.SnapshotID, result.Seq, result.Version)
	}
	return nil
}
