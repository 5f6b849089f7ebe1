package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewSnapshotsCommand creates the snapshots command.
func NewSnapshotsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "snapshots",
		Short:         "List stored definition snapshots",
		Long:          `List the definition snapshots in the database given by --db, oldest first.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshots(rootOpts, cmd)
		},
	}
}

func runSnapshots(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if opts.DB == "" {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "--db is required")
	}

	st, err := openExistingStore(opts.DB)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	defer st.Close()

	snapshots, err := st.ListSnapshots(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(snapshots)
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(formatter.Writer, "No snapshots stored.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tVERSION\tHASH")
	for _, s := range snapshots {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Seq, s.ID, s.Version, shortHash(s.ContentHash))
	}
	if err := tw.Flush(); err != nil {
		return WrapExitError(ExitCommandError, "writing snapshot table", err)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
