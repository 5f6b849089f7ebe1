package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/allfiledmap/internal/dictionary"
)

// DumpResult is the output of dump.
type DumpResult struct {
	Source     IndexSource            `json:"source"`
	Nodes      int                    `json:"nodes"`
	Statements []dictionary.Statement `json:"statements"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the edges of the dictionary graph",
		Long: `Print every canonical-of and equivalence edge of the dictionary
selected by --snapshot, --definition or the bundled default, one
subject/relation/object statement per line.

Example:
  allfiledmap dump --definition mapping.cue`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, cmd)
		},
	}
}

func runDump(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	ix, src, err := LoadIndex(cmd.Context(), opts)
	if err != nil {
		return reportLoadError(f, err)
	}

	result := DumpResult{Source: src, Nodes: ix.Len(), Statements: ix.Statements()}
	if result.Statements == nil {
		result.Statements = []dictionary.Statement{}
	}

	if f.Format == "json" {
		return f.Success(result)
	}

	fmt.Fprintf(f.Writer, "# %s dictionary, version %s: %d nodes, %d edges\n",
		src.Kind, src.Version, result.Nodes, len(result.Statements))
	for _, s := range result.Statements {
		fmt.Fprintln(f.Writer, s)
	}
	return nil
}
