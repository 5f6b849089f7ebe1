package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/allfiledmap/internal/mapping"
	"github.com/roach88/allfiledmap/internal/xri"
)

// ConversionResult is the output of to-canonical and to-vendor.
type ConversionResult struct {
	Op     string `json:"op"`
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Mapped bool   `json:"mapped"`
}

// SplitResult is the output of split.
type SplitResult struct {
	Input string `json:"input"`
	mapping.Triple
}

// NewToCanonicalCommand creates the to-canonical command.
func NewToCanonicalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "to-canonical <vendor-xri>",
		Short: "Map an Allfiled identifier to its XDI canonical identifier",
		Long: `Map an Allfiled identifier to its XDI canonical identifier.

Example:
  allfiledmap to-canonical '+(personal)+(person)$!(+(forename))'
  +first$!(+name)

Exits 1 when the dictionary holds no mapping.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, mapping.OpVendorToCanonical, args[0], cmd)
		},
	}
}

// NewToVendorCommand creates the to-vendor command.
func NewToVendorCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "to-vendor <canonical-xri>",
		Short: "Map an XDI canonical identifier to its Allfiled identifier",
		Long: `Map an XDI canonical identifier to the first Allfiled identifier
declared equivalent to it.

Example:
  allfiledmap to-vendor '+first$!(+name)'
  +(personal)+(person)$!(+(forename))

Exits 1 when the dictionary holds no mapping.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, mapping.OpCanonicalToVendor, args[0], cmd)
		},
	}
}

// NewSplitCommand creates the split command.
func NewSplitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "split <vendor-xri>",
		Short: "Print the category, file and field of an Allfiled identifier",
		Long: `Split an Allfiled identifier into its native category, file and
field names. The dictionary is not consulted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(rootOpts, args[0], cmd)
		},
	}
}

func newMapper(opts *RootOptions, cmd *cobra.Command, f *OutputFormatter) (*mapping.Mapper, error) {
	ix, src, err := LoadIndex(cmd.Context(), opts)
	if err != nil {
		return nil, reportLoadError(f, err)
	}
	f.VerboseLog("Using %s dictionary (version %s)", src.Kind, src.Version)

	m, err := mapping.New(ix, mapping.WithLogger(opts.Logger()))
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, err.Error())
	}
	return m, nil
}

func parseIdentifier(f *OutputFormatter, input string) (xri.Identifier, error) {
	id, err := xri.Parse(input)
	if err != nil {
		return xri.Identifier{}, f.Fail(ExitCommandError, ErrCodeInvalidIdentifier, err.Error())
	}
	return id, nil
}

// reportMappingError outputs a conversion error with the matching code.
func reportMappingError(f *OutputFormatter, err error) error {
	if mapping.IsInvalidArgument(err) {
		return f.Fail(ExitCommandError, ErrCodeInvalidArgument, err.Error())
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error())
}

func runConvert(opts *RootOptions, op, input string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	id, err := parseIdentifier(f, input)
	if err != nil {
		return err
	}
	m, err := newMapper(opts, cmd, f)
	if err != nil {
		return err
	}

	var out xri.Identifier
	var ok bool
	if op == mapping.OpVendorToCanonical {
		out, ok, err = m.VendorToCanonical(id)
	} else {
		out, ok, err = m.CanonicalToVendor(id)
	}
	if err != nil {
		return reportMappingError(f, err)
	}

	result := ConversionResult{Op: op, Input: id.String(), Mapped: ok}
	if ok {
		result.Output = out.String()
	}

	if f.Format == "json" {
		if err := f.Success(result); err != nil {
			return err
		}
	} else if ok {
		fmt.Fprintln(f.Writer, result.Output)
	} else {
		fmt.Fprintf(f.Writer, "no mapping: %s\n", result.Input)
	}

	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: no mapping for %s", ErrCodeNoMapping, result.Input))
	}
	return nil
}

func runSplit(opts *RootOptions, input string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	id, err := parseIdentifier(f, input)
	if err != nil {
		return err
	}
	m, err := newMapper(opts, cmd, f)
	if err != nil {
		return err
	}

	triple, err := m.Triple(id)
	if err != nil {
		return reportMappingError(f, err)
	}

	if f.Format == "json" {
		return f.Success(SplitResult{Input: id.String(), Triple: triple})
	}

	fmt.Fprintf(f.Writer, "category: %s\n", triple.Category)
	fmt.Fprintf(f.Writer, "file:     %s\n", triple.File)
	fmt.Fprintf(f.Writer, "field:    %s\n", triple.Field)
	return nil
}
