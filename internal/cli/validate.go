package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/allfiledmap/internal/compiler"
	"github.com/roach88/allfiledmap/internal/dictionary"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool                       `json:"valid"`
	Version      string                     `json:"version,omitempty"`
	Equivalences int                        `json:"equivalences"`
	Rewrites     int                        `json:"rewrites"`
	Errors       []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <definition.cue>",
		Short: "Validate a mapping definition",
		Long: `Compile and validate a CUE mapping definition without storing it.

Checks syntax, identifier syntax, triple arity, duplicate keys, rewrite
cycles and the dictionary graph built from the definition.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	def, err := LoadDefinition(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	formatter.VerboseLog("Compiled %s: %d equivalence(s), %d rewrite(s)", path, len(def.Equivalences), len(def.Rewrites))

	if errs := validateDefinition(def); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	result := ValidationResult{
		Valid:        true,
		Version:      def.Version,
		Equivalences: len(def.Equivalences),
		Rewrites:     len(def.Rewrites),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Definition valid (version %s, %d equivalences, %d rewrites)\n",
		result.Version, result.Equivalences, result.Rewrites)
	return nil
}

// validateDefinition runs definition checks, then graph checks if those pass.
func validateDefinition(def *compiler.Definition) []compiler.ValidationError {
	if errs := compiler.Validate(def); len(errs) > 0 {
		return errs
	}

	if _, err := dictionary.Build(def); err != nil {
		return []compiler.ValidationError{graphValidationError(err)}
	}

	return nil
}

// graphValidationError reports a dictionary build failure as a validation
// error. A canonical-of cycle shares the rewrite cycle code.
func graphValidationError(err error) compiler.ValidationError {
	ve := compiler.ValidationError{Field: "graph", Message: err.Error(), Code: ErrCodeBuildFailed}
	if dictionary.IsCycleError(err) {
		ve.Code = compiler.ErrRewriteCycle
	}
	var ce *dictionary.ConfigError
	if errors.As(err, &ce) {
		ve.Message = ce.Message
		if ce.Path != "" {
			ve.Field = ce.Path
		}
	}
	return ve
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
