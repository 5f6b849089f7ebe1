package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override flags,
// e.g. ALLFILEDMAP_DB or ALLFILEDMAP_LOG_LEVEL.
const EnvPrefix = "ALLFILEDMAP"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	LogLevel   string
	ConfigFile string
	Definition string // CUE definition to map with; empty means bundled
	DB         string // snapshot database
	Snapshot   string // snapshot id, or "latest"

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the allfiledmap CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "allfiledmap",
		Short: "Map identifiers between Allfiled and the XDI dictionary",
		Long: `Translate Allfiled data identifiers (category, file, field) to XDI
canonical dictionary identifiers and back.

Configuration sources (in order of precedence):
  1. Command line flags
  2. Environment variables (ALLFILEDMAP_*)
  3. Config file (--config, or ./allfiledmap.yaml)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.configure(v, cmd)
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	pf.StringVar(&opts.ConfigFile, "config", "", "config file (default ./allfiledmap.yaml)")
	pf.StringVar(&opts.Definition, "definition", "", "CUE mapping definition (default: bundled)")
	pf.StringVar(&opts.DB, "db", "", "snapshot database path")
	pf.StringVar(&opts.Snapshot, "snapshot", "", `stored snapshot id to map with, or "latest"`)

	cmd.AddCommand(NewToCanonicalCommand(opts))
	cmd.AddCommand(NewToVendorCommand(opts))
	cmd.AddCommand(NewSplitCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewSnapshotsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// configure resolves options from flags, environment and config file, then
// sets up logging.
func (o *RootOptions) configure(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	configFile := v.GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("allfiledmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one must load.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	o.Verbose = v.GetBool("verbose")
	o.Format = v.GetString("format")
	o.LogLevel = v.GetString("log-level")
	o.Definition = v.GetString("definition")
	o.DB = v.GetString("db")
	o.Snapshot = v.GetString("snapshot")

	if !isValidFormat(o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return nil
}

// Logger returns the configured logger, or slog.Default() when the command
// ran without the root pre-run.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
