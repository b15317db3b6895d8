package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/kldn/tennis-scorer/internal/config"
	"github.com/kldn/tennis-scorer/internal/metrics"
	"github.com/kldn/tennis-scorer/internal/session"
)

// RootOptions holds global flags for all commands, and the process-wide
// dependencies PersistentPreRunE builds from them.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	DB          string
	MetricsFile string

	Settings config.Settings
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// IDs generates match ids. If nil, defaults to UUIDv7Generator.
	IDs session.IDGenerator

	// Now stamps scored points. If nil, the system clock is used.
	Now session.TimeSource
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tennis CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tennis",
		Short: "Tennis match scorer",
		Long: `Score tennis matches point by point and analyze them afterwards.

Matches live in a SQLite database. Every point is stored as it is scored,
so a match can be resumed, undone, replayed and analyzed at any time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(opts, cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.MetricsFile == "" || opts.Registry == nil {
				return nil
			}
			if err := metrics.WriteTextfile(opts.MetricsFile, opts.Registry); err != nil {
				return WrapExitError(ExitCommandError, "failed to write metrics", err)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to SQLite database (default $TENNIS_DB or tennis.db)")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file after the command")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewPointCommand(opts))
	cmd.AddCommand(NewUndoCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewMomentumCommand(opts))
	cmd.AddCommand(NewPaceCommand(opts))
	cmd.AddCommand(NewAnalyzeCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup validates global flags and builds the logger and metrics.
// Flags win over the environment.
func setup(opts *RootOptions, cmd *cobra.Command) error {
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load settings", err)
	}
	opts.Settings = settings

	if !cmd.Flags().Changed("db") {
		opts.DB = settings.DB
	}
	if !cmd.Flags().Changed("metrics-file") {
		opts.MetricsFile = settings.MetricsFile
	}

	level := settings.LogLevel
	if opts.Verbose {
		level = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	opts.Registry = prometheus.NewRegistry()
	opts.Metrics = metrics.New(opts.Registry)

	if opts.IDs == nil {
		opts.IDs = session.UUIDv7Generator{}
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	return execute(&RootOptions{}, args, stdout, stderr)
}

func execute(opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return GetExitCode(err)
}
