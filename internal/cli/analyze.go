package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kldn/tennis-scorer/internal/analysis"
	"github.com/kldn/tennis-scorer/internal/store"
)

// loadInput reads a stored match as analysis input.
func loadInput(ctx context.Context, st *store.Store, id string) (analysis.Input, error) {
	m, err := getMatch(ctx, st, id)
	if err != nil {
		return analysis.Input{}, err
	}
	events, err := st.Events(ctx, id)
	if err != nil {
		return analysis.Input{}, WrapExitError(ExitCommandError, "failed to load points", err)
	}
	return analysis.Input{ID: id, Config: m.Config, Events: events}, nil
}

// replayMatch opens the store and replays one match.
func replayMatch(ctx context.Context, opts *RootOptions, id string) ([]analysis.PointContext, error) {
	st, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	in, err := loadInput(ctx, st, id)
	if err != nil {
		return nil, err
	}
	contexts := analysis.Replay(in.Config, in.Events)
	opts.Metrics.Replayed(len(contexts))
	opts.Logger.Debug("match replayed", "match_id", id, "points", len(contexts))
	return contexts, nil
}

// StatsResult is the output of the stats command.
type StatsResult struct {
	ID    string              `json:"id"`
	Stats analysis.MatchStats `json:"stats"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <match-id>",
		Short: "Show match statistics",
		Long: `Replay a match and show per-side statistics: service and return
points, holds and breaks, break points, deuce games, conversion of game,
set and match points, streaks, clutch play and tiebreaks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contexts, err := replayMatch(cmd.Context(), rootOpts, args[0])
			if err != nil {
				return err
			}
			result := StatsResult{ID: args[0], Stats: analysis.Analyze(contexts)}
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return f.Render(result, func(w io.Writer) error {
				return writeStats(w, result.ID, result.Stats)
			})
		},
	}
}

// MomentumResult is the output of the momentum command.
type MomentumResult struct {
	ID       string                  `json:"id"`
	Momentum analysis.MomentumSeries `json:"momentum"`
}

// NewMomentumCommand creates the momentum command.
func NewMomentumCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "momentum <match-id>",
		Short: "Show the momentum of a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contexts, err := replayMatch(cmd.Context(), rootOpts, args[0])
			if err != nil {
				return err
			}
			result := MomentumResult{ID: args[0], Momentum: analysis.Momentum(contexts)}
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return f.Render(result, func(w io.Writer) error {
				return writeMomentum(w, result.ID, result.Momentum)
			})
		},
	}
}

// PaceResult is the output of the pace command.
type PaceResult struct {
	ID   string             `json:"id"`
	Pace analysis.PaceStats `json:"pace"`
}

// NewPaceCommand creates the pace command.
func NewPaceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pace <match-id>",
		Short: "Show how long points, games and sets took",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contexts, err := replayMatch(cmd.Context(), rootOpts, args[0])
			if err != nil {
				return err
			}
			result := PaceResult{ID: args[0], Pace: analysis.Pace(contexts)}
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return f.Render(result, func(w io.Writer) error {
				return writePace(w, result.ID, result.Pace)
			})
		},
	}
}

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	All     bool
	Workers int
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze [match-id...]",
		Short: "Build full reports for many matches",
		Long: `Build the full report (contexts, statistics, momentum, pace and
context digest) of the given matches, or of every stored match with --all.
Matches are analyzed concurrently by up to --workers goroutines.

Examples:
  tennis analyze --all
  tennis analyze --all --workers 8 --format json
  tennis analyze 0190a5c4-... 0190a5c5-...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "analyze every stored match")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent analyses (default $TENNIS_WORKERS or 4)")
	return cmd
}

func runAnalyze(ctx context.Context, opts *AnalyzeOptions, ids []string, cmd *cobra.Command) error {
	if opts.All == (len(ids) > 0) {
		return NewExitError(ExitCommandError, "give match ids or --all, not both")
	}
	workers := opts.Workers
	if workers == 0 {
		workers = opts.Settings.Workers
	}
	if workers < 1 {
		return NewExitError(ExitCommandError, "--workers must be positive")
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.All {
		ids, err = allMatchIDs(ctx, st)
		if err != nil {
			return err
		}
	}

	inputs := make([]analysis.Input, 0, len(ids))
	for _, id := range ids {
		in, err := loadInput(ctx, st, id)
		if err != nil {
			return err
		}
		inputs = append(inputs, in)
	}

	start := time.Now()
	reports, err := analysis.BuildAll(ctx, inputs, workers)
	if err != nil {
		return WrapExitError(ExitFailure, "analysis failed", err)
	}
	opts.Metrics.ObserveAnalysis(start)
	for _, r := range reports {
		opts.Metrics.Replayed(len(r.Contexts))
	}
	opts.Logger.Info("analysis finished", "matches", len(reports), "workers", workers, "elapsed", time.Since(start))

	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return f.Render(reports, func(w io.Writer) error {
		if len(reports) == 0 {
			_, err := fmt.Fprintln(w, "No matches found.")
			return err
		}
		for _, r := range reports {
			a, b := r.Stats.A.Points, r.Stats.B.Points
			if _, err := fmt.Fprintf(w, "%s  points=%d  won=%d-%d  digest=%s\n",
				r.ID, len(r.Contexts), a.Won, b.Won, shortDigest(r.Digest)); err != nil {
				return err
			}
		}
		return nil
	})
}

// allMatchIDs pages through every stored match, newest first.
func allMatchIDs(ctx context.Context, st *store.Store) ([]string, error) {
	var ids []string
	for offset := 0; ; offset += store.DefaultListLimit {
		page, err := st.ListMatches(ctx, store.ListOptions{Limit: store.DefaultListLimit, Offset: offset})
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to list matches", err)
		}
		for _, m := range page {
			ids = append(ids, m.ID)
		}
		if len(page) < store.DefaultListLimit {
			return ids, nil
		}
	}
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
