package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kldn/tennis-scorer/internal/analysis"
	"github.com/kldn/tennis-scorer/internal/canon"
	"github.com/kldn/tennis-scorer/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	MatchID string // optional - specific match only
}

// ReplayMatchResult holds the replay result for a single match.
type ReplayMatchResult struct {
	ID            string `json:"id"`
	Points        int    `json:"points"`
	LogDigest     string `json:"log_digest"`
	Digest        string `json:"digest"`
	Deterministic bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Matches          []ReplayMatchResult `json:"matches"`
	TotalMatches     int                 `json:"total_matches"`
	AllDeterministic bool                `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay stored matches and verify determinism",
		Long: `Replay the point log of every stored match twice and compare the
digests of the annotated points.

Exit codes:
  0 - All matches are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  tennis replay
  tennis replay --match 0190a5c4-...
  tennis replay --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.MatchID, "match", "", "replay specific match only")
	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	var ids []string
	if opts.MatchID != "" {
		ids = []string{opts.MatchID}
	} else {
		ids, err = allMatchIDs(ctx, st)
		if err != nil {
			return err
		}
	}

	result := ReplayResult{
		Matches:          make([]ReplayMatchResult, 0, len(ids)),
		TotalMatches:     len(ids),
		AllDeterministic: true,
	}
	for _, id := range ids {
		mr, err := replayAndVerify(ctx, st, id)
		if err != nil {
			return err
		}
		opts.Metrics.Replayed(2 * mr.Points)
		if !mr.Deterministic {
			result.AllDeterministic = false
			opts.Logger.Warn("non-deterministic replay", "match_id", id)
		}
		result.Matches = append(result.Matches, mr)
	}

	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if !result.AllDeterministic && opts.Format == "json" {
		if err := f.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: "E_DETERMINISM", Message: "determinism verification failed"},
		}); err != nil {
			return err
		}
	} else if err := f.Render(result, func(w io.Writer) error {
		return writeReplay(w, result, opts.Verbose)
	}); err != nil {
		return err
	}

	if !result.AllDeterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// replayAndVerify replays one match twice and compares the context digests.
func replayAndVerify(ctx context.Context, st *store.Store, id string) (ReplayMatchResult, error) {
	in, err := loadInput(ctx, st, id)
	if err != nil {
		return ReplayMatchResult{}, err
	}

	logDigest, err := canon.EventLogDigest(in.Config, in.Events)
	if err != nil {
		return ReplayMatchResult{}, WrapExitError(ExitCommandError, "failed to digest point log", err)
	}

	first, err := analysis.Digest(analysis.Replay(in.Config, in.Events))
	if err != nil {
		return ReplayMatchResult{}, WrapExitError(ExitCommandError, "first replay failed", err)
	}
	second, err := analysis.Digest(analysis.Replay(in.Config, in.Events))
	if err != nil {
		return ReplayMatchResult{}, WrapExitError(ExitCommandError, "second replay failed", err)
	}

	return ReplayMatchResult{
		ID:            id,
		Points:        len(in.Events),
		LogDigest:     logDigest,
		Digest:        first,
		Deterministic: first == second,
	}, nil
}

func writeReplay(w io.Writer, result ReplayResult, verbose bool) error {
	if result.TotalMatches == 0 {
		_, err := fmt.Fprintln(w, "No matches found in database.")
		return err
	}

	fmt.Fprintf(w, "Replay Summary: %d match(es)\n", result.TotalMatches)
	fmt.Fprintln(w)

	for _, m := range result.Matches {
		status := "✓"
		if !m.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Match: %s\n", status, m.ID)
		fmt.Fprintf(w, "  Points: %d\n", m.Points)
		if verbose {
			fmt.Fprintf(w, "  Log digest: %s\n", m.LogDigest)
			fmt.Fprintf(w, "  Context digest: %s\n", m.Digest)
		}
		if !m.Deterministic {
			fmt.Fprintln(w, "  Warning: Non-deterministic replay detected!")
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		_, err := fmt.Fprintln(w, "✓ All matches verified deterministic")
		return err
	}
	_, err := fmt.Fprintln(w, "✗ Determinism verification failed")
	return err
}
