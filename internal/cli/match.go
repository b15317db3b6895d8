package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kldn/tennis-scorer/internal/config"
	"github.com/kldn/tennis-scorer/internal/scoring"
	"github.com/kldn/tennis-scorer/internal/session"
	"github.com/kldn/tennis-scorer/internal/store"
)

// MatchView is a stored match with its current score. Summary carries the
// same score in flat numeric form.
type MatchView struct {
	Match   store.Match        `json:"match"`
	Points  int                `json:"points"`
	Score   scoring.Snapshot   `json:"score"`
	Summary scoring.MatchScore `json:"summary"`
}

func newMatchView(m store.Match, sess *session.Session, snap scoring.Snapshot) MatchView {
	return MatchView{
		Match:   m,
		Points:  len(sess.Events()),
		Score:   snap,
		Summary: scoring.Summarize(sess.State()),
	}
}

// openStore opens the database named by --db.
func openStore(opts *RootOptions) (*store.Store, error) {
	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// getMatch loads a match, mapping an unknown id to a command error.
func getMatch(ctx context.Context, st *store.Store, id string) (store.Match, error) {
	m, err := st.GetMatch(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Match{}, NewExitError(ExitCommandError, fmt.Sprintf("match not found: %s", id))
	}
	if err != nil {
		return store.Match{}, WrapExitError(ExitCommandError, "failed to load match", err)
	}
	return m, nil
}

// loadSession restores the live session of a stored match. Points and undos
// on the returned session are written through to st.
func loadSession(ctx context.Context, opts *RootOptions, st *store.Store, id string) (*session.Session, store.Match, error) {
	m, err := getMatch(ctx, st, id)
	if err != nil {
		return nil, store.Match{}, err
	}
	events, err := st.Events(ctx, id)
	if err != nil {
		return nil, store.Match{}, WrapExitError(ExitCommandError, "failed to load points", err)
	}
	lastSeq, err := st.LastSeq(ctx, id)
	if err != nil {
		return nil, store.Match{}, WrapExitError(ExitCommandError, "failed to load points", err)
	}

	sessOpts := []session.Option{
		session.WithRecorder(st),
		session.WithClock(session.NewClockAt(lastSeq)),
		session.WithLogger(opts.Logger),
		session.WithMetrics(opts.Metrics),
	}
	if opts.Now != nil {
		sessOpts = append(sessOpts, session.WithTimeSource(opts.Now))
	}
	return session.Restore(id, m.Config, events, sessOpts...), m, nil
}

// NewMatchOptions holds flags for the new command.
type NewMatchOptions struct {
	*RootOptions
	ConfigFile string
	Preset     string
	Name       string
	PlayerA    string
	PlayerB    string
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewMatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new match",
		Long: `Start a new match and print its id.

Rules come from a YAML or CUE file (--config) or a named preset (--preset).
Without either, the default rules apply: best of three sets, ad scoring,
7-point tiebreaks, singles.

Examples:
  tennis new --player-a Federer --player-b Nadal
  tennis new --preset best-of-5 --name "Wimbledon final"
  tennis new --config ./club-doubles.cue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "match rules file (.yaml, .yml or .cue)")
	cmd.Flags().StringVar(&opts.Preset, "preset", "", "rules preset ("+strings.Join(scoring.PresetNames(), "|")+")")
	cmd.Flags().StringVar(&opts.Name, "name", "", "match name")
	cmd.Flags().StringVar(&opts.PlayerA, "player-a", "", "name of side A")
	cmd.Flags().StringVar(&opts.PlayerB, "player-b", "", "name of side B")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")

	return cmd
}

func runNew(ctx context.Context, opts *NewMatchOptions, cmd *cobra.Command) error {
	cfg, err := matchRules(opts)
	if err != nil {
		return err
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	m := store.Match{
		ID:      opts.IDs.Generate(),
		Name:    opts.Name,
		PlayerA: opts.PlayerA,
		PlayerB: opts.PlayerB,
		Config:  cfg,
	}
	if opts.Now != nil {
		m.StartedAt = opts.Now.Now()
		m.CreatedAt = m.StartedAt
	}
	if err := st.CreateMatch(ctx, m); err != nil {
		return WrapExitError(ExitCommandError, "failed to create match", err)
	}
	opts.Logger.Info("match created", "match_id", m.ID, "mode", cfg.Mode)

	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return f.Render(m, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, m.ID)
		return err
	})
}

// matchRules resolves --config or --preset to match rules.
func matchRules(opts *NewMatchOptions) (scoring.Config, error) {
	if opts.ConfigFile != "" {
		cfg, err := config.LoadMatchConfig(opts.ConfigFile)
		if err != nil {
			return scoring.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		return cfg, nil
	}

	name := opts.Preset
	if name == "" {
		name = "default"
	}
	cfg, ok := scoring.Preset(name)
	if !ok {
		return scoring.Config{}, NewExitError(ExitCommandError,
			fmt.Sprintf("unknown preset %q (want one of %s)", name, strings.Join(scoring.PresetNames(), ", ")))
	}
	return cfg, nil
}

// PointOptions holds flags for the point command.
type PointOptions struct {
	*RootOptions
	End string
}

// NewPointCommand creates the point command.
func NewPointCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PointOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "point <match-id> <A|B>",
		Short: "Score a point",
		Long: `Score a point for side A or B and print the new score.

Exit codes:
  0 - Point scored
  1 - The match is already decided
  2 - Command error (unknown match, invalid side, etc.)

Examples:
  tennis point 0190a5c4-... A
  tennis point 0190a5c4-... B --end ace`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoint(cmd.Context(), opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.End, "end", "", "how the point ended (ace|double_fault|winner|unforced_error|forced_error|normal)")
	return cmd
}

func runPoint(ctx context.Context, opts *PointOptions, id, sideArg string, cmd *cobra.Command) error {
	side, err := scoring.ParseSide(sideArg)
	if err != nil || !side.Valid() {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid side %q: must be A or B", sideArg))
	}
	end, err := scoring.ParsePointEndType(opts.End)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --end", err)
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, m, err := loadSession(ctx, opts.RootOptions, st, id)
	if err != nil {
		return err
	}

	snap, err := sess.Score(ctx, side, end)
	if session.IsMatchCompleted(err) {
		return WrapExitError(ExitFailure, "cannot score point", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to score point", err)
	}

	view := newMatchView(m, sess, snap)
	if snap.Winner != scoring.NoSide {
		view.Match.Winner = snap.Winner
		view.Match.SetsA, view.Match.SetsB = snap.SetsA, snap.SetsB
	}
	return showView(opts.RootOptions, cmd, view)
}

// NewUndoCommand creates the undo command.
func NewUndoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <match-id>",
		Short: "Take back the last point",
		Long: `Remove the last point of a match and print the restored score.
Undoing the winning point reopens the match.

Exit codes:
  0 - Point removed
  1 - The match has no points
  2 - Command error (unknown match, etc.)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo(cmd.Context(), rootOpts, args[0], cmd)
		},
	}
}

func runUndo(ctx context.Context, opts *RootOptions, id string, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, m, err := loadSession(ctx, opts, st, id)
	if err != nil {
		return err
	}

	snap, err := sess.Undo(ctx)
	if session.IsNothingToUndo(err) {
		return WrapExitError(ExitFailure, "cannot undo", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to undo point", err)
	}

	m.Winner, m.SetsA, m.SetsB = snap.Winner, snap.SetsA, snap.SetsB
	return showView(opts, cmd, newMatchView(m, sess, snap))
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <match-id>",
		Short: "Show a match and its score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), rootOpts, args[0], cmd)
		},
	}
}

func runShow(ctx context.Context, opts *RootOptions, id string, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, m, err := loadSession(ctx, opts, st, id)
	if err != nil {
		return err
	}
	return showView(opts, cmd, newMatchView(m, sess, sess.Snapshot()))
}

func showView(opts *RootOptions, cmd *cobra.Command, view MatchView) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return f.Render(view, func(w io.Writer) error {
		return writeMatchView(w, view)
	})
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Player string
	Limit  int
	Offset int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Player, "player", "", "only matches this player took part in")
	cmd.Flags().IntVar(&opts.Limit, "limit", store.DefaultListLimit, "maximum number of matches")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of matches to skip")
	return cmd
}

func runList(ctx context.Context, opts *ListOptions, cmd *cobra.Command) error {
	if opts.Limit < 1 || opts.Offset < 0 {
		return NewExitError(ExitCommandError, "--limit must be positive and --offset non-negative")
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	matches, err := st.ListMatches(ctx, store.ListOptions{
		Limit:      opts.Limit,
		Offset:     opts.Offset,
		PlayerName: opts.Player,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list matches", err)
	}

	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return f.Render(matches, func(w io.Writer) error {
		return writeMatchList(w, matches)
	})
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <match-id>",
		Short: "Delete a match and its points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), rootOpts, args[0], cmd)
		},
	}
}

func runDelete(ctx context.Context, opts *RootOptions, id string, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	err = st.DeleteMatch(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("match not found: %s", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to delete match", err)
	}
	opts.Logger.Info("match deleted", "match_id", id)

	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return f.Render(map[string]string{"deleted": id}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Deleted match %s\n", id)
		return err
	})
}
