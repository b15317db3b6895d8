package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "summary --player <name>",
		Short: "Show a player's record over completed matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			summary, err := st.Summary(cmd.Context(), player)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to summarize player", err)
			}

			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return f.Render(summary, func(w io.Writer) error {
				return writeSummary(w, summary)
			})
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "player name (required)")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}
