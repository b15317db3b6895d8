package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kldn/tennis-scorer/internal/config"
	"github.com/kldn/tennis-scorer/internal/scoring"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                      `json:"valid"`
	Config *scoring.Config           `json:"config,omitempty"`
	Errors []*config.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a match rules file",
		Long: `Validate a YAML or CUE match rules file without starting a match.

CUE files are checked against the #MatchConfig schema first. Both formats
are then checked for rules that cannot produce a playable match.

Exit codes:
  0 - The rules are valid
  1 - The file was read but the rules are invalid
  2 - Command error (missing file, unsupported extension, syntax error)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	formatter.VerboseLog("Validating %s", path)

	cfg, err := config.LoadMatchConfig(path)
	if err == nil {
		result := ValidationResult{Valid: true, Config: &cfg}
		return formatter.Render(result, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "✓ %s is valid: %s\n", path, describeRules(cfg))
			return err
		})
	}

	code := config.ErrorCode(err)
	if code == "" {
		code = config.ErrCodeGeneric
	}

	if code != config.ErrCodeInvalid && code != config.ErrCodeSchema {
		if outErr := formatter.Error(code, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	verrs := validationErrors(err)
	msg := err.Error()
	if len(verrs) > 0 {
		msg = fmt.Sprintf("%s: invalid match rules", path)
	}
	if err := formatter.Error(code, msg, verrs); err != nil {
		return err
	}
	if opts.Format != "json" {
		for _, ve := range verrs {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", ve.Field, ve.Message)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%s is invalid", path))
}

// validationErrors unpacks the rule violations joined into err.
func validationErrors(err error) []*config.ValidationError {
	var out []*config.ValidationError
	var walk func(error)
	walk = func(e error) {
		switch u := e.(type) {
		case *config.ValidationError:
			out = append(out, u)
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}
