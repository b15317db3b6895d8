package config

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error codes for config loading.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeUnsupported   = "E002" // Unsupported file extension
	ErrCodeParseFailed   = "E003" // YAML or CUE syntax error
	ErrCodeSchema        = "E004" // CUE schema violation
	ErrCodeNotFound      = "E005" // File not found
	ErrCodeUnknownPreset = "E006" // Preset name not recognized
	ErrCodeInvalid       = "E007" // Config failed validation
)

// LoadError is a config file that could not be turned into match rules.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ValidationError is one rule a config breaks.
type ValidationError struct {
	// Field is the snake_case path of the offending field, for example
	// "serve_order[1].side".
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err contains a *ValidationError.
// Uses errors.As to handle wrapped and joined errors.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrorCode returns the code of a *LoadError in err's chain, or "".
func ErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
