package session

import (
	"errors"
	"fmt"
)

// Error is a session operation that was refused.
type Error struct {
	Code    ErrorCode
	Message string
	MatchID string
}

// ErrorCode categorizes session errors.
type ErrorCode string

const (
	// ErrCodeMatchCompleted indicates a point was scored after the match ended.
	ErrCodeMatchCompleted ErrorCode = "MATCH_COMPLETED"

	// ErrCodeNothingToUndo indicates undo on a match with no points.
	ErrCodeNothingToUndo ErrorCode = "NOTHING_TO_UNDO"

	// ErrCodeInvalidSide indicates a point for neither side A nor side B.
	ErrCodeInvalidSide ErrorCode = "INVALID_SIDE"
)

// Sentinels for errors.Is. Errors returned by a Session carry the match id
// but still match these.
var (
	ErrMatchCompleted = &Error{Code: ErrCodeMatchCompleted, Message: "match is already decided"}
	ErrNothingToUndo  = &Error{Code: ErrCodeNothingToUndo, Message: "no point to undo"}
	ErrInvalidSide    = &Error{Code: ErrCodeInvalidSide, Message: "scorer must be side A or B"}
)

func (e *Error) Error() string {
	if e.MatchID != "" {
		return fmt.Sprintf("%s: %s (match=%s)", e.Code, e.Message, e.MatchID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) withMatch(id string) *Error {
	c := *e
	c.MatchID = id
	return &c
}

// IsMatchCompleted reports whether err refuses a point on a decided match.
// Uses errors.As to handle wrapped errors.
func IsMatchCompleted(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeMatchCompleted
	}
	return false
}

// IsNothingToUndo reports whether err refuses an undo on an empty match.
func IsNothingToUndo(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeNothingToUndo
	}
	return false
}
