package scoring

import (
	"fmt"
	"time"
)

// PointEndType records how a point finished. It is optional metadata and
// never affects scoring.
type PointEndType string

const (
	EndUnspecified   PointEndType = ""
	EndAce           PointEndType = "ace"
	EndDoubleFault   PointEndType = "double_fault"
	EndWinner        PointEndType = "winner"
	EndUnforcedError PointEndType = "unforced_error"
	EndForcedError   PointEndType = "forced_error"
	EndNormal        PointEndType = "normal"
)

// ParsePointEndType validates s as a point end type.
func ParsePointEndType(s string) (PointEndType, error) {
	switch t := PointEndType(s); t {
	case EndUnspecified, EndAce, EndDoubleFault, EndWinner, EndUnforcedError, EndForcedError, EndNormal:
		return t, nil
	default:
		return EndUnspecified, fmt.Errorf("unknown point end type %q", s)
	}
}

// PointEvent is one entry of a match's point log.
type PointEvent struct {
	Scorer Side         `json:"scorer" yaml:"scorer"`
	At     time.Time    `json:"at" yaml:"at"`
	End    PointEndType `json:"end,omitempty" yaml:"end,omitempty"`
}
