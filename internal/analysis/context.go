package analysis

import (
	"time"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// PointContext is one replayed point with the situation it was played in.
type PointContext struct {
	// Number is the 1-based position of the point in the log.
	Number int          `json:"number"`
	Scorer scoring.Side `json:"scorer"`
	At     time.Time    `json:"at"`
	Server scoring.Side `json:"server"`

	// Before is the score immediately before the point was played.
	Before scoring.Snapshot `json:"before"`

	BreakPoint bool `json:"break_point"`
	GamePoint  bool `json:"game_point"`
	SetPoint   bool `json:"set_point"`
	MatchPoint bool `json:"match_point"`
	Tiebreak   bool `json:"tiebreak"`

	// Game is the 1-based game number within Set. A tiebreak counts as the
	// game after the twelfth.
	Game int `json:"game"`
	Set  int `json:"set"`

	End scoring.PointEndType `json:"end,omitempty"`
}

// Critical reports whether the point was a break, set or match point.
func (p PointContext) Critical() bool {
	return p.BreakPoint || p.SetPoint || p.MatchPoint
}
