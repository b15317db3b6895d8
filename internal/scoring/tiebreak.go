package scoring

// TiebreakState is the score of a tiebreak.
type TiebreakState interface {
	// Score applies a point won by winner.
	Score(winner Side) TiebreakState

	// Outcome returns the tiebreak winner, or NoSide while it is live.
	Outcome() Side

	// Points returns both sides' point counts.
	Points() (a, b int)

	tiebreakState()
}

// NewTiebreak returns a tiebreak at 0-0 played to target.
func NewTiebreak(target int) TiebreakState {
	return TiebreakPlaying{Target: target}
}

// TiebreakPlaying is a live tiebreak. It is won by the first side to reach
// Target with a lead of at least two.
type TiebreakPlaying struct {
	A      int
	B      int
	Target int
}

// TiebreakCompleted is a finished tiebreak. The final counts are kept for
// display.
type TiebreakCompleted struct {
	Winner Side
	A      int
	B      int
}

func (TiebreakPlaying) tiebreakState() {}
func (TiebreakCompleted) tiebreakState() {}

func (t TiebreakPlaying) Score(winner Side) TiebreakState {
	switch winner {
	case SideA:
		t.A++
	case SideB:
		t.B++
	default:
		return t
	}

	if t.A >= t.Target && t.A-t.B >= 2 {
		return TiebreakCompleted{Winner: SideA, A: t.A, B: t.B}
	}
	if t.B >= t.Target && t.B-t.A >= 2 {
		return TiebreakCompleted{Winner: SideB, A: t.A, B: t.B}
	}
	return t
}

func (t TiebreakPlaying) Outcome() Side { return NoSide }
func (t TiebreakPlaying) Points() (int, int) { return t.A, t.B }

// Of returns the points held by side.
func (t TiebreakPlaying) Of(side Side) int {
	return pick(side, t.A, t.B)
}

func (t TiebreakCompleted) Score(Side) TiebreakState { return t }
func (t TiebreakCompleted) Outcome() Side { return t.Winner }
func (t TiebreakCompleted) Points() (int, int) { return t.A, t.B }
