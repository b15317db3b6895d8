package scoring

// Rotation tracks doubles service across games and tiebreaks.
//
// Index is the serve-order position due to serve the next ordinary game.
// TiebreakIndex is the position that served first in the active tiebreak and
// TiebreakPointsServed counts the tiebreak points already played.
//
// All positions are indexes into Config.ServeOrder, modulo its length. With an
// empty serve order the rotation never moves.
type Rotation struct {
	Index                int `json:"index"`
	TiebreakIndex        int `json:"tiebreak_index"`
	TiebreakPointsServed int `json:"tiebreak_points_served"`
}

// Transition describes what a point did to the current set.
type Transition struct {
	WasTiebreak   bool // a tiebreak was active before the point
	InTiebreak    bool // a tiebreak is active after the point
	GameCompleted bool // an ordinary game finished on this point
}

// TiebreakServeOffset returns how many positions the serve has moved from the
// first tiebreak server after played points: the first server serves one
// point, then each server serves two.
func TiebreakServeOffset(played int) int {
	if played <= 0 {
		return 0
	}
	return (played + 1) / 2
}

// Advance returns the rotation after a point, for a serve order of length n.
func (r Rotation) Advance(n int, t Transition) Rotation {
	if n <= 0 {
		return r
	}

	switch {
	case !t.WasTiebreak && t.InTiebreak:
		// The game that reached the tiebreak counts as served.
		next := (r.Index + 1) % n
		return Rotation{Index: next, TiebreakIndex: next}
	case t.WasTiebreak && t.InTiebreak:
		r.TiebreakPointsServed++
		return r
	case t.WasTiebreak && !t.InTiebreak:
		last := r.TiebreakServer(n)
		return Rotation{Index: (last + 1) % n}
	case t.GameCompleted:
		return Rotation{Index: (r.Index + 1) % n}
	default:
		return r
	}
}

// TiebreakServer returns the position serving the next tiebreak point.
func (r Rotation) TiebreakServer(n int) int {
	if n <= 0 {
		return 0
	}
	return (r.TiebreakIndex + TiebreakServeOffset(r.TiebreakPointsServed)) % n
}

// Server returns the position serving the next point.
func (r Rotation) Server(n int, inTiebreak bool) int {
	if n <= 0 {
		return 0
	}
	if inTiebreak {
		return r.TiebreakServer(n)
	}
	return r.Index % n
}
