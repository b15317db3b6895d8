package scoring

// GameState is the score of a single ordinary game.
//
// Implementations are GamePoints, GameDeuce, GameAdvantage and GameCompleted.
// The interface is sealed; a new variant has to implement every method, which
// keeps the transition table exhaustive.
type GameState interface {
	// Score applies a point won by winner. noAd makes the point at deuce
	// decisive.
	Score(winner Side, noAd bool) GameState

	// Outcome returns the game winner, or NoSide while the game is live.
	Outcome() Side

	// DeuceCount returns how many times the game has been at deuce.
	// It is 0 outside GameDeuce and GameAdvantage.
	DeuceCount() int

	gameState()
}

// NewGame returns a game at 0-0.
func NewGame() GameState {
	return GamePoints{}
}

// GamePoints is a game before the first deuce.
type GamePoints struct {
	A Point
	B Point
}

// GameDeuce is a game at deuce. Count starts at 1 and grows each time an
// advantage is lost.
type GameDeuce struct {
	Count int
}

// GameAdvantage is a game where Holder needs one more point.
type GameAdvantage struct {
	Holder Side
	Count  int
}

// GameCompleted is a finished game.
type GameCompleted struct {
	Winner Side
}

func (GamePoints) gameState() {}
func (GameDeuce) gameState() {}
func (GameAdvantage) gameState() {}
func (GameCompleted) gameState() {}

// Of returns the point value held by side.
func (g GamePoints) Of(side Side) Point {
	return pick(side, g.A, g.B)
}

func (g GamePoints) Score(winner Side, noAd bool) GameState {
	if !winner.Valid() {
		return g
	}
	mine, theirs := g.Of(winner), g.Of(winner.Opponent())

	if mine == Forty {
		if theirs != Forty {
			return GameCompleted{Winner: winner}
		}
		if noAd {
			return GameCompleted{Winner: winner}
		}
		return GameDeuce{Count: 1}
	}

	next, _ := mine.Next()
	if next == Forty && theirs == Forty {
		return GameDeuce{Count: 1}
	}
	if winner == SideA {
		g.A = next
	} else {
		g.B = next
	}
	return g
}

func (g GamePoints) Outcome() Side { return NoSide }
func (g GamePoints) DeuceCount() int { return 0 }

func (g GameDeuce) Score(winner Side, noAd bool) GameState {
	if !winner.Valid() {
		return g
	}
	if noAd {
		return GameCompleted{Winner: winner}
	}
	return GameAdvantage{Holder: winner, Count: g.Count}
}

func (g GameDeuce) Outcome() Side { return NoSide }
func (g GameDeuce) DeuceCount() int { return g.Count }

func (g GameAdvantage) Score(winner Side, noAd bool) GameState {
	if !winner.Valid() {
		return g
	}
	if winner == g.Holder {
		return GameCompleted{Winner: winner}
	}
	return GameDeuce{Count: g.Count + 1}
}

func (g GameAdvantage) Outcome() Side { return NoSide }
func (g GameAdvantage) DeuceCount() int { return g.Count }

// Score on a completed game is a no-op.
func (g GameCompleted) Score(Side, bool) GameState { return g }
func (g GameCompleted) Outcome() Side { return g.Winner }
func (g GameCompleted) DeuceCount() int { return 0 }
