package scoring

// DefaultSetGames is the game count at which a set can be won and at which a
// tiebreak is played when the games are tied.
const DefaultSetGames = 6

// SetRules carries the match-level settings a set transition needs.
type SetRules struct {
	NoAd             bool
	TiebreakTarget   int
	FinalSet         bool
	FinalSetTiebreak bool

	// Games is the set threshold; zero means DefaultSetGames.
	Games int
}

func (r SetRules) threshold() int {
	if r.Games <= 0 {
		return DefaultSetGames
	}
	return r.Games
}

// TiebreakApplies reports whether a tie at the threshold is settled by a
// tiebreak. Only a final set played without tiebreak is excluded.
func (r SetRules) TiebreakApplies() bool {
	return !r.FinalSet || r.FinalSetTiebreak
}

// SetState is the score of one set.
type SetState interface {
	// Score applies a point won by winner.
	Score(winner Side, rules SetRules) SetState

	// Outcome returns the set winner, or NoSide while the set is live.
	Outcome() Side

	// Games returns both sides' game counts.
	Games() (a, b int)

	setState()
}

// NewSet returns a set at 0-0 with a fresh game.
func NewSet() SetState {
	return SetPlaying{Game: NewGame()}
}

// SetPlaying is a live set. Tiebreak is nil until the games are tied at the
// threshold; after that every point of the set goes to the tiebreak.
type SetPlaying struct {
	GamesA   int
	GamesB   int
	Game     GameState
	Tiebreak TiebreakState
}

// SetCompleted is a finished set.
type SetCompleted struct {
	Winner Side
	GamesA int
	GamesB int
}

func (SetPlaying) setState() {}
func (SetCompleted) setState() {}

func (s SetPlaying) Score(winner Side, rules SetRules) SetState {
	if !winner.Valid() {
		return s
	}

	if s.Tiebreak != nil {
		tb := s.Tiebreak.Score(winner)
		if w := tb.Outcome(); w != NoSide {
			a, b := addGame(s.GamesA, s.GamesB, w)
			return SetCompleted{Winner: w, GamesA: a, GamesB: b}
		}
		s.Tiebreak = tb
		return s
	}

	game := s.Game
	if game == nil {
		game = NewGame()
	}
	game = game.Score(winner, rules.NoAd)
	w := game.Outcome()
	if w == NoSide {
		s.Game = game
		return s
	}

	a, b := addGame(s.GamesA, s.GamesB, w)
	if sw := SetWinner(a, b, rules); sw != NoSide {
		return SetCompleted{Winner: sw, GamesA: a, GamesB: b}
	}

	n := rules.threshold()
	if a == n && b == n && rules.TiebreakApplies() {
		return SetPlaying{GamesA: a, GamesB: b, Game: NewGame(), Tiebreak: NewTiebreak(rules.TiebreakTarget)}
	}
	return SetPlaying{GamesA: a, GamesB: b, Game: NewGame()}
}

func (s SetPlaying) Outcome() Side { return NoSide }
func (s SetPlaying) Games() (int, int) { return s.GamesA, s.GamesB }

// InTiebreak reports whether the set is being decided by a tiebreak.
func (s SetPlaying) InTiebreak() bool { return s.Tiebreak != nil }

func (s SetCompleted) Score(Side, SetRules) SetState { return s }
func (s SetCompleted) Outcome() Side { return s.Winner }
func (s SetCompleted) Games() (int, int) { return s.GamesA, s.GamesB }

// SetWinner applies the ordinary set-win rule to a game tally: the leader
// needs at least the threshold with a two-game lead, or threshold+1 against
// threshold when a tiebreak settles the set. It returns NoSide when neither
// side has won.
//
// A final set without tiebreak only ends on a two-game lead.
func SetWinner(gamesA, gamesB int, rules SetRules) Side {
	n := rules.threshold()
	leader, hi, lo := SideA, gamesA, gamesB
	if gamesB > gamesA {
		leader, hi, lo = SideB, gamesB, gamesA
	}

	if hi >= n && hi-lo >= 2 {
		return leader
	}
	if rules.TiebreakApplies() && hi == n+1 && lo == n {
		return leader
	}
	return NoSide
}

func addGame(a, b int, winner Side) (int, int) {
	if winner == SideA {
		return a + 1, b
	}
	return a, b + 1
}
