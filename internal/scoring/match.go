package scoring

// MatchState is the score of a whole match.
type MatchState interface {
	// Score applies a point won by winner.
	Score(winner Side) MatchState

	// Outcome returns the match winner, or NoSide while the match is live.
	Outcome() Side

	// SetTally returns the number of sets each side has won.
	SetTally() (a, b int)

	// Settings returns the configuration the match is played under.
	Settings() Config

	matchState()
}

// NewMatch returns a match at the first point of the first set.
func NewMatch(cfg Config) MatchState {
	return MatchPlaying{
		Sets:   []SetState{NewSet()},
		Config: cfg.Clone(),
	}
}

// MatchPlaying is a live match. The last element of Sets is the set in play;
// the others are completed.
type MatchPlaying struct {
	Sets     []SetState
	SetsA    int
	SetsB    int
	Config   Config
	Rotation Rotation
}

// MatchCompleted is a finished match.
type MatchCompleted struct {
	Winner Side
	SetsA  int
	SetsB  int
	Sets   []SetState
	Config Config
}

func (MatchPlaying) matchState() {}
func (MatchCompleted) matchState() {}

func (m MatchPlaying) Score(winner Side) MatchState {
	if !winner.Valid() {
		return m
	}
	if len(m.Sets) == 0 {
		m.Sets = []SetState{NewSet()}
	}

	idx := len(m.Sets) - 1
	current := m.Sets[idx]
	next := current.Score(winner, m.Config.RulesAt(m.SetsA, m.SetsB))

	sets := make([]SetState, len(m.Sets), len(m.Sets)+1)
	copy(sets, m.Sets)
	sets[idx] = next

	wasTiebreak := setInTiebreak(current)
	rotation := m.Rotation.Advance(len(m.Config.ServeOrder), Transition{
		WasTiebreak:   wasTiebreak,
		InTiebreak:    setInTiebreak(next),
		GameCompleted: !wasTiebreak && gameTotal(next) > gameTotal(current),
	})

	w := next.Outcome()
	if w == NoSide {
		return MatchPlaying{Sets: sets, SetsA: m.SetsA, SetsB: m.SetsB, Config: m.Config, Rotation: rotation}
	}

	a, b := m.SetsA, m.SetsB
	if w == SideA {
		a++
	} else {
		b++
	}
	if a >= m.Config.SetsToWin {
		return MatchCompleted{Winner: SideA, SetsA: a, SetsB: b, Sets: sets, Config: m.Config}
	}
	if b >= m.Config.SetsToWin {
		return MatchCompleted{Winner: SideB, SetsA: a, SetsB: b, Sets: sets, Config: m.Config}
	}

	sets = append(sets, NewSet())
	return MatchPlaying{Sets: sets, SetsA: a, SetsB: b, Config: m.Config, Rotation: rotation}
}

func (m MatchPlaying) Outcome() Side { return NoSide }
func (m MatchPlaying) SetTally() (int, int) { return m.SetsA, m.SetsB }
func (m MatchPlaying) Settings() Config { return m.Config }

// Score on a completed match is a no-op.
func (m MatchCompleted) Score(Side) MatchState { return m }
func (m MatchCompleted) Outcome() Side { return m.Winner }
func (m MatchCompleted) SetTally() (int, int) { return m.SetsA, m.SetsB }
func (m MatchCompleted) Settings() Config { return m.Config }

// Sets returns the sets of m, completed ones first.
func Sets(m MatchState) []SetState {
	switch s := m.(type) {
	case MatchPlaying:
		return s.Sets
	case MatchCompleted:
		return s.Sets
	default:
		return nil
	}
}

// CurrentSet returns the set in play. ok is false once the match is over.
func CurrentSet(m MatchState) (set SetPlaying, ok bool) {
	p, ok := m.(MatchPlaying)
	if !ok || len(p.Sets) == 0 {
		return SetPlaying{}, false
	}
	set, ok = p.Sets[len(p.Sets)-1].(SetPlaying)
	return set, ok
}

// InTiebreak reports whether the next point is a tiebreak point.
func InTiebreak(m MatchState) bool {
	set, ok := CurrentSet(m)
	return ok && set.InTiebreak()
}

// GamesInCurrentSet returns the game tally of the set in play, or 0-0 once
// the match is over.
func GamesInCurrentSet(m MatchState) (a, b int) {
	set, ok := CurrentSet(m)
	if !ok {
		return 0, 0
	}
	return set.GamesA, set.GamesB
}

// Position returns the 1-based set number and game number within that set of
// the next point. A completed match reports game 0 of its last set.
func Position(m MatchState) (set, game int) {
	set = len(Sets(m))
	if _, ok := m.(MatchCompleted); ok {
		return set, 0
	}
	a, b := GamesInCurrentSet(m)
	return set, a + b + 1
}

// CurrentServer returns the serve-order index of the player serving the next
// point. It is always 0 in singles and once the match is over.
func CurrentServer(m MatchState) int {
	p, ok := m.(MatchPlaying)
	if !ok {
		return 0
	}
	return p.Rotation.Server(len(p.Config.ServeOrder), InTiebreak(m))
}

func setInTiebreak(s SetState) bool {
	p, ok := s.(SetPlaying)
	return ok && p.InTiebreak()
}

func gameTotal(s SetState) int {
	a, b := s.Games()
	return a + b
}
