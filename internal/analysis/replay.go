package analysis

import "github.com/kldn/tennis-scorer/internal/scoring"

// Replay scores events on a fresh match and returns one context per event,
// in event order.
//
// Events after the match is decided are still annotated; their Before
// snapshot shows the final score and they carry no flags.
func Replay(cfg scoring.Config, events []scoring.PointEvent) []PointContext {
	m := scoring.NewMatch(cfg)
	contexts := make([]PointContext, 0, len(events))
	completedGames := 0

	for i, ev := range events {
		set, game := scoring.Position(m)
		server := servingSide(m, completedGames)
		chances := chancesAt(m)

		contexts = append(contexts, PointContext{
			Number:     i + 1,
			Scorer:     ev.Scorer,
			At:         ev.At,
			Server:     server,
			Before:     scoring.TakeSnapshot(m),
			BreakPoint: chances.game[server.Opponent()],
			GamePoint:  chances.game[scoring.SideA] || chances.game[scoring.SideB],
			SetPoint:   chances.set,
			MatchPoint: chances.match,
			Tiebreak:   scoring.InTiebreak(m),
			Game:       game,
			Set:        set,
			End:        ev.End,
		})

		gamesA, gamesB := scoring.GamesInCurrentSet(m)
		m = m.Score(ev.Scorer)
		nextA, nextB := scoring.GamesInCurrentSet(m)
		if nextA+nextB > gamesA+gamesB || setFinished(m, set) {
			completedGames++
		}
	}
	return contexts
}

// servingSide returns the side serving the next point of m.
//
// Doubles read the serve order through the match rotation. Singles alternate
// by completed games, and inside a tiebreak follow the one-then-two pattern
// from the player due to serve the tiebreak.
func servingSide(m scoring.MatchState, completedGames int) scoring.Side {
	cfg := m.Settings()
	if n := len(cfg.ServeOrder); n > 0 {
		side := cfg.ServeOrder[scoring.CurrentServer(m)%n].Side
		if !side.Valid() {
			return scoring.SideA
		}
		return side
	}

	base := scoring.SideA
	if completedGames%2 == 1 {
		base = scoring.SideB
	}

	if set, ok := scoring.CurrentSet(m); ok && set.Tiebreak != nil {
		a, b := set.Tiebreak.Points()
		if scoring.TiebreakServeOffset(a+b)%2 == 1 {
			return base.Opponent()
		}
	}
	return base
}

// chances holds the pressure flags of the next point.
type chances struct {
	game  [3]bool // per side: winning the point takes the game or tiebreak
	set   bool
	match bool
}

// chancesAt tries the next point for each side against the real transition
// functions, so game points follow exactly the rules the match is scored by.
//
// A set point is a game point where either side winning the game (or the
// tiebreak) would close the set. A match point is a set point while either
// side is one set from the match.
func chancesAt(m scoring.MatchState) chances {
	var c chances
	set, ok := scoring.CurrentSet(m)
	if !ok {
		return c
	}

	cfg := m.Settings()
	for _, side := range []scoring.Side{scoring.SideA, scoring.SideB} {
		if set.Tiebreak != nil {
			c.game[side] = set.Tiebreak.Score(side).Outcome() == side
		} else if set.Game != nil {
			c.game[side] = set.Game.Score(side, cfg.NoAd).Outcome() == side
		}
	}
	if !c.game[scoring.SideA] && !c.game[scoring.SideB] {
		return c
	}

	setsA, setsB := m.SetTally()
	if set.Tiebreak != nil {
		c.set = true
	} else {
		rules := cfg.RulesAt(setsA, setsB)
		c.set = scoring.SetWinner(set.GamesA+1, set.GamesB, rules) != scoring.NoSide ||
			scoring.SetWinner(set.GamesA, set.GamesB+1, rules) != scoring.NoSide
	}
	c.match = c.set && (setsA == cfg.SetsToWin-1 || setsB == cfg.SetsToWin-1)
	return c
}

func setFinished(m scoring.MatchState, set int) bool {
	if m.Outcome() != scoring.NoSide {
		return true
	}
	return len(scoring.Sets(m)) > set
}
