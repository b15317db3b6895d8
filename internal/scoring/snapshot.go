package scoring

import "strconv"

// SetScore is the display form of one set. Tiebreak is set only while a
// tiebreak is being played in that set.
type SetScore struct {
	GamesA    int  `json:"games_a"`
	GamesB    int  `json:"games_b"`
	Tiebreak  bool `json:"tiebreak,omitempty"`
	TiebreakA int  `json:"tiebreak_a,omitempty"`
	TiebreakB int  `json:"tiebreak_b,omitempty"`
}

// GameScore is the display form of the game or tiebreak in play.
//
// Ordinary games use "0", "15", "30", "40"; deuce and advantage both show
// "40"-"40". Tiebreaks show the point counts and carry their target. A
// finished game, or a finished match, shows "0"-"0".
type GameScore struct {
	PointsA        string `json:"points_a"`
	PointsB        string `json:"points_b"`
	Deuce          bool   `json:"deuce"`
	Advantage      Side   `json:"advantage,omitempty"`
	DeuceCount     int    `json:"deuce_count"`
	Tiebreak       bool   `json:"tiebreak,omitempty"`
	TiebreakTarget int    `json:"tiebreak_target,omitempty"`
}

// Snapshot is the externally visible score of a match.
type Snapshot struct {
	Sets   []SetScore `json:"sets"`
	Game   GameScore  `json:"game"`
	SetsA  int        `json:"sets_a"`
	SetsB  int        `json:"sets_b"`
	Server int        `json:"server"`
	Winner Side       `json:"winner,omitempty"`
}

// TakeSnapshot renders m for display and analysis.
func TakeSnapshot(m MatchState) Snapshot {
	sets := Sets(m)
	snap := Snapshot{
		Sets:   make([]SetScore, 0, len(sets)),
		Game:   GameScore{PointsA: "0", PointsB: "0"},
		Server: CurrentServer(m),
		Winner: m.Outcome(),
	}
	snap.SetsA, snap.SetsB = m.SetTally()

	for _, s := range sets {
		snap.Sets = append(snap.Sets, scoreOfSet(s))
	}

	if set, ok := CurrentSet(m); ok {
		snap.Game = scoreOfGame(set)
	}
	return snap
}

func scoreOfSet(s SetState) SetScore {
	a, b := s.Games()
	score := SetScore{GamesA: a, GamesB: b}
	if p, ok := s.(SetPlaying); ok && p.Tiebreak != nil {
		score.Tiebreak = true
		score.TiebreakA, score.TiebreakB = p.Tiebreak.Points()
	}
	return score
}

func scoreOfGame(set SetPlaying) GameScore {
	if set.Tiebreak != nil {
		a, b := set.Tiebreak.Points()
		gs := GameScore{PointsA: strconv.Itoa(a), PointsB: strconv.Itoa(b), Tiebreak: true}
		if tb, ok := set.Tiebreak.(TiebreakPlaying); ok {
			gs.TiebreakTarget = tb.Target
		}
		return gs
	}

	switch g := set.Game.(type) {
	case GamePoints:
		return GameScore{PointsA: g.A.String(), PointsB: g.B.String()}
	case GameDeuce:
		return GameScore{PointsA: "40", PointsB: "40", Deuce: true, DeuceCount: g.Count}
	case GameAdvantage:
		return GameScore{PointsA: "40", PointsB: "40", Advantage: g.Holder, DeuceCount: g.Count}
	default:
		return GameScore{PointsA: "0", PointsB: "0"}
	}
}
