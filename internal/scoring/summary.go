package scoring

// GameCode is a compact game-state code for clients that cannot consume the
// variant types directly.
type GameCode int

const (
	CodePlaying    GameCode = 0
	CodeDeuce      GameCode = 1
	CodeAdvantageA GameCode = 2
	CodeAdvantageB GameCode = 3
	CodeCompleted  GameCode = 4
)

// MatchScore is a flat summary of a match. Points are 0/15/30/40 in ordinary
// games and raw counts in a tiebreak.
type MatchScore struct {
	SetsA      int      `json:"sets_a"`
	SetsB      int      `json:"sets_b"`
	GamesA     int      `json:"games_a"`
	GamesB     int      `json:"games_b"`
	PointsA    int      `json:"points_a"`
	PointsB    int      `json:"points_b"`
	State      GameCode `json:"game_state"`
	Tiebreak   bool     `json:"tiebreak"`
	DeuceCount int      `json:"deuce_count"`
	Server     int      `json:"server"`
	Winner     Side     `json:"winner,omitempty"`
}

var pointNumbers = [...]int{Love: 0, Fifteen: 15, Thirty: 30, Forty: 40}

// Summarize flattens m into a MatchScore.
func Summarize(m MatchState) MatchScore {
	score := MatchScore{Winner: m.Outcome(), Server: CurrentServer(m)}
	score.SetsA, score.SetsB = m.SetTally()

	set, ok := CurrentSet(m)
	if !ok {
		score.State = CodeCompleted
		return score
	}
	score.GamesA, score.GamesB = set.GamesA, set.GamesB

	if set.Tiebreak != nil {
		score.Tiebreak = true
		score.PointsA, score.PointsB = set.Tiebreak.Points()
		if set.Tiebreak.Outcome() != NoSide {
			score.State = CodeCompleted
		}
		return score
	}

	switch g := set.Game.(type) {
	case GamePoints:
		score.PointsA, score.PointsB = pointNumbers[g.A], pointNumbers[g.B]
	case GameDeuce:
		score.State = CodeDeuce
		score.PointsA, score.PointsB = 40, 40
		score.DeuceCount = g.Count
	case GameAdvantage:
		score.State = pick(g.Holder, CodeAdvantageA, CodeAdvantageB)
		score.PointsA, score.PointsB = 40, 40
		score.DeuceCount = g.Count
	case GameCompleted:
		score.State = CodeCompleted
	}
	return score
}
