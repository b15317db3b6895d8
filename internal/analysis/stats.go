package analysis

import (
	"strconv"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// MatchStats holds the statistics of both sides.
type MatchStats struct {
	A PlayerStats `json:"a"`
	B PlayerStats `json:"b"`
}

// PlayerStats is the statistical summary of one side.
type PlayerStats struct {
	BreakPoints BreakPointStats `json:"break_points"`
	Service     ServiceStats    `json:"service"`
	Deuce       DeuceStats      `json:"deuce"`
	Conversion  ConversionStats `json:"conversion"`
	Streaks     StreakStats     `json:"streaks"`
	Clutch      ClutchStats     `json:"clutch"`
	Tiebreaks   TiebreakStats   `json:"tiebreaks"`
	Points      PointStats      `json:"points"`
	Shots       ShotStats       `json:"shots"`
}

// BreakPointStats counts break points faced on serve and created on return.
type BreakPointStats struct {
	Faced          int     `json:"faced"`
	Saved          int     `json:"saved"`
	Created        int     `json:"created"`
	Converted      int     `json:"converted"`
	SaveRate       float64 `json:"save_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ServiceStats covers points and games on and against serve.
type ServiceStats struct {
	ServicePointsWon   int     `json:"service_points_won"`
	ServicePointsTotal int     `json:"service_points_total"`
	ReturnPointsWon    int     `json:"return_points_won"`
	ReturnPointsTotal  int     `json:"return_points_total"`
	ServiceGamesPlayed int     `json:"service_games_played"`
	ServiceGamesHeld   int     `json:"service_games_held"`
	ReturnGamesPlayed  int     `json:"return_games_played"`
	ReturnGamesWon     int     `json:"return_games_won"`
	HoldRate           float64 `json:"hold_rate"`
	BreakRate          float64 `json:"break_rate"`

	// Dominance is return points won % over service points lost %.
	Dominance float64 `json:"dominance"`
}

// DeuceStats covers games that reached deuce.
type DeuceStats struct {
	Games         int     `json:"games"`
	Won           int     `json:"won"`
	WinRate       float64 `json:"win_rate"`
	TotalDeuces   int     `json:"total_deuces"`
	AverageDeuces float64 `json:"average_deuces"`
}

// ConversionStats counts game, set and match chances held and how many
// were converted.
type ConversionStats struct {
	GamePoints     int     `json:"game_points"`
	GamePointsWon  int     `json:"game_points_won"`
	GameRate       float64 `json:"game_rate"`
	SetPoints      int     `json:"set_points"`
	SetPointsWon   int     `json:"set_points_won"`
	SetRate        float64 `json:"set_rate"`
	MatchPoints    int     `json:"match_points"`
	MatchPointsWon int     `json:"match_points_won"`
	MatchRate      float64 `json:"match_rate"`
}

// StreakStats holds the longest runs of points and games.
type StreakStats struct {
	LongestPointStreak  int `json:"longest_point_streak"`
	LongestPointDrought int `json:"longest_point_drought"`
	LongestHoldStreak   int `json:"longest_hold_streak"`
	LongestGameStreak   int `json:"longest_game_streak"`
}

// ClutchStats holds win rates on pressure points and the weighted clutch
// score.
type ClutchStats struct {
	BreakPointRate float64 `json:"break_point_rate"`
	SetPointRate   float64 `json:"set_point_rate"`
	MatchPointRate float64 `json:"match_point_rate"`
	NormalRate     float64 `json:"normal_rate"`
	Score          float64 `json:"score"`
}

// TiebreakStats covers the tiebreaks played. AverageMargin is the mean
// winning margin in points.
type TiebreakStats struct {
	Played        int     `json:"played"`
	Won           int     `json:"won"`
	WinRate       float64 `json:"win_rate"`
	AverageMargin float64 `json:"average_margin"`
}

// PointStats is the overall point count.
type PointStats struct {
	Won     int     `json:"won"`
	Total   int     `json:"total"`
	WinRate float64 `json:"win_rate"`
}

// ShotStats counts points by how they ended. Only points logged with an
// end type contribute.
type ShotStats struct {
	Aces              int `json:"aces"`
	DoubleFaults      int `json:"double_faults"`
	Winners           int `json:"winners"`
	UnforcedErrors    int `json:"unforced_errors"`
	ForcedErrorsDrawn int `json:"forced_errors_drawn"`
}

// Clutch score weights.
const (
	clutchBreakWeight = 0.4
	clutchSetWeight   = 0.35
	clutchMatchWeight = 0.25
)

// Analyze computes the statistics of both sides.
func Analyze(points []PointContext) MatchStats {
	return MatchStats{
		A: AnalyzeSide(points, scoring.SideA),
		B: AnalyzeSide(points, scoring.SideB),
	}
}

// AnalyzeSide computes the statistics of one side.
func AnalyzeSide(points []PointContext, side scoring.Side) PlayerStats {
	games := groupGames(points)
	return PlayerStats{
		BreakPoints: breakPointStats(points, side),
		Service:     serviceStats(points, games, side),
		Deuce:       deuceStats(points, side),
		Conversion:  conversionStats(points, side),
		Streaks:     streakStats(points, games, side),
		Clutch:      clutchStats(points, side),
		Tiebreaks:   tiebreakStats(points, side),
		Points:      pointStats(points, side),
		Shots:       shotStats(points, side),
	}
}

func breakPointStats(points []PointContext, side scoring.Side) BreakPointStats {
	var s BreakPointStats
	for _, p := range points {
		if !p.BreakPoint {
			continue
		}
		if p.Server == side {
			s.Faced++
			if p.Scorer == side {
				s.Saved++
			}
		} else {
			s.Created++
			if p.Scorer == side {
				s.Converted++
			}
		}
	}
	s.SaveRate = rate(s.Saved, s.Faced)
	s.ConversionRate = rate(s.Converted, s.Created)
	return s
}

func serviceStats(points []PointContext, games []gameGroup, side scoring.Side) ServiceStats {
	var s ServiceStats
	for _, p := range points {
		if p.Server == side {
			s.ServicePointsTotal++
			if p.Scorer == side {
				s.ServicePointsWon++
			}
		} else {
			s.ReturnPointsTotal++
			if p.Scorer == side {
				s.ReturnPointsWon++
			}
		}
	}

	// The last point of a game decides who won it.
	for _, g := range games {
		if g.server == side {
			s.ServiceGamesPlayed++
			if g.lastScorer == side {
				s.ServiceGamesHeld++
			}
		} else {
			s.ReturnGamesPlayed++
			if g.lastScorer == side {
				s.ReturnGamesWon++
			}
		}
	}

	s.HoldRate = rate(s.ServiceGamesHeld, s.ServiceGamesPlayed)
	s.BreakRate = rate(s.ReturnGamesWon, s.ReturnGamesPlayed)

	servicePct := rate(s.ServicePointsWon, s.ServicePointsTotal)
	returnPct := rate(s.ReturnPointsWon, s.ReturnPointsTotal)
	if lost := 1 - servicePct; lost > 0 {
		s.Dominance = returnPct / lost
	}
	return s
}

func deuceStats(points []PointContext, side scoring.Side) DeuceStats {
	type deuceGame struct {
		maxCount int
		winner   scoring.Side
	}
	var order []gameKey
	byGame := make(map[gameKey]*deuceGame)

	for _, p := range points {
		g := p.Before.Game
		atDeuce := g.Deuce || g.Advantage != scoring.NoSide ||
			(g.PointsA == "40" && g.PointsB == "40" && !p.Tiebreak)
		if !atDeuce {
			continue
		}

		key := gameKey{p.Set, p.Game}
		dg, ok := byGame[key]
		if !ok {
			dg = &deuceGame{}
			byGame[key] = dg
			order = append(order, key)
		}
		dg.maxCount = max(dg.maxCount, g.DeuceCount)
		dg.winner = p.Scorer
	}

	s := DeuceStats{Games: len(order)}
	for _, key := range order {
		dg := byGame[key]
		s.TotalDeuces += dg.maxCount
		if dg.winner == side {
			s.Won++
		}
	}
	s.WinRate = rate(s.Won, s.Games)
	s.AverageDeuces = rate(s.TotalDeuces, s.Games)
	return s
}

func conversionStats(points []PointContext, side scoring.Side) ConversionStats {
	var s ConversionStats
	for _, p := range points {
		if !p.GamePoint && !p.SetPoint && !p.MatchPoint {
			continue
		}
		if !opportunityFor(p, side) {
			continue
		}
		won := p.Scorer == side
		if p.GamePoint {
			s.GamePoints++
			if won {
				s.GamePointsWon++
			}
		}
		if p.SetPoint {
			s.SetPoints++
			if won {
				s.SetPointsWon++
			}
		}
		if p.MatchPoint {
			s.MatchPoints++
			if won {
				s.MatchPointsWon++
			}
		}
	}
	s.GameRate = rate(s.GamePointsWon, s.GamePoints)
	s.SetRate = rate(s.SetPointsWon, s.SetPoints)
	s.MatchRate = rate(s.MatchPointsWon, s.MatchPoints)
	return s
}

// opportunityFor reports whether side is the one holding the game, set or
// match point flagged on p.
//
// A no-ad deuce point counts for both sides.
func opportunityFor(p PointContext, side scoring.Side) bool {
	g := p.Before.Game
	mine, theirs := g.PointsA, g.PointsB
	if side == scoring.SideB {
		mine, theirs = theirs, mine
	}

	if p.Tiebreak {
		m, o := parsePoints(mine), parsePoints(theirs)
		target := g.TiebreakTarget
		if target <= 0 {
			target = 7
		}
		return m > o || (m == o && m >= target-1)
	}

	if mine == "40" && theirs != "40" {
		return true
	}
	if g.Advantage != scoring.NoSide {
		return g.Advantage == side
	}
	return g.Deuce
}

func streakStats(points []PointContext, games []gameGroup, side scoring.Side) StreakStats {
	var s StreakStats
	run, drought := 0, 0
	for _, p := range points {
		if p.Scorer == side {
			run++
			drought = 0
			s.LongestPointStreak = max(s.LongestPointStreak, run)
		} else {
			drought++
			run = 0
			s.LongestPointDrought = max(s.LongestPointDrought, drought)
		}
	}

	holds, wins := 0, 0
	for _, g := range games {
		if g.lastScorer == side {
			wins++
			s.LongestGameStreak = max(s.LongestGameStreak, wins)
			if g.server == side {
				holds++
				s.LongestHoldStreak = max(s.LongestHoldStreak, holds)
			}
			continue
		}
		wins = 0
		if g.server == side {
			holds = 0
		}
	}
	return s
}

func clutchStats(points []PointContext, side scoring.Side) ClutchStats {
	var bp, sp, mp, normal tally
	for _, p := range points {
		won := p.Scorer == side
		if p.BreakPoint && p.Server != side {
			bp.add(won)
		}
		if p.SetPoint && opportunityFor(p, side) {
			sp.add(won)
		}
		if p.MatchPoint && opportunityFor(p, side) {
			mp.add(won)
		}
		if !p.Critical() {
			normal.add(won)
		}
	}

	s := ClutchStats{
		BreakPointRate: bp.rate(),
		SetPointRate:   sp.rate(),
		MatchPointRate: mp.rate(),
		NormalRate:     normal.rate(),
	}
	s.Score = clutchBreakWeight*s.BreakPointRate + clutchSetWeight*s.SetPointRate + clutchMatchWeight*s.MatchPointRate
	return s
}

func tiebreakStats(points []PointContext, side scoring.Side) TiebreakStats {
	var sets []int
	last := make(map[int]PointContext)
	for _, p := range points {
		if !p.Tiebreak {
			continue
		}
		if _, seen := last[p.Set]; !seen {
			sets = append(sets, p.Set)
		}
		last[p.Set] = p
	}

	var s TiebreakStats
	margin := 0
	for _, set := range sets {
		p := last[set]
		a, b := parsePoints(p.Before.Game.PointsA), parsePoints(p.Before.Game.PointsB)
		winner, loser := a+1, b
		if p.Scorer == scoring.SideB {
			winner, loser = b+1, a
		}
		margin += abs(winner - loser)

		s.Played++
		if p.Scorer == side {
			s.Won++
		}
	}
	s.WinRate = rate(s.Won, s.Played)
	s.AverageMargin = rate(margin, s.Played)
	return s
}

func pointStats(points []PointContext, side scoring.Side) PointStats {
	s := PointStats{Total: len(points)}
	for _, p := range points {
		if p.Scorer == side {
			s.Won++
		}
	}
	s.WinRate = rate(s.Won, s.Total)
	return s
}

func shotStats(points []PointContext, side scoring.Side) ShotStats {
	var s ShotStats
	for _, p := range points {
		won := p.Scorer == side
		switch p.End {
		case scoring.EndAce:
			if won && p.Server == side {
				s.Aces++
			}
		case scoring.EndDoubleFault:
			if !won && p.Server == side {
				s.DoubleFaults++
			}
		case scoring.EndWinner:
			if won {
				s.Winners++
			}
		case scoring.EndUnforcedError:
			if !won {
				s.UnforcedErrors++
			}
		case scoring.EndForcedError:
			if won {
				s.ForcedErrorsDrawn++
			}
		}
	}
	return s
}

type gameKey struct {
	set  int
	game int
}

// gameGroup is a game (or tiebreak) as seen through its points.
type gameGroup struct {
	server     scoring.Side
	lastScorer scoring.Side
}

// groupGames groups points by (set, game) in order of first appearance. The
// server of a group is the server of its first point.
func groupGames(points []PointContext) []gameGroup {
	var groups []gameGroup
	index := make(map[gameKey]int)
	for _, p := range points {
		key := gameKey{p.Set, p.Game}
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, gameGroup{server: p.Server, lastScorer: p.Scorer})
			continue
		}
		groups[i].lastScorer = p.Scorer
	}
	return groups
}

type tally struct{ won, total int }

func (t *tally) add(won bool) {
	t.total++
	if won {
		t.won++
	}
}

func (t tally) rate() float64 { return rate(t.won, t.total) }

// rate returns n/d, or 0 when d is 0.
func rate(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// parsePoints reads a displayed point count, defaulting to 0.
func parsePoints(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
