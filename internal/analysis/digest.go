package analysis

import (
	"fmt"

	"github.com/kldn/tennis-scorer/internal/canon"
	"github.com/kldn/tennis-scorer/internal/scoring"
)

// Digest returns a content hash of a context sequence. Two replays of the
// same log must produce the same digest.
func Digest(points []PointContext) (string, error) {
	list := make([]any, len(points))
	for i, p := range points {
		list[i] = contextValue(p)
	}
	data, err := canon.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal contexts: %w", err)
	}
	return canon.Hash(canon.DomainContexts, data), nil
}

func contextValue(p PointContext) map[string]any {
	return map[string]any{
		"number":      p.Number,
		"scorer":      p.Scorer.String(),
		"at":          p.At.UnixNano(),
		"server":      p.Server.String(),
		"before":      snapshotValue(p.Before),
		"break_point": p.BreakPoint,
		"game_point":  p.GamePoint,
		"set_point":   p.SetPoint,
		"match_point": p.MatchPoint,
		"tiebreak":    p.Tiebreak,
		"game":        p.Game,
		"set":         p.Set,
		"end":         string(p.End),
	}
}

func snapshotValue(s scoring.Snapshot) map[string]any {
	sets := make([]any, len(s.Sets))
	for i, set := range s.Sets {
		sets[i] = map[string]any{
			"games_a":    set.GamesA,
			"games_b":    set.GamesB,
			"tiebreak":   set.Tiebreak,
			"tiebreak_a": set.TiebreakA,
			"tiebreak_b": set.TiebreakB,
		}
	}
	return map[string]any{
		"sets": sets,
		"game": map[string]any{
			"points_a":        s.Game.PointsA,
			"points_b":        s.Game.PointsB,
			"deuce":           s.Game.Deuce,
			"advantage":       s.Game.Advantage.String(),
			"deuce_count":     s.Game.DeuceCount,
			"tiebreak":        s.Game.Tiebreak,
			"tiebreak_target": s.Game.TiebreakTarget,
		},
		"sets_a": s.SetsA,
		"sets_b": s.SetsB,
		"server": s.Server,
		"winner": s.Winner.String(),
	}
}
