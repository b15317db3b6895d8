package store

import (
	"context"
	"fmt"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// recentFormSize is how many results RecentForm keeps.
const recentFormSize = 10

// Streak kinds.
const (
	StreakWin  = "win"
	StreakLoss = "loss"
	StreakNone = "none"
)

// PlayerSummary is a player's record over completed matches.
type PlayerSummary struct {
	Player        string  `json:"player"`
	TotalMatches  int     `json:"total_matches"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
	CurrentStreak Streak  `json:"current_streak"`

	// RecentForm lists the last results, most recent first, as "W" or "L".
	RecentForm []string `json:"recent_form"`
}

// Streak is a run of identical results ending with the most recent match.
type Streak struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Summary computes the record of player. The player is side A of a match
// when player_a matches the name, otherwise side B. Live matches are
// ignored.
func (s *Store) Summary(ctx context.Context, player string) (PlayerSummary, error) {
	name := normalizeName(player)
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_a, winner
		FROM matches
		WHERE winner != '' AND (player_a = ? OR player_b = ?)
		ORDER BY ended_at DESC, id COLLATE BINARY DESC
	`, name, name)
	if err != nil {
		return PlayerSummary{}, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	sum := PlayerSummary{Player: name, RecentForm: []string{}}
	for rows.Next() {
		var playerA, winner string
		if err := rows.Scan(&playerA, &winner); err != nil {
			return PlayerSummary{}, fmt.Errorf("scan summary: %w", err)
		}

		side := scoring.SideB
		if playerA == name {
			side = scoring.SideA
		}
		won := winner == side.String()

		sum.TotalMatches++
		result := "L"
		if won {
			sum.Wins++
			result = "W"
		} else {
			sum.Losses++
		}
		if len(sum.RecentForm) < recentFormSize {
			sum.RecentForm = append(sum.RecentForm, result)
		}
	}
	if err := rows.Err(); err != nil {
		return PlayerSummary{}, fmt.Errorf("iterate summary: %w", err)
	}

	if sum.TotalMatches > 0 {
		sum.WinRate = float64(sum.Wins) / float64(sum.TotalMatches)
	}
	sum.CurrentStreak = streakOf(sum.RecentForm)
	return sum, nil
}

// streakOf counts the leading run of form.
func streakOf(form []string) Streak {
	if len(form) == 0 {
		return Streak{Kind: StreakNone}
	}
	kind := StreakLoss
	if form[0] == "W" {
		kind = StreakWin
	}
	n := 0
	for _, r := range form {
		if r != form[0] {
			break
		}
		n++
	}
	return Streak{Kind: kind, Count: n}
}
