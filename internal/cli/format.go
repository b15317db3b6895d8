package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/kldn/tennis-scorer/internal/analysis"
	"github.com/kldn/tennis-scorer/internal/scoring"
	"github.com/kldn/tennis-scorer/internal/store"
)

// Text renderers. JSON output never goes through this file.

func writeMatchView(w io.Writer, v MatchView) error {
	m := v.Match
	fmt.Fprintf(w, "Match %s\n", m.ID)
	if m.Name != "" {
		fmt.Fprintf(w, "  Name: %s\n", m.Name)
	}
	fmt.Fprintf(w, "  Players: %s vs %s\n", playerName(m.PlayerA, "A"), playerName(m.PlayerB, "B"))
	fmt.Fprintf(w, "  Rules: %s\n", describeRules(m.Config))
	fmt.Fprintf(w, "  Points: %d\n", v.Points)
	_, err := fmt.Fprintf(w, "  Score: %s\n", formatScore(v.Score))
	return err
}

func writeMatchList(w io.Writer, matches []store.Match) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, "No matches found.")
		return err
	}
	for _, m := range matches {
		status := "live"
		if m.Completed() {
			status = fmt.Sprintf("won by %s %d-%d", m.Winner, m.SetsA, m.SetsB)
		}
		fmt.Fprintf(w, "%s  %s  %s vs %s  %s\n",
			m.ID, m.CreatedAt.Format("2006-01-02 15:04"),
			playerName(m.PlayerA, "A"), playerName(m.PlayerB, "B"), status)
	}
	return nil
}

func playerName(name, side string) string {
	if name == "" {
		return side
	}
	return name
}

func describeRules(cfg scoring.Config) string {
	parts := []string{
		fmt.Sprintf("best of %d", 2*cfg.SetsToWin-1),
		string(cfg.Mode),
		fmt.Sprintf("%d-point tiebreak", cfg.TiebreakPoints),
	}
	if cfg.NoAd {
		parts = append(parts, "no-ad")
	}
	if !cfg.FinalSetTiebreak {
		parts = append(parts, "advantage final set")
	}
	return strings.Join(parts, ", ")
}

// formatScore renders a snapshot as "6-4 3-2 (30-15)".
func formatScore(s scoring.Snapshot) string {
	sets := make([]string, 0, len(s.Sets))
	for _, set := range s.Sets {
		sets = append(sets, fmt.Sprintf("%d-%d", set.GamesA, set.GamesB))
	}
	score := strings.Join(sets, " ")
	if score == "" {
		score = "0-0"
	}

	if s.Winner != scoring.NoSide {
		return fmt.Sprintf("%s, won by %s", score, s.Winner)
	}

	g := s.Game
	switch {
	case g.Tiebreak:
		return fmt.Sprintf("%s (tiebreak %s-%s)", score, g.PointsA, g.PointsB)
	case g.Advantage != scoring.NoSide:
		return fmt.Sprintf("%s (advantage %s)", score, g.Advantage)
	case g.Deuce:
		return fmt.Sprintf("%s (deuce)", score)
	default:
		return fmt.Sprintf("%s (%s-%s)", score, g.PointsA, g.PointsB)
	}
}

func writeStats(w io.Writer, id string, stats analysis.MatchStats) error {
	fmt.Fprintf(w, "Statistics for %s\n", id)
	fmt.Fprintf(w, "%-28s %10s %10s\n", "", "A", "B")
	a, b := stats.A, stats.B
	rows := []struct {
		label string
		a, b  string
	}{
		{"Points won", count(a.Points.Won, a.Points.Total), count(b.Points.Won, b.Points.Total)},
		{"Service points won", count(a.Service.ServicePointsWon, a.Service.ServicePointsTotal), count(b.Service.ServicePointsWon, b.Service.ServicePointsTotal)},
		{"Service games held", count(a.Service.ServiceGamesHeld, a.Service.ServiceGamesPlayed), count(b.Service.ServiceGamesHeld, b.Service.ServiceGamesPlayed)},
		{"Break points converted", count(a.BreakPoints.Converted, a.BreakPoints.Created), count(b.BreakPoints.Converted, b.BreakPoints.Created)},
		{"Break points saved", count(a.BreakPoints.Saved, a.BreakPoints.Faced), count(b.BreakPoints.Saved, b.BreakPoints.Faced)},
		{"Deuce games won", count(a.Deuce.Won, a.Deuce.Games), count(b.Deuce.Won, b.Deuce.Games)},
		{"Tiebreaks won", count(a.Tiebreaks.Won, a.Tiebreaks.Played), count(b.Tiebreaks.Won, b.Tiebreaks.Played)},
		{"Longest point streak", fmt.Sprint(a.Streaks.LongestPointStreak), fmt.Sprint(b.Streaks.LongestPointStreak)},
		{"Aces", fmt.Sprint(a.Shots.Aces), fmt.Sprint(b.Shots.Aces)},
		{"Double faults", fmt.Sprint(a.Shots.DoubleFaults), fmt.Sprint(b.Shots.DoubleFaults)},
		{"Clutch score", percent(a.Clutch.Score), percent(b.Clutch.Score)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-28s %10s %10s\n", r.label, r.a, r.b); err != nil {
			return err
		}
	}
	return nil
}

func count(n, of int) string {
	return fmt.Sprintf("%d/%d", n, of)
}

func percent(r float64) string {
	return fmt.Sprintf("%.0f%%", r*100)
}

func writeMomentum(w io.Writer, id string, m analysis.MomentumSeries) error {
	fmt.Fprintf(w, "Momentum for %s (positive favours A)\n", id)
	if len(m.Basic) == 0 {
		_, err := fmt.Fprintln(w, "  No points played.")
		return err
	}
	for i, set := range m.PerSet {
		weighted := m.PerSetWeighted[i]
		fmt.Fprintf(w, "  Set %d: %+g (weighted %+.1f)\n", i+1, set[len(set)-1], weighted[len(weighted)-1])
	}
	_, err := fmt.Fprintf(w, "  Match: %+g (weighted %+.1f)\n", m.Basic[len(m.Basic)-1], m.Weighted[len(m.Weighted)-1])
	return err
}

func writePace(w io.Writer, id string, p analysis.PaceStats) error {
	fmt.Fprintf(w, "Pace for %s\n", id)
	fmt.Fprintf(w, "  Total: %s\n", seconds(p.Total))
	fmt.Fprintf(w, "  Average between points: %s\n", seconds(p.AverageInterval))
	for _, s := range p.Sets {
		if _, err := fmt.Fprintf(w, "  Set %d: %s\n", s.Set, seconds(s.Seconds)); err != nil {
			return err
		}
	}
	return nil
}

func seconds(s float64) string {
	return fmt.Sprintf("%.0fs", s)
}

func writeSummary(w io.Writer, s store.PlayerSummary) error {
	fmt.Fprintf(w, "Player %s\n", s.Player)
	fmt.Fprintf(w, "  Matches: %d (%d won, %d lost, %s)\n", s.TotalMatches, s.Wins, s.Losses, percent(s.WinRate))
	fmt.Fprintf(w, "  Streak: %s %d\n", s.CurrentStreak.Kind, s.CurrentStreak.Count)
	form := strings.Join(s.RecentForm, " ")
	if form == "" {
		form = "-"
	}
	_, err := fmt.Fprintf(w, "  Form: %s\n", form)
	return err
}
