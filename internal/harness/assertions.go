package harness

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kldn/tennis-scorer/internal/analysis"
	"github.com/kldn/tennis-scorer/internal/scoring"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// statistics maps stat assertion names to the figure they read.
var statistics = map[string]func(analysis.PlayerStats) float64{
	"points_won":             func(s analysis.PlayerStats) float64 { return float64(s.Points.Won) },
	"break_points_faced":     func(s analysis.PlayerStats) float64 { return float64(s.BreakPoints.Faced) },
	"break_points_saved":     func(s analysis.PlayerStats) float64 { return float64(s.BreakPoints.Saved) },
	"break_points_converted": func(s analysis.PlayerStats) float64 { return float64(s.BreakPoints.Converted) },
	"service_games_held":     func(s analysis.PlayerStats) float64 { return float64(s.Service.ServiceGamesHeld) },
	"hold_rate":              func(s analysis.PlayerStats) float64 { return s.Service.HoldRate },
	"deuce_games":            func(s analysis.PlayerStats) float64 { return float64(s.Deuce.Games) },
	"tiebreaks_won":          func(s analysis.PlayerStats) float64 { return float64(s.Tiebreaks.Won) },
	"longest_point_streak":   func(s analysis.PlayerStats) float64 { return float64(s.Streaks.LongestPointStreak) },
	"aces":                   func(s analysis.PlayerStats) float64 { return float64(s.Shots.Aces) },
	"double_faults":          func(s analysis.PlayerStats) float64 { return float64(s.Shots.DoubleFaults) },
	"winners":                func(s analysis.PlayerStats) float64 { return float64(s.Shots.Winners) },
}

// StatNames lists the statistics a stat assertion can name.
func StatNames() []string {
	names := make([]string, 0, len(statistics))
	for name := range statistics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EvaluateAssertions checks every assertion against result and returns one
// message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertWinner:
		return assertWinner(result, a)
	case AssertSets:
		return assertSets(result, a)
	case AssertSnapshot:
		return assertSnapshot(result, a)
	case AssertPointFlags:
		return assertPointFlags(result, a)
	case AssertServer:
		return assertServer(result, a)
	case AssertStat:
		return assertStat(result, a)
	case AssertMomentum:
		return assertMomentum(result, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertWinner(result *Result, a Assertion) error {
	want, err := parseWinner(a.Side)
	if err != nil {
		return err
	}
	if got := result.Final.Winner; got != want {
		return &AssertionError{Type: AssertWinner, Expected: sideName(want), Actual: sideName(got)}
	}
	return nil
}

func assertSets(result *Result, a Assertion) error {
	if result.Final.SetsA != *a.A || result.Final.SetsB != *a.B {
		return &AssertionError{
			Type:     AssertSets,
			Expected: fmt.Sprintf("%d-%d", *a.A, *a.B),
			Actual:   fmt.Sprintf("%d-%d", result.Final.SetsA, result.Final.SetsB),
		}
	}
	return nil
}

func assertSnapshot(result *Result, a Assertion) error {
	final := result.Final
	var gamesA, gamesB int
	if n := len(final.Sets); n > 0 {
		gamesA, gamesB = final.Sets[n-1].GamesA, final.Sets[n-1].GamesB
	}

	var mismatches []string
	check := func(field, want, got string) {
		if want != got {
			mismatches = append(mismatches, fmt.Sprintf("%s=%s (want %s)", field, got, want))
		}
	}
	if a.PointsA != "" {
		check("points_a", a.PointsA, final.Game.PointsA)
	}
	if a.PointsB != "" {
		check("points_b", a.PointsB, final.Game.PointsB)
	}
	if a.GamesA != nil {
		check("games_a", fmt.Sprint(*a.GamesA), fmt.Sprint(gamesA))
	}
	if a.GamesB != nil {
		check("games_b", fmt.Sprint(*a.GamesB), fmt.Sprint(gamesB))
	}

	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     AssertSnapshot,
			Expected: "final score to match",
			Actual:   strings.Join(mismatches, ", "),
		}
	}
	return nil
}

func assertPointFlags(result *Result, a Assertion) error {
	p, err := pointAt(result, a.Point)
	if err != nil {
		return err
	}

	var mismatches []string
	check := func(name string, want *bool, got bool) {
		if want != nil && *want != got {
			mismatches = append(mismatches, fmt.Sprintf("%s=%t", name, got))
		}
	}
	check("break_point", a.BreakPoint, p.BreakPoint)
	check("game_point", a.GamePoint, p.GamePoint)
	check("set_point", a.SetPoint, p.SetPoint)
	check("match_point", a.MatchPoint, p.MatchPoint)
	check("tiebreak", a.Tiebreak, p.Tiebreak)

	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     AssertPointFlags,
			Expected: fmt.Sprintf("point %d flags to match", a.Point),
			Actual:   strings.Join(mismatches, ", "),
		}
	}
	return nil
}

func assertServer(result *Result, a Assertion) error {
	p, err := pointAt(result, a.Point)
	if err != nil {
		return err
	}
	want, err := scoring.ParseSide(a.Side)
	if err != nil {
		return err
	}
	if p.Server != want {
		return &AssertionError{
			Type:     AssertServer,
			Expected: fmt.Sprintf("point %d served by %s", a.Point, sideName(want)),
			Actual:   fmt.Sprintf("served by %s", sideName(p.Server)),
		}
	}
	return nil
}

func assertStat(result *Result, a Assertion) error {
	read, ok := statistics[a.Name]
	if !ok {
		return fmt.Errorf("unknown statistic %q", a.Name)
	}
	side, err := scoring.ParseSide(a.Side)
	if err != nil {
		return err
	}

	stats := result.Stats.A
	if side == scoring.SideB {
		stats = result.Stats.B
	}
	if got := read(stats); !approxEqual(got, *a.Value) {
		return &AssertionError{
			Type:     AssertStat,
			Expected: fmt.Sprintf("%s %s = %g", sideName(side), a.Name, *a.Value),
			Actual:   fmt.Sprintf("%g", got),
		}
	}
	return nil
}

func assertMomentum(result *Result, a Assertion) error {
	var got float64
	if n := len(result.Momentum.Basic); n > 0 {
		got = result.Momentum.Basic[n-1]
	}
	if !approxEqual(got, *a.Final) {
		return &AssertionError{
			Type:     AssertMomentum,
			Expected: fmt.Sprintf("final momentum %g", *a.Final),
			Actual:   fmt.Sprintf("%g", got),
		}
	}
	return nil
}

func pointAt(result *Result, n int) (analysis.PointContext, error) {
	if n < 1 || n > len(result.Contexts) {
		return analysis.PointContext{}, fmt.Errorf("point %d out of range 1..%d", n, len(result.Contexts))
	}
	return result.Contexts[n-1], nil
}

func sideName(s scoring.Side) string {
	if !s.Valid() {
		return "none"
	}
	return s.String()
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
