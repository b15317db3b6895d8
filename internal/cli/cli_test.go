package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kldn/tennis-scorer/internal/scoring"
	"github.com/kldn/tennis-scorer/internal/session"
	"github.com/kldn/tennis-scorer/internal/testutil"
)

// testCLI runs commands against a fresh database with fixed match ids and
// a clock that advances 10 seconds per reading.
type testCLI struct {
	t    *testing.T
	dir  string
	db   string
	opts *RootOptions
}

func newTestCLI(t *testing.T, ids ...string) *testCLI {
	t.Helper()
	for _, key := range []string{"TENNIS_DB", "TENNIS_METRICS_FILE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("TENNIS_LOG_LEVEL", "info")
	t.Setenv("TENNIS_WORKERS", "2")

	dir := t.TempDir()
	return &testCLI{
		t:   t,
		dir: dir,
		db:  filepath.Join(dir, "tennis.db"),
		opts: &RootOptions{
			IDs: session.NewFixedGenerator(ids...),
			Now: testutil.NewDeterministicTime(testutil.Epoch, 10*time.Second),
		},
	}
}

func (c *testCLI) run(args ...string) (string, string, int) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	code := execute(c.opts, append(args, "--db", c.db), &out, &errOut)
	return out.String(), errOut.String(), code
}

// mustRun fails the test unless the command exits 0.
func (c *testCLI) mustRun(args ...string) string {
	c.t.Helper()
	out, errOut, code := c.run(args...)
	require.Equal(c.t, ExitSuccess, code, "args=%v stderr=%s", args, errOut)
	return out
}

func (c *testCLI) writeFile(name, content string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(c.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// points scores every side in seq, ignoring spaces.
func (c *testCLI) points(id, seq string) {
	c.t.Helper()
	for _, r := range strings.ReplaceAll(seq, " ", "") {
		c.mustRun("point", id, string(r))
	}
}

// decodeData unmarshals the data of a JSON envelope into v.
func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func TestRootCommand_Commands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{
		"new", "point", "undo", "show", "list", "delete", "replay",
		"stats", "momentum", "pace", "analyze", "summary", "validate", "test",
	} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"verbose", "format", "db", "metrics-file"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestExecute_CommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"invalid format", []string{"list", "--format", "xml"}, "invalid format"},
		{"unknown command", []string{"serve"}, "unknown command"},
		{"unknown flag", []string{"list", "--bogus"}, "invalid flags"},
		{"missing args", []string{"point", "m1"}, "accepts 2 arg(s)"},
		{"unknown preset", []string{"new", "--preset", "best-of-7"}, "unknown preset"},
		{"config and preset", []string{"new", "--preset", "no-ad", "--config", "x.yaml"}, "none of the others"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t, "m1")
			_, errOut, code := c.run(tt.args...)
			assert.Equal(t, ExitCommandError, code)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestMatchLifecycle(t *testing.T) {
	c := newTestCLI(t, "m1")

	out := c.mustRun("new", "--player-a", "Federer", "--player-b", "Nadal", "--name", "Final")
	assert.Equal(t, "m1\n", out)

	out = c.mustRun("point", "m1", "A")
	assert.Contains(t, out, "Score: 0-0 (15-0)")

	out = c.mustRun("point", "m1", "b", "--end", "ace")
	assert.Contains(t, out, "Score: 0-0 (15-15)")

	out = c.mustRun("undo", "m1")
	assert.Contains(t, out, "Score: 0-0 (15-0)")
	assert.Contains(t, out, "Points: 1")

	out = c.mustRun("show", "m1")
	assert.Contains(t, out, "Match m1")
	assert.Contains(t, out, "Name: Final")
	assert.Contains(t, out, "Players: Federer vs Nadal")
	assert.Contains(t, out, "Rules: best of 3, singles, 7-point tiebreak")

	var view MatchView
	decodeData(t, c.mustRun("show", "m1", "--format", "json"), &view)
	assert.Equal(t, "m1", view.Match.ID)
	assert.Equal(t, 1, view.Points)
	assert.Equal(t, "15", view.Score.Game.PointsA)
	assert.Equal(t, "0", view.Score.Game.PointsB)
	assert.Equal(t, testutil.Epoch, view.Match.StartedAt.UTC())
	assert.Equal(t, scoring.MatchScore{PointsA: 15, State: scoring.CodePlaying}, view.Summary)
}

func TestPoint_Errors(t *testing.T) {
	c := newTestCLI(t, "m1")
	c.mustRun("new")

	_, errOut, code := c.run("point", "nope", "A")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "match not found: nope")

	_, errOut, code = c.run("point", "m1", "C")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, `invalid side "C"`)

	_, errOut, code = c.run("point", "m1", "A", "--end", "smash")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "invalid --end")

	_, errOut, code = c.run("undo", "m1")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "cannot undo")
}

func TestCompletedMatch(t *testing.T) {
	c := newTestCLI(t, "m1")
	rules := c.writeFile("one-set.yaml", "sets_to_win: 1\n")

	c.mustRun("new", "--config", rules, "--player-a", "Federer", "--player-b", "Nadal")
	c.points("m1", testutil.LoveGames(scoring.SideA, 6))

	_, errOut, code := c.run("point", "m1", "B")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "cannot score point")

	assert.Contains(t, c.mustRun("show", "m1"), "Score: 6-0, won by A")
	assert.Contains(t, c.mustRun("list"), "won by A 1-0")

	var summary struct {
		TotalMatches int      `json:"total_matches"`
		Wins         int      `json:"wins"`
		RecentForm   []string `json:"recent_form"`
	}
	decodeData(t, c.mustRun("summary", "--player", "Federer", "--format", "json"), &summary)
	assert.Equal(t, 1, summary.TotalMatches)
	assert.Equal(t, 1, summary.Wins)
	assert.Equal(t, []string{"W"}, summary.RecentForm)

	// Undoing the winning point reopens the match.
	out := c.mustRun("undo", "m1")
	assert.Contains(t, out, "Score: 5-0 (40-0)")
	assert.NotContains(t, c.mustRun("list"), "won by")
}

func TestListAndDelete(t *testing.T) {
	c := newTestCLI(t, "m1", "m2")
	c.mustRun("new", "--player-a", "Federer", "--player-b", "Nadal")
	c.mustRun("new", "--player-a", "Murray", "--player-b", "Djokovic")

	var all []struct {
		ID string `json:"id"`
	}
	decodeData(t, c.mustRun("list", "--format", "json"), &all)
	assert.Len(t, all, 2)

	var filtered []struct {
		ID string `json:"id"`
	}
	decodeData(t, c.mustRun("list", "--player", "Nadal", "--format", "json"), &filtered)
	require.Len(t, filtered, 1)
	assert.Equal(t, "m1", filtered[0].ID)

	_, _, code := c.run("list", "--limit", "0")
	assert.Equal(t, ExitCommandError, code)

	assert.Contains(t, c.mustRun("delete", "m1"), "Deleted match m1")

	_, errOut, code := c.run("show", "m1")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "match not found: m1")

	_, _, code = c.run("delete", "m1")
	assert.Equal(t, ExitCommandError, code)

	assert.Contains(t, c.mustRun("list", "--player", "Federer"), "No matches found.")
}

func TestAnalysisCommands(t *testing.T) {
	c := newTestCLI(t, "m1")
	c.mustRun("new")
	c.points("m1", "AAB")

	var stats StatsResult
	decodeData(t, c.mustRun("stats", "m1", "--format", "json"), &stats)
	assert.Equal(t, 2, stats.Stats.A.Points.Won)
	assert.Equal(t, 3, stats.Stats.A.Points.Total)
	assert.Equal(t, 1, stats.Stats.B.Points.Won)

	var momentum MomentumResult
	decodeData(t, c.mustRun("momentum", "m1", "--format", "json"), &momentum)
	assert.Equal(t, []float64{1, 2, 1}, momentum.Momentum.Basic)

	var pace PaceResult
	decodeData(t, c.mustRun("pace", "m1", "--format", "json"), &pace)
	assert.Equal(t, []float64{10, 10}, pace.Pace.Intervals)
	assert.InDelta(t, 10.0, pace.Pace.AverageInterval, 1e-9)
	assert.InDelta(t, 20.0, pace.Pace.Total, 1e-9)

	assert.Contains(t, c.mustRun("stats", "m1"), "Statistics for m1")
	assert.Contains(t, c.mustRun("momentum", "m1"), "Match: +1")
	assert.Contains(t, c.mustRun("pace", "m1"), "Average between points: 10s")

	_, errOut, code := c.run("stats", "nope")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "match not found: nope")
}

func TestAnalyze(t *testing.T) {
	c := newTestCLI(t, "m1", "m2")
	c.mustRun("new")
	c.mustRun("new")
	c.points("m1", "AAAA")
	c.points("m2", "BB")

	var reports []struct {
		ID       string `json:"id"`
		Contexts []any  `json:"contexts"`
		Digest   string `json:"digest"`
	}
	decodeData(t, c.mustRun("analyze", "--all", "--workers", "3", "--format", "json"), &reports)
	require.Len(t, reports, 2)

	byID := map[string]int{}
	for _, r := range reports {
		byID[r.ID] = len(r.Contexts)
		assert.Len(t, r.Digest, 64)
	}
	assert.Equal(t, map[string]int{"m1": 4, "m2": 2}, byID)

	out := c.mustRun("analyze", "m2")
	assert.Contains(t, out, "m2  points=2  won=0-2  digest=")

	_, errOut, code := c.run("analyze")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "give match ids or --all")

	_, _, code = c.run("analyze", "m1", "--all")
	assert.Equal(t, ExitCommandError, code)
}

func TestReplay(t *testing.T) {
	c := newTestCLI(t, "m1", "m2")

	assert.Contains(t, c.mustRun("replay"), "No matches found in database.")

	c.mustRun("new")
	c.mustRun("new")
	c.points("m1", "ABAB")

	out := c.mustRun("replay", "--verbose")
	assert.Contains(t, out, "Replay Summary: 2 match(es)")
	assert.Contains(t, out, "✓ Match: m1")
	assert.Contains(t, out, "Log digest: ")
	assert.Contains(t, out, "✓ All matches verified deterministic")

	var result ReplayResult
	decodeData(t, c.mustRun("replay", "--match", "m1", "--format", "json"), &result)
	require.Len(t, result.Matches, 1)
	assert.True(t, result.AllDeterministic)
	assert.Equal(t, 4, result.Matches[0].Points)
	assert.Len(t, result.Matches[0].Digest, 64)
	assert.NotEmpty(t, result.Matches[0].LogDigest)

	_, _, code := c.run("replay", "--match", "nope")
	assert.Equal(t, ExitCommandError, code)
}

func TestSummary_RequiresPlayer(t *testing.T) {
	c := newTestCLI(t)
	_, errOut, code := c.run("summary")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, `"player" not set`)
}

func TestValidate(t *testing.T) {
	c := newTestCLI(t)

	valid := c.writeFile("rules.yaml", "preset: best-of-5\nno_ad: true\n")
	out := c.mustRun("validate", valid)
	assert.Contains(t, out, "is valid: best of 5, singles, 7-point tiebreak, no-ad")

	cue := c.writeFile("rules.cue", "sets_to_win: 1\n")
	var result ValidationResult
	decodeData(t, c.mustRun("validate", cue, "--format", "json"), &result)
	assert.True(t, result.Valid)
	require.NotNil(t, result.Config)
	assert.Equal(t, 1, result.Config.SetsToWin)

	invalid := c.writeFile("bad.yaml", "sets_to_win: 0\n")
	out, _, code := c.run("validate", invalid)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "Error [E007]")
	assert.Contains(t, out, "  sets_to_win: ")

	out, _, code = c.run("validate", filepath.Join(c.dir, "missing.yaml"), "--format", "json")
	assert.Equal(t, ExitCommandError, code)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E005", resp.Error.Code)
}

const passingScenario = `name: hold
points: "AAAA"
assertions:
  - type: snapshot
    games_a: 1
    games_b: 0
`

const failingScenario = `name: wrong_winner
points: "AAAA"
assertions:
  - type: winner
    side: A
`

func TestTestCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := filepath.Join(c.dir, "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hold.yaml"), []byte(passingScenario), 0o644))

	out := c.mustRun("test", dir)
	assert.Contains(t, out, "✓ hold")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")

	c.mustRun("test", dir, "--update")
	golden, err := os.ReadFile(filepath.Join(dir, "golden", "hold.golden"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(golden), "001 A srv=A set=1 game=1 sets=0-0 pts=0-0 flags=-\n"))

	// A stale golden file fails the scenario.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "hold.golden"), []byte("stale\n"), 0o644))
	out, _, code := c.run("test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "timeline does not match golden file")

	c.mustRun("test", dir, "--update")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(failingScenario), 0o644))
	out, _, code = c.run("test", dir, "--format", "json")
	assert.Equal(t, ExitFailure, code)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)

	out = c.mustRun("test", dir, "--filter", "hold")
	assert.Contains(t, out, "1 total")

	_, _, code = c.run("test", filepath.Join(c.dir, "nowhere"))
	assert.Equal(t, ExitCommandError, code)
}

func TestMetricsFile(t *testing.T) {
	c := newTestCLI(t, "m1")
	c.mustRun("new")
	path := filepath.Join(c.dir, "tennis.prom")

	c.mustRun("point", "m1", "A", "--metrics-file", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tennis_points_scored_total{side="A"} 1`)
}

func TestSettingsFromEnvironment(t *testing.T) {
	c := newTestCLI(t, "m1")
	db := filepath.Join(c.dir, "from-env.db")
	t.Setenv("TENNIS_DB", db)

	var out, errOut bytes.Buffer
	code := execute(c.opts, []string{"new"}, &out, &errOut)
	require.Equal(t, ExitSuccess, code, errOut.String())
	assert.FileExists(t, db)

	t.Setenv("TENNIS_WORKERS", "0")
	code = execute(c.opts, []string{"list"}, &out, &errOut)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut.String(), "TENNIS_WORKERS")
}
