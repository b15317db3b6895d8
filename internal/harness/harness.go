package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kldn/tennis-scorer/internal/analysis"
	"github.com/kldn/tennis-scorer/internal/metrics"
	"github.com/kldn/tennis-scorer/internal/scoring"
	"github.com/kldn/tennis-scorer/internal/session"
	"github.com/kldn/tennis-scorer/internal/testutil"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	Events   []scoring.PointEvent    `json:"events"`
	Contexts []analysis.PointContext `json:"contexts"`
	Final    scoring.Snapshot        `json:"final"`
	Stats    analysis.MatchStats     `json:"stats"`
	Momentum analysis.MomentumSeries `json:"momentum"`
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Timeline renders the replayed points in golden file form.
func (r *Result) Timeline() string {
	return analysis.RenderTimeline(r.Contexts)
}

// RunOption customizes a scenario run.
type RunOption func(*runConfig)

type runConfig struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// WithLogger sends session logs to l. Runs are silent by default.
func WithLogger(l *slog.Logger) RunOption {
	return func(c *runConfig) { c.logger = l }
}

// WithMetrics records scored points in m.
func WithMetrics(m *metrics.Metrics) RunOption {
	return func(c *runConfig) { c.metrics = m }
}

// Run plays a scenario through a fresh session and evaluates its
// assertions.
//
// Every run uses its own deterministic wall clock, so the same scenario
// always yields the same timestamps. An error is returned only when the
// scenario cannot be played, e.g. a point is scored after the match was
// decided. Failed assertions are reported in the Result.
func Run(scenario *Scenario, opts ...RunOption) (*Result, error) {
	rc := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&rc)
	}

	cfg, err := scenario.MatchConfig()
	if err != nil {
		return nil, err
	}
	rallies, err := scenario.Rallies()
	if err != nil {
		return nil, err
	}

	clock := testutil.NewDeterministicTime(scenario.startTime(), scenario.interval())
	sess := session.New(scenario.Name, cfg,
		session.WithTimeSource(clock),
		session.WithLogger(rc.logger),
		session.WithMetrics(rc.metrics),
	)

	ctx := context.Background()
	for i, side := range rallies {
		if _, err := sess.Score(ctx, side, scenario.Ends[i+1]); err != nil {
			return nil, fmt.Errorf("point %d: %w", i+1, err)
		}
	}

	events := sess.Events()
	contexts := analysis.Replay(cfg, events)
	result := &Result{
		Pass:     true,
		Errors:   []string{},
		Events:   events,
		Contexts: contexts,
		Final:    sess.Snapshot(),
		Stats:    analysis.Analyze(contexts),
		Momentum: analysis.Momentum(contexts),
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	rc.logger.Debug("scenario finished", "scenario", scenario.Name, "points", len(events), "pass", result.Pass)
	return result, nil
}
