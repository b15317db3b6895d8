// Package metrics exposes Prometheus collectors for scoring and analysis.
//
// A nil *Metrics is valid and records nothing, so library code can take one
// unconditionally.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

const namespace = "tennis"

// Metrics holds the collectors registered by New.
type Metrics struct {
	PointsScored     *prometheus.CounterVec
	Undos            prometheus.Counter
	MatchesCompleted prometheus.Counter
	ReplayPoints     prometheus.Counter
	AnalysisDuration prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PointsScored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_scored_total",
			Help:      "Points scored in live sessions by side",
		}, []string{"side"}),
		Undos: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "undo_total",
			Help:      "Points undone in live sessions",
		}),
		MatchesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_completed_total",
			Help:      "Matches that reached a winner in a live session",
		}),
		ReplayPoints: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replay_points_total",
			Help:      "Points annotated by replay",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time to build a full match report",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

// PointScored counts a point for side.
func (m *Metrics) PointScored(side scoring.Side) {
	if m == nil {
		return
	}
	m.PointsScored.WithLabelValues(side.String()).Inc()
}

// Undo counts one undone point.
func (m *Metrics) Undo() {
	if m == nil {
		return
	}
	m.Undos.Inc()
}

// MatchCompleted counts a finished match.
func (m *Metrics) MatchCompleted() {
	if m == nil {
		return
	}
	m.MatchesCompleted.Inc()
}

// Replayed counts n replayed points.
func (m *Metrics) Replayed(n int) {
	if m == nil {
		return
	}
	m.ReplayPoints.Add(float64(n))
}

// ObserveAnalysis records how long one report took since start.
func (m *Metrics) ObserveAnalysis(start time.Time) {
	if m == nil {
		return
	}
	m.AnalysisDuration.Observe(time.Since(start).Seconds())
}

// WriteTextfile writes everything gathered by g to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
