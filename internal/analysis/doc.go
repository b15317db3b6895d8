// Package analysis derives point-by-point context and match statistics from
// a recorded point log.
//
// Replay drives a fresh scoring.MatchState through the log and annotates
// every point with the score before it, the server, and whether it was a
// break, game, set or match point. The annotated sequence feeds three
// independent consumers:
//
//   - Analyze: per-side summary statistics
//   - Momentum: cumulative point differential series
//   - Pace: point intervals and game/set durations
//
// Everything here is a pure function of (Config, []PointEvent). Replaying the
// same log twice yields identical contexts, which Digest makes checkable.
package analysis
