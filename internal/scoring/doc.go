// Package scoring implements the tennis scoring state machines.
//
// The hierarchy is point → game → set → match. Each level is a sealed
// interface whose variants are plain values:
//
//   - GameState:     GamePoints, GameDeuce, GameAdvantage, GameCompleted
//   - TiebreakState: TiebreakPlaying, TiebreakCompleted
//   - SetState:      SetPlaying, SetCompleted
//   - MatchState:    MatchPlaying, MatchCompleted
//
// Every transition takes a state and returns a new one. Nothing is mutated
// in place, so any state can be kept as an undo snapshot or compared with
// another. Completed states absorb further points.
//
// The package performs no validation of Config. Callers are expected to
// reject structurally invalid configurations (see internal/config) before
// constructing a match.
//
// Doubles serving order is tracked by Rotation, which is shared between live
// scoring and the replay annotator in internal/analysis.
package scoring
