// Package harness runs scripted matches as conformance tests.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: deuce_game
//	description: "Serve held after two advantages"
//	preset: default          # optional, base rules
//	config:                  # optional, overrides on top of the preset
//	  no_ad: false
//	points: "AAABBB ABBAAA"  # A/B per point, whitespace ignored
//	start: 2024-01-01T00:00:00Z
//	interval_seconds: 30
//	ends: { 1: ace }
//	assertions:
//	  - type: winner
//	    side: none
//	  - type: point_flags
//	    point: 10
//	    break_point: true
//
// # Assertion Types
//
//   - winner: the match winner, A, B or none
//   - sets: the final set tally (a, b)
//   - snapshot: the final game score and the games of the last set
//   - point_flags: the flags of one point; only the flags given are checked
//   - server: the side serving one point
//   - stat: a named statistic of one side
//   - momentum: the final value of the basic momentum series
//
// # Deterministic Testing
//
// Points are scored through a session whose wall clock advances by
// interval_seconds per point, so a scenario always produces the same
// timeline. RunWithGolden compares that timeline with
// testdata/golden/<name>.golden.
package harness
