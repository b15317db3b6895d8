// Package history keeps an undoable point-by-point record of a match.
//
// A Log pairs every scored point with the match state it replaced, so undo
// is a pop of both. Logs are values: Score and Undo return a new Log and
// never modify the receiver or anything it shares with earlier Logs.
package history

import (
	"slices"
	"time"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// Log is a match state plus the snapshots and point events that led to it.
// len(past) == len(events) always holds.
type Log struct {
	current scoring.MatchState
	past    []scoring.MatchState
	events  []scoring.PointEvent
}

// New returns an empty log starting from m.
func New(m scoring.MatchState) Log {
	return Log{current: m}
}

// Rebuild replays events on a fresh match and returns the resulting log.
// Events that arrive after the match is decided are dropped.
func Rebuild(cfg scoring.Config, events []scoring.PointEvent) Log {
	l := New(scoring.NewMatch(cfg))
	for _, ev := range events {
		l = l.ScoreEvent(ev)
	}
	return l
}

// Score records a point won by scorer at the given time.
func (l Log) Score(scorer scoring.Side, at time.Time) Log {
	return l.ScoreEvent(scoring.PointEvent{Scorer: scorer, At: at})
}

// ScoreEvent records ev. Once the match is over, or if ev has no valid
// scorer, the log is returned unchanged.
func (l Log) ScoreEvent(ev scoring.PointEvent) Log {
	if l.current == nil || l.current.Outcome() != scoring.NoSide || !ev.Scorer.Valid() {
		return l
	}

	next := Log{
		current: l.current.Score(ev.Scorer),
		past:    make([]scoring.MatchState, len(l.past), len(l.past)+1),
		events:  make([]scoring.PointEvent, len(l.events), len(l.events)+1),
	}
	copy(next.past, l.past)
	copy(next.events, l.events)
	next.past = append(next.past, l.current)
	next.events = append(next.events, ev)
	return next
}

// Undo removes the most recent point. An empty log is returned unchanged.
func (l Log) Undo() Log {
	n := len(l.past)
	if n == 0 {
		return l
	}
	if n == 1 {
		return Log{current: l.past[0]}
	}
	return Log{
		current: l.past[n-1],
		past:    slices.Clip(l.past[:n-1]),
		events:  slices.Clip(l.events[:n-1]),
	}
}

// Current returns the match state after every recorded point.
func (l Log) Current() scoring.MatchState { return l.current }

// CanUndo reports whether there is a point to undo.
func (l Log) CanUndo() bool { return len(l.past) > 0 }

// Len returns the number of recorded points.
func (l Log) Len() int { return len(l.events) }

// Events returns a copy of the point events in scoring order.
func (l Log) Events() []scoring.PointEvent {
	return slices.Clone(l.events)
}

// Last returns the most recent point event.
func (l Log) Last() (scoring.PointEvent, bool) {
	if len(l.events) == 0 {
		return scoring.PointEvent{}, false
	}
	return l.events[len(l.events)-1], true
}
