package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kldn/tennis-scorer/internal/history"
	"github.com/kldn/tennis-scorer/internal/metrics"
	"github.com/kldn/tennis-scorer/internal/scoring"
)

// Recorder persists the point log of a match.
// Implemented by store.Store.
type Recorder interface {
	AppendEvent(ctx context.Context, matchID string, seq int64, ev scoring.PointEvent) error
	RemoveLastEvent(ctx context.Context, matchID string) error
}

// Finisher is implemented by recorders that also track match results. A
// NoSide winner with a zero time clears a result after an undo.
type Finisher interface {
	FinishMatch(ctx context.Context, matchID string, winner scoring.Side, setsA, setsB int, endedAt time.Time) error
}

// TimeSource supplies the wall time stamped on each point.
type TimeSource interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now().UTC() }

// Session is a live match.
//
// Thread-safety: all methods are safe for concurrent use. Writers hold the
// lock across the Recorder call so points reach storage in scoring order.
type Session struct {
	mu  sync.RWMutex
	id  string
	log history.Log

	clock    *Clock
	now      TimeSource
	recorder Recorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder persists every point and undo through r.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithTimeSource replaces the system clock used to stamp points.
func WithTimeSource(t TimeSource) Option {
	return func(s *Session) { s.now = t }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics records points, undos and completions in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithClock sets the sequence clock. Restore uses it to continue after the
// highest stored sequence number.
func WithClock(c *Clock) Option {
	return func(s *Session) { s.clock = c }
}

// New starts a session for a match with no points.
func New(id string, cfg scoring.Config, opts ...Option) *Session {
	return newSession(id, history.New(scoring.NewMatch(cfg)), NewClock(), opts)
}

// Restore rebuilds a session from stored points. Unless WithClock is given,
// sequence numbers continue from len(events).
func Restore(id string, cfg scoring.Config, events []scoring.PointEvent, opts ...Option) *Session {
	return newSession(id, history.Rebuild(cfg, events), NewClockAt(int64(len(events))), opts)
}

func newSession(id string, log history.Log, clock *Clock, opts []Option) *Session {
	s := &Session{
		id:     id,
		log:    log,
		clock:  clock,
		now:    systemTime{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("match_id", id)
	return s
}

// ID returns the match id.
func (s *Session) ID() string { return s.id }

// Score records a point won by side and returns the new score.
//
// The point is recorded before the session state changes. If recording
// fails the session is left as it was. When the point decides the match and
// the result cannot be stored, the point is removed again and the session is
// left as it was; only if that removal also fails does the point stay
// scored, and the committed snapshot is returned with the error.
func (s *Session) Score(ctx context.Context, side scoring.Side, end scoring.PointEndType) (scoring.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !side.Valid() {
		return scoring.Snapshot{}, ErrInvalidSide.withMatch(s.id)
	}
	if s.log.Current().Outcome() != scoring.NoSide {
		return scoring.Snapshot{}, ErrMatchCompleted.withMatch(s.id)
	}

	ev := scoring.PointEvent{Scorer: side, At: s.now.Now(), End: end}
	next := s.log.ScoreEvent(ev)
	current := next.Current()
	winner := current.Outcome()
	setsA, setsB := current.SetTally()

	if s.recorder != nil {
		seq := s.clock.Next()
		if err := s.recorder.AppendEvent(ctx, s.id, seq, ev); err != nil {
			return scoring.Snapshot{}, fmt.Errorf("record point: %w", err)
		}
		s.logger.Debug("point recorded", "seq", seq, "side", side.String())

		if f, ok := s.recorder.(Finisher); ok && winner != scoring.NoSide {
			if err := f.FinishMatch(ctx, s.id, winner, setsA, setsB, ev.At); err != nil {
				// Take the point back so the stored log and the session agree.
				if rmErr := s.recorder.RemoveLastEvent(ctx, s.id); rmErr != nil {
					// The point is stored for good; keep it scored here too.
					s.log = next
					s.metrics.PointScored(side)
					s.metrics.MatchCompleted()
					return scoring.TakeSnapshot(current), fmt.Errorf("record result: %w", errors.Join(err, fmt.Errorf("remove point: %w", rmErr)))
				}
				return scoring.Snapshot{}, fmt.Errorf("record result: %w", err)
			}
		}
	}

	s.log = next
	s.metrics.PointScored(side)
	if winner != scoring.NoSide {
		s.metrics.MatchCompleted()
		s.logger.Info("match completed", "winner", winner.String(), "sets_a", setsA, "sets_b", setsB)
	}
	return scoring.TakeSnapshot(current), nil
}

// Undo removes the most recent point and returns the restored score.
//
// A stored result is cleared before the point is removed, and restored if
// the removal fails.
func (s *Session) Undo(ctx context.Context) (scoring.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.log.CanUndo() {
		return scoring.Snapshot{}, ErrNothingToUndo.withMatch(s.id)
	}

	prev := s.log.Current()
	next := s.log.Undo()

	if s.recorder != nil {
		f, finisher := s.recorder.(Finisher)
		decided := finisher && prev.Outcome() != scoring.NoSide
		if decided {
			setsA, setsB := next.Current().SetTally()
			if err := f.FinishMatch(ctx, s.id, scoring.NoSide, setsA, setsB, time.Time{}); err != nil {
				return scoring.Snapshot{}, fmt.Errorf("clear result: %w", err)
			}
		}
		if err := s.recorder.RemoveLastEvent(ctx, s.id); err != nil {
			if decided {
				setsA, setsB := prev.SetTally()
				events := s.log.Events()
				if rsErr := f.FinishMatch(ctx, s.id, prev.Outcome(), setsA, setsB, events[len(events)-1].At); rsErr != nil {
					return scoring.Snapshot{}, fmt.Errorf("remove point: %w", errors.Join(err, fmt.Errorf("restore result: %w", rsErr)))
				}
			}
			return scoring.Snapshot{}, fmt.Errorf("remove point: %w", err)
		}
	}

	s.log = next
	s.metrics.Undo()
	s.logger.Debug("point undone", "points", next.Len())
	return scoring.TakeSnapshot(next.Current()), nil
}

// Snapshot returns the current score.
func (s *Session) Snapshot() scoring.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scoring.TakeSnapshot(s.log.Current())
}

// State returns the current match state.
func (s *Session) State() scoring.MatchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Current()
}

// Events returns a copy of the recorded points.
func (s *Session) Events() []scoring.PointEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Events()
}

// CanUndo reports whether there is a point to undo.
func (s *Session) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.CanUndo()
}

// Seq returns the last sequence number handed out.
func (s *Session) Seq() int64 {
	return s.clock.Current()
}
