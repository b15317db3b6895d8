package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

var t0 = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func scoreSeq(l Log, seq string) Log {
	for i, r := range seq {
		side := scoring.SideA
		if r == 'B' {
			side = scoring.SideB
		}
		l = l.Score(side, t0.Add(time.Duration(i)*time.Second))
	}
	return l
}

func TestNew(t *testing.T) {
	l := New(scoring.NewMatch(scoring.DefaultConfig()))
	assert.False(t, l.CanUndo())
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Events())
	_, ok := l.Last()
	assert.False(t, ok)
}

func TestLog_ScoreRecordsEvent(t *testing.T) {
	l := New(scoring.NewMatch(scoring.DefaultConfig()))
	l = l.Score(scoring.SideB, t0)

	require.True(t, l.CanUndo())
	assert.Equal(t, []scoring.PointEvent{{Scorer: scoring.SideB, At: t0}}, l.Events())
	assert.Equal(t, "15", scoring.TakeSnapshot(l.Current()).Game.PointsB)
}

func TestLog_UndoRoundTrip(t *testing.T) {
	seq := "AABBABABBBAAAABBBBABAAAABBBBBABABAAA"
	l := New(scoring.NewMatch(scoring.DefaultConfig()))

	for i, r := range seq {
		side := scoring.SideA
		if r == 'B' {
			side = scoring.SideB
		}
		next := l.Score(side, t0.Add(time.Duration(i)*time.Second))
		back := next.Undo()

		assert.Equal(t, l.Current(), back.Current(), "point %d", i+1)
		assert.Equal(t, l.Events(), back.Events(), "point %d", i+1)
		assert.Equal(t, l.Len(), back.Len())
		l = next
	}
}

func TestLog_UndoRestoresDeuceCount(t *testing.T) {
	l := scoreSeq(New(scoring.NewMatch(scoring.DefaultConfig())), "AAABBBAB")
	require.Equal(t, 2, scoring.TakeSnapshot(l.Current()).Game.DeuceCount)

	l = l.Undo()
	game := scoring.TakeSnapshot(l.Current()).Game
	assert.Equal(t, scoring.SideA, game.Advantage)
	assert.Equal(t, 1, game.DeuceCount)
}

func TestLog_UndoEmptyIsNoOp(t *testing.T) {
	l := New(scoring.NewMatch(scoring.DefaultConfig()))
	assert.Equal(t, l, l.Undo())
}

func TestLog_ScoreAfterCompletionIsNoOp(t *testing.T) {
	l := scoreSeq(New(scoring.NewMatch(scoring.DefaultConfig())), "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	require.Equal(t, scoring.SideA, l.Current().Outcome())
	require.Equal(t, 48, l.Len())

	after := l.Score(scoring.SideB, t0)
	assert.Equal(t, 48, after.Len())
	assert.Equal(t, l.Current(), after.Current())
}

func TestLog_ValueSemantics(t *testing.T) {
	base := scoreSeq(New(scoring.NewMatch(scoring.DefaultConfig())), "AB")

	left := base.Score(scoring.SideA, t0)
	right := base.Score(scoring.SideB, t0)

	assert.Equal(t, 2, base.Len())
	assert.Equal(t, scoring.SideA, left.Events()[2].Scorer)
	assert.Equal(t, scoring.SideB, right.Events()[2].Scorer)

	events := left.Events()
	events[0].Scorer = scoring.SideB
	assert.Equal(t, scoring.SideA, left.Events()[0].Scorer)
}

func TestLog_EndType(t *testing.T) {
	l := New(scoring.NewMatch(scoring.DefaultConfig()))
	l = l.ScoreEvent(scoring.PointEvent{Scorer: scoring.SideA, At: t0, End: scoring.EndAce})

	last, ok := l.Last()
	require.True(t, ok)
	assert.Equal(t, scoring.EndAce, last.End)
}

func TestRebuild(t *testing.T) {
	events := scoreSeq(New(scoring.NewMatch(scoring.DefaultConfig())), "AAAABBB").Events()

	l := Rebuild(scoring.DefaultConfig(), events)
	assert.Equal(t, events, l.Events())
	snap := scoring.TakeSnapshot(l.Current())
	assert.Equal(t, 1, snap.Sets[0].GamesA)
	assert.Equal(t, "40", snap.Game.PointsB)
}
