package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatch(t *testing.T) {
	m := NewMatch(DefaultConfig())

	p, ok := m.(MatchPlaying)
	require.True(t, ok)
	assert.Len(t, p.Sets, 1)
	assert.Equal(t, SetState(SetPlaying{Game: GamePoints{}}), p.Sets[0])
	assert.Equal(t, NoSide, m.Outcome())
	assert.Equal(t, DefaultConfig(), m.Settings())
}

func TestMatch_FirstGame(t *testing.T) {
	m := play(NewMatch(DefaultConfig()), "AAAA")

	a, b := m.SetTally()
	assert.Equal(t, 0, a)
	assert.Equal(t, 0, b)

	set, ok := CurrentSet(m)
	require.True(t, ok)
	assert.Equal(t, SetPlaying{GamesA: 1, Game: GamePoints{}}, set)
}

func TestMatch_StraightSets(t *testing.T) {
	m := play(NewMatch(DefaultConfig()), games(SideA, 6))

	p, ok := m.(MatchPlaying)
	require.True(t, ok)
	assert.Equal(t, 1, p.SetsA)
	assert.Len(t, p.Sets, 2)
	assert.Equal(t, SetState(SetCompleted{Winner: SideA, GamesA: 6}), p.Sets[0])

	m = play(m, games(SideA, 6))
	c, ok := m.(MatchCompleted)
	require.True(t, ok)
	assert.Equal(t, SideA, c.Winner)
	assert.Equal(t, 2, c.SetsA)
	assert.Equal(t, 0, c.SetsB)
	assert.Len(t, c.Sets, 2)
}

func TestMatch_SetCountMatchesTally(t *testing.T) {
	m := NewMatch(BestOfFive())
	m = play(m, games(SideA, 6))
	m = play(m, games(SideB, 6))
	m = play(m, games(SideB, 6))

	p := m.(MatchPlaying)
	assert.Equal(t, p.SetsA+p.SetsB+1, len(p.Sets))

	m = play(m, games(SideA, 6)+games(SideA, 6))
	c := m.(MatchCompleted)
	assert.Equal(t, c.SetsA+c.SetsB, len(c.Sets))
	assert.Equal(t, SideA, c.Winner)
}

func TestMatch_CompletedIsNoOp(t *testing.T) {
	m := play(NewMatch(DefaultConfig()), games(SideB, 12))
	require.Equal(t, SideB, m.Outcome())

	assert.Equal(t, m, m.Score(SideA))
	assert.Equal(t, m, m.Score(SideB))
}

func TestMatch_DoesNotShareSets(t *testing.T) {
	before := play(NewMatch(DefaultConfig()), "AAAA")
	snapshot := TakeSnapshot(before)

	after := before.Score(SideB)
	assert.Equal(t, snapshot, TakeSnapshot(before))
	assert.NotEqual(t, TakeSnapshot(before), TakeSnapshot(after))
}

func TestMatch_DecidingSetWithoutTiebreak(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FinalSetTiebreak = false

	m := NewMatch(cfg)
	m = play(m, games(SideA, 6))
	m = play(m, games(SideB, 6))
	m = play(m, alternating(SideA, 12))

	set, ok := CurrentSet(m)
	require.True(t, ok)
	assert.False(t, set.InTiebreak())
	assert.Equal(t, 6, set.GamesA)
	assert.Equal(t, 6, set.GamesB)

	m = play(m, games(SideA, 1))
	assert.Equal(t, NoSide, m.Outcome())

	m = play(m, games(SideA, 1))
	assert.Equal(t, SideA, m.Outcome())
	a, b := m.SetTally()
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)
}

func TestMatch_TiebreakInEarlierSets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FinalSetTiebreak = false

	m := play(NewMatch(cfg), alternating(SideA, 12))
	assert.True(t, InTiebreak(m))

	m = play(m, "AAAAAAA")
	a, _ := m.SetTally()
	assert.Equal(t, 1, a)
	assert.Equal(t, SetState(SetCompleted{Winner: SideA, GamesA: 7, GamesB: 6}), Sets(m)[0])
}

func TestPosition(t *testing.T) {
	m := NewMatch(DefaultConfig())
	set, game := Position(m)
	assert.Equal(t, 1, set)
	assert.Equal(t, 1, game)

	m = play(m, games(SideA, 3))
	set, game = Position(m)
	assert.Equal(t, 1, set)
	assert.Equal(t, 4, game)

	m = play(m, games(SideA, 3))
	set, game = Position(m)
	assert.Equal(t, 2, set)
	assert.Equal(t, 1, game)

	m = play(m, games(SideA, 6))
	set, game = Position(m)
	assert.Equal(t, 2, set)
	assert.Equal(t, 0, game)
}

func TestMatch_InvalidSideIsNoOp(t *testing.T) {
	m := play(NewMatch(DefaultConfig()), "AB")
	assert.Equal(t, m, m.Score(NoSide))
}
