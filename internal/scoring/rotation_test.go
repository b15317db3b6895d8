package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTiebreakServeOffset(t *testing.T) {
	want := []int{0, 1, 1, 2, 2, 3, 3, 4, 4}
	for played, offset := range want {
		assert.Equal(t, offset, TiebreakServeOffset(played), "played=%d", played)
	}
}

func TestRotation_Advance(t *testing.T) {
	tests := []struct {
		name string
		from Rotation
		tr   Transition
		want Rotation
	}{
		{"no boundary", Rotation{Index: 2}, Transition{}, Rotation{Index: 2}},
		{"game completed", Rotation{Index: 3}, Transition{GameCompleted: true}, Rotation{Index: 0}},
		{"enter tiebreak", Rotation{Index: 3}, Transition{InTiebreak: true, GameCompleted: true}, Rotation{Index: 0, TiebreakIndex: 0}},
		{"enter tiebreak mid rotation", Rotation{Index: 1}, Transition{InTiebreak: true, GameCompleted: true}, Rotation{Index: 2, TiebreakIndex: 2}},
		{"tiebreak point", Rotation{Index: 2, TiebreakIndex: 2, TiebreakPointsServed: 4}, Transition{WasTiebreak: true, InTiebreak: true}, Rotation{Index: 2, TiebreakIndex: 2, TiebreakPointsServed: 5}},
		// Point 7 of the tiebreak was served by position (2+3)%4 = 1.
		{"tiebreak ends", Rotation{Index: 2, TiebreakIndex: 2, TiebreakPointsServed: 6}, Transition{WasTiebreak: true}, Rotation{Index: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Advance(4, tt.tr))
		})
	}
}

func TestRotation_EmptyOrderNeverMoves(t *testing.T) {
	r := Rotation{}
	assert.Equal(t, r, r.Advance(0, Transition{GameCompleted: true}))
	assert.Equal(t, r, r.Advance(0, Transition{InTiebreak: true}))
	assert.Equal(t, 0, r.Server(0, true))
}

func TestDoubles_ServerPerGame(t *testing.T) {
	m := NewMatch(DoublesConfig())

	var servers []int
	for i := 0; i < 5; i++ {
		servers = append(servers, CurrentServer(m))
		m = play(m, games(SideA, 1))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 0}, servers)
}

func TestDoubles_ServerConstantWithinGame(t *testing.T) {
	m := play(NewMatch(DoublesConfig()), games(SideA, 1))
	require.Equal(t, 1, CurrentServer(m))

	for _, s := range []Side{SideA, SideB, SideB} {
		m = m.Score(s)
		assert.Equal(t, 1, CurrentServer(m))
	}
}

func TestDoubles_TiebreakServing(t *testing.T) {
	m := play(NewMatch(DoublesConfig()), alternating(SideA, 12))
	require.True(t, InTiebreak(m))

	p := m.(MatchPlaying)
	assert.Equal(t, Rotation{Index: 0, TiebreakIndex: 0}, p.Rotation)

	var servers []int
	for i := 0; i < 7; i++ {
		servers = append(servers, CurrentServer(m))
		m = m.Score(SideA)
	}
	assert.Equal(t, []int{0, 1, 1, 2, 2, 3, 3}, servers)

	// The last tiebreak point was served by position 3.
	require.False(t, InTiebreak(m))
	assert.Equal(t, 0, CurrentServer(m))
	assert.Equal(t, Rotation{Index: 0}, m.(MatchPlaying).Rotation)
}

func TestDoubles_TiebreakEndingMidPair(t *testing.T) {
	m := play(NewMatch(DoublesConfig()), alternating(SideA, 12))

	// 7-1: eight points, the last served by (0 + ceil(7/2)) % 4 = 0.
	m = play(m, "B AAAAAAA")
	require.False(t, InTiebreak(m))
	assert.Equal(t, 1, CurrentServer(m))
}

func TestSingles_ServerIndexIsZero(t *testing.T) {
	m := NewMatch(DefaultConfig())
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, CurrentServer(m))
		m = play(m, games(SideB, 1))
	}
}
