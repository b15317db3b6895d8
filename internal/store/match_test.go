package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

func TestCreateAndGetMatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := Match{
		ID:        "m-1",
		Name:      "Club final",
		PlayerA:   " Alice ",
		PlayerB:   "Bob",
		Config:    scoring.DoublesConfig(),
		StartedAt: epoch,
		CreatedAt: epoch,
	}
	require.NoError(t, s.CreateMatch(ctx, in))

	got, err := s.GetMatch(ctx, "m-1")
	require.NoError(t, err)

	assert.Equal(t, "Club final", got.Name)
	assert.Equal(t, "Alice", got.PlayerA)
	assert.Equal(t, scoring.DoublesConfig(), got.Config)
	assert.Equal(t, epoch, got.StartedAt)
	assert.True(t, got.EndedAt.IsZero())
	assert.False(t, got.Completed())
}

func TestCreateMatch_DefaultsTimes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateMatch(ctx, Match{ID: "m-1", Config: scoring.DefaultConfig()}))
	got, err := s.GetMatch(ctx, "m-1")
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.StartedAt.IsZero())
}

func TestCreateMatch_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	createTestMatch(t, s, "m-1", "A", "B", 0)

	err := s.CreateMatch(context.Background(), Match{ID: "m-1", Config: scoring.DefaultConfig()})
	assert.Error(t, err)
}

func TestGetMatch_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.GetMatch(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMatches_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	createTestMatch(t, s, "m-1", "Alice", "Bob", 1)
	createTestMatch(t, s, "m-2", "Carol", "Alice", 2)
	createTestMatch(t, s, "m-3", "Carol", "Dave", 3)

	all, err := s.ListMatches(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"m-3", "m-2", "m-1"}, ids(all))

	page, err := s.ListMatches(context.Background(), ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"m-2"}, ids(page))

	alice, err := s.ListMatches(context.Background(), ListOptions{PlayerName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m-2", "m-1"}, ids(alice))
}

func TestListMatches_Empty(t *testing.T) {
	s := createTestStore(t)
	got, err := s.ListMatches(context.Background(), ListOptions{PlayerName: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDeleteMatch_CascadesEvents(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestMatch(t, s, "m-1", "A", "B", 0)
	require.NoError(t, s.AppendEvent(ctx, "m-1", 1, scoring.PointEvent{Scorer: scoring.SideA, At: epoch}))

	require.NoError(t, s.DeleteMatch(ctx, "m-1"))

	_, err := s.GetMatch(ctx, "m-1")
	assert.ErrorIs(t, err, ErrNotFound)

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM point_events").Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, s.DeleteMatch(ctx, "m-1"), ErrNotFound)
}

func TestFinishMatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestMatch(t, s, "m-1", "A", "B", 0)

	end := epoch.Add(90 * time.Minute)
	require.NoError(t, s.FinishMatch(ctx, "m-1", scoring.SideB, 1, 2, end))

	got, err := s.GetMatch(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, scoring.SideB, got.Winner)
	assert.Equal(t, 1, got.SetsA)
	assert.Equal(t, 2, got.SetsB)
	assert.Equal(t, end, got.EndedAt)

	// Clearing after an undo.
	require.NoError(t, s.FinishMatch(ctx, "m-1", scoring.NoSide, 1, 1, end))
	got, err = s.GetMatch(ctx, "m-1")
	require.NoError(t, err)
	assert.False(t, got.Completed())
	assert.True(t, got.EndedAt.IsZero())

	assert.ErrorIs(t, s.FinishMatch(ctx, "nope", scoring.SideA, 2, 0, end), ErrNotFound)
}

func ids(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.ID
	}
	return out
}
