package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestMatch inserts a live singles match created at epoch+minute.
func createTestMatch(t *testing.T, s *Store, id, playerA, playerB string, minute int) Match {
	t.Helper()
	m := Match{
		ID:        id,
		PlayerA:   playerA,
		PlayerB:   playerB,
		Config:    scoring.DefaultConfig(),
		StartedAt: epoch.Add(time.Duration(minute) * time.Minute),
		CreatedAt: epoch.Add(time.Duration(minute) * time.Minute),
	}
	require.NoError(t, s.CreateMatch(context.Background(), m))
	return m
}

// verifyPragma checks that a pragma is set to the expected value.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
