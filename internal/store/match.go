package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// Match is a stored match. EndedAt is zero and Winner is NoSide while the
// match is live.
type Match struct {
	ID        string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	PlayerA   string         `json:"player_a,omitempty"`
	PlayerB   string         `json:"player_b,omitempty"`
	Config    scoring.Config `json:"config"`
	Winner    scoring.Side   `json:"winner,omitempty"`
	SetsA     int            `json:"sets_a"`
	SetsB     int            `json:"sets_b"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at,omitzero"`
	CreatedAt time.Time      `json:"created_at"`
}

// Completed reports whether the match has a winner.
func (m Match) Completed() bool { return m.Winner != scoring.NoSide }

// ListOptions filters and pages ListMatches.
type ListOptions struct {
	// Limit caps the number of matches; 0 means DefaultListLimit.
	Limit  int
	Offset int

	// PlayerName keeps matches where either side has this name.
	PlayerName string
}

// DefaultListLimit is used when ListOptions.Limit is 0.
const DefaultListLimit = 50

const matchColumns = `id, name, player_a, player_b, config, winner, sets_a, sets_b, started_at, ended_at, created_at`

// CreateMatch inserts m. A zero CreatedAt or StartedAt is set to now.
func (s *Store) CreateMatch(ctx context.Context, m Match) error {
	cfgJSON, err := json.Marshal(m.Config)
	if err != nil {
		return fmt.Errorf("create match: marshal config: %w", err)
	}

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.StartedAt.IsZero() {
		m.StartedAt = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches
		(id, name, player_a, player_b, match_type, config, winner, sets_a, sets_b, started_at, ended_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID,
		m.Name,
		normalizeName(m.PlayerA),
		normalizeName(m.PlayerB),
		string(m.Config.Mode),
		string(cfgJSON),
		m.Winner.String(),
		m.SetsA,
		m.SetsB,
		m.StartedAt.UnixNano(),
		nullTime(m.EndedAt),
		m.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

// GetMatch returns the match with the given id, or ErrNotFound.
func (s *Store) GetMatch(ctx context.Context, id string) (Match, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Match{}, fmt.Errorf("get match %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Match{}, fmt.Errorf("get match %s: %w", id, err)
	}
	return m, nil
}

// ListMatches returns matches newest first. Returns an empty slice (not
// nil) when nothing matches.
func (s *Store) ListMatches(ctx context.Context, opts ListOptions) ([]Match, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT ` + matchColumns + ` FROM matches`
	var args []any
	if name := normalizeName(opts.PlayerName); name != "" {
		query += ` WHERE player_a = ? OR player_b = ?`
		args = append(args, name, name)
	}
	query += ` ORDER BY created_at DESC, id COLLATE BINARY ASC LIMIT ? OFFSET ?`
	args = append(args, limit, max(opts.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return matches, nil
}

// DeleteMatch removes a match and its points.
func (s *Store) DeleteMatch(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	return requireRow(res, "delete match "+id)
}

// FinishMatch records the result of a match. A NoSide winner clears a
// previously recorded result.
func (s *Store) FinishMatch(ctx context.Context, id string, winner scoring.Side, setsA, setsB int, endedAt time.Time) error {
	if winner == scoring.NoSide {
		endedAt = time.Time{}
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE matches SET winner = ?, sets_a = ?, sets_b = ?, ended_at = ?
		WHERE id = ?
	`, winner.String(), setsA, setsB, nullTime(endedAt), id)
	if err != nil {
		return fmt.Errorf("finish match %s: %w", id, err)
	}
	return requireRow(res, "finish match "+id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (Match, error) {
	var (
		m                  Match
		cfgJSON, winner    string
		startedAt, created int64
		endedAt            sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.Name, &m.PlayerA, &m.PlayerB, &cfgJSON, &winner,
		&m.SetsA, &m.SetsB, &startedAt, &endedAt, &created)
	if err != nil {
		return Match{}, err
	}

	if err := json.Unmarshal([]byte(cfgJSON), &m.Config); err != nil {
		return Match{}, fmt.Errorf("unmarshal config of match %s: %w", m.ID, err)
	}
	if m.Winner, err = scoring.ParseSide(winner); err != nil {
		return Match{}, fmt.Errorf("winner of match %s: %w", m.ID, err)
	}
	m.StartedAt = time.Unix(0, startedAt).UTC()
	m.CreatedAt = time.Unix(0, created).UTC()
	if endedAt.Valid {
		m.EndedAt = time.Unix(0, endedAt.Int64).UTC()
	}
	return m, nil
}

func nullTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
