package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// AppendEvent stores one point of a match under seq. The match must exist.
func (s *Store) AppendEvent(ctx context.Context, matchID string, seq int64, ev scoring.PointEvent) error {
	if !ev.Scorer.Valid() {
		return fmt.Errorf("append event: invalid scorer %d", ev.Scorer)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO point_events (match_id, seq, scorer, end_type, at_unix_nano)
		VALUES (?, ?, ?, ?, ?)
	`, matchID, seq, ev.Scorer.String(), string(ev.End), ev.At.UnixNano())
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// RemoveLastEvent deletes the point with the highest seq. Returns
// ErrNotFound when the match has no points.
func (s *Store) RemoveLastEvent(ctx context.Context, matchID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM point_events
		WHERE match_id = ? AND seq = (SELECT MAX(seq) FROM point_events WHERE match_id = ?)
	`, matchID, matchID)
	if err != nil {
		return fmt.Errorf("remove last event: %w", err)
	}
	return requireRow(res, "remove last event of "+matchID)
}

// Events returns the points of a match in seq order. Returns an empty
// slice (not nil) if the match has no points.
func (s *Store) Events(ctx context.Context, matchID string) ([]scoring.PointEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT scorer, end_type, at_unix_nano
		FROM point_events
		WHERE match_id = ?
		ORDER BY seq ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []scoring.PointEvent{}
	for rows.Next() {
		var (
			scorer, end string
			at          int64
		)
		if err := rows.Scan(&scorer, &end, &at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		side, err := scoring.ParseSide(scorer)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, scoring.PointEvent{
			Scorer: side,
			At:     time.Unix(0, at).UTC(),
			End:    scoring.PointEndType(end),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// LastSeq returns the highest seq stored for a match, or 0.
func (s *Store) LastSeq(ctx context.Context, matchID string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM point_events WHERE match_id = ?
	`, matchID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}
