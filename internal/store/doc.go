// Package store provides SQLite-backed storage for matches and their point
// logs.
//
// A match row holds the players, the rules as JSON and, once decided, the
// result. Points live in point_events keyed by (match_id, seq), where seq
// comes from the session's logical clock. Point order is always seq order,
// never wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Points are deleted with their match
//
// Player names are trimmed and NFC-normalized on the way in, so the same
// name typed on two keyboards still matches.
package store
