package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// Digest domains. The version suffix allows the encoding to change.
const (
	DomainEventLog = "tennis/event-log/v1"
	DomainContexts = "tennis/contexts/v1"
)

// Hash returns hex(SHA-256(domain || 0x00 || data)).
func Hash(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EventLogDigest identifies a point log together with the rules it is
// scored under. Two logs with the same digest replay identically.
func EventLogDigest(cfg scoring.Config, events []scoring.PointEvent) (string, error) {
	list := make([]any, len(events))
	for i, ev := range events {
		list[i] = EventValue(ev)
	}
	data, err := MarshalCanonical(map[string]any{
		"config": ConfigValue(cfg),
		"events": list,
	})
	if err != nil {
		return "", fmt.Errorf("marshal event log: %w", err)
	}
	return Hash(DomainEventLog, data), nil
}

// ConfigValue converts cfg to its canonical form.
func ConfigValue(cfg scoring.Config) map[string]any {
	order := make([]any, len(cfg.ServeOrder))
	for i, slot := range cfg.ServeOrder {
		order[i] = map[string]any{"side": slot.Side.String(), "slot": slot.Slot}
	}
	return map[string]any{
		"sets_to_win":        cfg.SetsToWin,
		"tiebreak_points":    cfg.TiebreakPoints,
		"final_set_tiebreak": cfg.FinalSetTiebreak,
		"no_ad":              cfg.NoAd,
		"mode":               string(cfg.Mode),
		"serve_order":        order,
		"set_games":          cfg.SetGames,
	}
}

// EventValue converts ev to its canonical form. Time is kept as Unix
// nanoseconds so that location and monotonic readings do not leak in.
func EventValue(ev scoring.PointEvent) map[string]any {
	return map[string]any{
		"scorer": ev.Scorer.String(),
		"at":     ev.At.UnixNano(),
		"end":    string(ev.End),
	}
}
