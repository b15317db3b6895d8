package testutil

import (
	"strings"
	"time"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// Epoch is the default start of generated event logs.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Events builds a point log from a string of A and B letters. Point i is
// stamped start + i*step. Any other rune is skipped, so "AAAA BBBB" reads
// as two games.
func Events(seq string, start time.Time, step time.Duration) []scoring.PointEvent {
	var events []scoring.PointEvent
	for _, r := range seq {
		var side scoring.Side
		switch r {
		case 'A', 'a':
			side = scoring.SideA
		case 'B', 'b':
			side = scoring.SideB
		default:
			continue
		}
		events = append(events, scoring.PointEvent{
			Scorer: side,
			At:     start.Add(time.Duration(len(events)) * step),
		})
	}
	return events
}

// Seq builds an event log starting at Epoch with points 30 seconds apart.
func Seq(seq string) []scoring.PointEvent {
	return Events(seq, Epoch, 30*time.Second)
}

// LoveGames returns the point sequence for side winning n games to love.
func LoveGames(side scoring.Side, n int) string {
	return strings.Repeat(strings.Repeat(side.String(), 4), n)
}

// AlternatingGames returns n love games won alternately, starting with first.
func AlternatingGames(first scoring.Side, n int) string {
	var b strings.Builder
	side := first
	for range n {
		b.WriteString(LoveGames(side, 1))
		side = side.Opponent()
	}
	return b.String()
}
