package scoring

import "strings"

// play scores every A or B in seq; other runes are ignored.
func play(m MatchState, seq string) MatchState {
	for _, r := range seq {
		switch r {
		case 'A', 'a':
			m = m.Score(SideA)
		case 'B', 'b':
			m = m.Score(SideB)
		}
	}
	return m
}

// games returns the point sequence for side winning n love games.
func games(side Side, n int) string {
	return strings.Repeat(strings.Repeat(side.String(), 4), n)
}

// alternating returns n love games won alternately, starting with first.
func alternating(first Side, n int) string {
	var b strings.Builder
	side := first
	for i := 0; i < n; i++ {
		b.WriteString(games(side, 1))
		side = side.Opponent()
	}
	return b.String()
}
