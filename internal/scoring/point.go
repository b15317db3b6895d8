package scoring

// Point is a player's score inside an ordinary game.
type Point uint8

const (
	Love Point = iota
	Fifteen
	Thirty
	Forty
)

// Next returns the following point value. Forty has no successor; what
// happens past 40 is decided by the game, so ok is false there.
func (p Point) Next() (next Point, ok bool) {
	if p >= Forty {
		return p, false
	}
	return p + 1, true
}

// String returns the display value "0", "15", "30" or "40".
func (p Point) String() string {
	switch p {
	case Love:
		return "0"
	case Fifteen:
		return "15"
	case Thirty:
		return "30"
	case Forty:
		return "40"
	default:
		return "?"
	}
}
