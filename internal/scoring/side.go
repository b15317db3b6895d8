package scoring

import (
	"fmt"
	"strings"
)

// Side identifies one of the two competitors.
// The zero value NoSide means "nobody", e.g. the winner of a game in progress.
type Side uint8

const (
	NoSide Side = iota
	SideA
	SideB
)

// Opponent returns the other side. The opponent of NoSide is NoSide.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return NoSide
	}
}

// Valid reports whether s is SideA or SideB.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// ParseSide parses "A"/"B" (case-insensitive) and the aliases "1"/"2",
// "p1"/"p2". The empty string parses to NoSide.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return NoSide, nil
	case "a", "1", "p1":
		return SideA, nil
	case "b", "2", "p2":
		return SideB, nil
	default:
		return NoSide, fmt.Errorf("unknown side %q", s)
	}
}

// pick returns a when s is SideA and b otherwise.
func pick[T any](s Side, a, b T) T {
	if s == SideA {
		return a
	}
	return b
}
