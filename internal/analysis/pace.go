package analysis

import "time"

// PaceStats describes the timing of a match in seconds.
type PaceStats struct {
	AverageInterval float64        `json:"average_interval"`
	Intervals       []float64      `json:"intervals"`
	Games           []GameDuration `json:"games"`
	Sets            []SetDuration  `json:"sets"`
	Total           float64        `json:"total"`
}

// GameDuration is the span of one game, from its first point to its last.
type GameDuration struct {
	Set     int     `json:"set"`
	Game    int     `json:"game"`
	Seconds float64 `json:"seconds"`
}

// SetDuration is the span of one set.
type SetDuration struct {
	Set     int     `json:"set"`
	Seconds float64 `json:"seconds"`
}

// Pace measures the gaps between consecutive points and the span of every
// game and set. A game or set with a single point lasts 0 seconds.
// Timestamps that go backwards count as a 0-second gap.
func Pace(points []PointContext) PaceStats {
	s := PaceStats{
		Intervals: []float64{},
		Games:     []GameDuration{},
		Sets:      []SetDuration{},
	}
	if len(points) == 0 {
		return s
	}

	var sum float64
	for i := 1; i < len(points); i++ {
		d := seconds(points[i-1].At, points[i].At)
		s.Intervals = append(s.Intervals, d)
		sum += d
	}
	if len(s.Intervals) > 0 {
		s.AverageInterval = sum / float64(len(s.Intervals))
	}
	s.Total = seconds(points[0].At, points[len(points)-1].At)

	gameStart, setStart := 0, 0
	for i := 1; i <= len(points); i++ {
		end := i == len(points)
		first := points[gameStart]
		if end || points[i].Set != first.Set || points[i].Game != first.Game {
			s.Games = append(s.Games, GameDuration{
				Set:     first.Set,
				Game:    first.Game,
				Seconds: seconds(first.At, points[i-1].At),
			})
			gameStart = i
		}
		if end || points[i].Set != points[setStart].Set {
			s.Sets = append(s.Sets, SetDuration{
				Set:     points[setStart].Set,
				Seconds: seconds(points[setStart].At, points[i-1].At),
			})
			setStart = i
		}
	}
	return s
}

// seconds returns to-from in seconds, clamped at 0.
func seconds(from, to time.Time) float64 {
	d := to.Sub(from).Seconds()
	if d < 0 {
		return 0
	}
	return d
}
