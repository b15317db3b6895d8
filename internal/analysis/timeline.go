package analysis

import (
	"fmt"
	"strings"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// RenderTimeline prints one line per point:
//
//	007 B srv=A set=1 game=2 sets=1-0 pts=15-40 flags=BG
//
// sets lists the game tally of every set so far, pts is the game or
// tiebreak score before the point, and flags holds B(reak), G(ame),
// S(et), M(atch) and T(iebreak), or "-" when none apply.
func RenderTimeline(points []PointContext) string {
	var b strings.Builder
	for _, p := range points {
		fmt.Fprintf(&b, "%03d %s srv=%s set=%d game=%d sets=%s pts=%s-%s flags=%s\n",
			p.Number, p.Scorer, p.Server, p.Set, p.Game,
			setTally(p.Before), p.Before.Game.PointsA, p.Before.Game.PointsB, flags(p))
	}
	return b.String()
}

func setTally(s scoring.Snapshot) string {
	parts := make([]string, len(s.Sets))
	for i, set := range s.Sets {
		parts[i] = fmt.Sprintf("%d-%d", set.GamesA, set.GamesB)
	}
	return strings.Join(parts, ",")
}

func flags(p PointContext) string {
	var f []byte
	for _, fl := range []struct {
		on bool
		c  byte
	}{
		{p.BreakPoint, 'B'},
		{p.GamePoint, 'G'},
		{p.SetPoint, 'S'},
		{p.MatchPoint, 'M'},
		{p.Tiebreak, 'T'},
	} {
		if fl.on {
			f = append(f, fl.c)
		}
	}
	if len(f) == 0 {
		return "-"
	}
	return string(f)
}
