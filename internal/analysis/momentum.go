package analysis

import "github.com/kldn/tennis-scorer/internal/scoring"

// MomentumSeries holds running point differentials, positive for side A.
// The per-set series restart from zero at the first point of each set.
type MomentumSeries struct {
	Basic          []float64   `json:"basic"`
	Weighted       []float64   `json:"weighted"`
	PerSet         [][]float64 `json:"per_set"`
	PerSetWeighted [][]float64 `json:"per_set_weighted"`
}

// Momentum weights for pressure points. They multiply when combined.
const (
	breakPointWeight = 3.0
	setPointWeight   = 5.0
	deuceWeight      = 1.5
)

// Momentum computes the cumulative +1/-1 series over points, and a weighted
// variant where pressure points count for more.
func Momentum(points []PointContext) MomentumSeries {
	s := MomentumSeries{
		Basic:          make([]float64, 0, len(points)),
		Weighted:       make([]float64, 0, len(points)),
		PerSet:         [][]float64{},
		PerSetWeighted: [][]float64{},
	}

	var basic, weighted, setBasic, setWeighted float64
	currentSet := 0
	for _, p := range points {
		sign := -1.0
		if p.Scorer == scoring.SideA {
			sign = 1.0
		}
		w := weight(p)

		basic += sign
		weighted += sign * w
		s.Basic = append(s.Basic, basic)
		s.Weighted = append(s.Weighted, weighted)

		if len(s.PerSet) == 0 || p.Set != currentSet {
			currentSet = p.Set
			setBasic, setWeighted = 0, 0
			s.PerSet = append(s.PerSet, []float64{})
			s.PerSetWeighted = append(s.PerSetWeighted, []float64{})
		}
		setBasic += sign
		setWeighted += sign * w
		last := len(s.PerSet) - 1
		s.PerSet[last] = append(s.PerSet[last], setBasic)
		s.PerSetWeighted[last] = append(s.PerSetWeighted[last], setWeighted)
	}
	return s
}

func weight(p PointContext) float64 {
	w := 1.0
	if p.BreakPoint {
		w *= breakPointWeight
	}
	if p.SetPoint {
		w *= setPointWeight
	}
	g := p.Before.Game
	if g.Deuce || g.Advantage != scoring.NoSide || g.DeuceCount > 0 {
		w *= deuceWeight
	}
	return w
}
