package scoring

import (
	"slices"
	"sort"
)

// Mode selects singles or doubles play.
type Mode string

const (
	Singles Mode = "singles"
	Doubles Mode = "doubles"
)

// ServeSlot is one entry of a doubles serve order: the serving side and the
// team member (0 or 1) who serves.
type ServeSlot struct {
	Side Side `json:"side" yaml:"side" validate:"required"`
	Slot int  `json:"slot" yaml:"slot" validate:"min=0,max=1"`
}

// Config holds the rules a match is played under.
//
// The scoring core trusts its Config. A zero SetsToWin or an empty doubles
// serve order produces nonsensical matches rather than errors.
type Config struct {
	SetsToWin        int         `json:"sets_to_win" yaml:"sets_to_win" validate:"min=1"`
	TiebreakPoints   int         `json:"tiebreak_points" yaml:"tiebreak_points" validate:"min=1"`
	FinalSetTiebreak bool        `json:"final_set_tiebreak" yaml:"final_set_tiebreak"`
	NoAd             bool        `json:"no_ad" yaml:"no_ad"`
	Mode             Mode        `json:"mode" yaml:"mode" validate:"oneof=singles doubles"`
	ServeOrder       []ServeSlot `json:"serve_order,omitempty" yaml:"serve_order,omitempty" validate:"dive"`

	// SetGames overrides the set threshold (default 6).
	SetGames int `json:"set_games,omitempty" yaml:"set_games,omitempty" validate:"min=0"`
}

// DefaultConfig returns best of three sets, ad scoring, a 7-point tiebreak in
// every set, singles.
func DefaultConfig() Config {
	return Config{
		SetsToWin:        2,
		TiebreakPoints:   7,
		FinalSetTiebreak: true,
		NoAd:             false,
		Mode:             Singles,
	}
}

// BestOfFive returns DefaultConfig played to three sets.
func BestOfFive() Config {
	c := DefaultConfig()
	c.SetsToWin = 3
	return c
}

// NoAdConfig returns DefaultConfig with deciding points at deuce.
func NoAdConfig() Config {
	c := DefaultConfig()
	c.NoAd = true
	return c
}

// DoublesConfig returns DefaultConfig in doubles mode with the serve order
// A1, B1, A2, B2.
func DoublesConfig() Config {
	c := DefaultConfig()
	c.Mode = Doubles
	c.ServeOrder = []ServeSlot{
		{Side: SideA, Slot: 0},
		{Side: SideB, Slot: 0},
		{Side: SideA, Slot: 1},
		{Side: SideB, Slot: 1},
	}
	return c
}

var presets = map[string]func() Config{
	"default":   DefaultConfig,
	"best-of-5": BestOfFive,
	"no-ad":     NoAdConfig,
	"doubles":   DoublesConfig,
}

// Preset returns the named configuration.
func Preset(name string) (Config, bool) {
	fn, ok := presets[name]
	if !ok {
		return Config{}, false
	}
	return fn(), true
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.ServeOrder = slices.Clone(c.ServeOrder)
	return c
}

// RulesAt returns the set rules for the set played at the given set tally.
func (c Config) RulesAt(setsA, setsB int) SetRules {
	return SetRules{
		NoAd:             c.NoAd,
		TiebreakTarget:   c.TiebreakPoints,
		FinalSet:         c.IsFinalSet(setsA, setsB),
		FinalSetTiebreak: c.FinalSetTiebreak,
		Games:            c.SetGames,
	}
}

// IsFinalSet reports whether the set played at this tally is the deciding one.
func (c Config) IsFinalSet(setsA, setsB int) bool {
	return setsA == c.SetsToWin-1 && setsB == c.SetsToWin-1
}
