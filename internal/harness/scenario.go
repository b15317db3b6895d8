package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kldn/tennis-scorer/internal/config"
	"github.com/kldn/tennis-scorer/internal/scoring"
	"github.com/kldn/tennis-scorer/internal/testutil"
)

// Scenario is a scripted match with expectations about its outcome.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Preset names the base rules. Empty means the default preset.
	Preset string `yaml:"preset,omitempty"`

	// Config overrides individual rules on top of Preset.
	Config yaml.Node `yaml:"config,omitempty"`

	// Points is the rally sequence, one A or B per point.
	Points string `yaml:"points"`

	// Start stamps the first point. Defaults to testutil.Epoch.
	Start time.Time `yaml:"start,omitempty"`

	// IntervalSeconds separates consecutive points. Defaults to 30.
	IntervalSeconds int `yaml:"interval_seconds,omitempty"`

	// Ends records how points finished, keyed by 1-based point number.
	Ends map[int]scoring.PointEndType `yaml:"ends,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of a finished run. Which fields are read
// depends on Type.
type Assertion struct {
	Type string `yaml:"type"`

	// Side is read by winner, server and stat.
	Side string `yaml:"side,omitempty"`

	// A and B are the set tally for sets.
	A *int `yaml:"a,omitempty"`
	B *int `yaml:"b,omitempty"`

	// Final score fields for snapshot. Unset fields are not checked.
	PointsA string `yaml:"points_a,omitempty"`
	PointsB string `yaml:"points_b,omitempty"`
	GamesA  *int   `yaml:"games_a,omitempty"`
	GamesB  *int   `yaml:"games_b,omitempty"`

	// Point is the 1-based point number for point_flags and server.
	Point int `yaml:"point,omitempty"`

	BreakPoint *bool `yaml:"break_point,omitempty"`
	GamePoint  *bool `yaml:"game_point,omitempty"`
	SetPoint   *bool `yaml:"set_point,omitempty"`
	MatchPoint *bool `yaml:"match_point,omitempty"`
	Tiebreak   *bool `yaml:"tiebreak,omitempty"`

	// Name and Value are read by stat.
	Name  string   `yaml:"name,omitempty"`
	Value *float64 `yaml:"value,omitempty"`

	// Final is read by momentum.
	Final *float64 `yaml:"final,omitempty"`
}

// Assertion type constants.
const (
	AssertWinner     = "winner"
	AssertSets       = "sets"
	AssertSnapshot   = "snapshot"
	AssertPointFlags = "point_flags"
	AssertServer     = "server"
	AssertStat       = "stat"
	AssertMomentum   = "momentum"
)

const defaultIntervalSeconds = 30

// MatchConfig returns the rules the scenario is played under.
func (s *Scenario) MatchConfig() (scoring.Config, error) {
	name := s.Preset
	if name == "" {
		name = "default"
	}
	cfg, ok := scoring.Preset(name)
	if !ok {
		return scoring.Config{}, fmt.Errorf("unknown preset %q", s.Preset)
	}

	if !s.Config.IsZero() {
		// Round-trip through a strict decoder so misspelled rules fail.
		data, err := yaml.Marshal(&s.Config)
		if err != nil {
			return scoring.Config{}, fmt.Errorf("config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return scoring.Config{}, fmt.Errorf("config: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return scoring.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Rallies returns the scorer of each point in order.
func (s *Scenario) Rallies() ([]scoring.Side, error) {
	var sides []scoring.Side
	for i, r := range s.Points {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		side, err := scoring.ParseSide(string(r))
		if err != nil || !side.Valid() {
			return nil, fmt.Errorf("points[%d]: %q is not a side", i, r)
		}
		sides = append(sides, side)
	}
	return sides, nil
}

func (s *Scenario) startTime() time.Time {
	if s.Start.IsZero() {
		return testutil.Epoch
	}
	return s.Start
}

func (s *Scenario) interval() time.Duration {
	secs := s.IntervalSeconds
	if secs == 0 {
		secs = defaultIntervalSeconds
	}
	return time.Duration(secs) * time.Second
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// ScenarioFile is one scenario found by LoadScenarios. Err is set when the
// file could not be loaded.
type ScenarioFile struct {
	Path     string
	Scenario *Scenario
	Err      error
}

// LoadScenarios loads every .yaml and .yml file under dir, in lexical
// order. A non-empty filter is a glob matched against the file name
// without its extension.
func LoadScenarios(dir, filter string) ([]ScenarioFile, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []ScenarioFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(d.Name(), ext)
			if ok, _ := filepath.Match(filter, name); !ok {
				return nil
			}
		}

		s, loadErr := LoadScenario(path)
		files = append(files, ScenarioFile{Path: path, Scenario: s, Err: loadErr})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}

	if _, err := s.MatchConfig(); err != nil {
		return err
	}

	rallies, err := s.Rallies()
	if err != nil {
		return err
	}
	if len(rallies) == 0 {
		return errors.New("points must name at least one point")
	}

	if s.IntervalSeconds < 0 {
		return errors.New("interval_seconds must be non-negative")
	}

	for n, end := range s.Ends {
		if n < 1 || n > len(rallies) {
			return fmt.Errorf("ends: point %d out of range 1..%d", n, len(rallies))
		}
		if _, err := scoring.ParsePointEndType(string(end)); err != nil {
			return fmt.Errorf("ends[%d]: %w", n, err)
		}
	}

	if len(s.Assertions) == 0 {
		return errors.New("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], len(rallies)); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, points int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertWinner:
		if _, err := parseWinner(a.Side); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertSets:
		if a.A == nil || a.B == nil {
			return fmt.Errorf("assertions[%d]: a and b are required for sets", index)
		}
	case AssertSnapshot:
		if a.PointsA == "" && a.PointsB == "" && a.GamesA == nil && a.GamesB == nil {
			return fmt.Errorf("assertions[%d]: snapshot needs at least one field", index)
		}
	case AssertPointFlags, AssertServer:
		if a.Point < 1 || a.Point > points {
			return fmt.Errorf("assertions[%d]: point %d out of range 1..%d", index, a.Point, points)
		}
		if a.Type == AssertServer {
			if side, err := scoring.ParseSide(a.Side); err != nil || !side.Valid() {
				return fmt.Errorf("assertions[%d]: side must be A or B for server", index)
			}
		}
	case AssertStat:
		if side, err := scoring.ParseSide(a.Side); err != nil || !side.Valid() {
			return fmt.Errorf("assertions[%d]: side must be A or B for stat", index)
		}
		if _, ok := statistics[a.Name]; !ok {
			return fmt.Errorf("assertions[%d]: unknown statistic %q", index, a.Name)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for stat", index)
		}
	case AssertMomentum:
		if a.Final == nil {
			return fmt.Errorf("assertions[%d]: final is required for momentum", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// parseWinner accepts a side or "none".
func parseWinner(s string) (scoring.Side, error) {
	if strings.EqualFold(s, "none") {
		return scoring.NoSide, nil
	}
	side, err := scoring.ParseSide(s)
	if err != nil || !side.Valid() {
		return scoring.NoSide, fmt.Errorf("winner side must be A, B or none, got %q", s)
	}
	return side, nil
}
