package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

//go:embed schema.cue
var schemaCUE string

// LoadMatchConfig reads match rules from a .yaml, .yml or .cue file and
// validates them.
func LoadMatchConfig(path string) (scoring.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return scoring.Config{}, &LoadError{Code: ErrCodeNotFound, Message: "config file not found", Path: path, Err: err}
	}
	if err != nil {
		return scoring.Config{}, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Path: path, Err: err}
	}

	var cfg scoring.Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	case ".cue":
		cfg, err = ParseCUE(data, path)
	default:
		return scoring.Config{}, &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported extension %q", ext), Path: path}
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return scoring.Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return scoring.Config{}, &LoadError{Code: ErrCodeInvalid, Message: err.Error(), Path: path, Err: err}
	}
	return cfg, nil
}

// presetHeader reads only the preset key of a file.
type presetHeader struct {
	Preset string `yaml:"preset" json:"preset"`
}

// ParseYAML decodes YAML match rules on top of the named preset, or the
// default preset. It does not validate.
func ParseYAML(data []byte) (scoring.Config, error) {
	var head presetHeader
	if err := yaml.Unmarshal(data, &head); err != nil {
		return scoring.Config{}, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), Err: err}
	}
	cfg, err := base(head.Preset)
	if err != nil {
		return scoring.Config{}, err
	}
	// Keys absent from the file keep their preset values.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return scoring.Config{}, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// ParseCUE checks CUE match rules against #MatchConfig and decodes them on
// top of the named preset. filename only labels error positions.
func ParseCUE(data []byte, filename string) (scoring.Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return scoring.Config{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compile schema: %v", err), Err: err}
	}
	def := schema.LookupPath(cue.ParsePath("#MatchConfig"))

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return scoring.Config{}, cueError(ErrCodeParseFailed, err, filename)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return scoring.Config{}, cueError(ErrCodeSchema, err, filename)
	}

	js, err := unified.MarshalJSON()
	if err != nil {
		return scoring.Config{}, cueError(ErrCodeSchema, err, filename)
	}

	var head presetHeader
	if err := json.Unmarshal(js, &head); err != nil {
		return scoring.Config{}, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
	}
	cfg, err := base(head.Preset)
	if err != nil {
		return scoring.Config{}, err
	}
	if err := json.Unmarshal(js, &cfg); err != nil {
		return scoring.Config{}, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// base returns the preset a file builds on.
func base(preset string) (scoring.Config, error) {
	if preset == "" {
		return scoring.DefaultConfig(), nil
	}
	cfg, ok := scoring.Preset(preset)
	if !ok {
		return scoring.Config{}, &LoadError{
			Code:    ErrCodeUnknownPreset,
			Message: fmt.Sprintf("unknown preset %q (want one of %s)", preset, strings.Join(scoring.PresetNames(), ", ")),
		}
	}
	return cfg, nil
}

// cueError keeps the position of the first CUE error, preferring one inside
// the user's file over one in the embedded schema.
func cueError(code string, err error, filename string) *LoadError {
	le := &LoadError{Code: code, Message: err.Error(), Err: err}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	first := errs[0]
	le.Message = first.Error()
	positions := cueerrors.Positions(first)
	for _, pos := range positions {
		if pos.Filename() == filename {
			le.Pos = pos
			return le
		}
	}
	if len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
