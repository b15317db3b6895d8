package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMatchConfig_YAML(t *testing.T) {
	path := writeFile(t, "match.yaml", `
sets_to_win: 3
tiebreak_points: 10
final_set_tiebreak: false
no_ad: true
mode: singles
`)
	cfg, err := LoadMatchConfig(path)
	require.NoError(t, err)

	assert.Equal(t, scoring.Config{
		SetsToWin:        3,
		TiebreakPoints:   10,
		FinalSetTiebreak: false,
		NoAd:             true,
		Mode:             scoring.Singles,
	}, cfg)
}

func TestLoadMatchConfig_YAMLPresetOverride(t *testing.T) {
	path := writeFile(t, "match.yml", `
preset: best-of-5
no_ad: true
`)
	cfg, err := LoadMatchConfig(path)
	require.NoError(t, err)

	want := scoring.BestOfFive()
	want.NoAd = true
	assert.Equal(t, want, cfg)
}

func TestLoadMatchConfig_YAMLDoubles(t *testing.T) {
	path := writeFile(t, "match.yaml", `
mode: doubles
serve_order:
  - {side: B, slot: 0}
  - {side: A, slot: 0}
  - {side: B, slot: 1}
  - {side: A, slot: 1}
`)
	cfg, err := LoadMatchConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.ServeOrder, 4)
	assert.Equal(t, scoring.ServeSlot{Side: scoring.SideB, Slot: 0}, cfg.ServeOrder[0])
	assert.Equal(t, 2, cfg.SetsToWin)
}

func TestLoadMatchConfig_CUE(t *testing.T) {
	path := writeFile(t, "match.cue", `
preset:      "doubles"
sets_to_win: 1
set_games:   4
`)
	cfg, err := LoadMatchConfig(path)
	require.NoError(t, err)

	want := scoring.DoublesConfig()
	want.SetsToWin = 1
	want.SetGames = 4
	assert.Equal(t, want, cfg)
}

func TestLoadMatchConfig_CUEEmptyIsDefault(t *testing.T) {
	cfg, err := LoadMatchConfig(writeFile(t, "match.cue", ``))
	require.NoError(t, err)
	assert.Equal(t, scoring.DefaultConfig(), cfg)
}

func TestLoadMatchConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    string
	}{
		{"unsupported", "match.toml", "sets_to_win = 2", ErrCodeUnsupported},
		{"yaml syntax", "match.yaml", "sets_to_win: [", ErrCodeParseFailed},
		{"cue syntax", "match.cue", "sets_to_win: ", ErrCodeParseFailed},
		{"cue bound", "match.cue", "sets_to_win: 0", ErrCodeSchema},
		{"cue unknown field", "match.cue", "sets: 2", ErrCodeSchema},
		{"cue bad side", "match.cue", `mode: "doubles", serve_order: [{side: "C", slot: 0}]`, ErrCodeSchema},
		{"unknown preset", "match.yaml", "preset: grand-slam", ErrCodeUnknownPreset},
		{"invalid", "match.yaml", "sets_to_win: 0", ErrCodeInvalid},
		{"singles with serve order", "match.yaml", "serve_order: [{side: A, slot: 0}]", ErrCodeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMatchConfig(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.code, ErrorCode(err), "error: %v", err)
		})
	}
}

func TestLoadMatchConfig_NotFound(t *testing.T) {
	_, err := LoadMatchConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotFound, ErrorCode(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMatchConfig_CUEErrorHasPosition(t *testing.T) {
	path := writeFile(t, "match.cue", "no_ad: true\ntiebreak_points: -1\n")
	_, err := LoadMatchConfig(path)
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	require.True(t, le.Pos.IsValid())
	assert.Equal(t, path, le.Pos.Filename())
	assert.Equal(t, 2, le.Pos.Line())
}
