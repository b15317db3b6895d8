package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every TENNIS_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TENNIS_DB", "TENNIS_LOG_LEVEL", "TENNIS_METRICS_FILE", "TENNIS_WORKERS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, Settings{DB: "tennis.db", LogLevel: slog.LevelInfo, Workers: 4}, s)
}

func TestLoadSettings_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TENNIS_DB", "/tmp/club.db")
	t.Setenv("TENNIS_LOG_LEVEL", "debug")
	t.Setenv("TENNIS_METRICS_FILE", "/tmp/tennis.prom")
	t.Setenv("TENNIS_WORKERS", "8")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, Settings{
		DB:          "/tmp/club.db",
		LogLevel:    slog.LevelDebug,
		MetricsFile: "/tmp/tennis.prom",
		Workers:     8,
	}, s)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := map[string]string{
		"TENNIS_LOG_LEVEL": "loud",
		"TENNIS_WORKERS":   "many",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := LoadSettings()
			assert.ErrorContains(t, err, "parse env")
		})
	}

	t.Run("zero workers", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TENNIS_WORKERS", "0")
		_, err := LoadSettings()
		assert.ErrorContains(t, err, "TENNIS_WORKERS")
	})
}
