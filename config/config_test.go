package config

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "beginner", cfg.DefaultPreset)
	assert.Zero(t, cfg.Seed)
	assert.Equal(t, DefaultMaxCells, cfg.MaxCells)
}

func TestLoadMaxCellsBounds(t *testing.T) {
	t.Setenv("MINEFIELD_MAX_CELLS", "400")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.MaxCells)

	t.Setenv("MINEFIELD_MAX_CELLS", "0")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("MINEFIELD_MAX_CELLS", "99999999999")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MINEFIELD_SEED", "17")
	t.Setenv("MINEFIELD_LAYOUT", "data/layout.txt")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, int64(17), cfg.Seed)
	assert.Equal(t, "data/layout.txt", cfg.LayoutFile)
}

func TestLoadBadSeed(t *testing.T) {
	t.Setenv("MINEFIELD_SEED", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestApplyLogLevel(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	require.NoError(t, Config{LogLevel: "debug"}.ApplyLogLevel())
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	assert.Error(t, Config{LogLevel: "loud"}.ApplyLogLevel())
}
