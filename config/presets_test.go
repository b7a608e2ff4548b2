package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/minefield/model"
)

func TestReadPresets(t *testing.T) {
	doc := `
presets:
  tiny:
    rows: 3
    cols: 3
    mines: 1
  beginner:
    rows: 8
    cols: 8
    mines: 10
`
	presets, err := ReadPresets(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, Preset{Rows: 3, Cols: 3, Mines: 1}, presets["tiny"])
	assert.Equal(t, Preset{Rows: 8, Cols: 8, Mines: 10}, presets["beginner"])
	assert.Equal(t, Preset{Rows: 16, Cols: 30, Mines: 99}, presets["expert"])
	assert.Equal(t, []string{"beginner", "expert", "intermediate", "tiny"}, presets.Names())
}

func TestReadPresetsEmpty(t *testing.T) {
	presets, err := ReadPresets(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultPresets(), presets)
}

func TestReadPresetsRejectsInvalid(t *testing.T) {
	doc := `
presets:
  broken:
    rows: 2
    cols: 2
    mines: 4
`
	_, err := ReadPresets(strings.NewReader(doc))
	assert.ErrorIs(t, err, model.ErrTooManyMines)
	assert.Contains(t, err.Error(), "preset broken")
}

func TestReadPresetsMalformed(t *testing.T) {
	_, err := ReadPresets(strings.NewReader("presets: [1, 2"))
	assert.Error(t, err)
}

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets("")
	require.NoError(t, err)
	assert.Len(t, presets, 3)

	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  small: {rows: 4, cols: 4, mines: 2}\n"), 0o600))
	presets, err = LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, Preset{Rows: 4, Cols: 4, Mines: 2}, presets["small"])

	_, err = LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPresetGet(t *testing.T) {
	p, err := DefaultPresets().Get("intermediate")
	require.NoError(t, err)
	assert.Equal(t, 40, p.Mines)

	_, err = DefaultPresets().Get("nightmare")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}
