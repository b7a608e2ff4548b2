package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/minefield/config"
)

func TestNewServerRoutes(t *testing.T) {
	s, err := newServer(config.Config{DefaultPreset: "beginner"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, URI_PRESETS, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var presets config.Presets
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&presets))
	assert.Equal(t, config.DefaultPresets(), presets)
}

func TestNewServerWithLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.txt")
	require.NoError(t, os.WriteFile(path, []byte("*..\n...\n"), 0o600))

	s, err := newServer(config.Config{DefaultPreset: "beginner", LayoutFile: path, Seed: 3})
	require.NoError(t, err)
	require.NotNil(t, s.GameServer.Layout)
	assert.Equal(t, 2, s.GameServer.Layout.Rows)
	assert.Equal(t, int64(3), s.GameServer.Seed)
}

func TestNewServerMaxCells(t *testing.T) {
	s, err := newServer(config.Config{DefaultPreset: "beginner", MaxCells: 64})
	require.NoError(t, err)
	assert.Equal(t, 64, s.GameServer.MaxCells)
}

func TestNewServerUnknownDefaultPreset(t *testing.T) {
	_, err := newServer(config.Config{DefaultPreset: "nightmare"})
	assert.ErrorIs(t, err, config.ErrUnknownPreset)
}
