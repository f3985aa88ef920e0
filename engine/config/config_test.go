package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	doc := `
title = "Spinning"
width = 1024
backend = "webgpu"
log_level = "debug"
profiling = true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Spinning", cfg.Title)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, Default().Height, cfg.Height, "unset keys keep their default")
	assert.Equal(t, ".", cfg.AssetDir)
	assert.True(t, cfg.Profiling)

	bt, err := cfg.BackendType()
	require.NoError(t, err)
	assert.Equal(t, renderer.BackendTypeWGPU, bt)
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"unknown key":    `colour = "red"`,
		"bad backend":    `backend = "vulkan"`,
		"bad level":      `log_level = "loud"`,
		"zero width":     `width = 0`,
		"malformed toml": `width = `,
		"wrong type":     `height = "tall"`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	var buf bytes.Buffer
	l := cfg.NewLogger(&buf)
	l.Info("quiet")
	l.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestOptionConversion(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.WindowOptions(), 4)
	assert.Len(t, cfg.RendererOptions(), 2)
	assert.Len(t, cfg.EngineOptions(), 2)
}
