package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "quizmaze.db", cfg.DatabasePath)
	assert.Equal(t, 5, cfg.Maze.Size)
	assert.Equal(t, int64(42), cfg.Maze.Seed)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizmaze.yaml")
	data := `
database_path: custom.json
player: neo
maze:
  size: 9
  seed: 7
  gates: 3
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom.json", cfg.DatabasePath)
	assert.Equal(t, "neo", cfg.Player)
	assert.Equal(t, 9, cfg.Maze.Size)
	assert.Equal(t, int64(7), cfg.Maze.Seed)
	assert.Equal(t, 3, cfg.Maze.Gates)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("QUIZMAZE_DB", "env.db")
	t.Setenv("QUIZMAZE_PLAYER", "trinity")
	t.Setenv("QUIZMAZE_SEED", "1234")
	t.Setenv("QUIZMAZE_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.DatabasePath)
	assert.Equal(t, "trinity", cfg.Player)
	assert.Equal(t, int64(1234), cfg.Maze.Seed)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvIgnoresBadSeed(t *testing.T) {
	t.Setenv("QUIZMAZE_SEED", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Maze.Seed)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DatabasePath = "" }},
		{"tiny maze", func(c *Config) { c.Maze.Size = 1 }},
		{"no gates", func(c *Config) { c.Maze.Gates = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestMinimalMazeSkipsSizeCheck(t *testing.T) {
	cfg := Default()
	cfg.Maze.Minimal = true
	cfg.Maze.Size = 0
	assert.NoError(t, cfg.validate())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maze: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
