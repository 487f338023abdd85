// Package config loads quizmaze settings from an optional YAML file with
// environment overrides. Missing files fall back to defaults, so the game
// runs with zero setup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no --config flag is given.
const DefaultPath = "quizmaze.yaml"

// Config holds all quizmaze configuration.
type Config struct {
	// DatabasePath selects the persistence backend by suffix:
	// *.json for the JSON document store, anything else for SQLite.
	DatabasePath string `yaml:"database_path"`

	// Player is the default handle used when --player is not given.
	Player string `yaml:"player"`

	Maze    MazeConfig    `yaml:"maze"`
	Logging LoggingConfig `yaml:"logging"`
}

// MazeConfig configures the generated maze for new games.
type MazeConfig struct {
	Size  int   `yaml:"size"`
	Seed  int64 `yaml:"seed"`
	Gates int   `yaml:"gates"`

	// Minimal switches new games to the fixed 3x3 walking skeleton.
	Minimal bool `yaml:"minimal"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DatabasePath: "quizmaze.db",
		Player:       "player",
		Maze: MazeConfig{
			Size:  5,
			Seed:  42,
			Gates: 2,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the YAML file at path, applies environment overrides, and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment variables override file values. QUIZMAZE_SEED accepts any
// int64; non-numeric values are ignored.
func (c *Config) applyEnv() {
	if v := os.Getenv("QUIZMAZE_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("QUIZMAZE_PLAYER"); v != "" {
		c.Player = v
	}
	if v := os.Getenv("QUIZMAZE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("QUIZMAZE_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Maze.Seed = seed
		}
	}
}

func (c *Config) validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.Maze.Size < 2 && !c.Maze.Minimal {
		return fmt.Errorf("maze size must be at least 2, got %d", c.Maze.Size)
	}
	if c.Maze.Gates < 1 {
		return fmt.Errorf("maze gates must be at least 1, got %d", c.Maze.Gates)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
