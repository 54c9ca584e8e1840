// Package config resolves tigre settings from defaults, the config file in the tigre
// home directory, a .env file next to it, and TIGRE_* environment variables, in that
// order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"tigre/pkg/protocol"
)

// Storage kinds.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// HomeEnv names the variable that relocates the tigre home directory.
const HomeEnv = "TIGRE_HOME"

// Config holds resolved settings. Home is never read from a file.
type Config struct {
	Home               string `toml:"-" yaml:"-"`
	Storage            string `toml:"storage" yaml:"storage" env:"TIGRE_STORAGE"`
	DBPath             string `toml:"db_path" yaml:"db_path" env:"TIGRE_DB_PATH"`
	Presets            []int  `toml:"presets" yaml:"presets" env:"TIGRE_PRESETS" envSeparator:","`
	DefaultPreset      int    `toml:"default_preset" yaml:"default_preset" env:"TIGRE_DEFAULT_PRESET"`
	DevRunSeconds      int    `toml:"dev_run_seconds" yaml:"dev_run_seconds" env:"TIGRE_DEV_RUN_SECONDS"`
	UnlockToastSeconds int    `toml:"unlock_toast_seconds" yaml:"unlock_toast_seconds" env:"TIGRE_UNLOCK_TOAST_SECONDS"`
	LockedToastSeconds int    `toml:"locked_toast_seconds" yaml:"locked_toast_seconds" env:"TIGRE_LOCKED_TOAST_SECONDS"`
	LogLevel           string `toml:"log_level" yaml:"log_level" env:"TIGRE_LOG_LEVEL"`
}

// Default returns the built-in settings rooted at home.
func Default(home string) *Config {
	return &Config{
		Home:               home,
		Storage:            StorageSQLite,
		DBPath:             filepath.Join(home, protocol.StateDBFile),
		Presets:            []int{15, 20, 45},
		DefaultPreset:      15,
		DevRunSeconds:      5,
		UnlockToastSeconds: 5,
		LockedToastSeconds: 5,
		LogLevel:           "info",
	}
}

// ResolveHome returns $TIGRE_HOME or ~/.tigre.
func ResolveHome() (string, error) {
	if v := os.Getenv(HomeEnv); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, protocol.TigreDir), nil
}

// Load resolves the configuration for the current process.
func Load() (*Config, error) {
	home, err := ResolveHome()
	if err != nil {
		return nil, err
	}
	return LoadFrom(home, os.Environ())
}

// LoadFrom resolves the configuration rooted at home using environ (KEY=VALUE pairs)
// as the process environment. The environment is never modified.
func LoadFrom(home string, environ []string) (*Config, error) {
	cfg := Default(home)

	if err := readFile(cfg, home); err != nil {
		return nil, err
	}

	vars, err := mergeEnv(filepath.Join(home, ".env"), environ)
	if err != nil {
		return nil, err
	}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile applies config.toml, or config.yaml when no TOML file exists.
func readFile(cfg *Config, home string) error {
	tomlPath := filepath.Join(home, "config.toml")
	data, err := os.ReadFile(tomlPath) //nolint:gosec // path is under the tigre home
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", tomlPath, err)
		}
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read %s: %w", tomlPath, err)
	}

	yamlPath := filepath.Join(home, "config.yaml")
	data, err = os.ReadFile(yamlPath) //nolint:gosec // path is under the tigre home
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", yamlPath, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read %s: %w", yamlPath, err)
	}
	return nil
}

// mergeEnv layers environ over the .env file at path. Variables already present in
// environ win.
func mergeEnv(path string, environ []string) (map[string]string, error) {
	vars := map[string]string{}
	dot, err := godotenv.Read(path)
	switch {
	case err == nil:
		for k, v := range dot {
			vars[k] = v
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}
	return vars, nil
}

// Validate rejects settings the rest of the program cannot honour.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("storage %q: want %s or %s", c.Storage, StorageSQLite, StorageFile)
	}
	if c.Storage == StorageSQLite && c.DBPath == "" {
		return errors.New("db_path must be set for sqlite storage")
	}
	if len(c.Presets) == 0 {
		return errors.New("at least one preset is required")
	}
	for _, p := range c.Presets {
		if p <= 0 {
			return fmt.Errorf("preset %d: minutes must be positive", p)
		}
	}
	if !slices.Contains(c.Presets, c.DefaultPreset) {
		return fmt.Errorf("default preset %d is not one of %v", c.DefaultPreset, c.Presets)
	}
	if c.DevRunSeconds <= 0 {
		return fmt.Errorf("dev_run_seconds %d: must be positive", c.DevRunSeconds)
	}
	if c.UnlockToastSeconds <= 0 || c.LockedToastSeconds <= 0 {
		return errors.New("toast durations must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// FilesDir is where the file backend keeps its JSON documents.
func (c *Config) FilesDir() string {
	return filepath.Join(c.Home, protocol.FilesDir)
}

// LogPath is the log file used while the focus screen owns the terminal.
func (c *Config) LogPath() string {
	return filepath.Join(c.Home, protocol.LogFile)
}

// StatePath is the path whose changes indicate another process wrote the store.
func (c *Config) StatePath() string {
	if c.Storage == StorageFile {
		return c.FilesDir()
	}
	return c.DBPath
}
