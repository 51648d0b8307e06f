package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	dbFileName       = "library.db"
	settingsFileName = "config.toml"

	// EnvPath overrides the library directory.
	EnvPath = "SALVAGE_PATH"

	DefaultWorkers   = 4
	DefaultBatchSize = 50
)

// Settings holds the tunables read from config.toml.
type Settings struct {
	Workers   int `toml:"workers"`    // concurrent row extractors
	BatchSize int `toml:"batch_size"` // records per import transaction
}

// DefaultSettings returns the settings used when no config.toml exists.
func DefaultSettings() Settings {
	return Settings{Workers: DefaultWorkers, BatchSize: DefaultBatchSize}
}

// Config holds resolved configuration for the library directory and database.
type Config struct {
	Dir          string   // resolved .salvage directory path
	DBPath       string   // full path to library.db
	SettingsPath string   // full path to config.toml
	EnvVarSet    bool     // whether SALVAGE_PATH was used
	Settings     Settings // merged defaults and config.toml
}

// Resolve returns the current configuration by checking SALVAGE_PATH first,
// then falling back to $PWD/.salvage. A config.toml in that directory
// overrides the default settings; a missing file is not an error.
func Resolve() (*Config, error) {
	var dir string
	var envVarSet bool

	if envPath := os.Getenv(EnvPath); envPath != "" {
		dir = envPath
		envVarSet = true
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(cwd, ".salvage")
	}

	cfg := &Config{
		Dir:          dir,
		DBPath:       filepath.Join(dir, dbFileName),
		SettingsPath: filepath.Join(dir, settingsFileName),
		EnvVarSet:    envVarSet,
		Settings:     DefaultSettings(),
	}

	f, err := os.Open(cfg.SettingsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}
	defer f.Close()

	s, err := ReadSettings(f)
	if err != nil {
		return nil, fmt.Errorf("reading settings from %s: %w", cfg.SettingsPath, err)
	}
	cfg.Settings = s
	return cfg, nil
}

// ReadSettings decodes settings from r. Keys absent from the document keep
// their defaults; non-positive values are rejected.
func ReadSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("unknown setting %q", undecoded[0].String())
	}
	if s.Workers <= 0 {
		return Settings{}, fmt.Errorf("workers must be positive, got %d", s.Workers)
	}
	if s.BatchSize <= 0 {
		return Settings{}, fmt.Errorf("batch_size must be positive, got %d", s.BatchSize)
	}
	return s, nil
}

// WriteSettings creates config.toml with the current settings unless one
// already exists. It reports whether a file was written.
func (c *Config) WriteSettings() (bool, error) {
	if _, err := os.Stat(c.SettingsPath); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return false, fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.Create(c.SettingsPath)
	if err != nil {
		return false, fmt.Errorf("creating settings file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c.Settings); err != nil {
		f.Close()
		return false, fmt.Errorf("writing settings to %s: %w", c.SettingsPath, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("closing settings file %s: %w", c.SettingsPath, err)
	}
	return true, nil
}

// Exists checks if the library directory and DB file both exist.
// It returns an error for non-existence failures (e.g. permission errors).
func (c *Config) Exists() (bool, error) {
	if _, err := os.Stat(c.Dir); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if _, err := os.Stat(c.DBPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
