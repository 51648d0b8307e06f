package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveUsesEnvPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPath, dir)

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !cfg.EnvVarSet {
		t.Error("EnvVarSet = false, want true")
	}
	if cfg.DBPath != filepath.Join(dir, "library.db") {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Settings != DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", cfg.Settings)
	}
}

func TestResolveFallsBackToWorkingDir(t *testing.T) {
	t.Setenv(EnvPath, "")
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.EnvVarSet {
		t.Error("EnvVarSet = true, want false")
	}
	if filepath.Base(cfg.Dir) != ".salvage" {
		t.Errorf("Dir = %q, want .salvage suffix", cfg.Dir)
	}
}

func TestResolveReadsSettingsFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPath, dir)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("workers = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.Settings.Workers != 8 || cfg.Settings.BatchSize != DefaultBatchSize {
		t.Errorf("Settings = %+v, want workers 8 and default batch size", cfg.Settings)
	}
}

func TestReadSettingsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", "workers = ", "decoding settings"},
		{"unknown key", "threads = 2", "unknown setting"},
		{"zero workers", "workers = 0", "workers must be positive"},
		{"negative batch", "batch_size = -5", "batch_size must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSettings(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestWriteSettingsRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lib")
	t.Setenv(EnvPath, dir)

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	cfg.Settings.BatchSize = 10

	wrote, err := cfg.WriteSettings()
	if err != nil || !wrote {
		t.Fatalf("WriteSettings = %v, %v", wrote, err)
	}
	wrote, err = cfg.WriteSettings()
	if err != nil || wrote {
		t.Errorf("second WriteSettings = %v, %v; want false, nil", wrote, err)
	}

	again, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if again.Settings.BatchSize != 10 {
		t.Errorf("BatchSize = %d, want 10", again.Settings.BatchSize)
	}
}

func TestWriteSettingsReportsCreateFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		Dir:          dir,
		SettingsPath: filepath.Join(dir, "missing", "config.toml"),
		Settings:     DefaultSettings(),
	}

	wrote, err := cfg.WriteSettings()
	if err == nil || wrote {
		t.Errorf("WriteSettings = %v, %v; want false and an error", wrote, err)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPath, dir)
	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if ok, err := cfg.Exists(); err != nil || ok {
		t.Errorf("Exists = %v, %v before db created", ok, err)
	}
	if err := os.WriteFile(cfg.DBPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, err := cfg.Exists(); err != nil || !ok {
		t.Errorf("Exists = %v, %v after db created", ok, err)
	}
}
