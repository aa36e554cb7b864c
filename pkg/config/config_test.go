package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Loader.NumWorkers != runtime.NumCPU() {
		t.Errorf("NumWorkers = %d, want %d", cfg.Loader.NumWorkers, runtime.NumCPU())
	}
	if cfg.Loader.StrictSpacing {
		t.Error("StrictSpacing should default to false")
	}
	if cfg.Output.SlicesDir == "" {
		t.Error("SlicesDir should have a default")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Missing config file should fall back to defaults, got %v", err)
	}
	if cfg.Loader.NumWorkers != runtime.NumCPU() {
		t.Errorf("Expected default NumWorkers, got %d", cfg.Loader.NumWorkers)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "dicomstack.yaml")

	cfg := DefaultConfig()
	cfg.Loader.NumWorkers = 3
	cfg.Loader.StrictSpacing = true
	cfg.Dataset.ExampleDir = "/srv/datasets/example_ct"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Loader.NumWorkers != 3 {
		t.Errorf("NumWorkers = %d, want 3", loaded.Loader.NumWorkers)
	}
	if !loaded.Loader.StrictSpacing {
		t.Error("StrictSpacing was not preserved")
	}
	if loaded.Dataset.ExampleDir != "/srv/datasets/example_ct" {
		t.Errorf("ExampleDir = %q, want /srv/datasets/example_ct", loaded.Dataset.ExampleDir)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("loader: [not a mapping"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected an error for invalid YAML")
	}
}
