package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	tmp := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("unexpected default address: %s", cfg.Server.Address)
	}
	if cfg.Generation.MaxLength != 300 {
		t.Fatalf("unexpected default max_length: %d", cfg.Generation.MaxLength)
	}
	if cfg.Generation.Timeout != 15*time.Second {
		t.Fatalf("unexpected default timeout: %s", cfg.Generation.Timeout)
	}
	if !cfg.Telemetry.Enabled {
		t.Fatalf("expected telemetry enabled by default")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"server":{"address":":9090"},"generation":{"max_length":120}}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected file value, got %s", cfg.Server.Address)
	}
	if cfg.Generation.MaxLength != 120 {
		t.Fatalf("expected file value, got %d", cfg.Generation.MaxLength)
	}
	// untouched keys keep defaults
	if cfg.Generation.Endpoint == "" {
		t.Fatalf("expected default endpoint to survive partial config")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TRIPPLANNER_SERVER_ADDRESS", ":7070")

	tmp := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":7070" {
		t.Fatalf("expected env override, got %s", cfg.Server.Address)
	}
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for explicitly named missing file")
	}
}

func TestLoadConfigInvalidGeneration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"generation":{"max_length":-1}}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected validation error for negative max_length")
	}
}
