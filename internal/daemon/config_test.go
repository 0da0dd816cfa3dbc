package daemon

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 7465 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 7465)
	}
	if cfg.Coach.ConsistencyMaxWindow != 30 {
		t.Errorf("Coach.ConsistencyMaxWindow = %d, want %d", cfg.Coach.ConsistencyMaxWindow, 30)
	}
	if cfg.Narrative.Enabled {
		t.Error("Narrative.Enabled should default to false")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("STRIDE_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9100
	cfg.User.Email = "alice@example.com"
	cfg.Coach.ProvingHits = 6

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.API.Port != 9100 {
		t.Errorf("API.Port = %d, want 9100", loaded.API.Port)
	}
	if loaded.User.Email != "alice@example.com" {
		t.Errorf("User.Email = %q, want alice@example.com", loaded.User.Email)
	}
	if loaded.Coach.ProvingHits != 6 {
		t.Errorf("Coach.ProvingHits = %d, want 6", loaded.Coach.ProvingHits)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STRIDE_HOME", filepath.Join(t.TempDir(), "nope"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Errorf("expected default port, got %d", cfg.API.Port)
	}
}
