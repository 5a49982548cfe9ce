package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.API.BaseURL != "http://localhost:3001" {
		t.Errorf("api.base_url = %q, want http://localhost:3001", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != "10s" {
		t.Errorf("api.timeout = %q, want 10s", cfg.API.Timeout)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("storage.backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Language.Default != "ar" {
		t.Errorf("language.default = %q, want ar", cfg.Language.Default)
	}
	if cfg.TUI.Theme != "auto" {
		t.Errorf("tui.theme = %q, want auto", cfg.TUI.Theme)
	}
	if cfg.Update.Repo == "" {
		t.Error("update.repo should have a default value")
	}
}

func TestAPITimeout(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"10s", 10 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"", 10 * time.Second},
		{"soon", 10 * time.Second},
		{"-1s", 10 * time.Second},
	}
	for _, tt := range tests {
		cfg := Defaults()
		cfg.API.Timeout = tt.in
		if got := cfg.APITimeout(); got != tt.want {
			t.Errorf("APITimeout(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("MAFQUDAT_CONFIG_DIR", tmp)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Should return defaults when config file doesn't exist
	if cfg.API.BaseURL != "http://localhost:3001" {
		t.Errorf("api.base_url = %q, want default", cfg.API.BaseURL)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("MAFQUDAT_CONFIG_DIR", tmp)

	cfg := Defaults()
	cfg.API.BaseURL = "http://10.0.2.2:3001"
	cfg.Storage.Backend = "sqlite"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(filepath.Join(tmp, "config.yaml")); err != nil {
		t.Fatalf("config.yaml not created: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.API.BaseURL != "http://10.0.2.2:3001" {
		t.Errorf("loaded base_url = %q, want http://10.0.2.2:3001", loaded.API.BaseURL)
	}
	if loaded.Storage.Backend != "sqlite" {
		t.Errorf("loaded backend = %q, want sqlite", loaded.Storage.Backend)
	}
	// Untouched fields keep their defaults
	if loaded.Language.Default != "ar" {
		t.Errorf("loaded language.default = %q, want ar", loaded.Language.Default)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("MAFQUDAT_CONFIG_DIR", tmp)

	data := []byte("api:\n  timeout: 3s\n")
	if err := os.WriteFile(filepath.Join(tmp, "config.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Timeout != "3s" {
		t.Errorf("api.timeout = %q, want 3s", cfg.API.Timeout)
	}
	if cfg.API.BaseURL != "http://localhost:3001" {
		t.Errorf("api.base_url = %q, want default", cfg.API.BaseURL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("MAFQUDAT_CONFIG_DIR", tmp)
	t.Setenv("MAFQUDAT_API_BASE_URL", "http://api.example.iq")
	t.Setenv("MAFQUDAT_STORAGE_BACKEND", "sqlite")

	if err := Save(Defaults()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != "http://api.example.iq" {
		t.Errorf("api.base_url = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("storage.backend = %q, want sqlite", cfg.Storage.Backend)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("MAFQUDAT_CONFIG_DIR", tmp)

	if err := os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte("api: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load() should fail on malformed YAML")
	}
	if cfg.API.BaseURL != Defaults().API.BaseURL {
		t.Error("Load() should return defaults alongside the error")
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"MAFQUDAT_API_BASE_URL":     "api.base_url",
		"MAFQUDAT_LANGUAGE_DEFAULT": "language.default",
		"MAFQUDAT_TUI_THEME":        "tui.theme",
		"MAFQUDAT_DEBUG":            "debug",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsFirstRun(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("MAFQUDAT_CONFIG_DIR", tmp)

	if !IsFirstRun() {
		t.Error("IsFirstRun() = false, want true (no config.yaml)")
	}

	if err := Save(Defaults()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if IsFirstRun() {
		t.Error("IsFirstRun() = true, want false (config.yaml exists)")
	}
}
