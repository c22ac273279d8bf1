package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"livestock-client/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != config.DefaultAPIURL {
		t.Fatalf("api url = %q", cfg.APIURL)
	}
	if cfg.TimeoutSeconds != config.DefaultTimeoutSeconds {
		t.Fatalf("timeout = %d", cfg.TimeoutSeconds)
	}
	if cfg.DataDir == "" {
		t.Fatalf("data dir empty")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("api_url: https://farm.example.com/api\ntimeout_seconds: 30\nlog:\n  level: debug\n  format: json\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://farm.example.com/api" {
		t.Fatalf("api url = %q", cfg.APIURL)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Fatalf("timeout = %v", cfg.Timeout())
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log config = %+v", cfg.Log)
	}
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != config.DefaultAPIURL {
		t.Fatalf("api url = %q", cfg.APIURL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: https://file.example.com/api\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("LIVESTOCK_API_URL", "https://env.example.com/api")
	t.Setenv("LIVESTOCK_TIMEOUT_SECONDS", "7")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://env.example.com/api" {
		t.Fatalf("env must win over file, got %q", cfg.APIURL)
	}
	if cfg.TimeoutSeconds != 7 {
		t.Fatalf("timeout = %d", cfg.TimeoutSeconds)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: [broken\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv("LIVESTOCK_CONFIG", "/tmp/custom.yaml")
	if got := config.DefaultPath(); got != "/tmp/custom.yaml" {
		t.Fatalf("default path = %q", got)
	}
}
