package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY",
		"DEBUG", "WORKSPACE_PATH", "HOST", "PORT", "WORKERS", "LOG_LEVEL",
	}
	for _, v := range vars {
		old, had := os.LookupEnv(v)
		os.Unsetenv(v)
		t.Cleanup(func() {
			if had {
				os.Setenv(v, old)
			}
		})
	}
}

func TestLoad_DefaultsWhenNothingConfigured(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != 8080 || cfg.Host != "127.0.0.1" || cfg.WorkspacePath != "." {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[keys]\nanthropic = \"file-key\"\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	os.Setenv("ANTHROPIC_API_KEY", "env-key")
	os.Setenv("PORT", "9090")
	os.Setenv("DEBUG", "true")

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKeys.Anthropic != "env-key" {
		t.Fatalf("expected env var to win over file, got %q", cfg.APIKeys.Anthropic)
	}
	if cfg.Port != 9090 {
		t.Fatalf("expected PORT override, got %d", cfg.Port)
	}
	if !cfg.Debug {
		t.Fatal("expected DEBUG=true to enable debug mode")
	}
}

func TestIsTruthy(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "YES": true, "on": true,
		"0": false, "false": false, "": false, "nah": false,
	}
	for in, want := range cases {
		if got := isTruthy(in); got != want {
			t.Errorf("isTruthy(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestResolveWorkspacePath_FlagOverridesConfig(t *testing.T) {
	clearEnv(t)
	cfg := Defaults()
	cfg.WorkspacePath = "/configured"

	got, err := cfg.ResolveWorkspacePath("/from-flag")
	if err != nil {
		t.Fatalf("ResolveWorkspacePath: %v", err)
	}
	if got != "/from-flag" {
		t.Fatalf("expected flag value to win, got %q", got)
	}
}
