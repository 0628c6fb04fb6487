// Package config resolves the process's configuration from, in priority
// order: an optional on-disk TOML file, an optional .env file (loaded via
// godotenv for local development), and finally environment variables,
// which always win. There is no required config file: every setting
// here has an environment-variable path and a usable default.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/sandboxagent/sandboxagent/internal/llm"
	"github.com/sandboxagent/sandboxagent/internal/providers"
)

// Config is the fully resolved process configuration.
type Config struct {
	APIKeys       APIKeys
	RoleModels    llm.RoleModels
	Debug         bool
	WorkspacePath string
	Host          string
	Port          int
	Workers       int
	LogLevel      string
}

// APIKeys holds the provider credentials consumed by internal/providers.
type APIKeys struct {
	Anthropic string `toml:"anthropic"`
	OpenAI    string `toml:"openai"`
	Gemini    string `toml:"gemini"`
}

// fileConfig is the on-disk TOML shape, kept minimal: API keys and
// per-role model overrides, the two settings worth persisting between
// runs. Everything else is environment/flag-only.
type fileConfig struct {
	Keys   APIKeys           `toml:"keys"`
	Models map[string]string `toml:"models"`
}

// Defaults returns the configuration this system runs with when no file,
// .env, or environment variable overrides any setting.
func Defaults() Config {
	return Config{
		RoleModels:    llm.RoleModels{},
		WorkspacePath: ".",
		Host:          "127.0.0.1",
		Port:          8080,
		Workers:       4,
		LogLevel:      "info",
	}
}

// Load resolves configuration for one process invocation. path is an
// optional TOML config file (may not exist); envProfile, when non-empty,
// loads "<envProfile>.env" via godotenv before reading the process
// environment.
func Load(path, envProfile string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err == nil {
			cfg.APIKeys = fc.Keys
			if len(fc.Models) > 0 {
				cfg.RoleModels = rolesFromStrings(fc.Models)
			}
		}
		// A missing or unparsable file is not fatal — config is layered,
		// not required.
	}

	if envProfile != "" {
		_ = godotenv.Load(envProfile + ".env")
	} else {
		_ = godotenv.Load() // best-effort local .env, ignored if absent
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func rolesFromStrings(m map[string]string) llm.RoleModels {
	out := make(llm.RoleModels, len(m))
	for role, model := range m {
		out[providers.Role(role)] = model
	}
	return out
}

// applyEnvOverrides folds the recognized environment variables
// over whatever the file/.env layers produced; these always win.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.APIKeys.Gemini = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.APIKeys.Anthropic = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.APIKeys.OpenAI = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		cfg.Debug = isTruthy(v)
	}
	if v := os.Getenv("WORKSPACE_PATH"); v != "" {
		cfg.WorkspacePath = v
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if w, err := strconv.Atoi(v); err == nil {
			cfg.Workers = w
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// ToAPIKeysMap converts APIKeys into the map[string]string shape
// internal/providers.NewProvider and HasKeyFor expect, keyed by provider
// type rather than model ID.
func (c Config) ToAPIKeysMap() map[string]string {
	return map[string]string{
		"anthropic": c.APIKeys.Anthropic,
		"openai":    c.APIKeys.OpenAI,
		"gemini":    c.APIKeys.Gemini,
	}
}

// ResolveWorkspacePath returns an absolute workspace path, letting an
// explicit --workspace flag value override WORKSPACE_PATH.
func (c Config) ResolveWorkspacePath(flagValue string) (string, error) {
	path := c.WorkspacePath
	if flagValue != "" {
		path = flagValue
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return abs, nil
}
