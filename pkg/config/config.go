package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultAPIKeyEnv       = "ANTHROPIC_API_KEY"
	DefaultBaseURL         = "https://api.anthropic.com/v1/"
	DefaultModel           = "claude-3-5-sonnet-20241022"
	DefaultMaxTokens       = 1000
	DefaultVerifyMaxTokens = 50

	CredentialFileName = ".claude_config.json"
	SettingsFileName   = ".claude_chat.yaml"

	EnvModel     = "CLAUDE_CHAT_MODEL"
	EnvBaseURL   = "CLAUDE_CHAT_BASE_URL"
	EnvMaxTokens = "CLAUDE_CHAT_MAX_TOKENS"
)

// Config holds all runtime configuration for the chat client.
type Config struct {
	APIKeyEnv      string
	CredentialPath string
	SettingsPath   string

	BaseURL         string
	Model           string
	MaxTokens       int64
	VerifyMaxTokens int64

	Verbose bool
}

// DefaultConfig returns a baseline configuration rooted at the user's home
// directory. It does not touch the filesystem.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		APIKeyEnv:       DefaultAPIKeyEnv,
		CredentialPath:  filepath.Join(home, CredentialFileName),
		SettingsPath:    filepath.Join(home, SettingsFileName),
		BaseURL:         DefaultBaseURL,
		Model:           DefaultModel,
		MaxTokens:       DefaultMaxTokens,
		VerifyMaxTokens: DefaultVerifyMaxTokens,
	}
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) Config {
	cfg.APIKeyEnv = strings.TrimSpace(cfg.APIKeyEnv)
	cfg.CredentialPath = strings.TrimSpace(cfg.CredentialPath)
	cfg.SettingsPath = strings.TrimSpace(cfg.SettingsPath)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)

	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.VerifyMaxTokens <= 0 {
		cfg.VerifyMaxTokens = DefaultVerifyMaxTokens
	}
	return cfg
}

// ApplyEnv overlays the CLAUDE_CHAT_* environment overrides onto cfg.
func ApplyEnv(cfg Config, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvModel)); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvMaxTokens)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid %s %q: must be a positive integer", EnvMaxTokens, v)
		}
		cfg.MaxTokens = n
	}
	return cfg, nil
}
