package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings mirrors the optional YAML preferences file. The credential is
// never read from here; it lives in the credential file.
type Settings struct {
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int64  `yaml:"max_tokens"`
}

// LoadSettings reads the preferences file at path. A missing file yields
// zero Settings and no error.
func LoadSettings(path string) (Settings, error) {
	if strings.TrimSpace(path) == "" {
		return Settings{}, nil
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(content, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if s.MaxTokens < 0 {
		return Settings{}, fmt.Errorf("parse settings %s: max_tokens must not be negative", path)
	}
	return s, nil
}

// Apply overlays the non-zero settings onto cfg.
func (s Settings) Apply(cfg Config) Config {
	if v := strings.TrimSpace(s.Model); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(s.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if s.MaxTokens > 0 {
		cfg.MaxTokens = s.MaxTokens
	}
	return cfg
}
