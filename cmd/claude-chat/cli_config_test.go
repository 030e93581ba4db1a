package main

import (
	"os"
	"path/filepath"
	"testing"

	configpkg "github.com/minhyannv/claude-chat/pkg/config"
)

func testBaseConfig(t *testing.T) configpkg.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := configpkg.DefaultConfig()
	cfg.CredentialPath = filepath.Join(dir, configpkg.CredentialFileName)
	cfg.SettingsPath = filepath.Join(dir, configpkg.SettingsFileName)
	return cfg
}

func TestLoadConfigPrecedence(t *testing.T) {
	base := testBaseConfig(t)
	settings := "model: from-settings\nmax_tokens: 300\nbase_url: http://settings.test/v1/\n"
	if err := os.WriteFile(base.SettingsPath, []byte(settings), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	env := map[string]string{configpkg.EnvModel: "from-env"}

	cfg, err := loadConfig(cliFlags{}, func(k string) string { return env[k] }, base)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Model != "from-env" {
		t.Fatalf("env should beat settings, got %q", cfg.Model)
	}
	if cfg.MaxTokens != 300 || cfg.BaseURL != "http://settings.test/v1/" {
		t.Fatalf("settings not applied: %+v", cfg)
	}

	cfg, err = loadConfig(cliFlags{model: "from-flag", verbose: true}, func(k string) string { return env[k] }, base)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Model != "from-flag" || !cfg.Verbose {
		t.Fatalf("flags should win, got %+v", cfg)
	}
}

func TestLoadConfigRejectsBadEnv(t *testing.T) {
	env := map[string]string{configpkg.EnvMaxTokens: "lots"}
	if _, err := loadConfig(cliFlags{}, func(k string) string { return env[k] }, testBaseConfig(t)); err == nil {
		t.Fatal("expected invalid max tokens to be rejected")
	}
}

func TestLoadConfigBadSettingsFile(t *testing.T) {
	base := testBaseConfig(t)
	if err := os.WriteFile(base.SettingsPath, []byte("max_tokens: [1"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if _, err := loadConfig(cliFlags{}, func(string) string { return "" }, base); err == nil {
		t.Fatal("expected settings parse error")
	}
}
