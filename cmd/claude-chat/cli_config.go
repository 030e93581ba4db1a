package main

import (
	"strings"

	"github.com/joho/godotenv"

	configpkg "github.com/minhyannv/claude-chat/pkg/config"
)

// loadDotEnv reads ./.env into the process environment. Variables that are
// already set are left alone.
func loadDotEnv() {
	_ = godotenv.Load()
}

// loadConfig layers settings file, environment and flags over base.
func loadConfig(flags cliFlags, getenv func(string) string, base configpkg.Config) (configpkg.Config, error) {
	cfg := configpkg.Normalize(base)

	settings, err := configpkg.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return cfg, err
	}
	cfg = settings.Apply(cfg)

	cfg, err = configpkg.ApplyEnv(cfg, getenv)
	if err != nil {
		return cfg, err
	}

	if model := strings.TrimSpace(flags.model); model != "" {
		cfg.Model = model
	}
	cfg.Verbose = flags.verbose
	return configpkg.Normalize(cfg), nil
}
