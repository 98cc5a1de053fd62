package goBlog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectConfigFile is read from the working directory.
	ProjectConfigFile = "goblog.yaml"
	// UserConfigDir is relative to the home directory.
	UserConfigDir = ".config/goblog"
	// UserConfigFile lives in UserConfigDir.
	UserConfigFile = "config.yaml"

	EnvServer    = "GOBLOG_SERVER"
	EnvStore     = "GOBLOG_STORE"
	EnvRedisAddr = "GOBLOG_REDIS_ADDR"
)

// DefaultConfigPaths lists the user config then the project config. Later
// files override earlier ones.
func DefaultConfigPaths() []string {
	paths := make([]string, 0, 2)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, UserConfigDir, UserConfigFile))
	}
	return append(paths, ProjectConfigFile)
}

// LoadConfig layers DefaultConfig, each existing YAML file in paths, and the
// GOBLOG_* environment, then validates the result. Missing files are skipped.
func LoadConfig(logger *slog.Logger, paths ...string) (Config, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cfg := DefaultConfig()
	for _, path := range paths {
		loaded, err := decodeConfigFile(path, &cfg)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			logger.Debug("loaded config", slog.String("path", path))
		}
	}

	ApplyEnv(&cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from getenv. Empty values are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvServer); v != "" {
		cfg.API.BaseURL = v
	}
	if v := getenv(EnvStore); v != "" {
		cfg.Session.Backend = SessionBackend(v)
	}
	if v := getenv(EnvRedisAddr); v != "" {
		cfg.Session.RedisAddr = v
	}
}

// SaveConfig writes cfg as YAML, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func decodeConfigFile(path string, cfg *Config) (bool, error) {
	if path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("parse config %s: %w", path, err)
	}
	return true, nil
}
