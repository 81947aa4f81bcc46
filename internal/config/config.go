// Package config loads fig's own tool configuration from defaults, the
// global config file, an optional project-local file, and FIG_* environment
// variables, in ascending priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/utensils/fig/internal/notify"
)

// Configuration represents the fig tool configuration
type Configuration struct {
	// PollInterval is the external-change poll fallback interval in seconds.
	PollInterval int `koanf:"poll_interval" validate:"min=1,max=3600"`
	// DefaultTarget is the editing target used when --target is omitted.
	DefaultTarget string `koanf:"default_target" validate:"oneof=global project local mcp"`
	// Color toggles colored terminal output.
	Color bool `koanf:"color"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	// ConfirmDiscard requires confirmation before closing a dirty session.
	ConfirmDiscard bool `koanf:"confirm_discard"`
	// Notifications configures the notifier service.
	Notifications notify.Config `koanf:"notifications"`
}

// GlobalConfigPath returns the path of the global fig config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".fig", "config.json"), nil
}

// Load loads configuration from global, local, and environment sources.
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if globalPath, err := GlobalConfigPath(); err == nil {
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	k.Load(env.Provider("FIG_", ".", envTransform), nil)

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: FIG_POLL_INTERVAL -> poll_interval
// A double underscore descends into nested keys: FIG_NOTIFICATIONS__ENABLED
// -> notifications.enabled
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "FIG_"))
	return strings.ReplaceAll(key, "__", ".")
}
