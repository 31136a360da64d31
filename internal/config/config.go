// Package config loads gantry's runtime settings.
//
// Sources, lowest priority first: built-in defaults, the global file
// ~/.gantry/config.json, an explicit file passed with --config, and GANTRY_*
// environment variables.
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

	"github.com/alexanderramin/gantry/internal/domain"
)

const envPrefix = "GANTRY_"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds every setting the CLI reads at startup.
type Config struct {
	DBPath             string `koanf:"db_path" validate:"required"`
	DefaultWeekendMode string `koanf:"default_weekend_mode" validate:"oneof=include exclude"`
	LogUseCases        bool   `koanf:"log_use_cases"`
	Color              string `koanf:"color" validate:"oneof=auto always never"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"db_path":              "~/.gantry/gantry.db",
		"default_weekend_mode": string(domain.WeekendExclude),
		"log_use_cases":        false,
		"color":                ColorAuto,
	}
}

// Load merges all sources. An explicit path that does not exist is an
// error; a missing global file is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, ".gantry", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("loading global config: %w", err)
			}
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.DefaultWeekendMode = strings.ToLower(strings.TrimSpace(cfg.DefaultWeekendMode))
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.DBPath = expandHomePath(cfg.DBPath)
	return &cfg, nil
}

// WeekendMode is the mode for projects without a stored schedule.
func (c *Config) WeekendMode() domain.WeekendMode {
	return domain.ParseWeekendMode(c.DefaultWeekendMode)
}

// ColorEnabled resolves the color setting against whether stdout is a TTY.
func (c *Config) ColorEnabled(isTTY bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTTY
	}
}

// envTransform maps GANTRY_DB_PATH to db_path.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
