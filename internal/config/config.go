// Package config loads the CLI's configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	baseURLVar     = "FINTRACK_BASE_URL"
	emailVar       = "FINTRACK_EMAIL"
	csrfVar        = "FINTRACK_CSRF_TOKEN"
	profilePathVar = "FINTRACK_PROFILE_PATH"
	logLevelVar    = "FINTRACK_LOG_LEVEL"
)

// Duration lets YAML carry durations as strings like "5s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, "[config.Duration] parse %q", raw)
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	BaseURL string `yaml:"base_url"`
	Email   string `yaml:"email"`
	// FallbackCSRFToken is used when the server has not yet set a
	// csrftoken cookie.
	FallbackCSRFToken string   `yaml:"csrf_token"`
	RefreshTimeout    Duration `yaml:"refresh_timeout"`
	// ProfilePath is where the user-record mirror is persisted.
	ProfilePath string `yaml:"profile_path"`
	LogLevel    string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		BaseURL:  "http://localhost:8000/api/",
		LogLevel: "info",
	}
}

// Load reads path (skipped when empty or missing) and then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, errors.Wrapf(err, "[config.Load] read %s", path)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Wrapf(err, "[config.Load] parse %s", path)
			}
		}
	}

	cfg.BaseURL = GetEnv(baseURLVar, cfg.BaseURL)
	cfg.Email = GetEnv(emailVar, cfg.Email)
	cfg.FallbackCSRFToken = GetEnv(csrfVar, cfg.FallbackCSRFToken)
	cfg.ProfilePath = GetEnv(profilePathVar, cfg.ProfilePath)
	cfg.LogLevel = GetEnv(logLevelVar, cfg.LogLevel)

	return cfg, nil
}

// GetEnv returns the environment variable's value, or defaultValue when
// unset or empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
