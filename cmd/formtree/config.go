package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"
)

// Config holds defaults read from the environment. Flags override them per
// invocation.
type Config struct {
	// Profile is the sanitize profile. ENV: FORMTREE_PROFILE
	Profile string `env:"FORMTREE_PROFILE,default=standard"`
	// Output selects json or yaml. ENV: FORMTREE_OUTPUT
	Output string `env:"FORMTREE_OUTPUT,default=json"`
	// LogLevel is a logrus level name. ENV: FORMTREE_LOG_LEVEL
	LogLevel string `env:"FORMTREE_LOG_LEVEL,default=warn"`
	// SanitizeConfig points at a YAML/JSON sanitize extension file.
	// ENV: FORMTREE_SANITIZE_CONFIG
	SanitizeConfig string `env:"FORMTREE_SANITIZE_CONFIG"`
	// Strict reports unresolved placeholders as validation errors.
	// ENV: FORMTREE_STRICT
	Strict bool `env:"FORMTREE_STRICT,default=false"`
}

func defaultConfig() Config {
	return Config{
		Profile:  "standard",
		Output:   "json",
		LogLevel: "warn",
	}
}

// loadConfig populates Config from the environment. Unset variables keep
// their defaults.
func loadConfig() (Config, error) {
	cfg := defaultConfig()
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("formtree: decode environment: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("formtree: log level: %w", err)
	}
	logger.SetLevel(parsed)
	return logger, nil
}
