// Package config provides configuration loading for the refactor-find
// application. All settings come from environment variables; the tool has no
// persisted state and needs no secrets.
package config

import (
	"fmt"
	"os"

	"github.com/sszz-tools/refactor-find/internal/domain"
)

// Environment variable names.
const (
	// EnvLogLevel is the log level (debug, info, error).
	EnvLogLevel = "LOG_LEVEL"

	// EnvLogAppName is the application name for log context.
	EnvLogAppName = "LOG_APP_NAME"

	// EnvStrategy is the default search strategy (linear, binary) used
	// when no --strategy flag is given.
	EnvStrategy = "REFACTOR_FIND_STRATEGY"

	// EnvGitBin overrides the git binary used for diff statistics.
	EnvGitBin = "REFACTOR_FIND_GIT_BIN"
)

// Default values.
const (
	DefaultLogLevel   = "info"
	DefaultLogAppName = "refactor-find"
	DefaultGitBin     = "git"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (debug, info, error).
	LogLevel string

	// LogAppName is the application name for log context.
	LogAppName string

	// Strategy is the default search strategy.
	Strategy string

	// GitBin is the git binary used for diff statistics.
	GitBin string
}

// Load loads the application configuration from environment variables,
// applying defaults for anything unset. Returns domain.ErrUnknownStrategy
// if EnvStrategy names a strategy the finder does not implement.
func Load() (*Config, error) {
	logLevel := os.Getenv(EnvLogLevel)
	if logLevel == "" {
		logLevel = DefaultLogLevel
	}

	logAppName := os.Getenv(EnvLogAppName)
	if logAppName == "" {
		logAppName = DefaultLogAppName
	}

	strategy := os.Getenv(EnvStrategy)
	if strategy == "" {
		strategy = domain.DefaultStrategy
	}
	if strategy != domain.StrategyLinear && strategy != domain.StrategyBinary {
		return nil, fmt.Errorf("%w: %s=%q", domain.ErrUnknownStrategy, EnvStrategy, strategy)
	}

	gitBin := os.Getenv(EnvGitBin)
	if gitBin == "" {
		gitBin = DefaultGitBin
	}

	return &Config{
		LogLevel:   logLevel,
		LogAppName: logAppName,
		Strategy:   strategy,
		GitBin:     gitBin,
	}, nil
}
