package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnv overrides the default log level when --log-level is not given.
const LogLevelEnv = "CITENET_LOG_LEVEL"

// DefaultLogLevel keeps stderr quiet unless something is wrong.
const DefaultLogLevel = "warn"

// resolveLogLevel picks the flag value, then the environment, then the default.
func resolveLogLevel(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(LogLevelEnv); env != "" {
		return env
	}
	return DefaultLogLevel
}

// newLogger builds a JSON logger writing to stderr, leaving stdout for
// command output.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
