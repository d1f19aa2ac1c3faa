// Package config reads sidecar settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Environment string
	LogLevel    slog.Level
	SocketPath  string
	RulesPath   string // empty means the default doctrine
	Fallback    bool
	MetricsAddr string // empty disables the metrics endpoint
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		SocketPath:  getEnv("GAMBIT_SOCKET", "/tmp/gambit.sock"),
		RulesPath:   getEnv("GAMBIT_RULES", ""),
		Fallback:    parseBool(getEnv("GAMBIT_FALLBACK", "true"), true),
		MetricsAddr: getEnv("GAMBIT_METRICS_ADDR", ""),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(v string, def bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
