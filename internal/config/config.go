// internal/config/config.go

// Package config reads client settings from the environment. Every
// setting has a workable default, so an empty environment yields a
// client pointed at a local server.
package config

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults applied when the corresponding variable is unset or
// unparsable.
const (
	DefaultServerURL = "ws://localhost:8080/ws"
	DefaultBaseDelay = 500 * time.Millisecond
	DefaultCapDelay  = 4 * time.Second
)

// Config holds the resolved client settings.
type Config struct {
	ServerURL   string
	PlayerName  string
	LogLevel    logrus.Level
	MetricsAddr string // empty disables the metrics endpoint
	BaseDelay   time.Duration
	CapDelay    time.Duration
}

// Load resolves the configuration from the environment.
func Load() Config {
	return Config{
		ServerURL:   getEnv("CTD_WS_URL", DefaultServerURL),
		PlayerName:  os.Getenv("CTD_PLAYER_NAME"),
		LogLevel:    getEnvLevel("CTD_LOG_LEVEL", logrus.InfoLevel),
		MetricsAddr: os.Getenv("CTD_METRICS_ADDR"),
		BaseDelay:   getEnvDuration("CTD_RECONNECT_BASE", DefaultBaseDelay),
		CapDelay:    getEnvDuration("CTD_RECONNECT_CAP", DefaultCapDelay),
	}
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvDuration parses a duration from the environment or returns a
// default.
func getEnvDuration(key string, defVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defVal
	}
	return d
}

// getEnvLevel parses a logrus level from the environment or returns a
// default.
func getEnvLevel(key string, defVal logrus.Level) logrus.Level {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	level, err := logrus.ParseLevel(v)
	if err != nil {
		return defVal
	}
	return level
}
