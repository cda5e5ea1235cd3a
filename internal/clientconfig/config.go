// Package clientconfig loads desktop client settings from the environment,
// overridable by command-line flags.
package clientconfig

import (
	"flag"
	"os"
	"time"
)

type Config struct {
	APIURL       string
	Username     string
	PollInterval time.Duration
	Timeout      time.Duration
	LogLevel     string
}

func Load(args []string) (*Config, error) {
	cfg := &Config{
		APIURL:       getEnv("CLIPSYNC_API_URL", "http://localhost:8000"),
		Username:     getEnv("CLIPSYNC_USERNAME", ""),
		PollInterval: parseDuration(getEnv("CLIPSYNC_POLL_INTERVAL", "30s"), 30*time.Second),
		Timeout:      parseDuration(getEnv("CLIPSYNC_TIMEOUT", "10s"), 10*time.Second),
		LogLevel:     getEnv("CLIPSYNC_LOG_LEVEL", "warn"),
	}

	fs := flag.NewFlagSet("clipsync", flag.ContinueOnError)
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "sync gateway base URL")
	fs.StringVar(&cfg.Username, "user", cfg.Username, "username to log in as")
	fs.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "clipboard fallback poll interval")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "gateway request timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
