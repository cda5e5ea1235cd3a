package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port            string
	CORSOrigins     string
	RateLimitPerMin int
	BodyLimitMB     int
	LogLevel        string

	// Token issuance. An empty secret keeps the placeholder token.
	JWTSecret    string
	JWTExpiry    time.Duration
	RequireToken bool

	// Seed the demo account on startup
	SeedDemo bool

	// Optional write-through persistence
	DBEnabled  bool
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8000"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		RateLimitPerMin: parseInt(getEnv("RATE_LIMIT_PER_MIN", "600"), 600),
		BodyLimitMB:     parseInt(getEnv("BODY_LIMIT_MB", "4"), 4),
		LogLevel:        getEnv("LOG_LEVEL", "info"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiry:    parseDuration(getEnv("JWT_EXPIRY", "168h")),
		RequireToken: parseBool(getEnv("REQUIRE_TOKEN", "false")),

		SeedDemo: parseBool(getEnv("SEED_DEMO", "false")),

		DBEnabled:  parseBool(getEnv("DB_ENABLED", "false")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "clipsync"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 168 * time.Hour
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
