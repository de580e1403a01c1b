package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds settings for the API server and the authctl CLI.
type Config struct {
	DatabaseURL     string        `koanf:"database_url"`
	Port            string        `koanf:"port"`
	HashScheme      string        `koanf:"hash_scheme"`
	LogLevel        string        `koanf:"log_level"`
	AllowedOrigins  []string      `koanf:"cors_allowed_origins"`
	AuditEnabled    bool          `koanf:"audit_enabled"`
	DBMaxOpenConns  int           `koanf:"db_max_open_conns"`
	DBQueryTimeout  time.Duration `koanf:"db_query_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Version         string        `koanf:"version"`
}

// Load reads the API configuration from the environment. A missing database
// connection string is fatal.
func Load() *Config {
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		panic(err.Error())
	}
	return cfg
}

// FromEnv reads the environment without validating.
func FromEnv() *Config {
	return &Config{
		DatabaseURL:     os.Getenv("DB_CONNECTION_STRING"),
		Port:            getenv("PORT", "8080"),
		HashScheme:      getenv("HASH_SCHEME", "sha256"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		AllowedOrigins:  getenvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AuditEnabled:    getenvBool("AUDIT_ENABLED", false),
		DBMaxOpenConns:  getenvInt("DB_MAX_OPEN_CONNS", 20),
		DBQueryTimeout:  getenvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		ShutdownTimeout: getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Version:         getenv("APP_VERSION", "unknown"),
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DB_CONNECTION_STRING environment variable is required")
	}
	return nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
