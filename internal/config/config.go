package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	Port              string
	DBConn            string
	LogLevel          string
	JWTSecret         string
	Storage           string
	MigrationsOnStart bool

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBConn:            getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=messages sslmode=disable"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:         getEnv("JWT_SECRET_KEY", ""),
		Storage:           getEnv("STORAGE", StoragePostgres),
		MigrationsOnStart: getEnvBool("MIGRATIONS_ON_START", false),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		SenderEmail:       getEnv("SENDER_EMAIL", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DBConn == "" {
			return nil, fmt.Errorf("DB_CONN is required")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE %q", cfg.Storage)
	}
	if cfg.SMTPHost != "" && cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SENDER_EMAIL is required when SMTP_HOST is set")
	}

	return cfg, nil
}

// MailEnabled reports whether outgoing mail is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultVal
	}
	return b
}
