package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/terraincognita07/healthlog/internal/logger"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port            string
	SecretKey       string
	Location        *time.Location
	DefaultLanguage string
	CookieSecure    bool
	CleanupToken    string
	PDFFontPath     string
	ClinicEmail     string

	DB     DBConfig
	SMTP   SMTPConfig
	Redis  RedisConfig
	Logger logger.Config
}

type DBConfig struct {
	Driver string
	Path   string
	URL    string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Configured reports whether outbound mail can be attempted at all.
func (cfg SMTPConfig) Configured() bool {
	return cfg.Host != "" && cfg.From != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (cfg RedisConfig) Enabled() bool {
	return cfg.Addr != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	secretKey, err := ResolveSecretKey()
	if err != nil {
		return nil, err
	}
	port, err := ResolvePort()
	if err != nil {
		return nil, err
	}
	smtpPort, err := parseIntEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	redisDB, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "sqlite"))
	if driver != "sqlite" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if driver == "postgres" && databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
	}

	return &Config{
		Port:            port,
		SecretKey:       secretKey,
		Location:        LoadLocation(getEnv("TZ", "Asia/Bangkok")),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "th"),
		CookieSecure:    parseBoolEnv("COOKIE_SECURE"),
		CleanupToken:    strings.TrimSpace(os.Getenv("CLEANUP_TOKEN")),
		PDFFontPath:     strings.TrimSpace(os.Getenv("PDF_FONT_PATH")),
		ClinicEmail:     getEnv("CLINIC_EMAIL", "clinic@example.com"),
		DB: DBConfig{
			Driver: driver,
			Path:   getEnv("DB_PATH", filepath.Join("data", "healthlog.db")),
			URL:    databaseURL,
		},
		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
			Port:     smtpPort,
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     strings.TrimSpace(os.Getenv("SMTP_FROM")),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: logger.Config{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
	}, nil
}

func ResolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func ResolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

// LoadLocation falls back to UTC for unknown zone names.
func LoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func parseIntEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return value, nil
}

func parseBoolEnv(key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && value
}
