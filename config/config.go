package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Env           string        `yaml:"env"`
	Port          string        `yaml:"port"`
	StorageDriver string        `yaml:"storage_driver"`
	DatabaseURL   string        `yaml:"database_url"`
	Timezone      string        `yaml:"timezone"`
	CORSOrigins   string        `yaml:"cors_origins"`
	Auth          AuthConfig    `yaml:"auth"`
	Stripe        StripeConfig  `yaml:"stripe"`
	Redis         RedisConfig   `yaml:"redis"`
	SMTP          SMTPConfig    `yaml:"smtp"`
	Cloudinary    CloudinaryCfg `yaml:"cloudinary"`
	Jobs          JobsConfig    `yaml:"jobs"`
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	Currency      string `yaml:"currency"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// CloudinaryCfg holds Cloudinary configuration
type CloudinaryCfg struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

type JobsConfig struct {
	ReminderSchedule  string        `yaml:"reminder_schedule"`
	ExpirySchedule    string        `yaml:"expiry_schedule"`
	PendingBookingTTL time.Duration `yaml:"pending_booking_ttl"`
}

// Load reads configuration from the environment (after loading .env when
// present) and overlays the YAML file at path when path is not empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables directly")
	}

	cfg := &Config{
		Env:           getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8000"),
		StorageDriver: getEnv("STORAGE_DRIVER", DriverMemory),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Timezone:      getEnv("APP_TIMEZONE", "America/Sao_Paulo"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			TokenTTL:        getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
			RefreshTokenTTL: getEnvAsDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:      getEnv("PAYMENT_CURRENCY", "brl"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASS", ""),
		},
		Cloudinary: CloudinaryCfg{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "avatars"),
		},
		Jobs: JobsConfig{
			ReminderSchedule:  getEnv("REMINDER_SCHEDULE", "*/5 * * * *"),
			ExpirySchedule:    getEnv("EXPIRY_SCHEDULE", "*/10 * * * *"),
			PendingBookingTTL: getEnvAsDuration("PENDING_BOOKING_TTL", 24*time.Hour),
		},
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
	}

	if cfg.Auth.JWTSecret == "" && !cfg.IsProduction() {
		cfg.Auth.JWTSecret = "dev_secret_key"
	}

	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Location returns the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
