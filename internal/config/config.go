package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL string `yaml:"database_url"`
	DBHost      string `yaml:"db_host"`
	DBPort      string `yaml:"db_port"`
	DBUser      string `yaml:"db_user"`
	DBPassword  string `yaml:"db_password"`
	DBName      string `yaml:"db_name"`
	DBSSLMode   string `yaml:"db_sslmode"`

	// RedisURL is optional. Without it session events stay in-process and
	// revocations are kept in memory.
	RedisURL string `yaml:"redis_url"`

	ServerPort string `yaml:"server_port"`

	JWTSecret string `yaml:"jwt_secret"`

	SessionCookieName string `yaml:"session_cookie_name"`
	CookieSecure      bool   `yaml:"cookie_secure"`

	// SignInURL is the hosted provider's sign-in page. It has no default.
	SignInURL string `yaml:"sign_in_url"`

	LogLevel string `yaml:"log_level"`
}

func defaults() *Config {
	return &Config{
		DBSSLMode:         "require",
		ServerPort:        "8080",
		SessionCookieName: "sb-access-token",
		CookieSecure:      true,
		LogLevel:          "info",
	}
}

// LoadConfig reads .env if present, then the YAML file at path (skipped when
// path is empty or missing), then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	str := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str(&c.DatabaseURL, "DATABASE_URL")
	str(&c.DBHost, "DB_HOST")
	str(&c.DBPort, "DB_PORT")
	str(&c.DBUser, "DB_USER")
	str(&c.DBPassword, "DB_PASSWORD")
	str(&c.DBName, "DB_NAME")
	str(&c.DBSSLMode, "DB_SSLMODE")
	str(&c.RedisURL, "REDIS_URL")
	str(&c.ServerPort, "SERVER_PORT")
	str(&c.JWTSecret, "JWT_SECRET")
	str(&c.SessionCookieName, "SESSION_COOKIE_NAME")
	str(&c.SignInURL, "SIGN_IN_URL")
	str(&c.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.CookieSecure = b
		}
	}
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DatabaseURL == "" && (c.DBHost == "" || c.DBName == "") {
		errs = append(errs, errors.New("DATABASE_URL or DB_HOST and DB_NAME are required"))
	}
	if c.SignInURL == "" {
		errs = append(errs, errors.New("SIGN_IN_URL is required"))
	}
	if c.SessionCookieName == "" {
		errs = append(errs, errors.New("SESSION_COOKIE_NAME must not be empty"))
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		errs = append(errs, fmt.Errorf("SERVER_PORT %q is not a number", c.ServerPort))
	}
	return errors.Join(errs...)
}

// DSN returns DatabaseURL, or a key/value DSN built from the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	port := c.DBPort
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, port, c.DBSSLMode)
}
