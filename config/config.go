package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the auth server. Tags use
// mapstructure for Viper unmarshalling; every key can be set through the
// environment or a yaml config file.
type ServerConfig struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	Environment string `mapstructure:"ENVIRONMENT"` // "production" turns on the secure cookie flag
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	MongoURI    string `mapstructure:"MONGODB_CONNECTION_STRING"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`

	JWTSecretKey   string `mapstructure:"JWT_SECRET_KEY"`
	SessionSecret  string `mapstructure:"SESSION_SECRET"` // signs the OAuth state cookie
	TokenTTLHours  int    `mapstructure:"TOKEN_TTL_HOURS"`
	TokenIssuer    string `mapstructure:"TOKEN_ISSUER"`
	TokenCache     string `mapstructure:"TOKEN_CACHE"` // "memory" or "redis"
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisKeyPrefix string `mapstructure:"REDIS_KEY_PREFIX"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `mapstructure:"GOOGLE_CALLBACK_URL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	OtelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

// TokenTTL returns the bearer token lifetime as a duration.
func (c *ServerConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// IsProduction reports whether the deployment environment flag is set to
// production.
func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// GoogleEnabled reports whether Google login is configured.
func (c *ServerConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Validate checks the invariants that must hold before the process serves
// traffic. A missing signing secret is a startup failure, never a runtime
// error path.
func (c *ServerConfig) Validate() error {
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY must be set")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET must be set")
	}
	if c.TokenTTLHours <= 0 {
		return errors.New("TOKEN_TTL_HOURS must be positive")
	}
	switch c.TokenCache {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR must be set when TOKEN_CACHE=redis")
		}
	default:
		return fmt.Errorf("unknown TOKEN_CACHE backend %q", c.TokenCache)
	}
	return nil
}

// LoadConfig reads configuration from file, environment variables, and
// defaults.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/utsavia/")
	v.AddConfigPath("$HOME/.utsavia")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "3000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("MONGODB_CONNECTION_STRING", "mongodb://localhost:27017/utsavia_dev")
	v.SetDefault("MONGO_DB_NAME", "utsavia_dev")
	v.SetDefault("TOKEN_TTL_HOURS", 24)
	v.SetDefault("TOKEN_ISSUER", "utsavia-auth")
	v.SetDefault("TOKEN_CACHE", "memory")
	v.SetDefault("REDIS_KEY_PREFIX", "utsavia")
	v.SetDefault("GOOGLE_CALLBACK_URL", "http://localhost:3000/api/auth/google/callback")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("OTEL_SERVICE_NAME", "utsavia-auth")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &cfg, nil
}
