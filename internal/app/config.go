package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	BlobEndpoint  string `envconfig:"BLOB_ENDPOINT" default:""`
	BlobRegion    string `envconfig:"BLOB_REGION" default:"auto"`
	BlobAccessKey string `envconfig:"BLOB_ACCESS_KEY"`
	BlobSecretKey string `envconfig:"BLOB_SECRET_KEY"`
	BlobBucket    string `envconfig:"BLOB_BUCKET" default:"utsav-books"`

	RedisAddr  string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	CacheTTL   time.Duration `envconfig:"CACHE_TTL" default:"60s"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	OperatorPassword string `envconfig:"OPERATOR_PASSWORD" required:"true"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.OperatorPassword == "" {
		return nil, errors.New("operator password must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
