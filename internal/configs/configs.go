/*
Package configs loads and validates the relay's configuration.

Values come from environment variables, optionally seeded from a .env file. Defaults live
in the struct tags; LoadConfig applies the cross-field rules (port range, word-list source
requirements, production requirements) afterwards.
*/
package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Word-list sources accepted in WORDLIST_SOURCE.
const (
	WordListBuiltin  = "builtin"
	WordListFile     = "file"
	WordListPostgres = "postgres"
	WordListS3       = "s3"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Security Settings
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`

	// Rate Limits
	MessageRate  float64 `envconfig:"MESSAGE_RATE" default:"5"`
	MessageBurst int     `envconfig:"MESSAGE_BURST" default:"10"`
	ConnectRate  float64 `envconfig:"CONNECT_RATE" default:"0.5"`
	ConnectBurst int     `envconfig:"CONNECT_BURST" default:"5"`
	APIRate      float64 `envconfig:"API_RATE" default:"5"`
	APIBurst     int     `envconfig:"API_BURST" default:"20"`

	// Content Filter Settings
	WordListSource string `envconfig:"WORDLIST_SOURCE" default:"builtin"`
	WordListFile   string `envconfig:"WORDLIST_FILE"`

	// Database Settings (WORDLIST_SOURCE=postgres)
	DatabaseDSN string `envconfig:"DATABASE_URL"`

	// S3 Storage Settings (WORDLIST_SOURCE=s3)
	S3BucketName      string `envconfig:"S3_BUCKET_NAME"`
	S3Endpoint        string `envconfig:"S3_ENDPOINT"`
	S3AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3WordListKey     string `envconfig:"S3_WORDLIST_KEY" default:"moderation/wordlist.txt"`
}

// IsDevelopment reports whether the relay runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads the configuration from the environment, loading a .env file first
// when one is present in the working directory.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return loadFromEnv()
}

func loadFromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", c.Port, 1024, 65535)
	}

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins

	if !c.IsDevelopment() && len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS environment variable is required in %s environment", c.Environment)
	}

	if c.MessageRate <= 0 || c.MessageBurst <= 0 {
		return fmt.Errorf("MESSAGE_RATE and MESSAGE_BURST must be positive")
	}
	if c.ConnectRate <= 0 || c.ConnectBurst <= 0 {
		return fmt.Errorf("CONNECT_RATE and CONNECT_BURST must be positive")
	}
	if c.APIRate <= 0 || c.APIBurst <= 0 {
		return fmt.Errorf("API_RATE and API_BURST must be positive")
	}

	c.WordListSource = strings.ToLower(strings.TrimSpace(c.WordListSource))
	switch c.WordListSource {
	case WordListBuiltin:
	case WordListFile:
		if c.WordListFile == "" {
			return fmt.Errorf("WORDLIST_FILE environment variable is required when WORDLIST_SOURCE=%s", WordListFile)
		}
	case WordListPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required when WORDLIST_SOURCE=%s", WordListPostgres)
		}
	case WordListS3:
		if c.S3BucketName == "" || c.S3Endpoint == "" {
			return fmt.Errorf("S3_BUCKET_NAME and S3_ENDPOINT environment variables are required when WORDLIST_SOURCE=%s", WordListS3)
		}
		if c.S3AccessKeyID == "" || c.S3SecretAccessKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY environment variables are required for S3 authentication")
		}
	default:
		return fmt.Errorf("unsupported WORDLIST_SOURCE %q", c.WordListSource)
	}

	return nil
}
