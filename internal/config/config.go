// Package config loads runtime settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const minSecretLength = 32

var (
	ErrMissingSecret = errors.New("JWT_SECRET environment variable is required")
	ErrShortSecret   = fmt.Errorf("JWT_SECRET must be at least %d characters long", minSecretLength)
)

// Config holds settings shared by the binaries.
//
// Every storage backend is optional: an empty DSN/address selects the
// in-process implementation.
type Config struct {
	HTTPAddr string
	GRPCAddr string

	JWTSecret string
	TokenTTL  time.Duration

	UsersDatabaseURL string
	BooksDatabaseDSN string
	RedisAddr        string

	// DynamoTable selects the DynamoDB inventory store and takes precedence
	// over RedisAddr.
	DynamoTable    string
	DynamoEndpoint string
	AWSRegion      string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	CORSOrigins []string
	LogLevel    string
	LogFormat   string

	APIBaseURL string
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8000"),
		GRPCAddr:         os.Getenv("GRPC_ADDR"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		UsersDatabaseURL: os.Getenv("USERS_DATABASE_URL"),
		BooksDatabaseDSN: os.Getenv("BOOKS_DATABASE_DSN"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		DynamoTable:      os.Getenv("DYNAMODB_TABLE"),
		DynamoEndpoint:   os.Getenv("DYNAMODB_ENDPOINT"),
		AWSRegion:        os.Getenv("AWS_REGION"),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "inventory-events"),
		KafkaGroup:       getEnv("KAFKA_GROUP", "inventory-auditor"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8000"), "/"),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("parse TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	return cfg, nil
}

// ValidateSecret checks the signing secret. Only binaries that issue or
// verify tokens call it.
func (c *Config) ValidateSecret() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if len(c.JWTSecret) < minSecretLength {
		return ErrShortSecret
	}
	return nil
}

// KafkaEnabled reports whether an event broker is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
