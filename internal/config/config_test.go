package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "GRPC_ADDR", "JWT_SECRET", "TOKEN_TTL",
		"USERS_DATABASE_URL", "BOOKS_DATABASE_DSN", "REDIS_ADDR",
		"DYNAMODB_TABLE", "DYNAMODB_ENDPOINT", "AWS_REGION",
		"KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_GROUP",
		"CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "API_BASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Empty(t, cfg.GRPCAddr)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.UsersDatabaseURL)
	assert.Empty(t, cfg.BooksDatabaseDSN)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.DynamoTable)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "inventory-events", cfg.KafkaTopic)
	assert.Equal(t, "inventory-auditor", cfg.KafkaGroup)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIBaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("GRPC_ADDR", ":50051")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("API_BASE_URL", "http://api.test/")
	t.Setenv("DYNAMODB_TABLE", "inventories")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "http://api.test", cfg.APIBaseURL)
	assert.Equal(t, "inventories", cfg.DynamoTable)
	assert.Equal(t, "http://localhost:8001", cfg.DynamoEndpoint)
}

func TestLoad_InvalidTTL(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not a duration", "soon"},
		{"zero", "0s"},
		{"negative", "-1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TOKEN_TTL", tt.value)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   error
	}{
		{"missing", "", ErrMissingSecret},
		{"too short", "short-secret", ErrShortSecret},
		{"ok", strings.Repeat("s", 32), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{JWTSecret: tt.secret}
			err := cfg.ValidateSecret()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
