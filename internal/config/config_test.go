package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "https://www.googleapis.com/oauth2/v3/certs", cfg.Google.JWKSURL)
	assert.Equal(t, 5*time.Second, cfg.Google.Timeout)
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingGoogleClientID(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("GOOGLE_CLIENT_ID", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BcryptCostBounds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "50")

	_, err := Load()
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     "5432",
		User:     "app",
		Password: "pw",
		DBName:   "miniauth",
		SSLMode:  "require",
	}

	got := cfg.ConnectionString()
	assert.Equal(t, "host=db.example.com port=5432 user=app password=pw dbname=miniauth sslmode=require", got)

	cfg.ChannelBinding = "require"
	assert.Contains(t, cfg.ConnectionString(), "channel_binding=require")
}
