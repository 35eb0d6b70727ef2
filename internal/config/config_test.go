package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("SESSION_JWT_SECRET", "")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("BULK_CONCURRENCY", "")
	t.Setenv("BACKEND_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.BackendURL)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 8, cfg.BulkConcurrency)
	assert.Equal(t, 32, cfg.CodeMaxAttempts)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SESSION_JWT_SECRET", "s3cret")
	t.Setenv("BACKEND_URL", "https://api.example.com/")
	t.Setenv("BACKEND_TIMEOUT", "3")
	t.Setenv("BULK_CONCURRENCY", "2")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BackendURL)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 2, cfg.BulkConcurrency)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsDevelopment())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:      "production",
			BackendURL:       "https://api.example.com",
			BackendTimeout:   time.Second,
			SessionJWTSecret: "x",
			BulkConcurrency:  1,
			CodeMaxAttempts:  1,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "relative backend url", mutate: func(c *Config) { c.BackendURL = "/api" }},
		{name: "missing secret in production", mutate: func(c *Config) { c.SessionJWTSecret = "" }},
		{name: "zero concurrency", mutate: func(c *Config) { c.BulkConcurrency = 0 }},
		{name: "zero code attempts", mutate: func(c *Config) { c.CodeMaxAttempts = 0 }},
		{name: "zero timeout", mutate: func(c *Config) { c.BackendTimeout = 0 }},
	}

	assert.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{}, parseOrigins(""))
	assert.Equal(t, []string{"a", "b"}, parseOrigins(" a ,b"))
}
