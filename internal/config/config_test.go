package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Addr:               ":8080",
		BaseURL:            "http://localhost:8080",
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		SessionSecret:      "0123456789abcdef0123456789abcdef",
		SessionLifetime:    24 * time.Hour,
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("INSTAMEET_SESSION_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.False(t, cfg.Production)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing google credentials",
			mutate:  func(c *Config) { c.GoogleClientID = "" },
			wantErr: "GOOGLE_CLIENT_ID",
		},
		{
			name:    "missing session secret",
			mutate:  func(c *Config) { c.SessionSecret = "" },
			wantErr: "INSTAMEET_SESSION_SECRET",
		},
		{
			name:    "short session secret",
			mutate:  func(c *Config) { c.SessionSecret = "too-short" },
			wantErr: "at least 32 bytes",
		},
		{
			name:    "zero session lifetime",
			mutate:  func(c *Config) { c.SessionLifetime = 0 },
			wantErr: "lifetime",
		},
		{
			name:    "bad base URL scheme",
			mutate:  func(c *Config) { c.BaseURL = "ftp://example.com" },
			wantErr: "http or https",
		},
		{
			name:    "base URL without host",
			mutate:  func(c *Config) { c.BaseURL = "http://" },
			wantErr: "no host",
		},
		{
			name: "production requires https",
			mutate: func(c *Config) {
				c.Production = true
				c.BaseURL = "http://meet.example.com"
			},
			wantErr: "https",
		},
		{
			name: "production with https is valid",
			mutate: func(c *Config) {
				c.Production = true
				c.BaseURL = "https://meet.example.com"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCallbackURL(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "http://localhost:8080/api/auth/callback", cfg.CallbackURL())

	cfg.BaseURL = "https://meet.example.com"
	assert.Equal(t, "https://meet.example.com/api/auth/callback", cfg.CallbackURL())
}
