package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the application.
// It is populated once at startup and injected into the components
// that need it; nothing reads the process environment after Load.
type Config struct {
	// Addr is the address the HTTP server listens on.
	Addr string `env:"INSTAMEET_ADDR" envDefault:":8080"`

	// BaseURL is the public URL the service is reachable at. It is used
	// to build the OAuth callback URL and to validate redirect targets.
	BaseURL string `env:"INSTAMEET_BASE_URL" envDefault:"http://localhost:8080"`

	// Production marks the deployment as production. Session cookies are
	// only sent over HTTPS when this is set.
	Production bool `env:"INSTAMEET_PRODUCTION" envDefault:"false"`

	// GoogleClientID and GoogleClientSecret identify the OAuth client
	// registered with Google.
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// SessionSecret is the HMAC key used to sign session tokens.
	SessionSecret string `env:"INSTAMEET_SESSION_SECRET"`

	// SessionLifetime caps how long a session stays valid after sign-in.
	// This is a fixed re-authentication policy, not a sliding window.
	SessionLifetime time.Duration `env:"INSTAMEET_SESSION_LIFETIME" envDefault:"24h"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"INSTAMEET_LOG_LEVEL" envDefault:"info"`

	// LogFile, when set, sends logs to a size-rotated file instead of stderr.
	LogFile string `env:"INSTAMEET_LOG_FILE"`

	// MetricsEnabled controls the dedicated Prometheus metrics server.
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsAddr    string `env:"METRICS_ADDR" envDefault:":9090"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present, matching local
// development setups; missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is complete enough to serve.
func (c *Config) Validate() error {
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("INSTAMEET_SESSION_SECRET is required")
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("INSTAMEET_SESSION_SECRET must be at least 32 bytes (got %d)", len(c.SessionSecret))
	}
	if c.SessionLifetime <= 0 {
		return fmt.Errorf("session lifetime must be positive, got %s", c.SessionLifetime)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must be http or https, got %q", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", c.BaseURL)
	}
	if c.Production && u.Scheme != "https" {
		return fmt.Errorf("production requires an https base URL, got %q", c.BaseURL)
	}
	return nil
}

// SiteURL returns the parsed base URL. Call Validate first.
func (c *Config) SiteURL() *url.URL {
	u, _ := url.Parse(c.BaseURL)
	return u
}

// CallbackURL returns the OAuth redirect URL registered with Google.
func (c *Config) CallbackURL() string {
	u := c.SiteURL()
	u.Path = "/api/auth/callback"
	u.RawQuery = ""
	return u.String()
}
