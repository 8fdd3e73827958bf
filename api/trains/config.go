package trains

import "fmt"

// Config defines the read-only HTTP API. An empty Addr disables it.
type Config struct {
	Addr           string          `json:"addr"`
	Token          string          `json:"token"`
	AllowedOrigins []string        `json:"allowed_origins"`
	RateLimit      RateLimitConfig `json:"rate_limit"`
}

// RateLimitConfig bounds requests per client address.
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
	TrustProxy        bool    `json:"trust_proxy"`
}

// Enabled reports whether a listen address is configured.
func (c Config) Enabled() bool { return c.Addr != "" }

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = int(c.RateLimit.RequestsPerSecond) + 1
	}
}

// Validate checks the rate limit settings.
func (c Config) Validate() error {
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("api.rate_limit.requests_per_second must not be negative")
	}
	if c.RateLimit.Burst < 0 {
		return fmt.Errorf("api.rate_limit.burst must not be negative")
	}
	return nil
}
