package caterbazar

import (
	"net/url"
	"time"
)

// Config represents the configuration for the marketplace API client
type Config struct {
	// BaseURL is the upstream API root, e.g. https://api.caterbazar.in/api
	BaseURL string

	// Timeout bounds every upstream call
	Timeout time.Duration

	// UserAgent is sent on every request when set
	UserAgent string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidConfig
	}
	if c.Timeout < 0 {
		return ErrInvalidConfig
	}
	return nil
}
