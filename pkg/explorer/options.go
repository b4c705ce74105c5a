package explorer

import (
	"strings"
	"time"
)

// Option is a function that applies a change to Config
type Option func(*Config)

// WithBaseURL sets the Explorer API root
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTxCacheSize sets how many confirmed transactions are cached
func WithTxCacheSize(n int64) Option {
	return func(c *Config) {
		c.TxCacheSize = n
	}
}
