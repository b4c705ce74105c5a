package explorer

import "time"

const (
	MainnetURL = "https://api.ergoplatform.com/api/v1"
	TestnetURL = "https://api-testnet.ergoplatform.com/api/v1"

	// MaxPageSize is the largest page the Explorer serves.
	MaxPageSize = 500
)

// Config holds all the configuration needed for the client
type Config struct {
	// BaseURL is the Explorer API root, without a trailing slash
	BaseURL string

	// Timeout bounds every HTTP request
	Timeout time.Duration

	// UserAgent is sent with every request
	UserAgent string

	// TxCacheSize is the number of confirmed transactions kept in memory; 0 disables the cache
	TxCacheSize int64
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     MainnetURL,
		Timeout:     30 * time.Second,
		UserAgent:   "agenticaihome-sdk",
		TxCacheSize: 1024,
	}
}
