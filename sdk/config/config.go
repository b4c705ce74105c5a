package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agenticaihome/agenticaihome-v2/pkg/address"
	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/crypto"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/explorer"
)

// Network selects the ledger the SDK talks to.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

const (
	DefaultNetwork      = Mainnet
	DefaultTxFee        = 1_100_000 // nanoERG
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultPageSize     = 100
	DefaultPollAttempts = 30
	DefaultPollInterval = 10 * time.Second
	DefaultHasher       = "blake2b-256"

	// SigUSDTokenID is the default token used for token-denominated payments.
	SigUSDTokenID = "03faf2cb329f2e90d6d23b58d91bbb6c046aa143261cc21f52fbe2824bfcbf04"
)

// ContractsConfig holds the guard-script addresses of each box kind. They are
// deployment specific and must be supplied by the caller.
type ContractsConfig struct {
	Task               string `yaml:"task"`                // REQUIRED
	Receipt            string `yaml:"receipt"`             // REQUIRED
	FailureReceipt     string `yaml:"failure_receipt"`     // REQUIRED
	Rating             string `yaml:"rating"`              // REQUIRED
	Bond               string `yaml:"bond"`                // OPTIONAL – bond lookups fail without it
	VerificationBounty string `yaml:"verification_bounty"` // OPTIONAL – bounty lookups fail without it
}

// PollConfig holds the receipt poll defaults.
type PollConfig struct {
	Attempts int           `yaml:"attempts"`
	Interval time.Duration `yaml:"interval"`
}

type Config struct {
	Network        Network         `yaml:"network"`
	ExplorerURL    string          `yaml:"explorer_url"` // OPTIONAL – overrides the network default
	HTTPTimeout    time.Duration   `yaml:"http_timeout"`
	PageSize       int             `yaml:"page_size"`
	TxFee          uint64          `yaml:"tx_fee"`
	MinBoxValue    uint64          `yaml:"min_box_value"`
	PaymentTokenID string          `yaml:"payment_token_id"`
	Contracts      ContractsConfig `yaml:"contracts"`
	Poll           PollConfig      `yaml:"poll"`
	SaltStorePath  string          `yaml:"salt_store_path"` // OPTIONAL – directory of the local salt vault

	// CommitmentHasher names the hash used for input and rating commitments.
	// Guard scripts that check commitments on-ledger expect blake2b-256.
	CommitmentHasher string `yaml:"commitment_hasher"`
}

// Option is a functional option for configuring the Config.
type Option func(*Config)

func defaults() *Config {
	return &Config{
		Network:        DefaultNetwork,
		HTTPTimeout:    DefaultHTTPTimeout,
		PageSize:       DefaultPageSize,
		TxFee:          DefaultTxFee,
		MinBoxValue:    boxes.MinBoxValue,
		PaymentTokenID: SigUSDTokenID,
		Poll: PollConfig{
			Attempts: DefaultPollAttempts,
			Interval: DefaultPollInterval,
		},
		CommitmentHasher: DefaultHasher,
	}
}

// New builds a Config, applying the supplied functional options.
func New(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a YAML file over the defaults, then applies opts.
func Load(path string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("config: read %s: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Errorf("config: parse %s: %w", path, err)
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func WithNetwork(n Network) Option {
	return func(c *Config) { c.Network = n }
}

func WithExplorerURL(url string) Option {
	return func(c *Config) { c.ExplorerURL = url }
}

func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Config) { c.HTTPTimeout = d }
}

func WithPageSize(n int) Option {
	return func(c *Config) { c.PageSize = n }
}

func WithTxFee(fee uint64) Option {
	return func(c *Config) { c.TxFee = fee }
}

func WithMinBoxValue(v uint64) Option {
	return func(c *Config) { c.MinBoxValue = v }
}

func WithPaymentTokenID(id string) Option {
	return func(c *Config) { c.PaymentTokenID = id }
}

func WithContracts(contracts ContractsConfig) Option {
	return func(c *Config) { c.Contracts = contracts }
}

func WithPoll(attempts int, interval time.Duration) Option {
	return func(c *Config) { c.Poll = PollConfig{Attempts: attempts, Interval: interval} }
}

func WithSaltStorePath(path string) Option {
	return func(c *Config) { c.SaltStorePath = path }
}

func WithCommitmentHasher(name string) Option {
	return func(c *Config) { c.CommitmentHasher = name }
}

// ExplorerEndpoint returns the Explorer API root to use.
func (c *Config) ExplorerEndpoint() string {
	if c.ExplorerURL != "" {
		return c.ExplorerURL
	}
	if c.Network == Testnet {
		return explorer.TestnetURL
	}
	return explorer.MainnetURL
}

// AddressNetwork returns the address prefix of the configured network.
func (c *Config) AddressNetwork() address.Network {
	if c.Network == Testnet {
		return address.Testnet
	}
	return address.Mainnet
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	switch {
	case c.Network != Mainnet && c.Network != Testnet:
		return errors.InvalidParameter("config.network", "mainnet or testnet", string(c.Network))
	case c.HTTPTimeout <= 0:
		return errors.InvalidParameter("config.http_timeout", "> 0", c.HTTPTimeout.String())
	case c.PageSize <= 0 || c.PageSize > explorer.MaxPageSize:
		return errors.InvalidParameter("config.page_size", "1.."+strconv.Itoa(explorer.MaxPageSize), strconv.Itoa(c.PageSize))
	case c.TxFee == 0:
		return errors.InvalidParameter("config.tx_fee", "> 0", "0")
	case c.MinBoxValue == 0:
		return errors.InvalidParameter("config.min_box_value", "> 0", "0")
	case c.Poll.Attempts <= 0:
		return errors.InvalidParameter("config.poll.attempts", "> 0", strconv.Itoa(c.Poll.Attempts))
	case c.Poll.Interval < 0:
		return errors.InvalidParameter("config.poll.interval", ">= 0", c.Poll.Interval.String())
	}
	if _, ok := crypto.HasherByName(c.CommitmentHasher); !ok {
		return errors.InvalidParameter("config.commitment_hasher", "blake2b-256 or blake3-256", c.CommitmentHasher)
	}
	return c.Contracts.validate()
}

// Scheme returns the commitment scheme selected by CommitmentHasher.
func (c *Config) Scheme() *crypto.Scheme {
	h, ok := crypto.HasherByName(c.CommitmentHasher)
	if !ok {
		return crypto.DefaultScheme
	}
	return crypto.NewScheme(crypto.WithHasher(h))
}

func (c ContractsConfig) validate() error {
	contracts := []struct {
		field    string
		addr     string
		required bool
	}{
		{"task", c.Task, true},
		{"receipt", c.Receipt, true},
		{"failure_receipt", c.FailureReceipt, true},
		{"rating", c.Rating, true},
		{"bond", c.Bond, false},
		{"verification_bounty", c.VerificationBounty, false},
	}
	for _, ct := range contracts {
		if ct.addr == "" {
			if ct.required {
				return errors.InvalidParameter("config.contracts."+ct.field, "address", "empty")
			}
			continue
		}
		if _, err := address.Decode(ct.addr); err != nil {
			return errors.Errorf("config: contracts.%s: %w", ct.field, err)
		}
	}
	return nil
}
