package explorer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/logtrace"
)

var _ Gateway = (*Client)(nil)

// maxBodySize caps how much of a response is read.
const maxBodySize = 16 << 20

// Client talks to the Explorer REST API.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	txCache    *ristretto.Cache[string, *Transaction]
}

func newClient(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("explorer base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid explorer base URL %q: %w", cfg.BaseURL, err)
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}

	if cfg.TxCacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, *Transaction]{
			NumCounters: cfg.TxCacheSize * 10,
			MaxCost:     cfg.TxCacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create transaction cache: %w", err)
		}
		c.txCache = cache
	}

	logtrace.Debug(ctx, "explorer client created", logtrace.Fields{
		logtrace.FieldModule: logtrace.ValueExplorer,
		logtrace.FieldURL:    cfg.BaseURL,
	})
	return c, nil
}

// Close releases the transaction cache.
func (c *Client) Close() error {
	if c.txCache != nil {
		c.txCache.Close()
	}
	return nil
}

// get performs a GET against the API and returns the body and status code.
// Only transport-level failures are returned as errors.
func (c *Client) get(ctx context.Context, method, path string, query url.Values) ([]byte, int, error) {
	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, errors.Transport(logtrace.ValueExplorer, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logtrace.Error(ctx, "explorer request failed", logtrace.Fields{
			logtrace.FieldModule: logtrace.ValueExplorer,
			logtrace.FieldMethod: method,
			logtrace.FieldURL:    endpoint,
			logtrace.FieldError:  err.Error(),
		})
		return nil, 0, errors.Transport(logtrace.ValueExplorer, fmt.Errorf("%s: %w", method, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, errors.Transport(logtrace.ValueExplorer, fmt.Errorf("%s: read body: %w", method, err))
	}

	logtrace.Debug(ctx, "explorer response", logtrace.Fields{
		logtrace.FieldModule: logtrace.ValueExplorer,
		logtrace.FieldMethod: method,
		logtrace.FieldURL:    endpoint,
		logtrace.FieldStatus: resp.StatusCode,
	})
	return body, resp.StatusCode, nil
}

func statusError(method string, status int, body []byte) error {
	if len(body) > 512 {
		body = body[:512]
	}
	return errors.Transport(logtrace.ValueExplorer, fmt.Errorf("%s: explorer API error (status %d): %s", method, status, string(body)))
}

func decodeError(method string, err error) error {
	return errors.Transport(logtrace.ValueExplorer, fmt.Errorf("%s: failed to decode response: %w", method, err))
}
