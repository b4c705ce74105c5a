package explorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// GetTransaction fetches a confirmed transaction. Confirmed transactions are
// immutable, so they are served from the cache when possible.
func (c *Client) GetTransaction(ctx context.Context, txID string) (*Transaction, error) {
	const method = "GetTransaction"

	if c.txCache != nil {
		if tx, ok := c.txCache.Get(txID); ok {
			return tx, nil
		}
	}

	body, status, err := c.get(ctx, method, "/transactions/"+url.PathEscape(txID), nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, nil
	case status != http.StatusOK:
		return nil, statusError(method, status, body)
	}

	var tx Transaction
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, decodeError(method, err)
	}

	if c.txCache != nil && tx.InclusionHeight > 0 {
		c.txCache.Set(txID, &tx, 1)
		c.txCache.Wait()
	}
	return &tx, nil
}
