package explorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
)

// GetBox fetches a box, spent or unspent, by id.
func (c *Client) GetBox(ctx context.Context, boxID string) (*boxes.RawRecord, error) {
	const method = "GetBox"

	body, status, err := c.get(ctx, method, "/boxes/"+url.PathEscape(boxID), nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, nil
	case status != http.StatusOK:
		return nil, statusError(method, status, body)
	}

	var rec boxes.RawRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, decodeError(method, err)
	}
	return &rec, nil
}

// GetUnspentByAddress lists unspent boxes guarded by address.
func (c *Client) GetUnspentByAddress(ctx context.Context, address string, offset, limit int) (*Page, error) {
	return c.unspent(ctx, "GetUnspentByAddress", "/boxes/unspent/byAddress/"+url.PathEscape(address), offset, limit)
}

// GetUnspentByTokenID lists unspent boxes holding tokenID.
func (c *Client) GetUnspentByTokenID(ctx context.Context, tokenID string, offset, limit int) (*Page, error) {
	return c.unspent(ctx, "GetUnspentByTokenID", "/boxes/unspent/byTokenId/"+url.PathEscape(tokenID), offset, limit)
}

func (c *Client) unspent(ctx context.Context, method, path string, offset, limit int) (*Page, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	body, status, err := c.get(ctx, method, path, query)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return &Page{}, nil
	}
	if status != http.StatusOK {
		return nil, statusError(method, status, body)
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, decodeError(method, err)
	}
	return &page, nil
}
