package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/logtrace"
)

// GetCurrentHeight returns the height of the latest block.
func (c *Client) GetCurrentHeight(ctx context.Context) (int32, error) {
	const method = "GetCurrentHeight"

	query := url.Values{}
	query.Set("limit", "1")
	query.Set("sortBy", "height")
	query.Set("sortDirection", "desc")

	body, status, err := c.get(ctx, method, "/blocks", query)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, statusError(method, status, body)
	}
	if !gjson.ValidBytes(body) {
		return 0, decodeError(method, fmt.Errorf("invalid JSON"))
	}

	height := gjson.GetBytes(body, "items.0.height")
	if !height.Exists() || height.Type != gjson.Number {
		return 0, errors.Transport(logtrace.ValueExplorer, fmt.Errorf("%s: no block height in response", method))
	}

	logtrace.Debug(ctx, "current height", logtrace.Fields{
		logtrace.FieldModule:      logtrace.ValueExplorer,
		logtrace.FieldBlockHeight: height.Int(),
	})
	return int32(height.Int()), nil
}
