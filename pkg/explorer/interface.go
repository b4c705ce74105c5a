//go:generate mockgen -destination=explorer_mock.go -package=explorer -source=interface.go
package explorer

import (
	"context"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
)

// Gateway is the read side of the ledger: box lookups, unspent listings,
// chain height and transaction lookups.
type Gateway interface {
	// GetBox returns nil, nil when the box is unknown.
	GetBox(ctx context.Context, boxID string) (*boxes.RawRecord, error)
	GetUnspentByAddress(ctx context.Context, address string, offset, limit int) (*Page, error)
	GetUnspentByTokenID(ctx context.Context, tokenID string, offset, limit int) (*Page, error)
	GetCurrentHeight(ctx context.Context) (int32, error)
	// GetTransaction returns nil, nil when the transaction is unknown.
	GetTransaction(ctx context.Context, txID string) (*Transaction, error)
}

// Page is one slice of an unspent box listing.
type Page struct {
	Items []boxes.RawRecord `json:"items"`
	Total int               `json:"total"`
}

// TxInput references a box spent by a transaction.
type TxInput struct {
	BoxID string `json:"boxId"`
}

// Transaction is a confirmed transaction.
type Transaction struct {
	ID               string            `json:"id"`
	BlockID          string            `json:"blockId"`
	InclusionHeight  int32             `json:"inclusionHeight"`
	NumConfirmations int               `json:"numConfirmations"`
	Inputs           []TxInput         `json:"inputs"`
	Outputs          []boxes.RawRecord `json:"outputs"`
}

// NewClient creates an Explorer backed Gateway with provided options
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	return newClient(ctx, opts...)
}
