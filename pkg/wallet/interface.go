//go:generate mockgen -destination=wallet_mock.go -package=wallet -source=interface.go
package wallet

import (
	"context"

	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/txbuilder"
)

// Wallet is the signing side of the ledger. Key custody stays behind this
// interface; the SDK only hands it unsigned transactions.
type Wallet interface {
	// UTXOs returns wallet boxes covering at least amount nanoERG and, when
	// tokenID is set, at least tokenAmount of that token.
	UTXOs(ctx context.Context, amount uint64, tokenID string, tokenAmount uint64) ([]txbuilder.Input, error)
	// ChangeAddress is where leftover funds are sent.
	ChangeAddress(ctx context.Context) (string, error)
	Sign(ctx context.Context, tx *txbuilder.UnsignedTx) (*txbuilder.SignedTx, error)
	// Submit broadcasts a signed transaction and returns its id.
	Submit(ctx context.Context, tx *txbuilder.SignedTx) (string, error)
}

var (
	// ErrUserRejected is returned when the key holder declines to sign.
	ErrUserRejected = errors.New("wallet: user rejected signing")
	// ErrNotConnected is returned when no wallet session is available.
	ErrNotConnected = errors.New("wallet: not connected")
	// ErrInputSpent is returned by Submit when an input was consumed by a
	// competing transaction.
	ErrInputSpent = errors.New("wallet: input already spent")
	// ErrInsufficientFunds is returned by UTXOs when the wallet cannot cover the amount.
	ErrInsufficientFunds = errors.New("wallet: insufficient funds")
)
