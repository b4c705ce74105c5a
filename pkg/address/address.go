// Package address decodes and encodes ledger addresses.
//
// An address is base58(head | content | checksum) where head is the network
// prefix plus the address type, and checksum is the first four bytes of
// blake2b-256(head | content).
package address

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"github.com/agenticaihome/agenticaihome-v2/pkg/crypto"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

// Network is the network prefix of an address head byte.
type Network byte

const (
	Mainnet Network = 0x00
	Testnet Network = 0x10
)

// Type is the address type of an address head byte.
type Type byte

const (
	P2PK Type = 0x01
	P2SH Type = 0x02
	P2S  Type = 0x03
)

const (
	checksumSize  = 4
	PublicKeySize = 33
)

// p2pkTreePrefix is the ErgoTree header, constant segment and
// SigmaProp(ProveDlog) opcode preceding a compressed public key.
var p2pkTreePrefix = []byte{0x00, 0x08, 0xcd}

// Address is a decoded address.
type Address struct {
	Network Network
	Type    Type
	Content []byte // public key for P2PK, script hash for P2SH, ErgoTree for P2S
}

// Decode parses a base58 address and verifies its checksum.
func Decode(s string) (Address, error) {
	raw := base58.Decode(s)
	if len(raw) < 1+checksumSize+1 {
		return Address{}, errors.Decode("Address", s, errors.New("too short or not base58"))
	}

	body, sum := raw[:len(raw)-checksumSize], raw[len(raw)-checksumSize:]
	if !bytes.Equal(crypto.Hash(body)[:checksumSize], sum) {
		return Address{}, errors.Decode("Address", s, errors.New("checksum mismatch"))
	}

	head := body[0]
	a := Address{
		Network: Network(head & 0xf0),
		Type:    Type(head & 0x0f),
		Content: append([]byte(nil), body[1:]...),
	}
	switch a.Type {
	case P2PK:
		if len(a.Content) != PublicKeySize {
			return Address{}, errors.Decode("Address", s, fmt.Errorf("p2pk content is %d bytes", len(a.Content)))
		}
	case P2SH, P2S:
	default:
		return Address{}, errors.Decode("Address", s, fmt.Errorf("unknown address type 0x%02x", byte(a.Type)))
	}
	return a, nil
}

// Encode renders an address in base58.
func Encode(network Network, typ Type, content []byte) string {
	body := make([]byte, 0, 1+len(content)+checksumSize)
	body = append(body, byte(network)|byte(typ))
	body = append(body, content...)
	body = append(body, crypto.Hash(body)[:checksumSize]...)
	return base58.Encode(body)
}

// FromPublicKey returns the P2PK address of a compressed public key.
func FromPublicKey(network Network, pk []byte) string {
	return Encode(network, P2PK, pk)
}

// FromErgoTree returns the P2S address of a serialized script.
func FromErgoTree(network Network, tree []byte) string {
	return Encode(network, P2S, tree)
}

// String renders the address in base58.
func (a Address) String() string {
	return Encode(a.Network, a.Type, a.Content)
}

// ErgoTree returns the serialized guard script the address stands for.
func (a Address) ErgoTree() ([]byte, error) {
	switch a.Type {
	case P2PK:
		return P2PKTree(a.Content), nil
	case P2S:
		return append([]byte(nil), a.Content...), nil
	default:
		return nil, errors.Errorf("address type 0x%02x has no standalone ErgoTree", byte(a.Type))
	}
}

// ErgoTreeHex is ErgoTree in lowercase hex.
func (a Address) ErgoTreeHex() (string, error) {
	tree, err := a.ErgoTree()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(tree), nil
}

// PublicKey returns the compressed public key of a P2PK address.
func (a Address) PublicKey() ([]byte, bool) {
	if a.Type != P2PK {
		return nil, false
	}
	return append([]byte(nil), a.Content...), true
}

// P2PKTree returns the ErgoTree locking a box to a single public key.
func P2PKTree(pk []byte) []byte {
	tree := make([]byte, 0, len(p2pkTreePrefix)+len(pk))
	tree = append(tree, p2pkTreePrefix...)
	return append(tree, pk...)
}

// IsCompressedPublicKey reports whether pk looks like a SEC1 compressed point.
func IsCompressedPublicKey(pk []byte) bool {
	return len(pk) == PublicKeySize && (pk[0] == 0x02 || pk[0] == 0x03)
}

// TreeHexFor resolves an address string straight to its ErgoTree hex.
func TreeHexFor(s string) (string, error) {
	a, err := Decode(s)
	if err != nil {
		return "", err
	}
	return a.ErgoTreeHex()
}
