package address

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

func testPublicKey() []byte {
	return append([]byte{0x02}, bytes.Repeat([]byte{0xab}, 32)...)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tree := []byte{0x10, 0x04, 0x04, 0x00, 0x0e, 0x20}

	tests := map[string]struct {
		network Network
		typ     Type
		content []byte
	}{
		"mainnet p2pk": {network: Mainnet, typ: P2PK, content: testPublicKey()},
		"testnet p2pk": {network: Testnet, typ: P2PK, content: testPublicKey()},
		"mainnet p2s":  {network: Mainnet, typ: P2S, content: tree},
		"testnet p2sh": {network: Testnet, typ: P2SH, content: bytes.Repeat([]byte{1}, 24)},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := Encode(tc.network, tc.typ, tc.content)
			a, err := Decode(s)
			require.NoError(t, err)
			assert.Equal(t, tc.network, a.Network)
			assert.Equal(t, tc.typ, a.Type)
			assert.Equal(t, tc.content, a.Content)
			assert.Equal(t, s, a.String())
		})
	}
}

func TestMainnetP2PKStartsWithNine(t *testing.T) {
	assert.Equal(t, byte('9'), FromPublicKey(Mainnet, testPublicKey())[0])
}

func TestDecodeRejectsCorruptAddress(t *testing.T) {
	s := FromPublicKey(Mainnet, testPublicKey())
	raw := base58.Decode(s)
	raw[5] ^= 0xff

	_, err := Decode(base58.Encode(raw))
	assert.ErrorIs(t, err, errors.ErrDecode)

	_, err = Decode("not-an-address")
	assert.ErrorIs(t, err, errors.ErrDecode)

	_, err = Decode(Encode(Mainnet, P2PK, []byte{0x02, 0x01}))
	assert.ErrorIs(t, err, errors.ErrDecode)
}

func TestErgoTree(t *testing.T) {
	pk := testPublicKey()

	p2pk, err := Decode(FromPublicKey(Mainnet, pk))
	require.NoError(t, err)
	tree, err := p2pk.ErgoTreeHex()
	require.NoError(t, err)
	assert.Equal(t, "0008cd"+hex.EncodeToString(pk), tree)

	got, ok := p2pk.PublicKey()
	assert.True(t, ok)
	assert.Equal(t, pk, got)

	script := []byte{0x10, 0x01, 0x02}
	treeHex, err := TreeHexFor(FromErgoTree(Testnet, script))
	require.NoError(t, err)
	assert.Equal(t, "100102", treeHex)

	p2sh, err := Decode(Encode(Mainnet, P2SH, bytes.Repeat([]byte{1}, 24)))
	require.NoError(t, err)
	_, err = p2sh.ErgoTree()
	assert.Error(t, err)
	_, ok = p2sh.PublicKey()
	assert.False(t, ok)
}

func TestIsCompressedPublicKey(t *testing.T) {
	assert.True(t, IsCompressedPublicKey(testPublicKey()))
	assert.False(t, IsCompressedPublicKey(make([]byte, PublicKeySize)))
	assert.False(t, IsCompressedPublicKey([]byte{0x02}))
}
