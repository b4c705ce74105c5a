package crypto

import (
	"golang.org/x/crypto/blake2b"
	"lukechampine.com/blake3"
)

// DigestSize is the size in bytes of every digest produced by this package.
const DigestSize = 32

// Hasher produces a fixed-size 32-byte digest.
type Hasher interface {
	Sum(data ...[]byte) []byte
	Name() string
}

type blake2bHasher struct{}

// Blake2b256 is the ledger's native hash and the default for commitments.
var Blake2b256 Hasher = blake2bHasher{}

func (blake2bHasher) Sum(data ...[]byte) []byte {
	h, _ := blake2b.New256(nil) // only fails on oversized keys
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

func (blake2bHasher) Name() string { return "blake2b-256" }

type blake3Hasher struct{}

// Blake3 is an alternate 256-bit hasher for off-ledger digests.
var Blake3 Hasher = blake3Hasher{}

func (blake3Hasher) Sum(data ...[]byte) []byte {
	h := blake3.New(DigestSize, nil)
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

func (blake3Hasher) Name() string { return "blake3-256" }

// Hash returns the blake2b-256 digest of the concatenation of data.
func Hash(data ...[]byte) []byte {
	return Blake2b256.Sum(data...)
}

// ServiceHash derives the R4 service identifier of a Task from a service name.
func ServiceHash(name string) []byte {
	return Hash([]byte(name))
}

// HasherByName returns the hasher whose Name is name.
func HasherByName(name string) (Hasher, bool) {
	for _, h := range []Hasher{Blake2b256, Blake3} {
		if h.Name() == name {
			return h, true
		}
	}
	return nil, false
}
