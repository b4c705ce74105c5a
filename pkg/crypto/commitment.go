package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

const (
	// SaltSize is the length of generated salts.
	SaltSize = 32

	MinRating = 1
	MaxRating = 5
)

// Scheme computes and checks salted hash commitments.
type Scheme struct {
	hasher Hasher
}

// SchemeOption configures a Scheme.
type SchemeOption func(*Scheme)

// WithHasher replaces the default blake2b-256 hasher.
func WithHasher(h Hasher) SchemeOption {
	return func(s *Scheme) { s.hasher = h }
}

// NewScheme returns a commitment scheme, blake2b-256 unless overridden.
func NewScheme(opts ...SchemeOption) *Scheme {
	s := &Scheme{hasher: Blake2b256}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultScheme is the scheme whose digests the ledger records.
var DefaultScheme = NewScheme()

// Commit returns H(payload || salt).
func (s *Scheme) Commit(payload, salt []byte) []byte {
	return s.hasher.Sum(payload, salt)
}

// Verify reports whether H(payload || salt) equals commitment.
func (s *Scheme) Verify(commitment, payload, salt []byte) bool {
	return subtle.ConstantTimeCompare(commitment, s.Commit(payload, salt)) == 1
}

// RatingCommitment returns H([rating] || salt). Ratings outside 1..5 are rejected.
func (s *Scheme) RatingCommitment(rating int, salt []byte) ([]byte, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	return s.Commit([]byte{byte(rating)}, salt), nil
}

// VerifyRating checks a revealed rating against its commitment and returns a
// CommitmentMismatch error when they differ.
func (s *Scheme) VerifyRating(commitment []byte, rating int, salt []byte) error {
	got, err := s.RatingCommitment(rating, salt)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(commitment, got) != 1 {
		return errors.CommitmentMismatch("Rating", hex.EncodeToString(commitment), hex.EncodeToString(got))
	}
	return nil
}

// ValidateRating returns InvalidParameters unless rating is within 1..5.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return errors.InvalidParameter("rating", fmt.Sprintf("%d..%d", MinRating, MaxRating), strconv.Itoa(rating))
	}
	return nil
}

// NewSalt returns SaltSize bytes from the system CSPRNG.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("read random salt: %w", err)
	}
	return salt, nil
}

// Commit is DefaultScheme.Commit.
func Commit(payload, salt []byte) []byte { return DefaultScheme.Commit(payload, salt) }

// Verify is DefaultScheme.Verify.
func Verify(commitment, payload, salt []byte) bool {
	return DefaultScheme.Verify(commitment, payload, salt)
}

// RatingCommitment is DefaultScheme.RatingCommitment.
func RatingCommitment(rating int, salt []byte) ([]byte, error) {
	return DefaultScheme.RatingCommitment(rating, salt)
}
