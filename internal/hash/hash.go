// Package hash parses and formats the fixed-width digests used to verify
// registry metadata and artifacts.
package hash

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/quasar/launchcore/internal/errs"
)

// Sha1Sum is a 20-byte SHA-1 digest, the hash algorithm used for library,
// asset-index and asset artifacts.
type Sha1Sum [sha1.Size]byte

// Sha256Sum is a 32-byte SHA-256 digest, the hash algorithm used for the
// per-package index and per-version manifest metadata documents.
type Sha256Sum [sha256.Size]byte

// ParseSha1 decodes a lowercase (or mixed-case) hex string into a Sha1Sum.
// It rejects the wrong length or non-hex characters with errs.ErrInvalidHash.
func ParseSha1(s string) (Sha1Sum, error) {
	var out Sha1Sum
	decoded, err := decodeFixed(s, len(out))
	if err != nil {
		return Sha1Sum{}, err
	}
	copy(out[:], decoded)
	return out, nil
}

// ParseSha256 decodes a lowercase (or mixed-case) hex string into a Sha256Sum.
func ParseSha256(s string) (Sha256Sum, error) {
	var out Sha256Sum
	decoded, err := decodeFixed(s, len(out))
	if err != nil {
		return Sha256Sum{}, err
	}
	copy(out[:], decoded)
	return out, nil
}

func decodeFixed(s string, width int) ([]byte, error) {
	if len(s) != 2*width {
		return nil, fmt.Errorf("%w: want %d hex chars, got %d", errs.ErrInvalidHash, 2*width, len(s))
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidHash, err)
	}
	return decoded, nil
}

// String renders the digest as lowercase hex.
func (s Sha1Sum) String() string { return hex.EncodeToString(s[:]) }

// String renders the digest as lowercase hex.
func (s Sha256Sum) String() string { return hex.EncodeToString(s[:]) }

// MarshalJSON renders the digest as a lowercase hex JSON string.
func (s Sha1Sum) MarshalJSON() ([]byte, error) { return []byte(`"` + s.String() + `"`), nil }

// UnmarshalJSON parses a lowercase hex JSON string into the digest.
func (s *Sha1Sum) UnmarshalJSON(data []byte) error {
	str, err := unquote(data)
	if err != nil {
		return err
	}
	parsed, err := ParseSha1(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalJSON renders the digest as a lowercase hex JSON string.
func (s Sha256Sum) MarshalJSON() ([]byte, error) { return []byte(`"` + s.String() + `"`), nil }

// UnmarshalJSON parses a lowercase hex JSON string into the digest.
func (s *Sha256Sum) UnmarshalJSON(data []byte) error {
	str, err := unquote(data)
	if err != nil {
		return err
	}
	parsed, err := ParseSha256(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func unquote(data []byte) (string, error) {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return "", fmt.Errorf("%w: not a JSON string", errs.ErrInvalidHash)
	}
	return string(data[1 : len(data)-1]), nil
}

// SumSha1 streams r in fixed-size chunks through a SHA-1 context and
// returns the resulting digest.
func SumSha1(r io.Reader) (Sha1Sum, error) {
	h := sha1.New()
	buf := make([]byte, 8192)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return Sha1Sum{}, err
	}
	var out Sha1Sum
	copy(out[:], h.Sum(nil))
	return out, nil
}

// SumSha256 streams r in fixed-size chunks through a SHA-256 context and
// returns the resulting digest.
func SumSha256(r io.Reader) (Sha256Sum, error) {
	h := sha256.New()
	buf := make([]byte, 8192)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return Sha256Sum{}, err
	}
	var out Sha256Sum
	copy(out[:], h.Sum(nil))
	return out, nil
}
