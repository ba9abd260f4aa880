// Package verify checks library and asset artifacts on disk against
// their expected SHA-1 digests, caching per-session results so unchanged
// files are not re-hashed within one run.
package verify

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quasar/launchcore/internal/errs"
	"github.com/quasar/launchcore/internal/hash"
)

// Reason classifies why an artifact failed verification.
type Reason int

const (
	// Missing means the file does not exist at the expected path.
	Missing Reason = iota
	// InvalidHash means the file exists but its digest does not match.
	InvalidHash
)

func (r Reason) String() string {
	switch r {
	case Missing:
		return "missing"
	case InvalidHash:
		return "invalid hash"
	default:
		return "unknown"
	}
}

// Failure names one artifact that failed verification and why.
type Failure struct {
	Path   string
	Reason Reason
}

// Verifier checks artifact integrity and remembers, within one session,
// which paths have already verified OK. The zero value is ready to use.
type Verifier struct {
	verified map[string]bool
}

// New returns a ready-to-use Verifier.
func New() *Verifier {
	return &Verifier{verified: make(map[string]bool)}
}

// Check verifies the file at path against expectedSha1. It returns
// (true, nil) if the file is present with a matching digest — whether
// freshly computed or short-circuited via the per-session cache — and
// (false, nil) with the failure reason otherwise. Any other I/O error is
// returned as the error and must be treated as fatal by the caller.
func (v *Verifier) Check(path string, expectedSha1 hash.Sha1Sum) (bool, Reason, error) {
	if v.verified[path] {
		return true, 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, Missing, nil
		}
		return false, 0, fmt.Errorf("verify %s: %w", path, err)
	}
	defer f.Close()

	sum, err := hash.SumSha1(f)
	if err != nil {
		return false, 0, fmt.Errorf("verify %s: %w", path, err)
	}
	if sum != expectedSha1 {
		return false, InvalidHash, nil
	}

	if v.verified == nil {
		v.verified = make(map[string]bool)
	}
	v.verified[path] = true
	return true, 0, nil
}

// CheckErr is Check's companion returning a sentinel error instead of a
// (bool, Reason) pair, for callers that prefer errors.Is-style handling.
func (v *Verifier) CheckErr(path string, expectedSha1 hash.Sha1Sum) error {
	ok, reason, err := v.Check(path, expectedSha1)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	switch reason {
	case Missing:
		return fmt.Errorf("%w: %s", errs.ErrLibraryMissing, path)
	default:
		return fmt.Errorf("%w: %s", errs.ErrLibraryInvalidHash, path)
	}
}

// AssetPath returns the content-addressed path for an asset's SHA-1
// digest under assetsRoot: <assetsRoot>/objects/<first-byte-hex>/<full-hex>.
func AssetPath(assetsRoot string, sha1 hash.Sha1Sum) string {
	h := sha1.String()
	return filepath.Join(assetsRoot, "objects", h[:2], h)
}
