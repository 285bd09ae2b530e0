// Package digest computes cryptographic digests over byte buffers and
// streams for a closed set of algorithms. The algorithm set is fixed at
// build time and dispatched with exhaustive switches, so digest widths
// and the weak-algorithm table stay trivially in sync.
//
// Buffered and streamed paths produce byte-identical output for every
// algorithm; streaming reads in bounded 64 KiB chunks.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"

	"lukechampine.com/blake3"
)

// Algorithm identifies a supported digest algorithm.
type Algorithm int

// Supported algorithms.
const (
	MD5 Algorithm = iota
	SHA1
	SHA256
	SHA512
	BLAKE3
)

// ChunkSize is the read size used by the streaming path.
const ChunkSize = 64 * 1024

// ErrUnknownAlgorithm is returned when an algorithm name cannot be parsed.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ErrWeakAlgorithm is returned when a weak algorithm is selected without
// the explicit opt-in. Callers must check before any hashing starts.
var ErrWeakAlgorithm = errors.New("weak algorithm not allowed")

// Algorithms returns all supported algorithms in declaration order.
func Algorithms() []Algorithm {
	return []Algorithm{MD5, SHA1, SHA256, SHA512, BLAKE3}
}

// Names returns the parseable names of all supported algorithms.
func Names() []string {
	algos := Algorithms()
	names := make([]string, len(algos))
	for i, a := range algos {
		names[i] = a.String()
	}
	return names
}

// ParseAlgorithm parses an algorithm name. Matching is case-insensitive
// and accepts the common dashed spellings ("sha-256").
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "") {
	case "md5":
		return MD5, nil
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	case "sha512":
		return SHA512, nil
	case "blake3":
		return BLAKE3, nil
	default:
		return SHA256, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownAlgorithm, s, strings.Join(Names(), ", "))
	}
}

// String returns the canonical lowercase name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case MD5:
		return "md5"
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	case SHA512:
		return "sha512"
	case BLAKE3:
		return "blake3"
	default:
		return "unknown"
	}
}

// HexLen returns the width of the algorithm's hex digest.
func (a Algorithm) HexLen() int {
	switch a {
	case MD5:
		return 2 * md5.Size
	case SHA1:
		return 2 * sha1.Size
	case SHA256:
		return 2 * sha256.Size
	case SHA512:
		return 2 * sha512.Size
	case BLAKE3:
		return 2 * 32
	default:
		return 0
	}
}

// Weak reports whether the algorithm has known collision weaknesses.
// Weak algorithms are gated behind an explicit opt-in.
func (a Algorithm) Weak() bool {
	return a == MD5 || a == SHA1
}

// Check enforces the weak-algorithm gate. It returns ErrWeakAlgorithm
// (wrapped with the algorithm name) when a weak algorithm is selected
// without allowWeak.
func Check(a Algorithm, allowWeak bool) error {
	if a.Weak() && !allowWeak {
		return fmt.Errorf("%w: %s (pass --allow-weak to proceed)", ErrWeakAlgorithm, a)
	}
	return nil
}

// New returns a fresh hasher for the algorithm.
func New(a Algorithm) hash.Hash {
	switch a {
	case MD5:
		return md5.New()
	case SHA1:
		return sha1.New()
	case SHA256:
		return sha256.New()
	case SHA512:
		return sha512.New()
	case BLAKE3:
		return blake3.New(32, nil)
	default:
		panic("digest: unknown algorithm")
	}
}

// Sum computes the digest of an in-memory byte buffer and returns it as
// lowercase hex at the algorithm's fixed width.
func Sum(data []byte, a Algorithm) string {
	switch a {
	case MD5:
		d := md5.Sum(data)
		return hex.EncodeToString(d[:])
	case SHA1:
		d := sha1.Sum(data)
		return hex.EncodeToString(d[:])
	case SHA256:
		d := sha256.Sum256(data)
		return hex.EncodeToString(d[:])
	case SHA512:
		d := sha512.Sum512(data)
		return hex.EncodeToString(d[:])
	case BLAKE3:
		d := blake3.Sum256(data)
		return hex.EncodeToString(d[:])
	default:
		panic("digest: unknown algorithm")
	}
}

// SumReader computes the digest of a sequential byte stream, reading in
// ChunkSize chunks. I/O errors are propagated, not swallowed.
func SumReader(r io.Reader, a Algorithm) (string, error) {
	h := New(a)
	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Equal compares two digest strings in constant time. It returns true
// iff the strings have the same length and bytes; the position of the
// first differing byte is not observable through timing.
func Equal(a, b string) bool {
	if len(a) != len(b) {
		// Burn a full-width comparison anyway so length mismatches
		// cost the same as content mismatches.
		subtle.ConstantTimeCompare([]byte(a), []byte(a))
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ValidHex reports whether s is a non-empty string of hex digits.
func ValidHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// CheckHex validates that s is a well-formed digest for the algorithm:
// the exact hex width and only hex digits.
func CheckHex(a Algorithm, s string) error {
	if len(s) != a.HexLen() || !ValidHex(s) {
		return fmt.Errorf("invalid %s hash: expected %d hex characters", a, a.HexLen())
	}
	return nil
}
