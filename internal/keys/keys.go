// Package keys computes the stable 64-bit keys under which operation
// results are cached.
package keys

import (
	"github.com/cespare/xxhash/v2"
)

type hasher interface {
	WriteString(value string) error
}

// CacheKeyHasher implements a key hash using Hash64 for computing cache keys
// in a stable way.
type CacheKeyHasher struct {
	hasher *xxhash.Digest
}

var _ hasher = (*CacheKeyHasher)(nil)

// NewCacheKeyHasher returns a hasher for string values.
func NewCacheKeyHasher(xhash *xxhash.Digest) *CacheKeyHasher {
	return &CacheKeyHasher{hasher: xhash}
}

// WriteString writes the provided string to the hash.
func (c *CacheKeyHasher) WriteString(value string) error {
	// WriteString on an xxhash digest never fails.
	_, _ = c.hasher.WriteString(value)

	return nil
}

// Key returns the stable key this hash defines.
func (c *CacheKeyHasher) Key() uint64 {
	return c.hasher.Sum64()
}

// StableKey hashes the given parts into one stable 64-bit key. Each part is
// followed by a 0x1f separator byte, so differently split inputs hash
// differently unless a part itself contains that byte.
func StableKey(parts ...string) uint64 {
	h := NewCacheKeyHasher(xxhash.New())
	for _, p := range parts {
		_ = h.WriteString(p)
		_ = h.WriteString("\x1f")
	}
	return h.Key()
}
