// Package ids defines the opaque node identifier flowing through the
// engine's tuple pipeline.
package ids

import "strconv"

// ID is an opaque 64-bit node identifier. The engine only relies on its
// total order, equality and bit pattern; no arithmetic meaning is ascribed.
type ID uint64

// New returns the ID with the given bit pattern.
func New(bits uint64) ID {
	return ID(bits)
}

// Bits exposes the raw bit pattern, used as a hash key and for the
// fallback lexical form.
func (id ID) Bits() uint64 {
	return uint64(id)
}

func (id ID) Less(other ID) bool {
	return id < other
}

// Compare returns -1, 0 or 1 following the total order of the id space.
func (id ID) Compare(other ID) int {
	switch {
	case id < other:
		return -1
	case id > other:
		return 1
	default:
		return 0
	}
}

// String renders the fallback lexical form used when no entry for the id
// exists in the vocabulary.
func (id ID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}
