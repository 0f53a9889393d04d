// Package memory implements the tracked allocation accounting shared by the
// hash structures and output tables of a query evaluation.
package memory

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrLimitExceeded is returned when a reservation would push the tracked
// usage past the configured limit.
var ErrLimitExceeded = errors.New("memory: tracked allocation limit exceeded")

// Tracker accounts bytes against a global limit. A zero limit means
// unbounded. A nil Tracker performs no accounting.
type Tracker struct {
	limit int64
	used  atomic.Int64
}

func NewTracker(limit int64) *Tracker {
	return &Tracker{limit: limit}
}

// Reserve accounts n additional bytes. It fails without changing the usage
// when the limit would be exceeded.
func (t *Tracker) Reserve(n int64) error {
	if t == nil || n <= 0 {
		return nil
	}
	used := t.used.Add(n)
	if t.limit > 0 && used > t.limit {
		t.used.Add(-n)
		return fmt.Errorf("%w: requested %d bytes, used %d of %d", ErrLimitExceeded, n, used-n, t.limit)
	}
	return nil
}

// Release gives back n previously reserved bytes.
func (t *Tracker) Release(n int64) {
	if t == nil || n <= 0 {
		return
	}
	t.used.Add(-n)
}

func (t *Tracker) Used() int64 {
	if t == nil {
		return 0
	}
	return t.used.Load()
}

func (t *Tracker) Limit() int64 {
	if t == nil {
		return 0
	}
	return t.limit
}
