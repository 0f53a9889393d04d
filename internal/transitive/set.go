package transitive

import (
	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/memory"
)

// Approximate per-entry footprint of a hash-set bucket, accounted against
// the tracker. Exactness is not required, only that growth is bounded.
const setEntryBytes = 16

// idSet is a tracked hash set of node ids.
type idSet struct {
	m       map[ids.ID]struct{}
	tracker *memory.Tracker
}

func newIDSet(tracker *memory.Tracker) *idSet {
	return &idSet{m: make(map[ids.ID]struct{}), tracker: tracker}
}

func (s *idSet) add(id ids.ID) error {
	if _, ok := s.m[id]; ok {
		return nil
	}
	if err := s.tracker.Reserve(setEntryBytes); err != nil {
		return err
	}
	s.m[id] = struct{}{}
	return nil
}

func (s *idSet) has(id ids.ID) bool {
	_, ok := s.m[id]
	return ok
}

func (s *idSet) len() int {
	return len(s.m)
}

// reset empties the set, giving its tracked bytes back.
func (s *idSet) reset() {
	s.tracker.Release(int64(len(s.m)) * setEntryBytes)
	clear(s.m)
}

func (s *idSet) release() {
	s.tracker.Release(int64(len(s.m)) * setEntryBytes)
	s.m = nil
}
