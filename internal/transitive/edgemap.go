package transitive

import (
	"context"
	"fmt"
	"sort"

	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/idtable"
	"github.com/quellgraph/quell/internal/memory"
	"github.com/quellgraph/quell/internal/plan"
)

// Per-key footprint of the adjacency hash map, on top of the per-target
// set entries.
const mapEntryBytes = 48

// An edgeMap is the per-source adjacency view of the edge relation the
// hull traversal runs on. Both implementations expose the same surface, so
// the traversal is written once.
type edgeMap interface {
	// successors visits every node reachable from node in one step.
	successors(node ids.ID, visit func(ids.ID))

	// contains reports whether node occurs in the edge relation, as a
	// source or as a target. Target presence is only maintained when the
	// map was built with needPresence; otherwise only source presence is
	// reported.
	contains(node ids.ID) bool

	release()
}

// hashMap keys the edge relation by source node in a tracked hash map of
// target sets. Works on any edge relation, sorted or not.
type hashMap struct {
	edges   map[ids.ID]*idSet
	present *idSet
	tracker *memory.Tracker
}

var _ edgeMap = (*hashMap)(nil)

// newHashMap builds the adjacency map in one pass over the two endpoint
// columns, polling ctx on every row.
func newHashMap(ctx context.Context, sub *idtable.Table, srcCol, tgtCol int, needPresence bool, tracker *memory.Tracker) (*hashMap, error) {
	srcs := sub.Column(srcCol)
	tgts := sub.Column(tgtCol)
	if len(srcs) != len(tgts) {
		return nil, fmt.Errorf("%w: endpoint columns differ in length (%d vs %d)", plan.ErrInvariantViolated, len(srcs), len(tgts))
	}

	m := &hashMap{
		edges:   make(map[ids.ID]*idSet),
		tracker: tracker,
	}
	if needPresence {
		m.present = newIDSet(tracker)
	}
	for i := range srcs {
		if err := ctx.Err(); err != nil {
			m.release()
			return nil, err
		}
		targets, ok := m.edges[srcs[i]]
		if !ok {
			if err := tracker.Reserve(mapEntryBytes); err != nil {
				m.release()
				return nil, err
			}
			targets = newIDSet(tracker)
			m.edges[srcs[i]] = targets
		}
		if err := targets.add(tgts[i]); err != nil {
			m.release()
			return nil, err
		}
		if m.present != nil {
			if err := m.present.add(srcs[i]); err != nil {
				m.release()
				return nil, err
			}
			if err := m.present.add(tgts[i]); err != nil {
				m.release()
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *hashMap) successors(node ids.ID, visit func(ids.ID)) {
	targets, ok := m.edges[node]
	if !ok {
		return
	}
	for t := range targets.m {
		visit(t)
	}
}

func (m *hashMap) contains(node ids.ID) bool {
	if m.present != nil {
		return m.present.has(node)
	}
	_, ok := m.edges[node]
	return ok
}

func (m *hashMap) release() {
	for src, targets := range m.edges {
		targets.release()
		m.tracker.Release(mapEntryBytes)
		delete(m.edges, src)
	}
	if m.present != nil {
		m.present.release()
		m.present = nil
	}
}

// binSearchMap serves successors straight from the edge relation's two
// endpoint columns, which must be sorted lexicographically by (source,
// target). It borrows the column views and allocates nothing beyond the
// optional presence set, so it must not outlive the sub-result.
type binSearchMap struct {
	sources []ids.ID
	targets []ids.ID
	present *idSet
}

var _ edgeMap = (*binSearchMap)(nil)

func newBinSearchMap(ctx context.Context, sub *idtable.Table, srcCol, tgtCol int, needPresence bool, tracker *memory.Tracker) (*binSearchMap, error) {
	srcs := sub.Column(srcCol)
	tgts := sub.Column(tgtCol)
	if len(srcs) != len(tgts) {
		return nil, fmt.Errorf("%w: endpoint columns differ in length (%d vs %d)", plan.ErrInvariantViolated, len(srcs), len(tgts))
	}

	m := &binSearchMap{sources: srcs, targets: tgts}
	if needPresence {
		m.present = newIDSet(tracker)
		for i := range srcs {
			if err := ctx.Err(); err != nil {
				m.release()
				return nil, err
			}
			if err := m.present.add(srcs[i]); err != nil {
				m.release()
				return nil, err
			}
			if err := m.present.add(tgts[i]); err != nil {
				m.release()
				return nil, err
			}
		}
	}
	return m, nil
}

// successorRange locates the contiguous slice of targets of node with two
// bounds probes on the source column.
func (m *binSearchMap) successorRange(node ids.ID) []ids.ID {
	lo := sort.Search(len(m.sources), func(i int) bool { return m.sources[i] >= node })
	hi := sort.Search(len(m.sources), func(i int) bool { return m.sources[i] > node })
	return m.targets[lo:hi]
}

func (m *binSearchMap) successors(node ids.ID, visit func(ids.ID)) {
	for _, t := range m.successorRange(node) {
		visit(t)
	}
}

func (m *binSearchMap) contains(node ids.ID) bool {
	if m.present != nil {
		return m.present.has(node)
	}
	i := sort.Search(len(m.sources), func(i int) bool { return m.sources[i] >= node })
	return i < len(m.sources) && m.sources[i] == node
}

func (m *binSearchMap) release() {
	if m.present != nil {
		m.present.release()
		m.present = nil
	}
}
