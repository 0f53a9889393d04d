package transitive

import (
	"context"

	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/memory"
)

// hullMap maps each start node to the set of nodes reachable from it via a
// path whose length falls in the configured window.
type hullMap struct {
	m       map[ids.ID]*idSet
	pairs   int
	tracker *memory.Tracker
}

func newHullMap(tracker *memory.Tracker) *hullMap {
	return &hullMap{m: make(map[ids.ID]*idSet), tracker: tracker}
}

func (h *hullMap) add(start, target ids.ID) error {
	targets, ok := h.m[start]
	if !ok {
		if err := h.tracker.Reserve(mapEntryBytes); err != nil {
			return err
		}
		targets = newIDSet(h.tracker)
		h.m[start] = targets
	}
	before := targets.len()
	if err := targets.add(target); err != nil {
		return err
	}
	if targets.len() > before {
		h.pairs++
	}
	return nil
}

func (h *hullMap) has(start ids.ID) bool {
	_, ok := h.m[start]
	return ok
}

// targetsOf returns the reachable set of start, or nil.
func (h *hullMap) targetsOf(start ids.ID) *idSet {
	return h.m[start]
}

// size returns the total number of (start, target) pairs.
func (h *hullMap) size() int {
	return h.pairs
}

func (h *hullMap) release() {
	for start, targets := range h.m {
		targets.release()
		h.tracker.Release(mapEntryBytes)
		delete(h.m, start)
	}
	h.pairs = 0
}

type frame struct {
	node  ids.ID
	steps uint64
}

// transitiveHull runs a depth-limited depth-first search from every start
// node over the given adjacency view. The visited set is kept per start,
// which makes termination on cyclic graphs correct within the length
// window; hulls already computed for an earlier start are reused.
//
// A reflexive pair is admitted only when the minimum distance is zero and
// the start node occurs in the edge relation. If target is non-nil the hull
// is restricted to that single target id.
func transitiveHull(
	ctx context.Context,
	edges edgeMap,
	startNodes []ids.ID,
	minDist, maxDist uint64,
	target *ids.ID,
	tracker *memory.Tracker,
) (*hullMap, error) {
	hull := newHullMap(tracker)
	marks := newIDSet(tracker)
	defer marks.release()

	var stack []frame
	var steps uint64
	push := func(succ ids.ID) {
		stack = append(stack, frame{node: succ, steps: steps + 1})
	}

	for _, start := range startNodes {
		if hull.has(start) {
			// The hull of this node is already complete.
			continue
		}

		marks.reset()
		stack = stack[:0]
		stack = append(stack, frame{node: start, steps: 0})

		if minDist == 0 && (target == nil || start == *target) && edges.contains(start) {
			if err := hull.add(start, start); err != nil {
				hull.release()
				return nil, err
			}
		}

		for len(stack) > 0 {
			if err := ctx.Err(); err != nil {
				hull.release()
				return nil, err
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.steps > maxDist || marks.has(f.node) {
				continue
			}
			if f.steps >= minDist {
				if err := marks.add(f.node); err != nil {
					hull.release()
					return nil, err
				}
				// The reflexive pair at depth zero was handled above.
				if f.steps > 0 && (target == nil || f.node == *target) {
					if err := hull.add(start, f.node); err != nil {
						hull.release()
						return nil, err
					}
				}
			}
			steps = f.steps
			edges.successors(f.node, push)
		}
	}
	return hull, nil
}
