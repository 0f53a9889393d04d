package transitive

import (
	"github.com/quellgraph/quell/internal/idtable"
)

// fillWithHull writes one output row per hull pair. Used when the start
// side is free or fixed; the row order is whatever the hull iteration
// yields, the result is only deterministic as a multiset.
func fillWithHull(res *idtable.Table, hull *hullMap, startCol, targetCol int) error {
	if err := res.Grow(hull.size()); err != nil {
		return err
	}
	put := res.PairWriter(startCol, targetCol)
	row := 0
	for start, targets := range hull.m {
		for target := range targets.m {
			put(row, start, target)
			row++
		}
	}
	return nil
}

// fillWithHullBound walks the bound-side result row by row, emitting one
// output row per reachable target of the row's join value and propagating
// the row's remaining columns. Rows whose join value has no hull entry are
// dropped.
func fillWithHullBound(res *idtable.Table, hull *hullMap, side *idtable.Table, joinCol, startCol, targetCol int) error {
	joins := side.Column(joinCol)

	total := 0
	for _, start := range joins {
		if targets := hull.targetsOf(start); targets != nil {
			total += targets.len()
		}
	}
	if err := res.Grow(total); err != nil {
		return err
	}

	put := res.PairWriter(startCol, targetCol)
	copyRow := idtable.RowCopier(res, side, joinCol, 2)
	row := 0
	for i, start := range joins {
		targets := hull.targetsOf(start)
		if targets == nil {
			continue
		}
		for target := range targets.m {
			put(row, start, target)
			copyRow(row, i)
			row++
		}
	}
	return nil
}
