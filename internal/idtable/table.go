// Package idtable implements the column-oriented id table the physical
// operators exchange, together with the width-specialized row accessors
// their inner loops run on.
package idtable

import (
	"fmt"
	"sort"

	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/memory"
)

const bytesPerCell = 8

// Table is a column-major table of node ids. All column slices grow through
// the tracker handed to New, so hash-heavy operators and their outputs share
// one memory budget.
type Table struct {
	tracker *memory.Tracker
	cols    [][]ids.ID
	rows    int
}

func New(tracker *memory.Tracker) *Table {
	return &Table{tracker: tracker}
}

// FromRows builds a table with the given width from row-major input.
func FromRows(tracker *memory.Tracker, width int, rows [][]ids.ID) (*Table, error) {
	t := New(tracker)
	t.SetNumColumns(width)
	for _, row := range rows {
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// SetNumColumns must be called once, before any row is appended.
func (t *Table) SetNumColumns(w int) {
	t.cols = make([][]ids.ID, w)
}

// Tracker returns the tracker the table accounts through.
func (t *Table) Tracker() *memory.Tracker {
	return t.tracker
}

func (t *Table) NumColumns() int {
	return len(t.cols)
}

func (t *Table) NumRows() int {
	return t.rows
}

// Column returns a borrowing view of column i. The view must not outlive
// the table.
func (t *Table) Column(i int) []ids.ID {
	return t.cols[i]
}

func (t *Table) At(row, col int) ids.ID {
	return t.cols[col][row]
}

func (t *Table) Set(row, col int, v ids.ID) {
	t.cols[col][row] = v
}

// Row copies row r into a fresh slice. Meant for tests and diagnostics, not
// for inner loops.
func (t *Table) Row(r int) []ids.ID {
	row := make([]ids.ID, len(t.cols))
	for c := range t.cols {
		row[c] = t.cols[c][r]
	}
	return row
}

// AppendRow adds one row, accounting the new cells against the tracker.
func (t *Table) AppendRow(vals ...ids.ID) error {
	if len(vals) != len(t.cols) {
		return fmt.Errorf("idtable: appending %d cells to a table of width %d", len(vals), len(t.cols))
	}
	if err := t.tracker.Reserve(int64(len(vals)) * bytesPerCell); err != nil {
		return err
	}
	for c, v := range vals {
		t.cols[c] = append(t.cols[c], v)
	}
	t.rows++
	return nil
}

// Grow extends the table by n zero rows in one tracked reservation. Cells
// are then written in place through Set or the specialized writers.
func (t *Table) Grow(n int) error {
	if n <= 0 {
		return nil
	}
	if err := t.tracker.Reserve(int64(n) * int64(len(t.cols)) * bytesPerCell); err != nil {
		return err
	}
	for c := range t.cols {
		t.cols[c] = append(t.cols[c], make([]ids.ID, n)...)
	}
	t.rows += n
	return nil
}

// Clone deep-copies the table onto the given tracker.
func (t *Table) Clone(tracker *memory.Tracker) (*Table, error) {
	out := New(tracker)
	out.SetNumColumns(len(t.cols))
	if err := tracker.Reserve(int64(t.rows) * int64(len(t.cols)) * bytesPerCell); err != nil {
		return nil, err
	}
	for c := range t.cols {
		out.cols[c] = append([]ids.ID(nil), t.cols[c]...)
	}
	out.rows = t.rows
	return out, nil
}

// Release gives the table's tracked bytes back. The table must not be used
// afterwards.
func (t *Table) Release() {
	t.tracker.Release(int64(t.rows) * int64(len(t.cols)) * bytesPerCell)
	t.cols = nil
	t.rows = 0
}

// SortByColumns reorders the rows lexicographically by the given columns.
func (t *Table) SortByColumns(cols ...int) {
	perm := make([]int, t.rows)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ra, rb := perm[a], perm[b]
		for _, c := range cols {
			va, vb := t.cols[c][ra], t.cols[c][rb]
			if va != vb {
				return va < vb
			}
		}
		return false
	})
	scratch := make([]ids.ID, t.rows)
	for c := range t.cols {
		col := t.cols[c]
		for i, p := range perm {
			scratch[i] = col[p]
		}
		copy(col, scratch)
	}
}
