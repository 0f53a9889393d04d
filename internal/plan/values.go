package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/idtable"
)

// Values is an in-memory leaf operation over materialized rows. It feeds
// operators whose upstream is not an index scan, and is the edge relation
// of choice in operator tests.
type Values struct {
	ec       *ExecutionContext
	vars     []Variable
	rows     [][]ids.ID
	sortedOn []int
}

var _ Operation = (*Values)(nil)

func NewValues(ec *ExecutionContext, vars []Variable, rows [][]ids.ID) *Values {
	return &Values{ec: ec, vars: vars, rows: rows}
}

// WithDeclaredSort declares that the rows are already sorted on the given
// columns. The caller is responsible for the declaration being true.
func (v *Values) WithDeclaredSort(cols ...int) *Values {
	out := *v
	out.sortedOn = cols
	return &out
}

func (v *Values) GetResult(ctx context.Context) (*Result, error) {
	table := idtable.New(v.ec.Tracker)
	table.SetNumColumns(len(v.vars))
	for i, row := range v.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(row) != len(v.vars) {
			return nil, fmt.Errorf("%w: values row %d has %d cells, want %d", ErrInvariantViolated, i, len(row), len(v.vars))
		}
		if err := table.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return NewResult(table, v.sortedOn, nil), nil
}

func (v *Values) CacheKey() string {
	var b strings.Builder
	b.WriteString("Values [")
	for i, vr := range v.vars {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(vr.Name())
	}
	b.WriteString("]")
	if len(v.sortedOn) > 0 {
		fmt.Fprintf(&b, " sorted on %v", v.sortedOn)
	}
	for _, row := range v.rows {
		b.WriteString("\n")
		for c, id := range row {
			if c > 0 {
				b.WriteString(" ")
			}
			b.WriteString(id.String())
		}
	}
	return b.String()
}

func (v *Values) Descriptor() string {
	return fmt.Sprintf("Values of width %d with %d rows", len(v.vars), len(v.rows))
}

func (v *Values) ResultWidth() int {
	return len(v.vars)
}

func (v *Values) SortedOn() []int {
	return v.sortedOn
}

func (v *Values) KnownEmptyResult() bool {
	return len(v.rows) == 0
}

func (v *Values) SizeEstimate() uint64 {
	return uint64(len(v.rows))
}

func (v *Values) CostEstimate() uint64 {
	return uint64(len(v.rows))
}

// Multiplicity is exact for a values operation: the average number of
// occurrences of a distinct value in the column.
func (v *Values) Multiplicity(col int) float64 {
	if len(v.rows) == 0 {
		return 1
	}
	distinct := make(map[ids.ID]struct{}, len(v.rows))
	for _, row := range v.rows {
		distinct[row[col]] = struct{}{}
	}
	return float64(len(v.rows)) / float64(len(distinct))
}

func (v *Values) VariableToColumnMap() VariableToColumnMap {
	m := make(VariableToColumnMap, len(v.vars))
	for i, vr := range v.vars {
		m[vr] = AlwaysDefinedColumn(i)
	}
	return m
}
