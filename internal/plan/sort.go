package plan

import (
	"context"
	"fmt"
	"math/bits"
)

// Sorted enforces a sort order on an operation's result. When the
// operation's declared sortedness already has cols as a prefix the
// operation is returned unchanged, mirroring how index scans usually
// satisfy the order for free.
func Sorted(op Operation, cols ...int) Operation {
	if hasSortPrefix(op.SortedOn(), cols) {
		return op
	}
	return &SortOperation{child: op, cols: cols}
}

func hasSortPrefix(sorted, cols []int) bool {
	if len(sorted) < len(cols) {
		return false
	}
	for i, c := range cols {
		if sorted[i] != c {
			return false
		}
	}
	return true
}

// SortOperation materializes its child and sorts the rows
// lexicographically by the requested columns.
type SortOperation struct {
	child Operation
	cols  []int
}

var _ Operation = (*SortOperation)(nil)

// Child returns the wrapped operation.
func (s *SortOperation) Child() Operation {
	return s.child
}

func (s *SortOperation) GetResult(ctx context.Context) (*Result, error) {
	childRes, err := s.child.GetResult(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range s.cols {
		if c >= childRes.NumColumns() {
			return nil, fmt.Errorf("%w: sort column %d out of range for width %d", ErrInvariantViolated, c, childRes.NumColumns())
		}
	}
	// The child result is immutable, so sorting works on a copy.
	table, err := childRes.Table().Clone(childRes.Table().Tracker())
	if err != nil {
		return nil, err
	}
	table.SortByColumns(s.cols...)
	return NewResult(table, s.cols, childRes.Vocabulary()), nil
}

func (s *SortOperation) CacheKey() string {
	return fmt.Sprintf("Sort on %v\n%s", s.cols, s.child.CacheKey())
}

func (s *SortOperation) Descriptor() string {
	return fmt.Sprintf("Sort on %v", s.cols)
}

func (s *SortOperation) ResultWidth() int {
	return s.child.ResultWidth()
}

func (s *SortOperation) SortedOn() []int {
	return s.cols
}

func (s *SortOperation) KnownEmptyResult() bool {
	return s.child.KnownEmptyResult()
}

func (s *SortOperation) SizeEstimate() uint64 {
	return s.child.SizeEstimate()
}

func (s *SortOperation) CostEstimate() uint64 {
	n := s.child.SizeEstimate()
	return s.child.CostEstimate() + n*uint64(bits.Len64(n))
}

func (s *SortOperation) Multiplicity(col int) float64 {
	return s.child.Multiplicity(col)
}

func (s *SortOperation) VariableToColumnMap() VariableToColumnMap {
	return s.child.VariableToColumnMap()
}
