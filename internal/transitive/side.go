package transitive

import (
	"fmt"
	"strings"

	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/plan"
)

// A Side describes one endpoint of the path: a free variable, a variable
// bound to the values of a feeding sub-plan, or a single fixed id. It also
// records where the endpoint lives in the edge relation and in the output
// table.
type Side struct {
	variable plan.Variable
	fixed    ids.ID
	hasFixed bool

	// feed is non-nil when the side is bound; feedCol is the column of the
	// feed's result carrying the admissible values.
	feed    plan.Operation
	feedCol int

	subCol    int
	outputCol int
}

// FreeSide describes an endpoint that is an unbound variable located at
// subCol in the edge relation.
func FreeSide(v plan.Variable, subCol int) Side {
	return Side{variable: v, subCol: subCol}
}

// FixedSide describes an endpoint fixed to a single id.
func FixedSide(id ids.ID, subCol int) Side {
	return Side{fixed: id, hasFixed: true, subCol: subCol}
}

func (s Side) IsVariable() bool {
	return !s.hasFixed
}

func (s Side) IsBound() bool {
	return s.feed != nil
}

func (s Side) IsFixed() bool {
	return s.hasFixed
}

func (s Side) Variable() plan.Variable {
	return s.variable
}

func (s Side) FixedID() ids.ID {
	return s.fixed
}

func (s Side) SubCol() int {
	return s.subCol
}

func (s Side) OutputCol() int {
	return s.outputCol
}

// Feed returns the feeding sub-plan and its join column; the operation is
// nil for unbound sides.
func (s Side) Feed() (plan.Operation, int) {
	return s.feed, s.feedCol
}

// isSortedOnJoinCol reports whether the feeding sub-plan's result is sorted
// primarily on the join column.
func (s Side) isSortedOnJoinCol() bool {
	if s.feed == nil {
		return false
	}
	sorted := s.feed.SortedOn()
	return len(sorted) > 0 && sorted[0] == s.feedCol
}

// feedSizeEstimate returns the size estimate of the feeding sub-plan, if
// any.
func (s Side) feedSizeEstimate() (uint64, bool) {
	if s.feed == nil {
		return 0, false
	}
	return s.feed.SizeEstimate(), true
}

func (s Side) cacheKey() string {
	var b strings.Builder
	if s.hasFixed {
		fmt.Fprintf(&b, "Id: %d", s.fixed.Bits())
	} else {
		fmt.Fprintf(&b, "Var: %s", s.variable.Name())
	}
	fmt.Fprintf(&b, ", subColumn: %d to %d", s.subCol, s.outputCol)
	if s.feed != nil {
		fmt.Fprintf(&b, ", feed:\n%s\nwith join column %d", s.feed.CacheKey(), s.feedCol)
	}
	return b.String()
}
