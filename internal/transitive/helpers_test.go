package transitive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/plan"
	"github.com/quellgraph/quell/pkg/config"
	"github.com/quellgraph/quell/pkg/logger"
)

func newTestContext() *plan.ExecutionContext {
	return plan.NewExecutionContext(config.Default(), logger.NewNoopLogger(), nil)
}

func row(vals ...uint64) []ids.ID {
	out := make([]ids.ID, len(vals))
	for i, v := range vals {
		out[i] = ids.New(v)
	}
	return out
}

func rows(pairs ...[]uint64) [][]ids.ID {
	out := make([][]ids.ID, len(pairs))
	for i, p := range pairs {
		out[i] = row(p...)
	}
	return out
}

// testEdges is the edge relation most scenarios run on:
// 1->2, 2->3, 3->4, 4->2, 2->5.
func testEdges(ec *plan.ExecutionContext) *plan.Values {
	return plan.NewValues(ec,
		[]plan.Variable{"s", "o"},
		rows([]uint64{1, 2}, []uint64{2, 3}, []uint64{3, 4}, []uint64{4, 2}, []uint64{2, 5}),
	)
}

// resultRows flattens a result into row-major uint64 tuples for multiset
// comparison.
func resultRows(t *testing.T, res *plan.Result) [][]uint64 {
	t.Helper()
	out := make([][]uint64, 0, res.NumRows())
	for r := 0; r < res.NumRows(); r++ {
		tuple := make([]uint64, res.NumColumns())
		for c := 0; c < res.NumColumns(); c++ {
			tuple[c] = res.Table().At(r, c).Bits()
		}
		out = append(out, tuple)
	}
	return out
}

func requireRows(t *testing.T, res *plan.Result, want [][]uint64) {
	t.Helper()
	require.ElementsMatch(t, want, resultRows(t, res))
}

var algorithms = []Algorithm{AlgorithmHashMap, AlgorithmBinSearch}
