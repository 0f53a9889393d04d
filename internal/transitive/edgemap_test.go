package transitive

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/idtable"
)

func collectSuccessors(m edgeMap, node uint64) []uint64 {
	var out []uint64
	m.successors(ids.New(node), func(id ids.ID) {
		out = append(out, id.Bits())
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestEdgeMapsAgree(t *testing.T) {
	unsorted := rows([]uint64{4, 2}, []uint64{1, 2}, []uint64{2, 5}, []uint64{2, 3}, []uint64{3, 4})
	unsortedTable, err := idtable.FromRows(nil, 2, unsorted)
	require.NoError(t, err)

	sortedTable, err := unsortedTable.Clone(nil)
	require.NoError(t, err)
	sortedTable.SortByColumns(0, 1)

	hash, err := newHashMap(context.Background(), unsortedTable, 0, 1, true, nil)
	require.NoError(t, err)
	bin, err := newBinSearchMap(context.Background(), sortedTable, 0, 1, true, nil)
	require.NoError(t, err)

	for node := uint64(1); node <= 6; node++ {
		require.Equal(t, collectSuccessors(hash, node), collectSuccessors(bin, node), "successors of %d", node)
		require.Equal(t, hash.contains(ids.New(node)), bin.contains(ids.New(node)), "contains %d", node)
	}
}

func TestHashMapDeduplicatesTargets(t *testing.T) {
	table, err := idtable.FromRows(nil, 2, rows([]uint64{1, 2}, []uint64{1, 2}, []uint64{1, 3}))
	require.NoError(t, err)

	m, err := newHashMap(context.Background(), table, 0, 1, false, nil)
	require.NoError(t, err)

	require.Equal(t, []uint64{2, 3}, collectSuccessors(m, 1))
}

func TestBinSearchMapBounds(t *testing.T) {
	table, err := idtable.FromRows(nil, 2, rows([]uint64{1, 2}, []uint64{2, 3}, []uint64{2, 5}, []uint64{3, 4}, []uint64{4, 2}))
	require.NoError(t, err)

	m, err := newBinSearchMap(context.Background(), table, 0, 1, false, nil)
	require.NoError(t, err)

	require.Equal(t, []uint64{3, 5}, collectSuccessors(m, 2))
	require.Empty(t, collectSuccessors(m, 5))
	require.True(t, m.contains(ids.New(3)))
	// Without the presence set only sources are known.
	require.False(t, m.contains(ids.New(5)))
}

func TestEdgeMapsSwapDirection(t *testing.T) {
	// Building with the columns swapped yields the reversed graph.
	table, err := idtable.FromRows(nil, 2, rows([]uint64{1, 2}, []uint64{3, 2}))
	require.NoError(t, err)

	m, err := newHashMap(context.Background(), table, 1, 0, false, nil)
	require.NoError(t, err)

	require.Equal(t, []uint64{1, 3}, collectSuccessors(m, 2))
}
