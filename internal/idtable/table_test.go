package idtable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quellgraph/quell/internal/ids"
	"github.com/quellgraph/quell/internal/memory"
)

func idRow(vals ...uint64) []ids.ID {
	out := make([]ids.ID, len(vals))
	for i, v := range vals {
		out[i] = ids.New(v)
	}
	return out
}

func TestAppendAndAccess(t *testing.T) {
	tbl := New(nil)
	tbl.SetNumColumns(3)
	require.NoError(t, tbl.AppendRow(idRow(1, 2, 3)...))
	require.NoError(t, tbl.AppendRow(idRow(4, 5, 6)...))

	require.Equal(t, 3, tbl.NumColumns())
	require.Equal(t, 2, tbl.NumRows())
	require.Equal(t, ids.New(5), tbl.At(1, 1))
	require.Equal(t, idRow(4, 5, 6), tbl.Row(1))
	require.Equal(t, idRow(2, 5), tbl.Column(1))
}

func TestAppendRowWidthMismatch(t *testing.T) {
	tbl := New(nil)
	tbl.SetNumColumns(2)
	require.Error(t, tbl.AppendRow(idRow(1)...))
}

func TestGrowAndSet(t *testing.T) {
	tbl := New(nil)
	tbl.SetNumColumns(2)
	require.NoError(t, tbl.Grow(2))
	tbl.Set(0, 0, ids.New(7))
	tbl.Set(1, 1, ids.New(8))

	require.Equal(t, idRow(7, 0), tbl.Row(0))
	require.Equal(t, idRow(0, 8), tbl.Row(1))
}

func TestTrackedAllocation(t *testing.T) {
	tracker := memory.NewTracker(100)
	tbl := New(tracker)
	tbl.SetNumColumns(2)

	require.NoError(t, tbl.Grow(5))
	require.Equal(t, int64(80), tracker.Used())

	require.ErrorIs(t, tbl.Grow(5), memory.ErrLimitExceeded)
	require.Equal(t, 5, tbl.NumRows())

	tbl.Release()
	require.Zero(t, tracker.Used())
}

func TestSortByColumns(t *testing.T) {
	tbl := New(nil)
	tbl.SetNumColumns(2)
	for _, r := range [][]ids.ID{idRow(2, 1), idRow(1, 2), idRow(2, 0), idRow(1, 1)} {
		require.NoError(t, tbl.AppendRow(r...))
	}

	tbl.SortByColumns(0, 1)

	require.Equal(t, idRow(1, 1), tbl.Row(0))
	require.Equal(t, idRow(1, 2), tbl.Row(1))
	require.Equal(t, idRow(2, 0), tbl.Row(2))
	require.Equal(t, idRow(2, 1), tbl.Row(3))
}

func TestClone(t *testing.T) {
	tbl := New(nil)
	tbl.SetNumColumns(1)
	require.NoError(t, tbl.AppendRow(ids.New(1)))

	cp, err := tbl.Clone(nil)
	require.NoError(t, err)
	cp.Set(0, 0, ids.New(9))

	require.Equal(t, ids.New(1), tbl.At(0, 0))
	require.Equal(t, ids.New(9), cp.At(0, 0))
}

func TestPairWriter(t *testing.T) {
	tbl := New(nil)
	tbl.SetNumColumns(2)
	require.NoError(t, tbl.Grow(1))

	// The pair columns can be swapped, as happens when the traversal runs
	// against the edge direction.
	put := tbl.PairWriter(1, 0)
	put(0, ids.New(3), ids.New(4))

	require.Equal(t, idRow(4, 3), tbl.Row(0))
}

func TestRowCopierWidths(t *testing.T) {
	// Cover every specialized width and the generic fallback.
	for srcWidth := 1; srcWidth <= MaxSpecializedWidth+2; srcWidth++ {
		src := New(nil)
		src.SetNumColumns(srcWidth)
		vals := make([]ids.ID, srcWidth)
		for c := range vals {
			vals[c] = ids.New(uint64(10 + c))
		}
		require.NoError(t, src.AppendRow(vals...))

		dst := New(nil)
		dst.SetNumColumns(2 + srcWidth - 1)
		require.NoError(t, dst.Grow(1))

		copyRow := RowCopier(dst, src, 0, 2)
		copyRow(0, 0)

		for c := 1; c < srcWidth; c++ {
			require.Equal(t, src.At(0, c), dst.At(0, c+1), "src width %d, column %d", srcWidth, c)
		}
	}
}

func TestRowCopierSkipsJoinColumn(t *testing.T) {
	src := New(nil)
	src.SetNumColumns(3)
	require.NoError(t, src.AppendRow(idRow(1, 2, 3)...))

	dst := New(nil)
	dst.SetNumColumns(4)
	require.NoError(t, dst.Grow(1))

	copyRow := RowCopier(dst, src, 1, 2)
	copyRow(0, 0)

	require.Equal(t, ids.New(1), dst.At(0, 2))
	require.Equal(t, ids.New(3), dst.At(0, 3))
}
