package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReserveAndRelease(t *testing.T) {
	tr := NewTracker(100)

	require.NoError(t, tr.Reserve(60))
	require.Equal(t, int64(60), tr.Used())

	require.NoError(t, tr.Reserve(40))
	require.Equal(t, int64(100), tr.Used())

	err := tr.Reserve(1)
	require.ErrorIs(t, err, ErrLimitExceeded)
	// A failed reservation leaves the usage unchanged.
	require.Equal(t, int64(100), tr.Used())

	tr.Release(100)
	require.Zero(t, tr.Used())
}

func TestZeroLimitIsUnbounded(t *testing.T) {
	tr := NewTracker(0)
	require.NoError(t, tr.Reserve(1<<40))
}

func TestNilTracker(t *testing.T) {
	var tr *Tracker
	require.NoError(t, tr.Reserve(10))
	tr.Release(10)
	require.Zero(t, tr.Used())
	require.Zero(t, tr.Limit())
}
