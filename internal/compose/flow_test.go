package compose

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlowIndex_PropagatesThroughRecentHop(t *testing.T) {
	f := NewFlowIndex()
	f.Observe("A", "B", 100, 105, 10)
	f.Observe("B", "C", 108, 110, 10)

	require.True(t, f.Reaches("A", "C", 10, 110))
}

func TestFlowIndex_DoesNotPropagateAcrossAStaleHop(t *testing.T) {
	f := NewFlowIndex()
	f.Observe("A", "B", 100, 100, 10)
	// B -> C arrives long after A -> B aged out of the window relative
	// to this hop's own start time, so A must not gain reachability to C.
	f.Observe("B", "C", 200, 200, 10)

	require.False(t, f.Reaches("A", "C", 10, 200))
	require.True(t, f.Reaches("B", "C", 10, 200))
}

func TestFlowIndex_ReachesAppliesWindowAtQueryTime(t *testing.T) {
	f := NewFlowIndex()
	f.Observe("A", "B", 100, 100, 1000)

	require.True(t, f.Reaches("A", "B", 10, 105))
	require.False(t, f.Reaches("A", "B", 10, 500))
}
