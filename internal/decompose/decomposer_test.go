package decompose

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patterngraph/ipmes/internal/pattern"
)

func TestDecompose_LinearChain(t *testing.T) {
	entities := []pattern.Entity{{ID: 0}, {ID: 1}, {ID: 2}}
	events := []pattern.Event{
		{ID: 0, Signature: "a", HasSig: true, Subject: 0, Object: 1},
		{ID: 1, Signature: "b", HasSig: true, Subject: 1, Object: 2, Parents: []pattern.PID{0}},
	}
	store, err := pattern.New(entities, events, false)
	require.NoError(t, err)

	chains, err := Decompose(store)
	require.NoError(t, err)
	require.Len(t, chains, 1)
	require.Equal(t, []pattern.PID{0, 1}, chains[0].Events)
}

func TestDecompose_CoversEveryEvent(t *testing.T) {
	// A diamond: 0 -> 1, 0 -> 2, both 1 and 2 -> 3.
	entities := []pattern.Entity{{ID: 0}}
	events := []pattern.Event{
		{ID: 0, Signature: "a", HasSig: true},
		{ID: 1, Signature: "b", HasSig: true, Parents: []pattern.PID{0}},
		{ID: 2, Signature: "c", HasSig: true, Parents: []pattern.PID{0}},
		{ID: 3, Signature: "d", HasSig: true, Parents: []pattern.PID{1, 2}},
	}
	store, err := pattern.New(entities, events, false)
	require.NoError(t, err)

	chains, err := Decompose(store)
	require.NoError(t, err)

	seen := map[pattern.PID]bool{}
	for _, c := range chains {
		for _, pid := range c.Events {
			require.False(t, seen[pid], "event %d covered twice", pid)
			seen[pid] = true
		}
	}
	require.Len(t, seen, 4)
}

func TestDecompose_SingleEventDegenerates(t *testing.T) {
	entities := []pattern.Entity{{ID: 0}}
	events := []pattern.Event{{ID: 0, Signature: "a", HasSig: true}}
	store, err := pattern.New(entities, events, false)
	require.NoError(t, err)

	chains, err := Decompose(store)
	require.NoError(t, err)
	require.Len(t, chains, 1)
	require.Equal(t, []pattern.PID{0}, chains[0].Events)
}
