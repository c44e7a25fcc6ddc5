package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patterngraph/ipmes/internal/decompose"
	"github.com/patterngraph/ipmes/internal/pattern"
)

func twoEventStore(t *testing.T) (*pattern.Store, PositionIndex) {
	t.Helper()
	entities := []pattern.Entity{{ID: 0}, {ID: 1}, {ID: 2}}
	events := []pattern.Event{
		{ID: 0, Signature: "a", HasSig: true, Subject: 0, Object: 1},
		{ID: 1, Signature: "b", HasSig: true, Subject: 1, Object: 2, Parents: []pattern.PID{0}},
	}
	store, err := pattern.New(entities, events, false)
	require.NoError(t, err)
	chains, err := decompose.Decompose(store)
	require.NoError(t, err)
	return store, BuildPositionIndex(chains)
}

func TestRun_ReordersSameTimestampBatch(t *testing.T) {
	store, idx := twoEventStore(t)
	csvData := "0,0,20,b,200,,300,\n0,0,10,a,100,,200,\n"

	var batches [][]InputEvent
	err := Run(strings.NewReader(csvData), store, idx, func(b []InputEvent) {
		batches = append(batches, append([]InputEvent(nil), b...))
	})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	require.Equal(t, "10", batches[0][0].EventID)
	require.Equal(t, "20", batches[0][1].EventID)
}

func TestRun_SkipsOutOfOrderTimestamp(t *testing.T) {
	store, idx := twoEventStore(t)
	csvData := "5,5,10,a,100,,200,\n1,1,20,b,200,,300,\n"

	var batches [][]InputEvent
	err := Run(strings.NewReader(csvData), store, idx, func(b []InputEvent) {
		batches = append(batches, append([]InputEvent(nil), b...))
	})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Equal(t, "10", batches[0][0].EventID)
}

func TestRun_SkipsMalformedLine(t *testing.T) {
	store, idx := twoEventStore(t)
	csvData := "not-a-number,0,10,a,100,,200,\n1,1,20,b,200,,300,\n"

	var events []InputEvent
	err := Run(strings.NewReader(csvData), store, idx, func(b []InputEvent) {
		events = append(events, b...)
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "20", events[0].EventID)
}
