package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patterngraph/ipmes/internal/match"
	"github.com/patterngraph/ipmes/internal/pattern"
)

func TestEmitter_PublishWritesAndCounts(t *testing.T) {
	entities := []pattern.Entity{{ID: 0}, {ID: 1}}
	events := []pattern.Event{
		{ID: 0, Signature: "a", HasSig: true, Subject: 0, Object: 1},
	}
	store, err := pattern.New(entities, events, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	e, err := New(&buf, false)
	require.NoError(t, err)
	defer e.Close()

	p, ok := match.Empty().Extend(0, 0, 1, match.Edge{PID: 0, EventID: "e0", SubjID: "A", ObjID: "B", StartT: 1, EndT: 2})
	require.True(t, ok)

	require.NoError(t, e.Publish(store, p))
	require.EqualValues(t, 1, e.Count())
	require.True(t, strings.Contains(buf.String(), "[e0]"))
}

func TestEmitter_SilentSuppressesOutput(t *testing.T) {
	entities := []pattern.Entity{{ID: 0}, {ID: 1}}
	events := []pattern.Event{
		{ID: 0, Signature: "a", HasSig: true, Subject: 0, Object: 1},
	}
	store, err := pattern.New(entities, events, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	e, err := New(&buf, true)
	require.NoError(t, err)
	defer e.Close()

	p, _ := match.Empty().Extend(0, 0, 1, match.Edge{PID: 0, EventID: "e0", SubjID: "A", ObjID: "B", StartT: 1, EndT: 2})
	require.NoError(t, e.Publish(store, p))
	require.EqualValues(t, 1, e.Count())
	require.Empty(t, buf.String())
}
