package join

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patterngraph/ipmes/internal/decompose"
	"github.com/patterngraph/ipmes/internal/jointree"
	"github.com/patterngraph/ipmes/internal/match"
	"github.com/patterngraph/ipmes/internal/pattern"
)

func twoChainStore(t *testing.T) (*pattern.Store, []decompose.Chain, *jointree.Tree) {
	t.Helper()
	entities := []pattern.Entity{{ID: 0}, {ID: 1}, {ID: 2}}
	events := []pattern.Event{
		{ID: 0, Signature: "a", HasSig: true, Subject: 0, Object: 1},
		{ID: 1, Signature: "b", HasSig: true, Subject: 1, Object: 2},
	}
	store, err := pattern.New(entities, events, false)
	require.NoError(t, err)
	chains, err := decompose.Decompose(store)
	require.NoError(t, err)
	require.Len(t, chains, 2)
	tree := jointree.Build(store, chains)
	return store, chains, tree
}

func TestEngine_MergesTwoChainsOnSharedEntity(t *testing.T) {
	store, _, tree := twoChainStore(t)

	var full []*match.Partial
	e := NewEngine(store, tree, 1000, func(p *match.Partial) { full = append(full, p) })

	p0, ok := match.Empty().Extend(0, 0, 1, match.Edge{PID: 0, EventID: "e0", SubjID: "A", ObjID: "B", StartT: 100, EndT: 110})
	require.True(t, ok)
	e.OnChainMatch(0, p0, 100)
	require.Empty(t, full)

	p1, ok := match.Empty().Extend(1, 1, 2, match.Edge{PID: 1, EventID: "e1", SubjID: "B", ObjID: "C", StartT: 120, EndT: 130})
	require.True(t, ok)
	e.OnChainMatch(1, p1, 120)

	require.Len(t, full, 1)
	require.Equal(t, 2, full[0].CoveredCount())
}

func TestEngine_RejectsMergeOutsideWindow(t *testing.T) {
	store, _, tree := twoChainStore(t)

	var full []*match.Partial
	e := NewEngine(store, tree, 5, func(p *match.Partial) { full = append(full, p) })

	p0, _ := match.Empty().Extend(0, 0, 1, match.Edge{PID: 0, EventID: "e0", SubjID: "A", ObjID: "B", StartT: 100, EndT: 110})
	e.OnChainMatch(0, p0, 100)
	p1, _ := match.Empty().Extend(1, 1, 2, match.Edge{PID: 1, EventID: "e1", SubjID: "B", ObjID: "C", StartT: 120, EndT: 130})
	e.OnChainMatch(1, p1, 120)

	require.Empty(t, full)
}

func TestEngine_RejectsMismatchedEntity(t *testing.T) {
	store, _, tree := twoChainStore(t)

	var full []*match.Partial
	e := NewEngine(store, tree, 1000, func(p *match.Partial) { full = append(full, p) })

	p0, _ := match.Empty().Extend(0, 0, 1, match.Edge{PID: 0, EventID: "e0", SubjID: "A", ObjID: "B", StartT: 100, EndT: 110})
	e.OnChainMatch(0, p0, 100)
	// e1's subject does not match e0's object entity binding (B).
	p1, _ := match.Empty().Extend(1, 1, 2, match.Edge{PID: 1, EventID: "e1", SubjID: "Z", ObjID: "C", StartT: 120, EndT: 130})
	e.OnChainMatch(1, p1, 120)

	require.Empty(t, full)
}

func TestEngine_SingleLeafTreeEmitsDirectly(t *testing.T) {
	entities := []pattern.Entity{{ID: 0}, {ID: 1}}
	events := []pattern.Event{
		{ID: 0, Signature: "a", HasSig: true, Subject: 0, Object: 1},
	}
	store, err := pattern.New(entities, events, false)
	require.NoError(t, err)
	chains, err := decompose.Decompose(store)
	require.NoError(t, err)
	tree := jointree.Build(store, chains)

	var full []*match.Partial
	e := NewEngine(store, tree, 1000, func(p *match.Partial) { full = append(full, p) })

	p0, _ := match.Empty().Extend(0, 0, 1, match.Edge{PID: 0, EventID: "e0", SubjID: "A", ObjID: "B", StartT: 100, EndT: 110})
	e.OnChainMatch(0, p0, 100)

	require.Len(t, full, 1)
}
