package jointree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patterngraph/ipmes/internal/decompose"
	"github.com/patterngraph/ipmes/internal/pattern"
)

func TestBuild_SingleLeafIsRoot(t *testing.T) {
	store, err := pattern.New(
		[]pattern.Entity{{ID: 0}, {ID: 1}},
		[]pattern.Event{{ID: 0, Signature: "a", HasSig: true, Subject: 0, Object: 1}},
		false,
	)
	require.NoError(t, err)
	chains, err := decompose.Decompose(store)
	require.NoError(t, err)

	tree := Build(store, chains)
	require.Equal(t, 1, tree.NumLeaves)
	require.Equal(t, 0, tree.Root())
	require.True(t, tree.IsLeaf(tree.Root()))
}

func TestBuild_SharedEntityPairMerges(t *testing.T) {
	// Two independent single-event chains that share entity 1.
	store, err := pattern.New(
		[]pattern.Entity{{ID: 0}, {ID: 1}, {ID: 2}},
		[]pattern.Event{
			{ID: 0, Signature: "a", HasSig: true, Subject: 0, Object: 1},
			{ID: 1, Signature: "b", HasSig: true, Subject: 1, Object: 2},
		},
		false,
	)
	require.NoError(t, err)

	chains := []decompose.Chain{
		{ID: 0, Events: []pattern.PID{0}},
		{ID: 1, Events: []pattern.PID{1}},
	}

	tree := Build(store, chains)
	require.Equal(t, 2, tree.NumLeaves)
	root := tree.Root()
	require.False(t, tree.IsLeaf(root))
	p0, ok := tree.Parent(0)
	require.True(t, ok)
	require.Equal(t, root, p0)
	sib, ok := tree.Sibling(0)
	require.True(t, ok)
	require.Equal(t, 1, sib)
}

func TestBuild_DisjointChainsStillProduceATree(t *testing.T) {
	store, err := pattern.New(
		[]pattern.Entity{{ID: 0}, {ID: 1}, {ID: 2}, {ID: 3}},
		[]pattern.Event{
			{ID: 0, Signature: "a", HasSig: true, Subject: 0, Object: 1},
			{ID: 1, Signature: "b", HasSig: true, Subject: 2, Object: 3},
		},
		false,
	)
	require.NoError(t, err)
	chains := []decompose.Chain{
		{ID: 0, Events: []pattern.PID{0}},
		{ID: 1, Events: []pattern.PID{1}},
	}

	tree := Build(store, chains)
	require.Equal(t, 2, tree.NumLeaves)
	root := tree.Root()
	require.False(t, tree.IsLeaf(root))
}
