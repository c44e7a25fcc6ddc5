package jointree

import (
	"container/heap"

	"github.com/patterngraph/ipmes/internal/bitset"
	"github.com/patterngraph/ipmes/internal/decompose"
	"github.com/patterngraph/ipmes/internal/pattern"
)

// Build arranges chains into a height-balanced join tree. Two buffers are
// mergeable iff the pattern entities their chains touch intersect; the
// builder always prefers a mergeable pairing, falling back to an
// arbitrary (but deterministic) pairing only when none remains, per
// spec 4.2's "legal but wasteful" escape hatch.
func Build(store *pattern.Store, chains []decompose.Chain) *Tree {
	l := len(chains)
	ne := store.NumEntities()

	coverage := make([]*bitset.Set, l, 2*l) // grown as internal nodes are created
	for i, c := range chains {
		coverage[i] = chainEntities(store, c, ne)
	}

	uf := newUnionFind(l)
	height := make([]int, l, 2*l)
	for i := range height {
		height[i] = 0
	}
	parent := make([]int, l, 2*l)
	sibling := make([]int, l, 2*l)
	left := make([]int, l, 2*l)
	right := make([]int, l, 2*l)
	for i := 0; i < l; i++ {
		parent[i] = -1
		sibling[i] = -1
		left[i] = -1
		right[i] = -1
	}

	if l == 1 {
		return &Tree{NumLeaves: 1, parent: parent, sibling: sibling, left: left, right: right, coverage: coverage, root: 0}
	}

	h := &mergeHeap{}
	heap.Init(h)
	for i := 0; i < l; i++ {
		for j := i + 1; j < l; j++ {
			if coverage[i].Intersects(coverage[j]) {
				heap.Push(h, mergeCandidate{i: i, j: j, height: 1})
			}
		}
	}

	nextID := l
	rootsRemaining := l
	for rootsRemaining > 1 {
		if h.Len() == 0 {
			// No mergeable pairing remains: merge the two lowest-id
			// remaining roots, whatever their heights, to keep the tree
			// deterministic and complete per spec 4.2.
			roots := uf.roots()
			heap.Push(h, mergeCandidate{i: roots[0], j: roots[1], height: maxInt(height[uf.find(roots[0])], height[uf.find(roots[1])]) + 1})
		}

		cand := heap.Pop(h).(mergeCandidate)
		ri, rj := uf.find(cand.i), uf.find(cand.j)
		if ri == rj {
			continue // stale candidate, a side was already merged elsewhere
		}

		k := nextID
		nextID++
		coverage = append(coverage, coverage[ri].Union(coverage[rj]))
		height = append(height, maxInt(height[ri], height[rj])+1)
		parent = append(parent, -1)
		sibling = append(sibling, -1)
		left = append(left, ri)
		right = append(right, rj)

		uf.union(ri, rj, k)
		parent[ri] = k
		parent[rj] = k
		sibling[ri] = rj
		sibling[rj] = ri
		rootsRemaining--

		for _, r := range uf.roots() {
			if r == k {
				continue
			}
			if coverage[k].Intersects(coverage[r]) {
				heap.Push(h, mergeCandidate{i: k, j: r, height: maxInt(height[k], height[r]) + 1})
			}
		}
	}

	root := uf.roots()[0]
	return &Tree{NumLeaves: l, parent: parent, sibling: sibling, left: left, right: right, coverage: coverage, root: root}
}

func chainEntities(store *pattern.Store, c decompose.Chain, ne int) *bitset.Set {
	s := bitset.New(ne)
	for _, pid := range c.Events {
		ev := store.Event(pid)
		s.Add(int(ev.Subject))
		s.Add(int(ev.Object))
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// mergeCandidate is a proposed merge of the current roots i and j, keyed
// by the resulting tree height. Ties are broken by the lower (i, j) pair
// to stabilize output order (an explicit choice surfaced as an open
// question in the source design notes).
type mergeCandidate struct {
	i, j   int
	height int
}

type mergeHeap []mergeCandidate

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(a, b int) bool {
	if h[a].height != h[b].height {
		return h[a].height < h[b].height
	}
	if h[a].i != h[b].i {
		return h[a].i < h[b].i
	}
	return h[a].j < h[b].j
}
func (h mergeHeap) Swap(a, b int) { h[a], h[b] = h[b], h[a] }
func (h *mergeHeap) Push(x interface{}) {
	*h = append(*h, x.(mergeCandidate))
}
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// unionFind tracks, for each leaf, the id of the node that currently
// represents its merged root, with near-O(alpha(n)) find via path
// compression.
type unionFind struct {
	repr []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{repr: make([]int, n)}
	for i := range uf.repr {
		uf.repr[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for len(uf.repr) <= x {
		uf.repr = append(uf.repr, len(uf.repr))
	}
	if uf.repr[x] != x {
		uf.repr[x] = uf.find(uf.repr[x])
	}
	return uf.repr[x]
}

func (uf *unionFind) union(a, b, newRoot int) {
	ra, rb := uf.find(a), uf.find(b)
	for len(uf.repr) <= newRoot {
		uf.repr = append(uf.repr, len(uf.repr))
	}
	uf.repr[ra] = newRoot
	uf.repr[rb] = newRoot
	uf.repr[newRoot] = newRoot
}

func (uf *unionFind) roots() []int {
	var out []int
	for i := range uf.repr {
		if uf.find(i) == i {
			out = append(out, i)
		}
	}
	return out
}
