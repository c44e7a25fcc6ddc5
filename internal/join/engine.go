package join

import (
	"github.com/patterngraph/ipmes/internal/jointree"
	"github.com/patterngraph/ipmes/internal/match"
	"github.com/patterngraph/ipmes/internal/pattern"
)

// Engine propagates chain matches bottom-up through a join tree, emitting
// a full match whenever a merge at the root covers every pattern event.
type Engine struct {
	store       *pattern.Store
	tree        *jointree.Tree
	w           float64
	buffers     []nodeBuffer
	onFullMatch func(*match.Partial)
}

func NewEngine(store *pattern.Store, tree *jointree.Tree, w float64, onFullMatch func(*match.Partial)) *Engine {
	return &Engine{
		store:       store,
		tree:        tree,
		w:           w,
		buffers:     make([]nodeBuffer, tree.NumNodes()),
		onFullMatch: onFullMatch,
	}
}

// OnChainMatch feeds a chain match reported by the composition matcher (C5)
// into the leaf node the chain occupies (leaves are numbered by chain id).
// tNow is the Window Controller's current time: the largest start_t the
// ingestor has released so far (spec 4.7), a property of stream position
// rather than of p's own span, since a duration event's end_t can exceed
// it.
func (e *Engine) OnChainMatch(chainID int, p *match.Partial, tNow float64) {
	e.ingestAt(chainID, p, tNow)
}

func (e *Engine) ingestAt(node int, p *match.Partial, tNow float64) {
	cutoff := tNow - e.w
	buf := &e.buffers[node]
	buf.evict(cutoff)

	if node == e.tree.Root() {
		buf.push(p)
		if p.CoveredCount() == e.store.NumEvents() {
			e.onFullMatch(p)
		}
		return
	}

	sibling, _ := e.tree.Sibling(node)
	parent, _ := e.tree.Parent(node)
	sbuf := &e.buffers[sibling]
	sbuf.evict(cutoff)

	var candidates []*match.Partial
	if e.tree.Coverage(node).Intersects(e.tree.Coverage(sibling)) {
		candidates = sbuf.candidates(p)
	} else {
		// No shared entity is required between these two subtrees (the
		// builder's wasteful fallback pairing): every partial on the
		// sibling side is a candidate, since the entity index has
		// nothing to prune on.
		candidates = sbuf.items
	}

	for _, q := range candidates {
		if match.Compatible(e.store, p, q, e.w) {
			merged := match.Merge(p, q)
			e.ingestAt(parent, merged, tNow)
		}
	}

	buf.push(p)
}
