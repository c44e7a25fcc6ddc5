// Package join is the Join Engine (C6): it combines the chain matches
// reported by the composition matcher (C5) through the join tree (C3)
// bottom-up, producing full pattern matches at the root.
package join

import (
	"github.com/patterngraph/ipmes/internal/match"
	"github.com/patterngraph/ipmes/internal/window"
)

// nodeBuffer holds the partials currently waiting at one join-tree node,
// in arrival order. Arrival order is not sorted by earliest time (a chain
// match completes when its last event arrives, however early its first
// one was), so eviction checks every partial rather than only a prefix.
// byEntity is the
// secondary index spec 4.6 calls for: candidate lookup by shared bound
// entity, so a merge attempt does not scan every partial on the other
// side when only a handful share an entity with p.
type nodeBuffer struct {
	items    []*match.Partial
	byEntity map[string][]*match.Partial
}

func (b *nodeBuffer) evict(cutoff float64) {
	var kept []*match.Partial
	for _, p := range b.items {
		if p.HasSpan() && window.Expired(p.Earliest, cutoff) {
			b.unindex(p)
			continue
		}
		kept = append(kept, p)
	}
	b.items = kept
}

func (b *nodeBuffer) push(p *match.Partial) {
	b.items = append(b.items, p)
	if b.byEntity == nil {
		b.byEntity = map[string][]*match.Partial{}
	}
	for _, inputID := range p.EntityBindings() {
		b.byEntity[inputID] = append(b.byEntity[inputID], p)
	}
}

func (b *nodeBuffer) unindex(p *match.Partial) {
	for _, inputID := range p.EntityBindings() {
		list := b.byEntity[inputID]
		for i, q := range list {
			if q == p {
				b.byEntity[inputID] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// candidates returns every partial sharing at least one bound entity with
// p, deduplicated.
func (b *nodeBuffer) candidates(p *match.Partial) []*match.Partial {
	seen := make(map[*match.Partial]bool)
	var out []*match.Partial
	for _, inputID := range p.EntityBindings() {
		for _, q := range b.byEntity[inputID] {
			if !seen[q] {
				seen[q] = true
				out = append(out, q)
			}
		}
	}
	return out
}
