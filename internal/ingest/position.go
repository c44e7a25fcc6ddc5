package ingest

import (
	"math"
	"sort"

	"github.com/patterngraph/ipmes/internal/decompose"
	"github.com/patterngraph/ipmes/internal/pattern"
)

// PositionIndex assigns every pattern event a global rank in (chain id,
// position-within-chain) order, used to reorder a same-timestamp batch so
// that a signature realizing an earlier chain position is always
// delivered before one realizing a later position.
type PositionIndex map[pattern.PID]int

// BuildPositionIndex builds the index from the decomposer's chain set.
func BuildPositionIndex(chains []decompose.Chain) PositionIndex {
	idx := make(PositionIndex)
	counter := 0
	for _, c := range chains {
		for _, pid := range c.Events {
			idx[pid] = counter
			counter++
		}
	}
	return idx
}

// minPosition returns the smallest chain-position rank among pattern
// events whose signature the given input signature realizes.
func (idx PositionIndex) minPosition(store *pattern.Store, sig string) int {
	best := math.MaxInt64
	for pid := 0; pid < store.NumEvents(); pid++ {
		if rank, ok := idx[pattern.PID(pid)]; ok && store.SigMatches(pattern.PID(pid), sig) {
			if rank < best {
				best = rank
			}
		}
	}
	return best
}

// sortBatch reorders a timestamp batch deterministically: by the minimum
// chain-position rank each event's signature realizes, ties broken by
// input event id.
func sortBatch(batch []InputEvent, store *pattern.Store, idx PositionIndex) {
	type keyed struct {
		ev   InputEvent
		rank int
	}
	ks := make([]keyed, len(batch))
	for i, e := range batch {
		ks[i] = keyed{ev: e, rank: idx.minPosition(store, e.Sig)}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].rank != ks[j].rank {
			return ks[i].rank < ks[j].rank
		}
		return ks[i].ev.EventID < ks[j].ev.EventID
	})
	for i, k := range ks {
		batch[i] = k.ev
	}
}
