package match

import "github.com/patterngraph/ipmes/internal/pattern"

// Compatible implements the four join-engine compatibility rules of
// spec 4.6: non-overlap, shared-entity consistency across the union,
// temporal consistency for every DAG-related pattern-event pair across
// the two sides, and the window bound on the combined span.
func Compatible(store *pattern.Store, a, b *Partial, w float64) bool {
	for id := range b.eventIDs {
		if a.HasEvent(id) {
			return false
		}
	}
	for eid, inputID := range b.inputOf {
		if existing, ok := a.inputOf[eid]; ok && existing != inputID {
			return false
		}
	}
	for inputID, eid := range b.entityOf {
		if existingEID, ok := a.entityOf[inputID]; ok && existingEID != eid {
			return false
		}
	}

	if !temporallyConsistent(store, a, b) {
		return false
	}

	earliest, latest := combinedSpan(a, b)
	return latest-earliest <= w
}

// temporallyConsistent checks every DAG-related pair of pattern events
// bound across a and b, regardless of binding kind: a single edge, a
// finalized frequency set (its accumulated min/max span), or a flow
// binding (its discovery instant).
func temporallyConsistent(store *pattern.Store, a, b *Partial) bool {
	for _, pa := range a.BoundPIDs() {
		aStart, aEnd, ok := a.BoundSpan(pa)
		if !ok {
			continue
		}
		for _, pb := range b.BoundPIDs() {
			if !store.Related(pa, pb) {
				continue
			}
			bStart, bEnd, ok := b.BoundSpan(pb)
			if !ok {
				continue
			}
			if store.Precedes(pa, pb) && aEnd > bStart {
				return false
			}
			if store.Precedes(pb, pa) && bEnd > aStart {
				return false
			}
		}
	}
	return true
}

func combinedSpan(a, b *Partial) (earliest, latest float64) {
	earliest, latest = a.Earliest, a.Latest
	if !a.hasAny {
		earliest, latest = b.Earliest, b.Latest
	} else if b.hasAny {
		if b.Earliest < earliest {
			earliest = b.Earliest
		}
		if b.Latest > latest {
			latest = b.Latest
		}
	}
	return earliest, latest
}

// Merge combines two already-Compatible partials into the union covering
// both sides' pattern events. Callers must have verified Compatible first;
// Merge performs no checks of its own.
func Merge(a, b *Partial) *Partial {
	n := a.clone()
	for pid, e := range b.Edges {
		n.Edges[pid] = e
	}
	for pid, acc := range b.Freq {
		n.Freq[pid] = FreqAcc{IDs: append([]string(nil), acc.IDs...), Start: acc.Start, End: acc.End}
	}
	for pid, acc := range b.FreqDone {
		n.FreqDone[pid] = FreqAcc{IDs: append([]string(nil), acc.IDs...), Start: acc.Start, End: acc.End}
	}
	for pid, fl := range b.Flow {
		n.Flow[pid] = fl
	}
	for eid, inputID := range b.inputOf {
		n.inputOf[eid] = inputID
	}
	for inputID, eid := range b.entityOf {
		n.entityOf[inputID] = eid
	}
	for id := range b.eventIDs {
		n.eventIDs[id] = struct{}{}
	}
	if b.hasAny {
		n.bumpSpan(b.Earliest, b.Latest)
	}
	return n
}
