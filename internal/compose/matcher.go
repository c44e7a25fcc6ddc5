package compose

import (
	"github.com/patterngraph/ipmes/internal/decompose"
	"github.com/patterngraph/ipmes/internal/ingest"
	"github.com/patterngraph/ipmes/internal/match"
	"github.com/patterngraph/ipmes/internal/pattern"
	"github.com/patterngraph/ipmes/internal/window"
)

// ChainMatcher runs one decomposed chain's composition (spec 4.5): an
// online automaton over m FIFO buffers, one per chain position, consuming
// events in ingestion order and forwarding completed prefixes rightward.
type ChainMatcher struct {
	ChainID   int
	store     *pattern.Store
	positions []Position
	buffers   []buffer
	flow      *FlowIndex
}

// NewChainMatcher builds a matcher for chain, seeding position 0's buffer
// with the empty partial every chain starts from. flow may be nil if the
// chain has no Flow position.
func NewChainMatcher(chainID int, chain decompose.Chain, store *pattern.Store, flow *FlowIndex) *ChainMatcher {
	positions := buildPositions(store, chain)
	buffers := make([]buffer, len(positions))
	buffers[0].push(match.Empty())
	return &ChainMatcher{ChainID: chainID, store: store, positions: positions, buffers: buffers, flow: flow}
}

// temporalOK checks that binding pid to an edge spanning [start, end] does
// not contradict the temporal DAG relative to every pattern event already
// bound in p — as a single edge, a finalized frequency set (using the
// min/max span of its accumulated events), or a flow binding (using its
// discovery instant).
func temporalOK(store *pattern.Store, p *match.Partial, pid pattern.PID, start, end float64) bool {
	for _, bpid := range p.BoundPIDs() {
		if !store.Related(bpid, pid) {
			continue
		}
		bStart, bEnd, ok := p.BoundSpan(bpid)
		if !ok {
			continue
		}
		if store.Precedes(bpid, pid) {
			if bEnd > start {
				return false
			}
		} else if end > bStart {
			return false
		}
	}
	return true
}

// Ingest feeds one input event through every chain position in order.
func (c *ChainMatcher) Ingest(e ingest.InputEvent, w float64, onMatch func(chainID int, p *match.Partial)) {
	cutoff := window.Cutoff(e.StartT, w)
	if c.flow != nil {
		c.flow.Observe(e.SubjID, e.ObjID, e.StartT, e.EndT, w)
	}
	for k := range c.positions {
		c.buffers[k].evict(cutoff)
	}

	for k, pos := range c.positions {
		switch pos.Kind {
		case pattern.Frequency:
			c.ingestFrequency(k, pos, e, onMatch)
		case pattern.Flow:
			c.ingestFlow(k, pos, e, w, onMatch)
		default:
			c.ingestDefault(k, pos, e, onMatch)
		}
	}
}

func (c *ChainMatcher) forward(k int, np *match.Partial, onMatch func(int, *match.Partial)) {
	if k == len(c.positions)-1 {
		onMatch(c.ChainID, np)
		return
	}
	c.buffers[k+1].push(np)
}

func (c *ChainMatcher) ingestDefault(k int, pos Position, e ingest.InputEvent, onMatch func(int, *match.Partial)) {
	if !c.store.SigMatches(pos.PID, e.Sig) {
		return
	}
	if !c.store.EntitySigMatches(pos.Subject, e.SubjSig) || !c.store.EntitySigMatches(pos.Object, e.ObjSig) {
		return
	}
	edge := match.Edge{PID: pos.PID, EventID: e.EventID, SubjID: e.SubjID, ObjID: e.ObjID, StartT: e.StartT, EndT: e.EndT}
	for _, p := range c.buffers[k].items {
		if !temporalOK(c.store, p, pos.PID, e.StartT, e.EndT) {
			continue
		}
		np, ok := p.Extend(pos.PID, pos.Subject, pos.Object, edge)
		if !ok {
			continue
		}
		c.forward(k, np, onMatch)
	}
}

// ingestFrequency mutates one accumulator per partial lineage in place:
// later supersets of an already-finalized accumulator are never emitted,
// since a finalized partial is removed from the buffer the moment it
// reaches threshold.
func (c *ChainMatcher) ingestFrequency(k int, pos Position, e ingest.InputEvent, onMatch func(int, *match.Partial)) {
	if !c.store.SigMatches(pos.PID, e.Sig) {
		return
	}
	if !c.store.EntitySigMatches(pos.Subject, e.SubjSig) || !c.store.EntitySigMatches(pos.Object, e.ObjSig) {
		return
	}
	edge := match.Edge{PID: pos.PID, EventID: e.EventID, SubjID: e.SubjID, ObjID: e.ObjID, StartT: e.StartT, EndT: e.EndT}
	items := c.buffers[k].items
	for i := 0; i < len(items); i++ {
		p := items[i]
		if !temporalOK(c.store, p, pos.PID, e.StartT, e.EndT) {
			continue
		}
		np, ok := p.ExtendFrequency(pos.PID, pos.Subject, pos.Object, edge, pos.Frequency)
		if !ok {
			continue
		}
		if np.Covers(pos.PID) {
			c.buffers[k].removeAt(i)
			items = c.buffers[k].items
			i--
			c.forward(k, np, onMatch)
		} else {
			c.buffers[k].replaceAt(i, np)
		}
	}
}

// ingestFlow completes a flow position by searching the shared reachability
// index for a time-respecting path between candidate input entities. When
// the position's subject or object pattern-entity is already bound, the
// search is pinned to that single input entity; otherwise every currently
// known reachability source is tried. The first path found completes the
// position; as with frequency, a completed partial leaves the buffer
// immediately so later discoveries never re-emit it.
func (c *ChainMatcher) ingestFlow(k int, pos Position, e ingest.InputEvent, w float64, onMatch func(int, *match.Partial)) {
	if c.flow == nil {
		return
	}
	items := c.buffers[k].items
	for i := 0; i < len(items); i++ {
		p := items[i]
		found, ok := c.completeFlow(p, pos, e, w)
		if !ok {
			continue
		}
		c.buffers[k].removeAt(i)
		items = c.buffers[k].items
		i--
		c.forward(k, found, onMatch)
	}
}

func (c *ChainMatcher) completeFlow(p *match.Partial, pos Position, e ingest.InputEvent, w float64) (*match.Partial, bool) {
	bindings := p.EntityBindings()
	var srcCandidates []string
	if src, ok := bindings[pos.Subject]; ok {
		srcCandidates = []string{src}
	} else {
		srcCandidates = c.flow.Sources()
	}

	for _, s := range srcCandidates {
		reachable := c.flow.ReachableFrom(s)
		if len(reachable) == 0 {
			continue
		}
		var dstCandidates []string
		if dst, ok := bindings[pos.Object]; ok {
			dstCandidates = []string{dst}
		} else {
			dstCandidates = make([]string, 0, len(reachable))
			for d := range reachable {
				dstCandidates = append(dstCandidates, d)
			}
		}
		for _, d := range dstCandidates {
			t, ok := reachable[d]
			if !ok || e.EndT-t > w {
				continue
			}
			if np, ok := p.ExtendFlow(pos.PID, pos.Subject, pos.Object, s, d, t); ok {
				return np, true
			}
		}
	}
	return nil, false
}
