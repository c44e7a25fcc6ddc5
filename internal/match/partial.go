package match

import "github.com/patterngraph/ipmes/internal/pattern"

// Partial is a consistent binding of some subset of pattern events to
// input events: a contiguous chain prefix during composition, or the
// union of two compatible partials during a join. It never mutates in
// place; Extend and Merge always return a fresh value.
type Partial struct {
	Edges     map[pattern.PID]Edge
	Freq      map[pattern.PID]FreqAcc     // Frequency positions: accumulated distinct event ids, not yet at threshold
	FreqDone  map[pattern.PID]FreqAcc     // Frequency positions that reached their threshold
	Flow      map[pattern.PID]FlowBind    // Flow positions: subject/object input ids and discovery time
	entityOf  map[string]pattern.EID      // input entity id -> bound pattern entity
	inputOf   map[pattern.EID]string      // pattern entity -> bound input entity id
	eventIDs  map[string]struct{}         // bound input event ids, for the non-overlap rule
	Earliest  float64
	Latest    float64
	hasAny    bool
}

// FreqAcc is a frequency position's accumulator: the distinct event ids
// bound so far, plus the min start / max end across them, so the position
// carries a span usable in temporal-consistency checks once finalized.
type FreqAcc struct {
	IDs   []string
	Start float64
	End   float64
}

// FlowBind is a completed flow position: the subject/object input entity
// ids the reachability search bound, and the instant the path was
// discovered, used as the position's temporal instant in consistency
// checks.
type FlowBind struct {
	Src string
	Dst string
	At  float64
}

// Empty returns the empty partial every chain's first position starts
// from.
func Empty() *Partial {
	return &Partial{
		Edges:    map[pattern.PID]Edge{},
		Freq:     map[pattern.PID]FreqAcc{},
		FreqDone: map[pattern.PID]FreqAcc{},
		Flow:     map[pattern.PID]FlowBind{},
		entityOf: map[string]pattern.EID{},
		inputOf:  map[pattern.EID]string{},
		eventIDs: map[string]struct{}{},
	}
}

// clone makes an independent, shallow-copied partial cheap enough to call
// on every extension: pattern sizes this engine targets keep per-map
// cardinality small.
func (p *Partial) clone() *Partial {
	n := &Partial{
		Edges:    make(map[pattern.PID]Edge, len(p.Edges)+1),
		Freq:     make(map[pattern.PID]FreqAcc, len(p.Freq)),
		FreqDone: make(map[pattern.PID]FreqAcc, len(p.FreqDone)),
		Flow:     make(map[pattern.PID]FlowBind, len(p.Flow)),
		entityOf: make(map[string]pattern.EID, len(p.entityOf)+2),
		inputOf:  make(map[pattern.EID]string, len(p.inputOf)+2),
		eventIDs: make(map[string]struct{}, len(p.eventIDs)+1),
		Earliest: p.Earliest,
		Latest:   p.Latest,
		hasAny:   p.hasAny,
	}
	for k, v := range p.Edges {
		n.Edges[k] = v
	}
	for k, v := range p.Freq {
		n.Freq[k] = FreqAcc{IDs: append([]string(nil), v.IDs...), Start: v.Start, End: v.End}
	}
	for k, v := range p.FreqDone {
		n.FreqDone[k] = FreqAcc{IDs: append([]string(nil), v.IDs...), Start: v.Start, End: v.End}
	}
	for k, v := range p.Flow {
		n.Flow[k] = v
	}
	for k, v := range p.entityOf {
		n.entityOf[k] = v
	}
	for k, v := range p.inputOf {
		n.inputOf[k] = v
	}
	for k := range p.eventIDs {
		n.eventIDs[k] = struct{}{}
	}
	return n
}

func (p *Partial) bumpSpan(start, end float64) {
	if !p.hasAny {
		p.Earliest, p.Latest, p.hasAny = start, end, true
		return
	}
	if start < p.Earliest {
		p.Earliest = start
	}
	if end > p.Latest {
		p.Latest = end
	}
}

// HasEvent reports whether input event id is already bound anywhere in
// this partial (the non-overlap rule).
func (p *Partial) HasEvent(eventID string) bool {
	_, ok := p.eventIDs[eventID]
	return ok
}

// canBindEntity checks the shared-entity constraint in both directions:
// the pattern entity, if already bound, must agree; and the input entity,
// if already bound to a different pattern entity, must be rejected.
func (p *Partial) canBindEntity(eid pattern.EID, inputID string) bool {
	if existing, ok := p.inputOf[eid]; ok && existing != inputID {
		return false
	}
	if existingEID, ok := p.entityOf[inputID]; ok && existingEID != eid {
		return false
	}
	return true
}

func (p *Partial) bindEntity(eid pattern.EID, inputID string) {
	p.inputOf[eid] = inputID
	p.entityOf[inputID] = eid
}

// Extend attempts to bind pattern event pid (with pattern entities subj,
// obj) to edge e, enforcing non-overlap and shared-entity consistency.
// Temporal consistency against the rest of the partial is the caller's
// responsibility (it depends on which pids are "parents" vs "children"
// of pid per the composition rule, or on the full cross pair check per
// the join rule), since the two callers apply it slightly differently.
func (p *Partial) Extend(pid pattern.PID, subj, obj pattern.EID, e Edge) (*Partial, bool) {
	if p.HasEvent(e.EventID) {
		return nil, false
	}
	n := p.clone()
	if !n.tryBind(subj, e.SubjID) || !n.tryBind(obj, e.ObjID) {
		return nil, false
	}
	n.Edges[pid] = e
	n.eventIDs[e.EventID] = struct{}{}
	n.bumpSpan(e.StartT, e.EndT)
	return n, true
}

// tryBind binds eid to inputID if consistent with everything already bound
// in p (including any binding just made earlier in the same call), and
// reports whether the bind succeeded. Checking and binding must happen one
// pair at a time rather than both checked against the pre-call state,
// otherwise two distinct pattern entities could both bind to the same
// input id in a single call when neither was bound yet.
func (p *Partial) tryBind(eid pattern.EID, inputID string) bool {
	if !p.canBindEntity(eid, inputID) {
		return false
	}
	p.bindEntity(eid, inputID)
	return true
}

// ExtendFrequency adds eventID to pid's frequency accumulator, binding
// subj/obj to its entities, and returns the new partial. If the
// accumulator reaches threshold f it is finalized into FreqDone (later
// supersets are not re-emitted, so once finalized a position no longer
// accepts more events).
func (p *Partial) ExtendFrequency(pid pattern.PID, subj, obj pattern.EID, e Edge, f int) (*Partial, bool) {
	if _, done := p.FreqDone[pid]; done {
		return nil, false
	}
	if p.HasEvent(e.EventID) {
		return nil, false
	}
	n := p.clone()
	if !n.tryBind(subj, e.SubjID) || !n.tryBind(obj, e.ObjID) {
		return nil, false
	}
	n.eventIDs[e.EventID] = struct{}{}
	n.bumpSpan(e.StartT, e.EndT)
	acc := n.Freq[pid]
	acc.IDs = append(acc.IDs, e.EventID)
	if len(acc.IDs) == 1 {
		acc.Start, acc.End = e.StartT, e.EndT
	} else {
		if e.StartT < acc.Start {
			acc.Start = e.StartT
		}
		if e.EndT > acc.End {
			acc.End = e.EndT
		}
	}
	if len(acc.IDs) >= f {
		n.FreqDone[pid] = acc
		delete(n.Freq, pid)
	} else {
		n.Freq[pid] = acc
	}
	return n, true
}

// ExtendFlow records a time-respecting path discovery for flow pattern
// event pid: subject input entity src reaches object input entity dst.
func (p *Partial) ExtendFlow(pid pattern.PID, subjEID, objEID pattern.EID, src, dst string, at float64) (*Partial, bool) {
	n := p.clone()
	if !n.tryBind(subjEID, src) || !n.tryBind(objEID, dst) {
		return nil, false
	}
	n.Flow[pid] = FlowBind{Src: src, Dst: dst, At: at}
	n.bumpSpan(at, at)
	return n, true
}

// BoundPIDs lists every pattern event currently bound in p, whether as a
// single edge, a finalized frequency set, or a flow binding. Still-
// accumulating frequency positions (in Freq, not yet FreqDone) are not
// bound and are not included.
func (p *Partial) BoundPIDs() []pattern.PID {
	out := make([]pattern.PID, 0, len(p.Edges)+len(p.FreqDone)+len(p.Flow))
	for pid := range p.Edges {
		out = append(out, pid)
	}
	for pid := range p.FreqDone {
		out = append(out, pid)
	}
	for pid := range p.Flow {
		out = append(out, pid)
	}
	return out
}

// BoundSpan returns the representative temporal instant for pid if it is
// bound in p: a single edge's own [start, end], a finalized frequency
// position's [min start, max end] over its accumulated events, or a flow
// position's discovery instant (both ends equal).
func (p *Partial) BoundSpan(pid pattern.PID) (start, end float64, ok bool) {
	if e, ok2 := p.Edges[pid]; ok2 {
		return e.StartT, e.EndT, true
	}
	if acc, ok2 := p.FreqDone[pid]; ok2 {
		return acc.Start, acc.End, true
	}
	if fl, ok2 := p.Flow[pid]; ok2 {
		return fl.At, fl.At, true
	}
	return 0, 0, false
}

// Covers reports whether pid is bound (as a single edge, a finalized
// frequency set, or a flow binding).
func (p *Partial) Covers(pid pattern.PID) bool {
	if _, ok := p.Edges[pid]; ok {
		return true
	}
	if _, ok := p.FreqDone[pid]; ok {
		return true
	}
	if _, ok := p.Flow[pid]; ok {
		return true
	}
	return false
}

// CoveredCount returns how many distinct pattern events are fully bound.
func (p *Partial) CoveredCount() int {
	return len(p.Edges) + len(p.FreqDone) + len(p.Flow)
}

// EventIDs exposes the bound input event ids (the set the non-overlap
// rule checks).
func (p *Partial) EventIDs() map[string]struct{} { return p.eventIDs }

// EntityBindings exposes the pattern-entity -> input-entity bindings, for
// sibling-index construction in the join engine.
func (p *Partial) EntityBindings() map[pattern.EID]string { return p.inputOf }

// HasSpan reports whether this partial has recorded at least one input
// event or flow binding (the seed empty partial at chain position 0 has
// not, and must never be evicted on a window check since it carries no
// real timestamp).
func (p *Partial) HasSpan() bool { return p.hasAny }
