package pattern

import (
	"fmt"

	"github.com/patterngraph/ipmes/internal/ipmeserr"
)

// Store is the immutable, shared-by-reference pattern representation:
// every other component reads it and none mutates it after construction.
type Store struct {
	entities    []Entity
	events      []Event
	useRegex    bool
	matchers    []sigMatcher // parallel to events; nil where HasSig is false
	entMatchers []sigMatcher // parallel to entities; nil where HasSig is false
	dag         *dag
}

// New validates and compiles a pattern into an immutable Store, raising
// InvalidPattern for an empty pattern, ids that do not densely cover their
// range, a cyclic temporal DAG, or a malformed regex. LoadFile raises it
// too, for file and JSON errors.
func New(entities []Entity, events []Event, useRegex bool) (*Store, error) {
	if len(events) == 0 {
		return nil, ipmeserr.InvalidPattern("pattern", "pattern has no events")
	}
	if err := checkDenseIDs(entities, events); err != nil {
		return nil, err
	}

	matchers := make([]sigMatcher, len(events))
	for _, e := range events {
		if !e.HasSig {
			continue
		}
		m, err := compileSig(e.Signature, useRegex)
		if err != nil {
			return nil, ipmeserr.InvalidPattern("pattern", fmt.Sprintf("event %d: %s", e.ID, err))
		}
		matchers[e.ID] = m
	}
	entMatchers := make([]sigMatcher, len(entities))
	for _, e := range entities {
		if !e.HasSig {
			continue
		}
		m, err := compileSig(e.Signature, useRegex)
		if err != nil {
			return nil, ipmeserr.InvalidPattern("pattern", fmt.Sprintf("entity %d: %s", e.ID, err))
		}
		entMatchers[e.ID] = m
	}

	d, err := buildDAG(events)
	if err != nil {
		return nil, err
	}

	return &Store{entities: entities, events: events, useRegex: useRegex, matchers: matchers, entMatchers: entMatchers, dag: d}, nil
}

func checkDenseIDs(entities []Entity, events []Event) error {
	ne := len(entities)
	seenE := make([]bool, ne)
	for _, e := range entities {
		if int(e.ID) < 0 || int(e.ID) >= ne || seenE[e.ID] {
			return ipmeserr.InvalidPattern("pattern", "entity ids do not densely cover [0, Ne)")
		}
		seenE[e.ID] = true
	}
	np := len(events)
	seenP := make([]bool, np)
	for _, e := range events {
		if int(e.ID) < 0 || int(e.ID) >= np || seenP[e.ID] {
			return ipmeserr.InvalidPattern("pattern", "event ids do not densely cover [0, Np)")
		}
		seenP[e.ID] = true
		if int(e.Subject) < 0 || int(e.Subject) >= ne || int(e.Object) < 0 || int(e.Object) >= ne {
			return ipmeserr.InvalidPattern("pattern", fmt.Sprintf("event %d references out-of-range entity", e.ID))
		}
		if e.Kind == Frequency && e.Frequency < 2 {
			return ipmeserr.InvalidPattern("pattern", fmt.Sprintf("event %d: Frequency requires integer Frequency>=2", e.ID))
		}
		if e.Kind == Flow && e.HasSig {
			return ipmeserr.InvalidPattern("pattern", fmt.Sprintf("event %d: Flow events must omit Signature", e.ID))
		}
	}
	return nil
}

// NumEntities is Ne.
func (s *Store) NumEntities() int { return len(s.entities) }

// NumEvents is Np.
func (s *Store) NumEvents() int { return len(s.events) }

// Event returns the pattern event for pid.
func (s *Store) Event(pid PID) Event { return s.events[pid] }

// Events returns every pattern event, in id order.
func (s *Store) Events() []Event { return s.events }

// Entity returns the pattern entity for eid.
func (s *Store) Entity(eid EID) Entity { return s.entities[eid] }

// SigMatches reports whether input signature str realizes the signature of
// pattern event pid. O(1): the matcher was compiled once at construction.
func (s *Store) SigMatches(pid PID, str string) bool {
	m := s.matchers[pid]
	if m == nil {
		return false
	}
	return m.Matches(str)
}

// EntitySigMatches reports whether input signature str realizes the
// signature of pattern entity eid. An entity carrying no signature
// constrains nothing beyond shared-entity identity, so it matches any
// string.
func (s *Store) EntitySigMatches(eid EID, str string) bool {
	m := s.entMatchers[eid]
	if m == nil {
		return true
	}
	return m.Matches(str)
}

// Precedes reports whether pattern event a must occur before b (a's event
// may end at the same instant b's event starts).
func (s *Store) Precedes(a, b PID) bool { return s.dag.Precedes(a, b) }

// Related reports whether the temporal DAG orders a and b at all.
func (s *Store) Related(a, b PID) bool { return s.dag.Related(a, b) }

// Children returns the direct temporal successors of p (events listing p
// as a parent).
func (s *Store) Children(p PID) []PID { return s.dag.Children(p) }
