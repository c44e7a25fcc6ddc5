package pattern

import "github.com/patterngraph/ipmes/internal/bitset"

// dag precomputes forward (children) and reverse (parents, already given)
// adjacency, a topological numbering, and the transitive precedes
// closure, so temporal checks during matching are constant-time lookups
// rather than graph walks.
type dag struct {
	children   [][]PID // children[p] = events listing p as a parent
	topoIndex  []int   // topoIndex[pid] = rank in a valid topological order
	precedes   []*bitset.Set // precedes[pid] = transitive ancestor set (events that must occur before pid)
}

// buildDAG runs Kahn's algorithm over the parent relation (an edge
// parent -> child meaning parent occurs before child) to assign a
// topological numbering and detect cycles, then computes the transitive
// closure of "occurs before" for O(1) temporal-relation queries.
func buildDAG(events []Event) (*dag, error) {
	np := len(events)
	children := make([][]PID, np)
	indeg := make([]int, np)
	for _, e := range events {
		for _, p := range e.Parents {
			if int(p) < 0 || int(p) >= np {
				return nil, errInvalidParent(e.ID, p)
			}
			children[p] = append(children[p], e.ID)
			indeg[e.ID]++
		}
	}

	topoIndex := make([]int, np)
	order := make([]PID, 0, np)
	queue := make([]PID, 0, np)
	for pid := 0; pid < np; pid++ {
		if indeg[pid] == 0 {
			queue = append(queue, PID(pid))
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		for _, ch := range children[cur] {
			indeg[ch]--
			if indeg[ch] == 0 {
				queue = append(queue, ch)
			}
		}
	}
	if len(order) != np {
		return nil, errCyclicPattern()
	}
	for rank, pid := range order {
		topoIndex[pid] = rank
	}

	precedes := make([]*bitset.Set, np)
	for i := range precedes {
		precedes[i] = bitset.New(np)
	}
	// Process in topological order so every parent's closure is already
	// complete by the time it contributes to a child's closure.
	for _, pid := range order {
		for _, p := range events[pid].Parents {
			precedes[pid].Add(int(p))
			precedes[pid] = precedes[pid].Union(precedes[p])
		}
	}

	return &dag{children: children, topoIndex: topoIndex, precedes: precedes}, nil
}

// Precedes reports whether pattern event a must occur before b (a is in
// b's transitive parent closure). The matchers accept a's event ending at
// the same instant b's event starts.
func (d *dag) Precedes(a, b PID) bool {
	return d.precedes[b].Has(int(a))
}

// Related reports whether the temporal DAG constrains the order of a and b.
func (d *dag) Related(a, b PID) bool {
	return d.Precedes(a, b) || d.Precedes(b, a)
}

func (d *dag) Children(p PID) []PID { return d.children[p] }
