package decompose

import (
	"sort"

	"github.com/patterngraph/ipmes/internal/ipmeserr"
	"github.com/patterngraph/ipmes/internal/pattern"
)

// Decompose enumerates every maximal total-ordered chain of the pattern's
// temporal DAG by depth-first exploration from sources (events with no
// parents) to sinks (events with no children) — any such root-to-leaf
// path is, by transitivity of the parent relation, pairwise comparable
// and hence a valid chain — and then greedily covers all Np events with
// the longest pairwise-disjoint chains, breaking ties by the lowest
// smallest pid.
func Decompose(store *pattern.Store) ([]Chain, error) {
	np := store.NumEvents()
	if np == 0 {
		return nil, ipmeserr.InvalidPattern("decompose", "pattern has no events")
	}

	candidates := enumerateMaximalChains(store)
	sortCandidates(candidates)

	covered := make([]bool, np)
	numCovered := 0
	var chains []Chain
	for _, cand := range candidates {
		if numCovered == np {
			break
		}
		if anyCovered(cand, covered) {
			continue
		}
		chains = append(chains, Chain{ID: len(chains), Events: cand})
		for _, pid := range cand {
			covered[pid] = true
		}
		numCovered += len(cand)
	}

	// Safety net: the enumerated maximal chains are guaranteed to jointly
	// cover every event, but greedy disjoint selection over them is not
	// guaranteed to leave a wholly-uncovered chain for every remaining
	// event in adversarial DAG shapes. Fall back to a singleton chain per
	// still-uncovered event so the partition invariant always holds.
	for pid := 0; pid < np; pid++ {
		if !covered[pid] {
			chains = append(chains, Chain{ID: len(chains), Events: []pattern.PID{pattern.PID(pid)}})
			covered[pid] = true
		}
	}

	return chains, nil
}

func enumerateMaximalChains(store *pattern.Store) [][]pattern.PID {
	np := store.NumEvents()
	var roots []pattern.PID
	for pid := 0; pid < np; pid++ {
		if len(store.Event(pattern.PID(pid)).Parents) == 0 {
			roots = append(roots, pattern.PID(pid))
		}
	}

	var chains [][]pattern.PID
	var dfs func(path []pattern.PID, cur pattern.PID)
	dfs = func(path []pattern.PID, cur pattern.PID) {
		path = append(path, cur)
		children := store.Children(cur)
		if len(children) == 0 {
			full := make([]pattern.PID, len(path))
			copy(full, path)
			chains = append(chains, full)
			return
		}
		for _, ch := range children {
			dfs(path, ch)
		}
	}
	for _, r := range roots {
		dfs(nil, r)
	}
	return chains
}

// sortCandidates orders by length descending; ties broken by the lowest
// smallest pid in the chain.
func sortCandidates(chains [][]pattern.PID) {
	sort.SliceStable(chains, func(i, j int) bool {
		if len(chains[i]) != len(chains[j]) {
			return len(chains[i]) > len(chains[j])
		}
		return minPID(chains[i]) < minPID(chains[j])
	})
}

func minPID(pids []pattern.PID) pattern.PID {
	m := pids[0]
	for _, p := range pids[1:] {
		if p < m {
			m = p
		}
	}
	return m
}

func anyCovered(pids []pattern.PID, covered []bool) bool {
	for _, p := range pids {
		if covered[p] {
			return true
		}
	}
	return false
}
