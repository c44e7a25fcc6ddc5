// Package decompose is the Decomposer (C2): it splits a pattern's temporal
// DAG into total-ordered chains that individually admit streaming
// matching, covering every pattern event exactly once.
package decompose

import "github.com/patterngraph/ipmes/internal/pattern"

// Chain is a total-ordered sub-pattern: Events[i] must be matched before
// Events[i+1] can be attempted.
type Chain struct {
	ID     int
	Events []pattern.PID
}

// Position returns the index of pid within the chain, or -1.
func (c Chain) Position(pid pattern.PID) int {
	for i, p := range c.Events {
		if p == pid {
			return i
		}
	}
	return -1
}
