// Package compose is the Composition Matcher (C5): per chain of length m,
// it maintains m FIFO buffers of partial matches and consumes events in
// ingestion order to emit full chain matches, including the frequency and
// flow position variants sharing the same downstream join interface.
package compose

import (
	"github.com/patterngraph/ipmes/internal/decompose"
	"github.com/patterngraph/ipmes/internal/pattern"
)

// Position is one chain slot: a pattern event plus the entities its
// signature match must bind.
type Position struct {
	PID       pattern.PID
	Subject   pattern.EID
	Object    pattern.EID
	Kind      pattern.Kind
	Frequency int
}

func buildPositions(store *pattern.Store, chain decompose.Chain) []Position {
	positions := make([]Position, len(chain.Events))
	for i, pid := range chain.Events {
		ev := store.Event(pid)
		positions[i] = Position{
			PID:       pid,
			Subject:   ev.Subject,
			Object:    ev.Object,
			Kind:      ev.Kind,
			Frequency: ev.Frequency,
		}
	}
	return positions
}
