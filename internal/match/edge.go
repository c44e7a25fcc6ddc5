// Package match holds the Match Edge and Partial Match value types shared
// by the composition matcher (C5) and the join engine (C6), plus the
// shared-entity and temporal-consistency checks both components apply.
// Partials are value-like and copy-on-extend, per the source design
// notes: prefer copy-on-extend over cyclic links, keep the structure
// small enough that a map-based clone is cheap at pattern sizes this
// engine targets.
package match

import "github.com/patterngraph/ipmes/internal/pattern"

// Edge binds one pattern event to one concrete input event.
type Edge struct {
	PID     pattern.PID
	EventID string
	SubjID  string
	ObjID   string
	StartT  float64
	EndT    float64
}
