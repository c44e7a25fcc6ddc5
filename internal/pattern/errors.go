package pattern

import (
	"fmt"

	"github.com/patterngraph/ipmes/internal/ipmeserr"
)

func errInvalidParent(child, parent PID) error {
	return ipmeserr.InvalidPattern("pattern", fmt.Sprintf("event %d references out-of-range parent %d", child, parent))
}

func errCyclicPattern() error {
	return ipmeserr.InvalidPattern("pattern", "temporal DAG contains a cycle")
}
