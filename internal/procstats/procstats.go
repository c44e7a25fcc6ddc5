// Package procstats reports the run's wall-clock duration and peak heap
// usage for the CLI's closing summary. No profiling library appears
// anywhere in the retrieval pack, so this stays on runtime/time directly
// (see DESIGN.md).
package procstats

import (
	"fmt"
	"runtime"
	"time"
)

// Snapshot is a point-in-time read of process resource usage.
type Snapshot struct {
	start   time.Time
	peakRSS uint64
}

// Start begins tracking from now.
func Start() *Snapshot {
	return &Snapshot{start: time.Now()}
}

// Sample updates the peak heap figure; call periodically during a long run
// to keep the peak current (Go does not expose a monotonic "high water
// mark" counter directly).
func (s *Snapshot) Sample() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	if m.HeapSys > s.peakRSS {
		s.peakRSS = m.HeapSys
	}
}

// Summary renders the closing resource-usage lines per spec section 6:
// "CPU time elapsed: ..." and "Peak memory usage: ... kB".
func (s *Snapshot) Summary() string {
	s.Sample()
	return fmt.Sprintf("CPU time elapsed: %s\nPeak memory usage: %d kB", time.Since(s.start).Round(time.Millisecond), s.peakRSS/1024)
}
