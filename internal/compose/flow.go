package compose

// FlowIndex maintains, for every node observed as the source of an edge,
// the set of nodes reachable from it by a time-respecting path, updated
// incrementally as edges stream in (spec 4.5's flow variant). Reachable
// times are not pruned eagerly; Reaches applies the window bound at query
// time, which is equivalent since entries only ever grow more recent.
type FlowIndex struct {
	reach map[string]map[string]float64 // src -> reachable node -> latest arrival time
}

func NewFlowIndex() *FlowIndex {
	return &FlowIndex{reach: map[string]map[string]float64{}}
}

// Observe absorbs one input edge u -> v spanning [start, end]: any node
// already able to reach u within the window can now also reach v, at
// time end.
func (f *FlowIndex) Observe(u, v string, start, end, w float64) {
	if f.reach[u] == nil {
		f.reach[u] = map[string]float64{}
	}
	f.reach[u][u] = end
	if cur, ok := f.reach[u][v]; !ok || end > cur {
		f.reach[u][v] = end
	}

	cutoff := start - w
	for src, m := range f.reach {
		if src == u {
			continue
		}
		if t, ok := m[u]; ok && t >= cutoff {
			if cur, ok2 := m[v]; !ok2 || end > cur {
				m[v] = end
			}
		}
	}
}

// Reaches reports whether dst is reachable from src via a path whose
// final hop landed within w of now.
func (f *FlowIndex) Reaches(src, dst string, w, now float64) bool {
	m, ok := f.reach[src]
	if !ok {
		return false
	}
	t, ok := m[dst]
	if !ok {
		return false
	}
	return now-t <= w
}

// Sources returns every node currently tracked as a reachability source.
func (f *FlowIndex) Sources() []string {
	out := make([]string, 0, len(f.reach))
	for src := range f.reach {
		out = append(out, src)
	}
	return out
}

// ReachableFrom returns every node reachable from src.
func (f *FlowIndex) ReachableFrom(src string) map[string]float64 {
	return f.reach[src]
}
