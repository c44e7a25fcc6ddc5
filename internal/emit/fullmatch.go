// Package emit is the Emitter (C8): it formats full pattern matches and
// publishes them over an event bus, decoupling match production from
// however the caller chooses to consume them (stdout, a file, a test
// collector).
package emit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/patterngraph/ipmes/internal/match"
	"github.com/patterngraph/ipmes/internal/pattern"
)

// FullMatch is the serializable form of a completed Partial: one token per
// pattern event, plus the match's time span and a trace id that ties a
// match back to whatever downstream log line references it.
type FullMatch struct {
	TraceID  string            `json:"trace_id"`
	Tokens   map[string]string `json:"tokens"` // pattern event id -> token
	Earliest float64           `json:"earliest"`
	Latest   float64           `json:"latest"`
}

// BuildFullMatch renders p's bindings into the spec's three token shapes:
// a default position's token is its bound input event id, a frequency
// position's is "(id, id, ...)" over its accumulated event ids in sorted
// order, and a flow position's is "(subj_id -> obj_id)". Each call mints
// a fresh trace id for the match.
func BuildFullMatch(store *pattern.Store, p *match.Partial) FullMatch {
	tokens := make(map[string]string, store.NumEvents())
	for pid, e := range p.Edges {
		tokens[pidKey(pid)] = e.EventID
	}
	for pid, acc := range p.FreqDone {
		tokens[pidKey(pid)] = frequencyToken(acc.IDs)
	}
	for pid, fl := range p.Flow {
		tokens[pidKey(pid)] = fmt.Sprintf("(%s -> %s)", fl.Src, fl.Dst)
	}
	return FullMatch{TraceID: uuid.New().String(), Tokens: tokens, Earliest: p.Earliest, Latest: p.Latest}
}

func pidKey(pid pattern.PID) string {
	return fmt.Sprintf("%d", int(pid))
}

func frequencyToken(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return "(" + strings.Join(sorted, ", ") + ")"
}

// String renders the match per spec section 6's output line:
// "Pattern Match: <start, end>[tok0, tok1, ...]", pattern events in id
// order, with the trace id appended for downstream log correlation.
func (m FullMatch) String() string {
	keys := make([]string, 0, len(m.Tokens))
	for k := range m.Tokens {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	tokens := make([]string, len(keys))
	for i, k := range keys {
		tokens[i] = m.Tokens[k]
	}
	return fmt.Sprintf("Pattern Match: <%.3f, %.3f>[%s] trace=%s", m.Earliest, m.Latest, strings.Join(tokens, ", "), m.TraceID)
}
