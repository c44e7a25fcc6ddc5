// Package engine wires the Pattern Store, Decomposer, Join-Tree Builder,
// Event Ingestor, Composition Matcher, Join Engine, Window Controller, and
// Emitter into one streaming pipeline.
package engine

import (
	"io"

	"github.com/patterngraph/ipmes/internal/compose"
	"github.com/patterngraph/ipmes/internal/decompose"
	"github.com/patterngraph/ipmes/internal/emit"
	"github.com/patterngraph/ipmes/internal/ingest"
	"github.com/patterngraph/ipmes/internal/join"
	"github.com/patterngraph/ipmes/internal/jointree"
	"github.com/patterngraph/ipmes/internal/match"
	"github.com/patterngraph/ipmes/internal/pattern"
)

// Config is the tunable part of a run (spec section 6's CLI flags).
type Config struct {
	Window float64
	Silent bool
}

// Engine owns one fully wired pipeline for a single pattern file.
type Engine struct {
	store    *pattern.Store
	chains   []decompose.Chain
	tree     *jointree.Tree
	matchers []*compose.ChainMatcher
	join     *join.Engine
	emitter  *emit.Emitter
	idx      ingest.PositionIndex
	w        float64
}

// New loads patternPath and assembles the pipeline, writing emitted
// matches to out per cfg.
func New(patternPath string, cfg Config, out io.Writer) (*Engine, error) {
	store, err := pattern.LoadFile(patternPath)
	if err != nil {
		return nil, err
	}
	chains, err := decompose.Decompose(store)
	if err != nil {
		return nil, err
	}
	tree := jointree.Build(store, chains)
	idx := ingest.BuildPositionIndex(chains)

	emitter, err := emit.New(out, cfg.Silent)
	if err != nil {
		return nil, err
	}

	je := join.NewEngine(store, tree, cfg.Window, func(p *match.Partial) {
		_ = emitter.Publish(store, p)
	})

	flow := compose.NewFlowIndex()
	matchers := make([]*compose.ChainMatcher, len(chains))
	for i, c := range chains {
		matchers[i] = compose.NewChainMatcher(c.ID, c, store, flow)
	}

	return &Engine{
		store:    store,
		chains:   chains,
		tree:     tree,
		matchers: matchers,
		join:     je,
		emitter:  emitter,
		idx:      idx,
		w:        cfg.Window,
	}, nil
}

// Run streams the data graph from r through every stage until EOF.
func (e *Engine) Run(r io.Reader) error {
	return ingest.Run(r, e.store, e.idx, func(batch []ingest.InputEvent) {
		for _, ev := range batch {
			for _, m := range e.matchers {
				m.Ingest(ev, e.w, func(chainID int, p *match.Partial) {
					e.join.OnChainMatch(chainID, p, ev.StartT)
				})
			}
		}
	})
}

// MatchCount returns how many full matches have been emitted so far.
func (e *Engine) MatchCount() int64 { return e.emitter.Count() }

// Close releases the emitter's bus.
func (e *Engine) Close() { e.emitter.Close() }
