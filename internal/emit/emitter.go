package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/uniyakcom/beat"

	"github.com/patterngraph/ipmes/internal/ipmeserr"
	"github.com/patterngraph/ipmes/internal/match"
	"github.com/patterngraph/ipmes/internal/pattern"
)

const matchTopic = "ipmes.match"

// Emitter publishes full matches over a beat event bus and keeps the
// running count the CLI reports at shutdown. Matching runs single-threaded
// per stream, so a synchronous direct-call bus (beat.ForSync) is the right
// fit: no queue, no background goroutine to drain.
type Emitter struct {
	bus    beat.Bus
	w      io.Writer
	silent bool
	count  int64
}

// New builds an Emitter that writes formatted matches to w unless silent,
// counting every match regardless.
func New(w io.Writer, silent bool) (*Emitter, error) {
	bus, err := beat.ForSync()
	if err != nil {
		return nil, ipmeserr.ResourceExhaustion("emit", fmt.Sprintf("bus init: %s", err))
	}
	e := &Emitter{bus: bus, w: w, silent: silent}
	e.bus.On(matchTopic, e.handle)
	return e, nil
}

func (e *Emitter) handle(evt *beat.Event) error {
	atomic.AddInt64(&e.count, 1)
	if e.silent {
		return nil
	}
	var m FullMatch
	if err := json.Unmarshal(evt.Data, &m); err != nil {
		return err
	}
	_, err := fmt.Fprintln(e.w, m.String())
	return err
}

// Publish renders p as a full match and sends it through the bus.
func (e *Emitter) Publish(store *pattern.Store, p *match.Partial) error {
	m := BuildFullMatch(store, p)
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return e.bus.Emit(&beat.Event{Type: matchTopic, Data: data})
}

// Count returns how many matches have been published so far.
func (e *Emitter) Count() int64 { return atomic.LoadInt64(&e.count) }

// Close releases the bus. A Sync bus has no background worker, so this
// never blocks.
func (e *Emitter) Close() { e.bus.Close() }
