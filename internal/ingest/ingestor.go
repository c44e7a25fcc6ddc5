package ingest

import (
	"io"

	"github.com/google/uuid"

	"github.com/patterngraph/ipmes/internal/pattern"
	"github.com/patterngraph/ipmes/internal/xlog"
)

// Run streams the data graph from r, grouping equal-start_t lines into a
// batch and reordering each batch via idx before calling onBatch.
// Malformed lines (InvalidEvent) and regressions against the last
// released timestamp (OutOfOrderTimestamp) are skipped with a warning,
// never aborting the stream, per spec section 7.
func Run(r io.Reader, store *pattern.Store, idx PositionIndex, onBatch func([]InputEvent)) error {
	cr := newCSVReader(r)

	var batch []InputEvent
	haveBatch := false
	var batchT float64

	flush := func() {
		if len(batch) == 0 {
			return
		}
		sortBatch(batch, store, idx)
		xlog.Infof("batch trace_id=%s size=%d t=%v", uuid.New(), len(batch), batchT)
		onBatch(batch)
		batch = nil
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			xlog.Warnf("invalid event line: %v", err)
			continue
		}

		ev, perr := parseRecord(rec)
		if perr != nil {
			xlog.Warnf("invalid event line: %v", perr)
			continue
		}

		if haveBatch {
			if ev.StartT < batchT {
				xlog.Warnf("out of order timestamp %v (current batch is %v), skipping event %s", ev.StartT, batchT, ev.EventID)
				continue
			}
			if ev.StartT > batchT {
				flush()
				haveBatch = false
			}
		}

		batch = append(batch, ev)
		batchT = ev.StartT
		haveBatch = true
	}
	flush()
	return nil
}
