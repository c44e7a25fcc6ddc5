package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const numFields = 8

// parseRecord turns one CSV record into an InputEvent, or reports
// InvalidEvent via the returned error so the caller can skip-and-warn.
func parseRecord(rec []string) (InputEvent, error) {
	if len(rec) != numFields {
		return InputEvent{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
	if err != nil {
		return InputEvent{}, fmt.Errorf("bad start_time %q: %w", rec[0], err)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
	if err != nil {
		return InputEvent{}, fmt.Errorf("bad end_time %q: %w", rec[1], err)
	}
	return InputEvent{
		StartT:  start,
		EndT:    end,
		EventID: strings.TrimSpace(rec[2]),
		Sig:     rec[3],
		SubjID:  strings.TrimSpace(rec[4]),
		SubjSig: rec[5],
		ObjID:   strings.TrimSpace(rec[6]),
		ObjSig:  rec[7],
	}, nil
}

// newCSVReader configures a streaming CSV reader suitable for a pipe: no
// whole-file buffering, and a permissive field count since malformed
// lines are validated (and skipped) by parseRecord rather than the
// csv.Reader itself.
func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false
	return cr
}
