package pattern

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/patterngraph/ipmes/internal/ipmeserr"
)

// LoadFile reads and compiles a pattern-file JSON document into a Store.
// The document shape mirrors spec section 6, the way jtomasevic-synapse's
// EventTemplate is itself a plain JSON-tagged struct (see
// pattern_watcher.go's json.MarshalIndent use). Signature is a pointer so
// Flow events, which must omit it, are distinguishable from an empty
// literal signature.
func LoadFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ipmeserr.InvalidPattern("pattern", err.Error())
	}
	return parse(raw)
}

func parse(raw []byte) (*Store, error) {
	var doc struct {
		Version  int  `json:"Version"`
		UseRegex bool `json:"UseRegex"`
		Entities []struct {
			ID        int             `json:"ID"`
			Signature *string         `json:"Signature"`
		} `json:"Entities"`
		Events []struct {
			ID        int     `json:"ID"`
			Signature *string `json:"Signature"`
			Type      string  `json:"Type"`
			Frequency int     `json:"Frequency"`
			SubjectID int     `json:"SubjectID"`
			ObjectID  int     `json:"ObjectID"`
			Parents   []int   `json:"Parents"`
		} `json:"Events"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ipmeserr.InvalidPattern("pattern", fmt.Sprintf("malformed JSON: %s", err))
	}

	entities := make([]Entity, 0, len(doc.Entities))
	for _, fe := range doc.Entities {
		e := Entity{ID: EID(fe.ID)}
		if fe.Signature != nil {
			e.Signature = *fe.Signature
			e.HasSig = true
		}
		entities = append(entities, e)
	}

	events := make([]Event, 0, len(doc.Events))
	for _, fe := range doc.Events {
		kind, err := parseKind(fe.Type)
		if err != nil {
			return nil, err
		}
		ev := Event{
			ID:        PID(fe.ID),
			Subject:   EID(fe.SubjectID),
			Object:    EID(fe.ObjectID),
			Kind:      kind,
			Frequency: fe.Frequency,
		}
		if fe.Signature != nil {
			ev.Signature = *fe.Signature
			ev.HasSig = true
		}
		for _, p := range fe.Parents {
			ev.Parents = append(ev.Parents, PID(p))
		}
		events = append(events, ev)
	}

	return New(entities, events, doc.UseRegex)
}

func parseKind(t string) (Kind, error) {
	switch t {
	case "", "Default":
		return Default, nil
	case "Frequency":
		return Frequency, nil
	case "Flow":
		return Flow, nil
	default:
		return Default, ipmeserr.InvalidPattern("pattern", fmt.Sprintf("unknown event Type %q", t))
	}
}
