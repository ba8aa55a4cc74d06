// Package trace records what the portal renderer did with each window, one
// CBOR item per window, so frames can be inspected offline.
package trace

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

type Outcome string

const (
	OutcomeRendered Outcome = "rendered"
	OutcomeRefused  Outcome = "refused"
	OutcomeClipped  Outcome = "clipped"
	OutcomeEmpty    Outcome = "empty"
)

type Event struct {
	Frame   uint64  `cbor:"1,keyasint"`
	Portal  int     `cbor:"2,keyasint"`
	Kind    string  `cbor:"3,keyasint"`
	Window  string  `cbor:"4,keyasint"`
	MinX    int     `cbor:"5,keyasint"`
	MaxX    int     `cbor:"6,keyasint"`
	Taint   int     `cbor:"7,keyasint"`
	Head    bool    `cbor:"8,keyasint"`
	Depth   int     `cbor:"9,keyasint"`
	Outcome Outcome `cbor:"10,keyasint"`
}

type Tracer interface {
	Record(event Event) error
}

type Recorder struct {
	encoder *cbor.Encoder
	count   int
}

var _ Tracer = (*Recorder)(nil)

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{encoder: cbor.NewEncoder(w)}
}

func (r *Recorder) Record(event Event) error {
	if err := r.encoder.Encode(event); err != nil {
		return fmt.Errorf("could not encode trace event: %w", err)
	}
	r.count++
	return nil
}

func (r *Recorder) Count() int { return r.count }

// Read decodes every event in r.
func Read(r io.Reader) ([]Event, error) {
	decoder := cbor.NewDecoder(r)
	events := make([]Event, 0)
	for {
		var event Event
		err := decoder.Decode(&event)
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("could not decode trace event %d: %w", len(events), err)
		}
		events = append(events, event)
	}
}

// Summary counts events by outcome.
func Summary(events []Event) map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, event := range events {
		counts[event.Outcome]++
	}
	return counts
}
