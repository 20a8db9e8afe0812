// Package replay implements the optional InputLogger and EventLogger:
// newline-JSON records of every accepted input and emitted
// game event, ordered by (tick, client_id, sequence). The logs are the
// artifact consumed by the worldtest package's deterministic replay
// harness.
//
// Grounded on the console package's line-oriented style (one record per
// line, a small buffered writer wrapped with a mutex for concurrent-safe
// appends), adapted from human-readable command lines to newline-
// delimited JSON records.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/0x4d44/mdcore/core"
)

// InputRecord is one accepted client input, as written to
// replay/inputs.jsonl.
type InputRecord struct {
	Tick     uint64 `json:"tick"`
	ClientID uint64 `json:"client_id"`
	Sequence uint64 `json:"sequence"`
	Payload  []byte `json:"payload"`
}

// InputLogger appends InputRecord values as newline-delimited JSON.
// Callers must present records already ordered by (tick, client_id,
// sequence) - the same order sim.drainInputs produces - since the logger
// does not buffer or re-sort across calls.
type InputLogger struct {
	mu  sync.Mutex
	w   *bufio.Writer
	enc *json.Encoder
}

// NewInputLogger wraps w (typically an *os.File opened for
// replay/inputs.jsonl).
func NewInputLogger(w io.Writer) *InputLogger {
	bw := bufio.NewWriter(w)
	return &InputLogger{w: bw, enc: json.NewEncoder(bw)}
}

// Log appends one record and flushes it immediately, so a crash mid-tick
// never loses a previously accepted input.
func (l *InputLogger) Log(tick core.SimTick, clientID, sequence uint64, payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(InputRecord{Tick: uint64(tick), ClientID: clientID, Sequence: sequence, Payload: payload}); err != nil {
		return fmt.Errorf("replay: encode input record: %w", err)
	}
	return l.w.Flush()
}

// EventRecord is one emitted game event, as written to
// replay/events.jsonl. Kind names the event (e.g. "block_changed",
// "entity_spawned"); Data is the event's own JSON-encodable payload, kept
// opaque to the replay package itself.
type EventRecord struct {
	Tick     uint64          `json:"tick"`
	ClientID uint64          `json:"client_id"`
	Sequence uint64          `json:"sequence"`
	Kind     string          `json:"kind"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// EventLogger appends EventRecord values as newline-delimited JSON, with
// the same ordering and flush-per-write contract as InputLogger.
type EventLogger struct {
	mu  sync.Mutex
	w   *bufio.Writer
	enc *json.Encoder
}

// NewEventLogger wraps w (typically an *os.File opened for
// replay/events.jsonl).
func NewEventLogger(w io.Writer) *EventLogger {
	bw := bufio.NewWriter(w)
	return &EventLogger{w: bw, enc: json.NewEncoder(bw)}
}

// Log appends one event record, JSON-marshaling data itself.
func (l *EventLogger) Log(tick core.SimTick, clientID, sequence uint64, kind string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("replay: marshal event data: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := EventRecord{Tick: uint64(tick), ClientID: clientID, Sequence: sequence, Kind: kind, Data: raw}
	if err := l.enc.Encode(rec); err != nil {
		return fmt.Errorf("replay: encode event record: %w", err)
	}
	return l.w.Flush()
}

// ReadInputRecords decodes every InputRecord from r, in file order. It
// never panics on malformed JSON, returning a descriptive error instead,
// since replay logs may be hand-edited or truncated by a prior crash.
func ReadInputRecords(r io.Reader) ([]InputRecord, error) {
	dec := json.NewDecoder(r)
	var out []InputRecord
	for dec.More() {
		var rec InputRecord
		if err := dec.Decode(&rec); err != nil {
			return out, fmt.Errorf("replay: decode input record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadEventRecords decodes every EventRecord from r, in file order.
func ReadEventRecords(r io.Reader) ([]EventRecord, error) {
	dec := json.NewDecoder(r)
	var out []EventRecord
	for dec.More() {
		var rec EventRecord
		if err := dec.Decode(&rec); err != nil {
			return out, fmt.Errorf("replay: decode event record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
	return out, nil
}
