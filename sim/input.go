package sim

import "sort"

// ClientInput is one client's input bundle for a tick, carrying only the
// ordering keys the scheduler's intake stage needs; concrete input payload
// (movement, block interaction, chat) is opaque to the core scheduler and
// dispatched via Handler.
type ClientInput struct {
	ClientID uint64
	Sequence uint64
	Payload  []byte
}

// Handler receives drained inputs and emitted world events during a tick.
// Implementations live outside sim (e.g. the player/session layer); sim
// only guarantees the call order is deterministic.
type Handler interface {
	HandleInput(in ClientInput)
}

// drainInputs sorts a batch of ClientInput by (client_id, sequence),
// without mutating the caller's slice.
func drainInputs(batch []ClientInput) []ClientInput {
	out := append([]ClientInput(nil), batch...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClientID != out[j].ClientID {
			return out[i].ClientID < out[j].ClientID
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}
