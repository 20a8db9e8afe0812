// Package coreerr defines the error taxonomy classes:
// Validation, Corruption, Capacity, Transport, and Invariant. Callers wrap a
// concrete error with one of these sentinels so that recovery logic further
// up the stack can classify a failure with errors.Is/errors.As without
// depending on the originating package.
package coreerr

import "errors"

// Class identifies which of the five error taxonomy buckets an error
// belongs to.
type Class int

const (
	// Validation covers bad config, bad schema hash, malformed wire
	// frames, and out-of-range coordinates. Always recoverable locally.
	Validation Class = iota
	// Corruption covers region CRC mismatches, wrong-length chunks, and
	// bincode/postcard decode failures on persisted state.
	Corruption
	// Capacity covers LRU eviction (expected) and unexpected resource
	// exhaustion (fatal).
	Capacity
	// Transport covers connection reset, handshake rejection, and
	// keepalive timeout.
	Transport
	// Invariant covers a core invariant evaluating false.
	Invariant
)

func (c Class) String() string {
	switch c {
	case Validation:
		return "validation"
	case Corruption:
		return "corruption"
	case Capacity:
		return "capacity"
	case Transport:
		return "transport"
	case Invariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// classified wraps an underlying error with its taxonomy class.
type classified struct {
	class Class
	err   error
}

func (c *classified) Error() string { return c.class.String() + ": " + c.err.Error() }
func (c *classified) Unwrap() error { return c.err }

// Wrap tags err with class so that later code can recover the class via
// ClassOf. Wrap(nil, ...) returns nil.
func Wrap(class Class, err error) error {
	if err == nil {
		return nil
	}
	return &classified{class: class, err: err}
}

// ClassOf returns the taxonomy class of err and true if err (or something it
// wraps) was produced by Wrap. Unwrapped errors report (Validation, false)
// as a conservative default used only for logging, never for control flow.
func ClassOf(err error) (Class, bool) {
	var c *classified
	if errors.As(err, &c) {
		return c.class, true
	}
	return Validation, false
}

// ExitCode maps a taxonomy class (as established at boot / top-level
// handling) to the process exit codes used by the CLI. Exit code 0 and
// the "unfatal, logged and continued" cases are the caller's responsibility
// to decide; ExitCode is only consulted for genuinely fatal paths.
func ExitCode(class Class) int {
	switch class {
	case Validation, Corruption:
		return 2
	case Invariant, Capacity:
		return 3
	default:
		return 1
	}
}
