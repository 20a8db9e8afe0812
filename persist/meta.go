// Package persist implements the world-root persistence layout:
// world.meta, world.state, per-region chunk blobs, and the replay logs
// net/replay already covers. Binary framing follows the same little-
// endian, length-prefixed style net/codec uses for wire messages, since
// both are "opaque blob with an explicit length and a checksum" problems,
// in the style of oriumgames-pile's format package.
package persist

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// SaveMeta writes world.meta: a single little-endian u64 world seed.
func SaveMeta(path string, worldSeed uint64) error {
	return writeAtomic(path, func(w io.Writer) error {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], worldSeed)
		_, err := w.Write(buf[:])
		return err
	})
}

// LoadMeta reads world.meta and returns the stored world seed.
func LoadMeta(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("persist: read world.meta: %w", err)
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("persist: world.meta has %d bytes, want 8", len(data))
	}
	return binary.LittleEndian.Uint64(data), nil
}
