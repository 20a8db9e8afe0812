package core

import (
	"encoding/binary"
	"math/rand/v2"
)

// ScopedRNG seeds a reproducible PRNG from the XOR of a world seed, a chunk
// hash, and a SimTick. Every scheduled random decision in the simulation
// MUST derive from a call to ScopedRNG (or ScopedRNGForChunk below) rather than
// from the platform RNG, so that the same input sequence always produces
// the same outcome regardless of wall-clock time or machine.
//
// The generator is PCG-based (math/rand/v2's default), which has no
// platform-dependent entropy source: given the same two uint64 seed words it
// always produces the same stream on every platform and Go version this
// module targets.
func ScopedRNG(worldSeed uint64, chunkHash uint64, tick SimTick) *rand.Rand {
	seed := worldSeed ^ chunkHash ^ tick.Uint64()
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// ChunkHash produces the 64-bit hash of a chunk position used as the middle
// term of ScopedRNG. It is a pure function of the position, independent of
// chunk contents, so that terrain generation (which needs randomness before
// any voxel exists) and later re-rolls agree on the same stream root.
func ChunkHash(pos ChunkPos) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(pos.X))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(pos.Z))
	return fnv1a64(buf[:])
}

// fnv1a64 is a tiny, dependency-free 64-bit FNV-1a used only for the
// position->hash mapping above; xxhash (wired elsewhere in this module for
// larger buffers, see chunkstore.ContentHash) would be overkill for 8 bytes
// of input and pulls in a streaming API not worth it for a fixed-size key.
func fnv1a64(data []byte) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for _, b := range data {
		h ^= uint64(b)
		h *= prime
	}
	return h
}

// ScopedRNGForChunk is a convenience wrapper combining ChunkHash and
// ScopedRNG for the common case of per-chunk scheduled decisions.
func ScopedRNGForChunk(worldSeed uint64, pos ChunkPos, tick SimTick) *rand.Rand {
	return ScopedRNG(worldSeed, ChunkHash(pos), tick)
}
