// Package chunkstore implements the SoA voxel chunk layout, its
// dirty-flag bookkeeping, and the LRU-backed chunk residency map.
package chunkstore

// Voxel is the fixed 6-byte-equivalent tuple used throughout the world
// model. Field order matches the wire/save layout used by chunk
// persistence (persist.Region).
type Voxel struct {
	ID         uint16
	State      uint16
	LightSky   uint8
	LightBlock uint8
}

// AirVoxel is the zero value: id 0, non-opaque, no light.
var AirVoxel = Voxel{}

// IsAir reports whether v is the air voxel (id == 0).
func (v Voxel) IsAir() bool {
	return v.ID == 0
}

// ChunkWidth, ChunkHeight and ChunkVoxelCount are the fixed chunk
// dimensions: a 16x256x16 column.
const (
	ChunkWidth       = 16
	ChunkHeight      = 256
	ChunkVoxelCount  = ChunkWidth * ChunkHeight * ChunkWidth
	maxLight   uint8 = 15
)

// Index computes the flat SoA index (y*16+z)*16+x for a local coordinate.
// Callers are expected to have already range-checked x, y, z; Index itself
// does not validate its arguments since it sits on the hot path of every
// voxel access in the mesher and light engine.
func Index(x, y, z int) int {
	return (y*ChunkWidth+z)*ChunkWidth + x
}

// InBounds reports whether a local coordinate triple is inside a chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkWidth && y >= 0 && y < ChunkHeight && z >= 0 && z < ChunkWidth
}

// ClampLight clamps a light level into the legal [0,15] range required by
// the light-level invariant. Used by the light engine whenever an
// invariant-breach repair is needed in release builds.
func ClampLight(v uint8) uint8 {
	if v > maxLight {
		return maxLight
	}
	return v
}
