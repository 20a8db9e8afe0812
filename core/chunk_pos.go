package core

// ChunkPos identifies a 16x256x16 chunk column by its chunk-grid coordinates.
// It is total-ordered by (X, Z) so that iteration over a set of positions -
// eviction order, save order, dirty processing order - never depends on map
// iteration order.
type ChunkPos struct {
	X, Z int32
}

// Less implements the (x, z) total order used for deterministic
// iteration.
func (p ChunkPos) Less(o ChunkPos) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Z < o.Z
}

// Neighbor4 returns the four horizontal neighbors in a fixed order
// (-X, +X, -Z, +Z), the same order the light engine's seam stitcher and the
// mesher's face-edge lookups use.
func (p ChunkPos) Neighbor4() [4]ChunkPos {
	return [4]ChunkPos{
		{X: p.X - 1, Z: p.Z},
		{X: p.X + 1, Z: p.Z},
		{X: p.X, Z: p.Z - 1},
		{X: p.X, Z: p.Z + 1},
	}
}

// RegionOf returns the 8x8-chunk region coordinate that pos falls in, used
// for region-granularity structure placement. Region files do not use it:
// persist groups chunks into its own 32x32-chunk regions.
func (p ChunkPos) RegionOf() (rx, rz int32) {
	return floorDiv(p.X, 8), floorDiv(p.Z, 8)
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
