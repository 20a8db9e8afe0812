package chunkstore

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/0x4d44/mdcore/core"
)

// DirtyFlag is a bitset marker requesting MESH re-emission or LIGHT
// re-propagation for a chunk.
type DirtyFlag uint8

const (
	DirtyMesh DirtyFlag = 1 << iota
	DirtyLight
)

// Chunk is a 16x256x16 SoA voxel array plus its dirty bitset. Chunks are
// created filled with air and start fully dirty.
type Chunk struct {
	Pos core.ChunkPos

	mu     sync.Mutex
	voxels [ChunkVoxelCount]Voxel
	dirty  DirtyFlag
}

// NewChunk creates an all-air, all-dirty chunk at pos.
func NewChunk(pos core.ChunkPos) *Chunk {
	return &Chunk{Pos: pos, dirty: DirtyMesh | DirtyLight}
}

// Voxel reads the voxel at a local coordinate. Out-of-bounds coordinates
// return AirVoxel, matching the "treat unloaded/out-of-range as transparent"
// rule the mesher and light engine rely on at chunk edges.
func (c *Chunk) Voxel(x, y, z int) Voxel {
	if !InBounds(x, y, z) {
		return AirVoxel
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voxels[Index(x, y, z)]
}

// SetVoxel writes v at a local coordinate, setting both dirty flags iff the
// stored value actually changes. It returns true if the voxel changed.
func (c *Chunk) SetVoxel(x, y, z int, v Voxel) bool {
	if !InBounds(x, y, z) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := Index(x, y, z)
	if c.voxels[i] == v {
		return false
	}
	c.voxels[i] = v
	c.dirty |= DirtyMesh | DirtyLight
	return true
}

// SetLight sets only the light channels of a voxel without marking MESH/LIGHT
// dirty on its own. The light engine reports which chunks' light changed, and
// sim.Scheduler marks MESH dirty on them once the relight has finished.
func (c *Chunk) SetLight(x, y, z int, sky, block uint8) bool {
	if !InBounds(x, y, z) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := Index(x, y, z)
	cur := c.voxels[i]
	sky, block = ClampLight(sky), ClampLight(block)
	if cur.LightSky == sky && cur.LightBlock == block {
		return false
	}
	cur.LightSky, cur.LightBlock = sky, block
	c.voxels[i] = cur
	return true
}

// MarkDirty ORs extra flags into the chunk's dirty bitset. Used by
// simulation systems (fluid, redstone, block entities) that mutate a chunk
// through means other than SetVoxel.
func (c *Chunk) MarkDirty(flags DirtyFlag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty |= flags
}

// TakeDirtyFlags returns the current dirty bitset and clears it
// atomically. Only the scheduler (or components it delegates to, such
// as the light engine and mesher) should call this.
func (c *Chunk) TakeDirtyFlags() DirtyFlag {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.dirty
	c.dirty = 0
	return f
}

// ClearDirty clears exactly the given flags, leaving any others untouched.
// Used when the light engine clears LIGHT but wants to preserve a MESH bit
// set by a concurrent voxel mutation.
func (c *Chunk) ClearDirty(flags DirtyFlag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty &^= flags
}

// PeekDirty reports the current dirty bitset without clearing it.
func (c *Chunk) PeekDirty() DirtyFlag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// ContentHash hashes the raw voxel array (ids, states and both light
// channels) with xxhash64. It is a pure function of chunk contents; the
// chunk_hash term fed into core.ScopedRNG is the position-only
// core.ChunkHash, and mesh.BuildChunk does not consult this hash.
func (c *Chunk) ContentHash() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := xxhash.New()
	buf := make([]byte, 6)
	for _, v := range c.voxels {
		buf[0] = byte(v.ID)
		buf[1] = byte(v.ID >> 8)
		buf[2] = byte(v.State)
		buf[3] = byte(v.State >> 8)
		buf[4] = v.LightSky
		buf[5] = v.LightBlock
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

// Snapshot copies the voxel array out for lock-free consumption by a mesh
// worker running on a snapshot, so meshing may run in parallel only over
// chunk snapshots released by the simulation.
func (c *Chunk) Snapshot() [ChunkVoxelCount]Voxel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voxels
}
