package mesh

import (
	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

// Rebuilder drives BuildChunk from live chunkstore.Storage, resolving
// cross-chunk face culling through the same storage the simulation ticks
// against. It caches the last content hash per chunk so a caller can tell
// whether a rebuild actually changed anything worth re-sending.
type Rebuilder struct {
	storage  *chunkstore.Storage
	registry *chunkstore.BlockRegistry
	hashes   map[core.ChunkPos][32]byte
}

// NewRebuilder builds a Rebuilder over storage and registry.
func NewRebuilder(storage *chunkstore.Storage, registry *chunkstore.BlockRegistry) *Rebuilder {
	return &Rebuilder{
		storage:  storage,
		registry: registry,
		hashes:   make(map[core.ChunkPos][32]byte),
	}
}

func (r *Rebuilder) neighborAt(worldX, y, worldZ int32) (chunkstore.Voxel, bool) {
	if y < 0 || y >= chunkstore.ChunkHeight {
		return chunkstore.AirVoxel, false
	}
	cx := floorDiv32(worldX, chunkstore.ChunkWidth)
	cz := floorDiv32(worldZ, chunkstore.ChunkWidth)
	c, ok := r.storage.Get(core.ChunkPos{X: cx, Z: cz})
	if !ok {
		// Not-yet-loaded neighbor: transparent, matching the light engine's
		// treatment of unloaded neighbors at the seam.
		return chunkstore.AirVoxel, false
	}
	lx := int(worldX - cx*chunkstore.ChunkWidth)
	lz := int(worldZ - cz*chunkstore.ChunkWidth)
	return c.Voxel(lx, int(y), lz), true
}

func floorDiv32(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Rebuild re-meshes the chunk at pos against current storage contents. The
// second return value reports whether the resulting content hash differs
// from the hash returned by the previous Rebuild call for pos (or true on
// the first call), so a caller can skip re-sending an unchanged mesh.
func (r *Rebuilder) Rebuild(pos core.ChunkPos) (MeshBuffers, bool) {
	c, ok := r.storage.Get(pos)
	if !ok {
		return MeshBuffers{}, false
	}
	buf := BuildChunk(pos, c, r.registry, r.neighborAt)
	prev, seen := r.hashes[pos]
	r.hashes[pos] = buf.Hash
	return buf, !seen || prev != buf.Hash
}

// Forget drops the cached hash for pos, used when a chunk is evicted from
// storage so a later reload is always treated as changed.
func (r *Rebuilder) Forget(pos core.ChunkPos) {
	delete(r.hashes, pos)
}
