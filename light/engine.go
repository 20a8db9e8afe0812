// Package light implements sky/block light propagation with mandatory
// cross-chunk seam stitching. Propagation is grounded on the
// BFS-queue-over-a-graph shape of sim/redstone's signal propagation
// (server/world/redstone/graph.go), adapted from a component-graph BFS to
// a per-voxel BFS over chunk-local + 4 neighbor
// columns.
package light

import (
	"github.com/brentp/intintmap"

	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

// Emitter resolves the active light emission of a voxel, allowing stateful
// emitters (a lit redstone torch, a charged respawn anchor) to override the
// registry's base emission,
type Emitter interface {
	// Emission returns the light level (0-15) a voxel emits given its id and
	// state. Implementations fall back to the registry's base emission for
	// blocks with no special-cased state.
	Emission(id chunkstore.BlockId, state uint16, registry *chunkstore.BlockRegistry) uint8
}

// DefaultEmitter uses only the registry's base light emission, ignoring
// state. Suitable when no stateful emitters are registered.
type DefaultEmitter struct{}

func (DefaultEmitter) Emission(id chunkstore.BlockId, _ uint16, registry *chunkstore.BlockRegistry) uint8 {
	return registry.BaseLightEmission(id)
}

// Engine relights chunks and stitches light across chunk seams.
type Engine struct {
	storage  *chunkstore.Storage
	registry *chunkstore.BlockRegistry
	emitter  Emitter
}

// NewEngine builds a light Engine over a chunk storage and block registry.
// emitter may be nil, in which case DefaultEmitter is used.
func NewEngine(storage *chunkstore.Storage, registry *chunkstore.BlockRegistry, emitter Emitter) *Engine {
	if emitter == nil {
		emitter = DefaultEmitter{}
	}
	return &Engine{storage: storage, registry: registry, emitter: emitter}
}

type globalPos struct{ x, y, z int32 }

func (e *Engine) split(p globalPos) (core.ChunkPos, int, int, int) {
	cx := floorDiv32(p.x, chunkstore.ChunkWidth)
	cz := floorDiv32(p.z, chunkstore.ChunkWidth)
	lx := int(p.x - cx*chunkstore.ChunkWidth)
	lz := int(p.z - cz*chunkstore.ChunkWidth)
	return core.ChunkPos{X: cx, Z: cz}, lx, int(p.y), lz
}

func floorDiv32(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func (e *Engine) voxelAt(p globalPos) (chunkstore.Voxel, bool) {
	if p.y < 0 || p.y >= chunkstore.ChunkHeight {
		return chunkstore.AirVoxel, false
	}
	cp, lx, ly, lz := e.split(p)
	c, ok := e.storage.Get(cp)
	if !ok {
		// Not-yet-loaded neighbor: treated as transparent air for both meshing
		// and, symmetrically, for light.
		return chunkstore.AirVoxel, false
	}
	return c.Voxel(lx, ly, lz), true
}

func key(p globalPos) int64 {
	// Pack into a single int64 for intintmap's visited set. y in [0,256),
	// x/z can exceed 16 bits across a whole world but chunk-relative BFS
	// here only ever explores a bounded local neighborhood around the
	// relit chunk plus its 4 neighbors, so 21 bits per axis is ample.
	return (int64(p.x)&0x1FFFFF)<<42 | (int64(p.y)&0xFFF)<<21 | (int64(p.z) & 0x1FFFFF)
}

// RelightResult reports which chunks had light values change, so the caller
// can set MESH dirty on them, trigger rule.
type RelightResult struct {
	Changed []core.ChunkPos
}

// RelightChunk relights pos and stitches light with its four horizontal
// neighbors such that |light(A_edge) - light(B_edge)| <= 1 across every
// transparent shared face. It clears the LIGHT dirty flag on pos and
// returns the set of chunks (including pos itself and any
// neighbors) whose light values changed, for the caller to mark MESH dirty.
func (e *Engine) RelightChunk(pos core.ChunkPos) RelightResult {
	changed := newChangeSet()

	e.seedSkylight(pos, changed)

	visited := intintmap.New(4096, 0.75)
	queue := e.seedQueue(pos)

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		k := key(p)
		if _, ok := visited.Get(k); ok {
			continue
		}
		visited.Put(k, 1)

		v, loaded := e.voxelAt(p)
		_ = loaded
		for _, np := range neighbors6(p) {
			nv, exists := e.voxelAt(np)
			if exists && e.registry.Opaque(nv.ID) {
				// Opaque neighbors don't receive propagated light (they're
				// sinks), but they may themselves be emitters, handled when
				// np is dequeued as a source below.
				continue
			}
			skyWant := decay(v.LightSky)
			blockWant := decay(v.LightBlock)
			if exists {
				emission := e.emitter.Emission(nv.ID, nv.State, e.registry)
				if emission > blockWant {
					blockWant = emission
				}
			}
			if e.raiseLight(np, skyWant, blockWant, changed) {
				queue = append(queue, np)
			}
		}
	}

	if c, ok := e.storage.Get(pos); ok {
		c.ClearDirty(chunkstore.DirtyLight)
	}
	return RelightResult{Changed: changed.slice()}
}

// seedSkylight writes sky and block light into every voxel of pos in one
// top-down pass per column. Sky light is 15 in every voxel above the
// column's highest opaque block and 0 from that block down. Block light is
// the larger of the voxel's emission and its stored block light. It queues
// nothing itself: RelightChunk's BFS spreads light from these values.
func (e *Engine) seedSkylight(pos core.ChunkPos, changed *changeSet) {
	c, ok := e.storage.Get(pos)
	if !ok {
		return
	}
	for lx := 0; lx < chunkstore.ChunkWidth; lx++ {
		for lz := 0; lz < chunkstore.ChunkWidth; lz++ {
			level := uint8(15)
			for ly := chunkstore.ChunkHeight - 1; ly >= 0; ly-- {
				v := c.Voxel(lx, ly, lz)
				if e.registry.Opaque(v.ID) {
					level = 0
				}
				block := e.emitter.Emission(v.ID, v.State, e.registry)
				if v.LightBlock > block {
					block = v.LightBlock
				}
				if c.SetLight(lx, ly, lz, level, block) {
					changed.add(pos)
				}
			}
		}
	}
}

// seedQueue collects every voxel of pos plus the boundary columns of its 4
// neighbors as BFS roots, guaranteeing the stitch propagates both into
// and from neighbors.
func (e *Engine) seedQueue(pos core.ChunkPos) []globalPos {
	var queue []globalPos
	baseX, baseZ := pos.X*chunkstore.ChunkWidth, pos.Z*chunkstore.ChunkWidth
	for lx := 0; lx < chunkstore.ChunkWidth; lx++ {
		for lz := 0; lz < chunkstore.ChunkWidth; lz++ {
			for ly := 0; ly < chunkstore.ChunkHeight; ly++ {
				queue = append(queue, globalPos{baseX + int32(lx), int32(ly), baseZ + int32(lz)})
			}
		}
	}
	for _, np := range pos.Neighbor4() {
		if _, ok := e.storage.Get(np); !ok {
			continue
		}
		nBaseX, nBaseZ := np.X*chunkstore.ChunkWidth, np.Z*chunkstore.ChunkWidth
		for i := 0; i < chunkstore.ChunkWidth; i++ {
			for ly := 0; ly < chunkstore.ChunkHeight; ly++ {
				queue = append(queue,
					globalPos{nBaseX + int32(i), int32(ly), nBaseZ},
					globalPos{nBaseX + int32(i), int32(ly), nBaseZ + chunkstore.ChunkWidth - 1},
					globalPos{nBaseX, int32(ly), nBaseZ + int32(i)},
					globalPos{nBaseX + chunkstore.ChunkWidth - 1, int32(ly), nBaseZ + int32(i)},
				)
			}
		}
	}
	return queue
}

func neighbors6(p globalPos) [6]globalPos {
	return [6]globalPos{
		{p.x - 1, p.y, p.z}, {p.x + 1, p.y, p.z},
		{p.x, p.y - 1, p.z}, {p.x, p.y + 1, p.z},
		{p.x, p.y, p.z - 1}, {p.x, p.y, p.z + 1},
	}
}

func decay(level uint8) uint8 {
	if level == 0 {
		return 0
	}
	return level - 1
}

// raiseLight sets np's light to max(current, skyWant/blockWant) and reports
// whether anything changed, recording the owning chunk in changed.
func (e *Engine) raiseLight(np globalPos, skyWant, blockWant uint8, changed *changeSet) bool {
	if np.y < 0 || np.y >= chunkstore.ChunkHeight {
		return false
	}
	cp, lx, ly, lz := e.split(np)
	c, ok := e.storage.Get(cp)
	if !ok {
		return false
	}
	cur := c.Voxel(lx, ly, lz)
	sky := cur.LightSky
	if skyWant > sky {
		sky = skyWant
	}
	block := cur.LightBlock
	if blockWant > block {
		block = blockWant
	}
	if c.SetLight(lx, ly, lz, sky, block) {
		changed.add(cp)
		return true
	}
	return false
}

type changeSet struct {
	m map[core.ChunkPos]struct{}
}

func newChangeSet() *changeSet { return &changeSet{m: make(map[core.ChunkPos]struct{})} }

func (s *changeSet) add(p core.ChunkPos) { s.m[p] = struct{}{} }

func (s *changeSet) slice() []core.ChunkPos {
	out := make([]core.ChunkPos, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}
	// Deterministic order for callers that log or replay this result.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Less(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
