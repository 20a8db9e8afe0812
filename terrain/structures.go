package terrain

import (
	"sort"

	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

// StructureKind enumerates the structure types. Ordered by placement
// precedence: when two structures would collide within a
// region, the earlier kind in this list wins (villages over ruins, per the
// spec's explicit example).
type StructureKind uint8

const (
	StructureVillage StructureKind = iota
	StructureFortress
	StructureMineshaft
	StructureDungeon
	StructureRuin
)

func (k StructureKind) precedence() int { return int(k) }

// regionSize is the fixed 8x8-chunk granularity used for structure
// placement.
const regionSize = 8

type regionCoord struct{ rx, rz int32 }

// plannedStructure is one structure placement resolved for a region.
type plannedStructure struct {
	kind   StructureKind
	origin core.ChunkPos // chunk the structure is anchored at, within the region
	size   int           // footprint in chunks, nxn
}

// RegionPlanner deterministically lays out structures per 8x8-chunk region,
// generalized from a populate.Populator-style interface
// (as in server/world/generator/pmgen/populate/populator.go) to a region-scoped
// planning pass instead of a per-chunk one, since structures here can span
// multiple chunks and must agree on a single layout regardless of which
// chunk within the region is generated first.
type RegionPlanner struct {
	seed uint64
}

// NewRegionPlanner builds a planner for worldSeed.
func NewRegionPlanner(worldSeed uint64) *RegionPlanner {
	return &RegionPlanner{seed: worldSeed}
}

// planRegion deterministically decides which structures exist in region
// (rx, rz), resolving collisions by precedence: a later-precedence
// structure that overlaps an already-placed one is dropped.
func (p *RegionPlanner) planRegion(rx, rz int32) []plannedStructure {
	r := core.ScopedRNGForChunk(p.seed^0x5710C705, core.ChunkPos{X: rx, Z: rz}, core.ZeroTick)

	candidates := []plannedStructure{}
	tryPlace := func(kind StructureKind, chance float64, size int) {
		if r.Float64() > chance {
			return
		}
		// The origin keeps the whole size x size footprint inside the
		// region, the only region PlaceStructures plans for its chunks.
		cx := rx*regionSize + int32(r.IntN(regionSize-size+1))
		cz := rz*regionSize + int32(r.IntN(regionSize-size+1))
		candidates = append(candidates, plannedStructure{kind: kind, origin: core.ChunkPos{X: cx, Z: cz}, size: size})
	}
	tryPlace(StructureVillage, 0.15, 4)
	tryPlace(StructureFortress, 0.05, 5)
	tryPlace(StructureMineshaft, 0.25, 3)
	tryPlace(StructureDungeon, 0.40, 1)
	tryPlace(StructureRuin, 0.20, 2)

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].kind.precedence() < candidates[j].kind.precedence()
	})

	var resolved []plannedStructure
	for _, c := range candidates {
		overlaps := false
		for _, placed := range resolved {
			if structuresOverlap(c, placed) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			resolved = append(resolved, c)
		}
	}
	return resolved
}

func structuresOverlap(a, b plannedStructure) bool {
	ax0, az0 := a.origin.X, a.origin.Z
	ax1, az1 := ax0+int32(a.size), az0+int32(a.size)
	bx0, bz0 := b.origin.X, b.origin.Z
	bx1, bz1 := bx0+int32(b.size), bz0+int32(b.size)
	return ax0 < bx1 && bx0 < ax1 && az0 < bz1 && bz0 < az1
}

// PlaceStructures carves any structure footprint overlapping pos into c.
// Because structures are planned per-region (not per-chunk), generating any
// chunk within the region re-derives the identical plan, so the carve is
// reentrant and order-independent.
func (p *RegionPlanner) PlaceStructures(g *Generator, c *chunkstore.Chunk, pos core.ChunkPos) {
	rx, rz := pos.RegionOf()
	for _, s := range p.planRegion(rx, rz) {
		if pos.X < s.origin.X || pos.X >= s.origin.X+int32(s.size) ||
			pos.Z < s.origin.Z || pos.Z >= s.origin.Z+int32(s.size) {
			continue
		}
		carveStructure(g, c, pos, s)
	}
}

// carveStructure applies a minimal, deterministic footprint per structure
// kind: a hollow chamber for dungeons/mineshafts/ruins/villages/fortresses,
// distinguished only by Y-level and wall material so the core module
// exercises the placement/collision contract without depending on
// content-pack schematics (explicitly out of scope here).
func carveStructure(g *Generator, c *chunkstore.Chunk, pos core.ChunkPos, s plannedStructure) {
	localX := int(pos.X-s.origin.X) * chunkstore.ChunkWidth
	localZ := int(pos.Z-s.origin.Z) * chunkstore.ChunkWidth

	wallID := g.cobblestoneID
	floorY := 40
	switch s.kind {
	case StructureDungeon:
		floorY = 30
	case StructureMineshaft:
		floorY = 35
		wallID = g.registry.MustByName(chunkstore.NamePlank)
	case StructureFortress:
		floorY = 20
		wallID = g.obsidianID
	case StructureVillage, StructureRuin:
		floorY = g.HeightAt(int64(pos.X)*chunkstore.ChunkWidth, int64(pos.Z)*chunkstore.ChunkWidth)
	}

	for lx := 0; lx < chunkstore.ChunkWidth; lx++ {
		for lz := 0; lz < chunkstore.ChunkWidth; lz++ {
			last := s.size*chunkstore.ChunkWidth - 1
			onEdge := localX+lx == 0 || localZ+lz == 0 || localX+lx == last || localZ+lz == last
			for y := floorY; y < floorY+4; y++ {
				if y < 1 || y >= chunkstore.ChunkHeight {
					continue
				}
				if y == floorY || y == floorY+3 || onEdge {
					c.SetVoxel(lx, y, lz, chunkstore.Voxel{ID: wallID})
				} else {
					c.SetVoxel(lx, y, lz, chunkstore.AirVoxel)
				}
			}
		}
	}
}
