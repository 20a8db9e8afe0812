package terrain

import (
	"math/rand/v2"

	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

// OreType describes a single vein kind, generalized from the inline ore
// populator list in pmgen.Generator.GenerateChunk (coal, iron,
// lapis, gold, diamond, dirt and gravel pockets, each with a per-chunk
// attempt count, vein size, and Y-range gate).
type OreType struct {
	Name        string
	Host        string
	Attempts    int
	VeinSize    int
	MinY, MaxY  int
}

// DefaultOreTypes defines the ore table. Each ore has one fixed Y range for
// vein placement; the ranges do not depend on biome.
func DefaultOreTypes() []OreType {
	return []OreType{
		{Name: chunkstore.NameCoalOre, Host: chunkstore.NameStone, Attempts: 20, VeinSize: 16, MinY: 5, MaxY: 128},
		{Name: chunkstore.NameIronOre, Host: chunkstore.NameStone, Attempts: 20, VeinSize: 8, MinY: 5, MaxY: 64},
		{Name: chunkstore.NameLapisOre, Host: chunkstore.NameStone, Attempts: 1, VeinSize: 6, MinY: 5, MaxY: 32},
		{Name: chunkstore.NameGoldOre, Host: chunkstore.NameStone, Attempts: 2, VeinSize: 8, MinY: 5, MaxY: 32},
		{Name: chunkstore.NameDiamondOre, Host: chunkstore.NameStone, Attempts: 1, VeinSize: 7, MinY: 5, MaxY: 16},
	}
}

// placeOreVeins scatters vein clusters using a scoped RNG derived from the
// chunk's position, never the platform RNG, determinism
// discipline.
func (g *Generator) placeOreVeins(c *chunkstore.Chunk, pos core.ChunkPos) {
	r := core.ScopedRNGForChunk(g.seed, pos, core.ZeroTick)
	hostID := g.stoneID
	for _, ore := range g.ores {
		oreID, ok := g.registry.ByName(ore.Name)
		if !ok {
			continue
		}
		for i := 0; i < ore.Attempts; i++ {
			cx := r.IntN(chunkstore.ChunkWidth)
			cz := r.IntN(chunkstore.ChunkWidth)
			cy := ore.MinY + r.IntN(max1(ore.MaxY-ore.MinY))
			placeVein(c, r, cx, cy, cz, ore.VeinSize, hostID, oreID)
		}
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// placeVein grows a roughly spherical vein of size veinSize centered near
// (cx, cy, cz), replacing only hostID voxels so veins never displace air,
// water, or another ore already placed at a higher priority.
func placeVein(c *chunkstore.Chunk, r *rand.Rand, cx, cy, cz, veinSize int, hostID, oreID chunkstore.BlockId) {
	placed := 0
	x, y, z := cx, cy, cz
	for placed < veinSize {
		if chunkstore.InBounds(x, y, z) {
			if c.Voxel(x, y, z).ID == hostID {
				c.SetVoxel(x, y, z, chunkstore.Voxel{ID: oreID})
				placed++
			}
		}
		// Deterministic random walk, grounded on relying on a single Random
		// stream per chunk for every populator decision.
		switch r.IntN(6) {
		case 0:
			x++
		case 1:
			x--
		case 2:
			y++
		case 3:
			y--
		case 4:
			z++
		case 5:
			z--
		}
		if !chunkstore.InBounds(x, y, z) {
			x, y, z = cx, cy, cz
		}
	}
}

// placeAmethystGeode rarely carves a concentric-shell geode: an outer stone
// shell, a budding-amethyst shell, and a hollow amethyst-block-lined core.
func (g *Generator) placeAmethystGeode(c *chunkstore.Chunk, pos core.ChunkPos) {
	r := core.ScopedRNGForChunk(g.seed^0xA3E7_5700, pos, core.ZeroTick)
	if r.Float64() > 1.0/48 {
		return
	}
	cx := 2 + r.IntN(chunkstore.ChunkWidth-4)
	cz := 2 + r.IntN(chunkstore.ChunkWidth-4)
	cy := 20 + r.IntN(60)
	radius := 3 + r.IntN(2)

	outerID := g.stoneID
	shellID, ok1 := g.registry.ByName(chunkstore.NameBudgingAmethyst)
	coreID, ok2 := g.registry.ByName(chunkstore.NameAmethystBlock)
	if !ok1 || !ok2 {
		return
	}
	for dx := -radius - 1; dx <= radius+1; dx++ {
		for dy := -radius - 1; dy <= radius+1; dy++ {
			for dz := -radius - 1; dz <= radius+1; dz++ {
				x, y, z := cx+dx, cy+dy, cz+dz
				if !chunkstore.InBounds(x, y, z) {
					continue
				}
				d2 := dx*dx + dy*dy + dz*dz
				switch {
				case d2 <= (radius-2)*(radius-2):
					c.SetVoxel(x, y, z, chunkstore.AirVoxel)
				case d2 <= (radius-1)*(radius-1):
					c.SetVoxel(x, y, z, chunkstore.Voxel{ID: coreID})
				case d2 <= radius*radius:
					c.SetVoxel(x, y, z, chunkstore.Voxel{ID: shellID})
				case d2 <= (radius+1)*(radius+1):
					c.SetVoxel(x, y, z, chunkstore.Voxel{ID: outerID})
				}
			}
		}
	}
}
