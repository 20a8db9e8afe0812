// Package terrain implements deterministic terrain generation with
// cross-chunk heightmap continuity, biome assignment, caves, ore veins,
// aquifers, amethyst geodes, and region-granularity structure placement.
// Grounded on server/world/generator/pmgen/generator.go's per-chunk x/z
// sweep and ore populator list. Biomes are assigned per column, with no
// blending between neighboring biomes.
package terrain

import (
	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

// Generator produces deterministic chunks for a single world seed. It
// implements chunkstore.Generator.
type Generator struct {
	seed     uint64
	registry *chunkstore.BlockRegistry
	elev     Octave
	caves    Octave
	biomes   BiomeSelector
	ores     []OreType
	regions  *RegionPlanner

	airID, stoneID, waterID, lavaID, bedrockID chunkstore.BlockId
	obsidianID, cobblestoneID                  chunkstore.BlockId
}

const (
	waterSurfaceY = 62
	worldFloorY   = 0
	baseHeight    = 64
	heightRange   = 76 // height spans roughly [64, 140)
	seaLevel      = 62
	aquiferWaterY = 30
	aquiferLavaY  = 10
)

// NewGenerator builds a terrain Generator for worldSeed, resolving block ids
// from registry. registry must contain at least the names in
// chunkstore.DefaultDescriptors.
func NewGenerator(worldSeed uint64, registry *chunkstore.BlockRegistry) *Generator {
	g := &Generator{
		seed:     worldSeed,
		registry: registry,
		elev:     NewOctave(worldSeed^0xE1E5_0001, 4, 96, 0.5),
		caves:    NewOctave(worldSeed^0xCA4E_0001, 3, 24, 0.5),
		biomes:   NewBiomeSelector(worldSeed),
		ores:     DefaultOreTypes(),
	}
	g.regions = NewRegionPlanner(worldSeed)
	g.airID = registry.MustByName(chunkstore.NameAir)
	g.stoneID = registry.MustByName(chunkstore.NameStone)
	g.waterID = registry.MustByName(chunkstore.NameWater)
	g.lavaID = registry.MustByName(chunkstore.NameLava)
	g.bedrockID = registry.MustByName(chunkstore.NameBedrock)
	g.obsidianID = registry.MustByName(chunkstore.NameObsidian)
	g.cobblestoneID = registry.MustByName(chunkstore.NameCobblestone)
	return g
}

// HeightAt returns the deterministic surface height (first air voxel y) at
// world coordinates (x, z), independent of biome so that heightmap
// continuity never depends on a biome boundary falling between two cells.
func (g *Generator) HeightAt(x, z int64) int {
	n := g.elev.Sample(float64(x), float64(z))
	return baseHeight + int(n*heightRange)
}

// GenerateChunk implements chunkstore.Generator. It is a pure function of
// (g.seed, pos): calling it twice for the same position yields
// byte-identical voxel arrays, property 1.
func (g *Generator) GenerateChunk(pos core.ChunkPos) *chunkstore.Chunk {
	c := chunkstore.NewChunk(pos)
	baseX := int64(pos.X) * chunkstore.ChunkWidth
	baseZ := int64(pos.Z) * chunkstore.ChunkWidth

	for lx := 0; lx < chunkstore.ChunkWidth; lx++ {
		for lz := 0; lz < chunkstore.ChunkWidth; lz++ {
			wx, wz := baseX+int64(lx), baseZ+int64(lz)
			height := g.HeightAt(wx, wz)
			biome := g.biomes.Assign(wx, wz)
			profile := biome.profile()

			surfaceID := g.registry.MustByName(profile.surfaceBlock)
			subsurfaceID := g.registry.MustByName(profile.subsurfaceBlock)

			for y := 0; y < chunkstore.ChunkHeight; y++ {
				var id chunkstore.BlockId = g.airID
				switch {
				case y == worldFloorY:
					id = g.bedrockID
				case y < height:
					id = g.stoneID
					if y >= height-profile.subsurfaceDepth {
						id = subsurfaceID
					}
					if g.isCave(wx, int64(y), wz) && y < height-1 {
						id = g.airID
					}
				case y == height:
					id = surfaceID
					if height < seaLevel {
						id = g.registry.MustByName(chunkstore.NameSand)
					}
				case y > height && y <= seaLevel:
					id = g.waterID
				}
				if id != g.airID {
					c.SetVoxel(lx, y, lz, chunkstore.Voxel{ID: id})
				}
			}

			g.applyAquifers(c, lx, lz, wx, wz, height)
		}
	}

	g.placeOreVeins(c, pos)
	g.placeAmethystGeode(c, pos)
	g.regions.PlaceStructures(g, c, pos)

	return c
}

// isCave reports a cave voxel where the cave noise, sampled with y folded
// into its second coordinate, exceeds a fixed 0.82 threshold. Caves form
// only between y=4 and y=100, so they never reach bedrock; GenerateChunk
// keeps the voxel just below the surface solid, so they never open onto it.
func (g *Generator) isCave(x, y, z int64) bool {
	if y < 4 || y > 100 {
		return false
	}
	n := g.caves.Sample(float64(x)*1.7, float64(z)*1.7+float64(y)*37.1)
	return n > 0.82
}

// applyAquifers fills isolated air pockets with water above y~30 or lava
// below y~10, A pocket is identified simply as an air
// voxel created by cave carving below the surface.
func (g *Generator) applyAquifers(c *chunkstore.Chunk, lx, lz int, wx, wz int64, height int) {
	for y := 1; y < height-1; y++ {
		v := c.Voxel(lx, y, lz)
		if v.ID != g.airID {
			continue
		}
		if !g.isCave(wx, int64(y), wz) {
			continue
		}
		switch {
		case y >= aquiferWaterY:
			c.SetVoxel(lx, y, lz, chunkstore.Voxel{ID: g.waterID})
		case y <= aquiferLavaY:
			c.SetVoxel(lx, y, lz, chunkstore.Voxel{ID: g.lavaID})
		}
	}
}
