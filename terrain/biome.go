package terrain

// BiomeId is the stable numeric encoding of a biome; like the simulation's
// other small enums, it must be preserved across saves and wire messages
// once assigned.
type BiomeId uint8

const (
	BiomeOcean BiomeId = iota
	BiomePlains
	BiomeDesert
	BiomeForest
	BiomeTaiga
	BiomeSwamp
	BiomeMountains
	BiomeRiver
	BiomeIcePlains
	BiomeBirchForest
)

// biomeProfile describes a biome's surface cover (surface block, subsurface
// block and its depth), generalized from the per-biome GroundCover() methods
// seen in server/world/generator/pmgen/biome/*.go into data instead of one
// Go type per biome. minHeight and maxHeight are not read by the generator:
// surface height comes from Generator.HeightAt and does not depend on biome.
type biomeProfile struct {
	minHeight, maxHeight int
	surfaceBlock         string
	subsurfaceBlock      string
	subsurfaceDepth      int
}

var biomeProfiles = map[BiomeId]biomeProfile{
	BiomeOcean:       {minHeight: 40, maxHeight: 58, surfaceBlock: "sand", subsurfaceBlock: "dirt", subsurfaceDepth: 3},
	BiomePlains:      {minHeight: 62, maxHeight: 74, surfaceBlock: "grass_block", subsurfaceBlock: "dirt", subsurfaceDepth: 4},
	BiomeDesert:      {minHeight: 62, maxHeight: 78, surfaceBlock: "sand", subsurfaceBlock: "sand", subsurfaceDepth: 5},
	BiomeForest:      {minHeight: 64, maxHeight: 82, surfaceBlock: "grass_block", subsurfaceBlock: "dirt", subsurfaceDepth: 4},
	BiomeTaiga:       {minHeight: 64, maxHeight: 84, surfaceBlock: "grass_block", subsurfaceBlock: "dirt", subsurfaceDepth: 3},
	BiomeSwamp:       {minHeight: 58, maxHeight: 64, surfaceBlock: "grass_block", subsurfaceBlock: "dirt", subsurfaceDepth: 3},
	BiomeMountains:   {minHeight: 70, maxHeight: 140, surfaceBlock: "stone", subsurfaceBlock: "stone", subsurfaceDepth: 8},
	BiomeRiver:       {minHeight: 56, maxHeight: 62, surfaceBlock: "sand", subsurfaceBlock: "dirt", subsurfaceDepth: 2},
	BiomeIcePlains:   {minHeight: 62, maxHeight: 74, surfaceBlock: "grass_block", subsurfaceBlock: "dirt", subsurfaceDepth: 4},
	BiomeBirchForest: {minHeight: 64, maxHeight: 80, surfaceBlock: "grass_block", subsurfaceBlock: "dirt", subsurfaceDepth: 4},
}

// biomeOrder is the fixed ordering of biomes used to convert a continuous
// selector value into a discrete BiomeId, so the mapping is stable and
// total-ordered rather than depending on map iteration.
var biomeOrder = []BiomeId{
	BiomeOcean, BiomeRiver, BiomeSwamp, BiomePlains, BiomeForest,
	BiomeBirchForest, BiomeTaiga, BiomeIcePlains, BiomeDesert, BiomeMountains,
}

// BiomeSelector assigns a BiomeId as a pure, reentrant function of
// (world_seed, world_x, world_z),
type BiomeSelector struct {
	temperature Octave
	moisture    Octave
}

// NewBiomeSelector builds a selector for worldSeed.
func NewBiomeSelector(worldSeed uint64) BiomeSelector {
	return BiomeSelector{
		temperature: NewOctave(worldSeed^0x5EED0001, 3, 256, 0.5),
		moisture:    NewOctave(worldSeed^0x5EED0002, 3, 256, 0.5),
	}
}

// Assign returns the biome at world coordinates (x, z).
func (b BiomeSelector) Assign(x, z int64) BiomeId {
	t := b.temperature.Sample(float64(x), float64(z))
	m := b.moisture.Sample(float64(x), float64(z))
	idx := int(t*float64(len(biomeOrder)-1)+m*0.999) % len(biomeOrder)
	if idx < 0 {
		idx += len(biomeOrder)
	}
	return biomeOrder[idx]
}

func (id BiomeId) profile() biomeProfile {
	if p, ok := biomeProfiles[id]; ok {
		return p
	}
	return biomeProfiles[BiomePlains]
}
