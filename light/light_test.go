package light

import (
	"testing"

	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

type airGenerator struct{}

func (airGenerator) GenerateChunk(pos core.ChunkPos) *chunkstore.Chunk {
	return chunkstore.NewChunk(pos)
}

func newTestStorage() *chunkstore.Storage {
	return chunkstore.NewStorage(64, airGenerator{})
}

func TestRelightChunkOpenSkyReachesFullBrightness(t *testing.T) {
	storage := newTestStorage()
	registry := chunkstore.DefaultBlockRegistry()
	storage.EnsureChunk(core.ChunkPos{X: 0, Z: 0})

	e := NewEngine(storage, registry, nil)
	e.RelightChunk(core.ChunkPos{X: 0, Z: 0})

	c, _ := storage.Get(core.ChunkPos{X: 0, Z: 0})
	top := c.Voxel(8, chunkstore.ChunkHeight-1, 8)
	if top.LightSky != 15 {
		t.Fatalf("LightSky at the top of an all-air column = %d, want 15", top.LightSky)
	}
}

func TestRelightChunkOpaqueFloorBlocksSkylightBelow(t *testing.T) {
	storage := newTestStorage()
	registry := chunkstore.DefaultBlockRegistry()
	stoneID := registry.MustByName(chunkstore.NameStone)

	c := storage.EnsureChunk(core.ChunkPos{X: 0, Z: 0})
	c.SetVoxel(5, 50, 5, chunkstore.Voxel{ID: stoneID})

	e := NewEngine(storage, registry, nil)
	e.RelightChunk(core.ChunkPos{X: 0, Z: 0})

	below := c.Voxel(5, 10, 5)
	if below.LightSky != 0 {
		t.Fatalf("LightSky below an opaque floor = %d, want 0 (no skylight reaches below stone)", below.LightSky)
	}
}

func TestRelightChunkStitchesAcrossSeam(t *testing.T) {
	storage := newTestStorage()
	registry := chunkstore.DefaultBlockRegistry()
	stoneID := registry.MustByName(chunkstore.NameStone)

	a := storage.EnsureChunk(core.ChunkPos{X: 0, Z: 0})
	b := storage.EnsureChunk(core.ChunkPos{X: 1, Z: 0})

	// Roof over chunk a's entire column so it starts dark; chunk b is open
	// sky. After stitching, light from b's open edge should leak one step
	// into a's edge column.
	for lz := 0; lz < chunkstore.ChunkWidth; lz++ {
		for lx := 0; lx < chunkstore.ChunkWidth; lx++ {
			a.SetVoxel(lx, 100, lz, chunkstore.Voxel{ID: stoneID})
		}
	}

	e := NewEngine(storage, registry, nil)
	e.RelightChunk(core.ChunkPos{X: 1, Z: 0})
	e.RelightChunk(core.ChunkPos{X: 0, Z: 0})
	e.RelightChunk(core.ChunkPos{X: 1, Z: 0})

	bEdge := b.Voxel(0, 99, 8)
	aEdge := a.Voxel(chunkstore.ChunkWidth-1, 99, 8)
	diff := int(bEdge.LightSky) - int(aEdge.LightSky)
	if diff < 0 {
		diff = -diff
	}
	if diff > 1 {
		t.Fatalf("light across the seam differs by %d, want at most 1 (bEdge=%d, aEdge=%d)", diff, bEdge.LightSky, aEdge.LightSky)
	}
}

func TestRelightChunkClearsLightDirtyFlag(t *testing.T) {
	storage := newTestStorage()
	registry := chunkstore.DefaultBlockRegistry()
	c := storage.EnsureChunk(core.ChunkPos{X: 2, Z: 2})
	if c.PeekDirty()&chunkstore.DirtyLight == 0 {
		t.Fatal("a fresh chunk should start with DirtyLight set")
	}

	e := NewEngine(storage, registry, nil)
	e.RelightChunk(core.ChunkPos{X: 2, Z: 2})

	if c.PeekDirty()&chunkstore.DirtyLight != 0 {
		t.Fatal("RelightChunk must clear DirtyLight on the relit chunk")
	}
}

func TestRelightChunkReportsChangedChunks(t *testing.T) {
	storage := newTestStorage()
	registry := chunkstore.DefaultBlockRegistry()
	storage.EnsureChunk(core.ChunkPos{X: 0, Z: 0})

	e := NewEngine(storage, registry, nil)
	result := e.RelightChunk(core.ChunkPos{X: 0, Z: 0})
	if len(result.Changed) == 0 {
		t.Fatal("relighting a fresh all-air chunk should report at least one changed chunk")
	}
	for i := 1; i < len(result.Changed); i++ {
		if !result.Changed[i-1].Less(result.Changed[i]) {
			t.Fatal("RelightResult.Changed must be returned in deterministic sorted order")
		}
	}
}

type litEmitter struct{ level uint8 }

const litTorchID chunkstore.BlockId = 9001

func (l litEmitter) Emission(id chunkstore.BlockId, state uint16, registry *chunkstore.BlockRegistry) uint8 {
	if id == litTorchID && state == 1 {
		return l.level
	}
	return registry.BaseLightEmission(id)
}

func TestRelightChunkCustomEmitterOverridesBaseEmission(t *testing.T) {
	storage := newTestStorage()
	registry := chunkstore.DefaultBlockRegistry()
	stoneID := registry.MustByName(chunkstore.NameStone)

	c := storage.EnsureChunk(core.ChunkPos{X: 0, Z: 0})
	// Roof over the whole chunk so the torch's emitted light, not ambient
	// skylight, is what reaches the floor.
	for lz := 0; lz < chunkstore.ChunkWidth; lz++ {
		for lx := 0; lx < chunkstore.ChunkWidth; lx++ {
			c.SetVoxel(lx, 60, lz, chunkstore.Voxel{ID: stoneID})
		}
	}
	c.SetVoxel(8, 10, 8, chunkstore.Voxel{ID: litTorchID, State: 1})

	e := NewEngine(storage, registry, litEmitter{level: 14})
	e.RelightChunk(core.ChunkPos{X: 0, Z: 0})

	lit := c.Voxel(8, 10, 8)
	if lit.LightBlock != 14 {
		t.Fatalf("LightBlock at the emitter voxel = %d, want 14 from the custom emitter", lit.LightBlock)
	}
	neighbor := c.Voxel(9, 10, 8)
	if neighbor.LightBlock != 13 {
		t.Fatalf("LightBlock one step from the emitter = %d, want 13 (one level of decay)", neighbor.LightBlock)
	}
}
