package mesh

import (
	"testing"

	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

func TestBuildChunkEmptyChunkProducesNoGeometry(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	c := chunkstore.NewChunk(core.ChunkPos{})
	m := BuildChunk(core.ChunkPos{}, c, reg, nil)
	if len(m.Vertices) != 0 || len(m.Indices) != 0 {
		t.Fatal("an all-air chunk should produce no geometry")
	}
}

func TestBuildChunkSingleBlockEmitsSixFaces(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	stoneID := reg.MustByName(chunkstore.NameStone)
	c := chunkstore.NewChunk(core.ChunkPos{})
	c.SetVoxel(8, 8, 8, chunkstore.Voxel{ID: stoneID})

	m := BuildChunk(core.ChunkPos{}, c, reg, nil)
	if len(m.Vertices) != 6*4 {
		t.Fatalf("vertex count = %d, want %d (6 faces x 4 verts)", len(m.Vertices), 6*4)
	}
	if len(m.Indices) != 6*6 {
		t.Fatalf("index count = %d, want %d (6 faces x 2 triangles x 3 indices)", len(m.Indices), 6*6)
	}
}

func TestBuildChunkAdjacentOpaqueBlocksCullSharedFace(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	stoneID := reg.MustByName(chunkstore.NameStone)
	c := chunkstore.NewChunk(core.ChunkPos{})
	c.SetVoxel(8, 8, 8, chunkstore.Voxel{ID: stoneID})
	c.SetVoxel(9, 8, 8, chunkstore.Voxel{ID: stoneID})

	m := BuildChunk(core.ChunkPos{}, c, reg, nil)
	// Two touching opaque cubes have 12 total faces; the two faces at their
	// shared boundary are culled, leaving 10.
	if len(m.Vertices) != 10*4 {
		t.Fatalf("vertex count = %d, want %d (10 faces x 4 verts after face culling)", len(m.Vertices), 10*4)
	}
}

func TestBuildChunkNilNeighborTreatsEdgeAsTransparent(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	stoneID := reg.MustByName(chunkstore.NameStone)
	c := chunkstore.NewChunk(core.ChunkPos{})
	c.SetVoxel(0, 8, 8, chunkstore.Voxel{ID: stoneID})

	m := BuildChunk(core.ChunkPos{}, c, reg, nil)
	if len(m.Vertices) != 6*4 {
		t.Fatalf("an edge block with nil neighbor accessor should emit all 6 faces, got %d vertices", len(m.Vertices))
	}
}

func TestBuildChunkNeighborAccessorCullsEdgeFace(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	stoneID := reg.MustByName(chunkstore.NameStone)
	c := chunkstore.NewChunk(core.ChunkPos{})
	c.SetVoxel(0, 8, 8, chunkstore.Voxel{ID: stoneID})

	neighbor := func(worldX, y, worldZ int32) (chunkstore.Voxel, bool) {
		return chunkstore.Voxel{ID: stoneID}, true
	}
	m := BuildChunk(core.ChunkPos{}, c, reg, neighbor)
	if len(m.Vertices) != 5*4 {
		t.Fatalf("an edge block with an opaque neighbor across the boundary should cull that face, got %d vertices (want 5 faces)", len(m.Vertices))
	}
}

func TestBuildChunkContentHashDeterministic(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	stoneID := reg.MustByName(chunkstore.NameStone)
	c := chunkstore.NewChunk(core.ChunkPos{})
	c.SetVoxel(3, 3, 3, chunkstore.Voxel{ID: stoneID})

	m1 := BuildChunk(core.ChunkPos{}, c, reg, nil)
	m2 := BuildChunk(core.ChunkPos{}, c, reg, nil)
	if m1.Hash != m2.Hash {
		t.Fatal("BuildChunk must produce a byte-identical hash for an unchanged chunk")
	}
}

func TestBuildChunkContentHashChangesWithVoxels(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	stoneID := reg.MustByName(chunkstore.NameStone)
	c := chunkstore.NewChunk(core.ChunkPos{})

	m1 := BuildChunk(core.ChunkPos{}, c, reg, nil)
	c.SetVoxel(3, 3, 3, chunkstore.Voxel{ID: stoneID})
	m2 := BuildChunk(core.ChunkPos{}, c, reg, nil)

	if m1.Hash == m2.Hash {
		t.Fatal("adding a visible block should change the content hash")
	}
}

type airGenerator struct{}

func (airGenerator) GenerateChunk(pos core.ChunkPos) *chunkstore.Chunk {
	return chunkstore.NewChunk(pos)
}

func TestRebuilderRebuildReportsChangedOnFirstCallAndWhenVoxelsChange(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	stoneID := reg.MustByName(chunkstore.NameStone)
	storage := chunkstore.NewStorage(4, airGenerator{})
	pos := core.ChunkPos{}
	storage.EnsureChunk(pos)

	r := NewRebuilder(storage, reg)
	_, changed := r.Rebuild(pos)
	if !changed {
		t.Fatal("the first Rebuild for a chunk should always report changed")
	}
	_, changed = r.Rebuild(pos)
	if changed {
		t.Fatal("Rebuild on an unchanged chunk should report unchanged")
	}

	c, _ := storage.Get(pos)
	c.SetVoxel(1, 1, 1, chunkstore.Voxel{ID: stoneID})
	_, changed = r.Rebuild(pos)
	if !changed {
		t.Fatal("Rebuild after a voxel edit should report changed")
	}
}

func TestRebuilderRebuildCullsFacesAcrossChunkBoundary(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	stoneID := reg.MustByName(chunkstore.NameStone)
	storage := chunkstore.NewStorage(4, airGenerator{})
	a := core.ChunkPos{X: 0, Z: 0}
	b := core.ChunkPos{X: 1, Z: 0}
	storage.EnsureChunk(a)
	storage.EnsureChunk(b)

	ca, _ := storage.Get(a)
	ca.SetVoxel(chunkstore.ChunkWidth-1, 8, 8, chunkstore.Voxel{ID: stoneID})
	cb, _ := storage.Get(b)
	cb.SetVoxel(0, 8, 8, chunkstore.Voxel{ID: stoneID})

	r := NewRebuilder(storage, reg)
	buf, _ := r.Rebuild(a)
	if len(buf.Vertices) != 5*4 {
		t.Fatalf("vertex count = %d, want 5 faces after the neighbor chunk culls the shared face", len(buf.Vertices))
	}
}

func TestRebuilderRebuildUnloadedChunkIsNoop(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	storage := chunkstore.NewStorage(4, airGenerator{})
	r := NewRebuilder(storage, reg)
	buf, changed := r.Rebuild(core.ChunkPos{X: 99, Z: 99})
	if changed || len(buf.Vertices) != 0 {
		t.Fatal("Rebuild on a chunk never loaded into storage should be a no-op")
	}
}

func TestRebuilderForgetClearsCachedHash(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	storage := chunkstore.NewStorage(4, airGenerator{})
	pos := core.ChunkPos{}
	storage.EnsureChunk(pos)

	r := NewRebuilder(storage, reg)
	r.Rebuild(pos)
	r.Forget(pos)
	_, changed := r.Rebuild(pos)
	if !changed {
		t.Fatal("Rebuild after Forget should report changed again")
	}
}

func TestFastDigestMatchesSameHash(t *testing.T) {
	reg := chunkstore.DefaultBlockRegistry()
	stoneID := reg.MustByName(chunkstore.NameStone)
	c := chunkstore.NewChunk(core.ChunkPos{})
	c.SetVoxel(1, 1, 1, chunkstore.Voxel{ID: stoneID})

	m := BuildChunk(core.ChunkPos{}, c, reg, nil)
	if FastDigest(m) != FastDigest(m) {
		t.Fatal("FastDigest must be deterministic for identical MeshBuffers")
	}
}
