// Package mesh implements dirty-triggered greedy-adjacent face meshing
// with a deterministic BLAKE3 content hash. Iteration order mirrors
// the fixed x/z/y walk a column sweep uses when generating a chunk.
package mesh

import (
	"encoding/binary"
	"math"

	"github.com/segmentio/fasthash/fnv1a"
	"lukechampine.com/blake3"

	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

// Vertex is one corner of an emitted triangle.
type Vertex struct {
	X, Y, Z     float32
	NX, NY, NZ  int8
	BlockID     uint16
	PackedLight uint8 // high nibble sky, low nibble block
}

// MeshBuffers is the per-chunk output of BuildChunk: a vertex/index buffer
// pair plus the chunk's content hash.
type MeshBuffers struct {
	Vertices []Vertex
	Indices  []uint32
	Hash     [32]byte
}

// Face enumerates the six cube faces in the fixed emission order:
// -X,+X,-Y,+Y,-Z,+Z.
type Face int

const (
	FaceNegX Face = iota
	FacePosX
	FaceNegY
	FacePosY
	FaceNegZ
	FacePosZ
)

var faceOrder = [6]Face{FaceNegX, FacePosX, FaceNegY, FacePosY, FaceNegZ, FacePosZ}

var faceNormal = [6][3]int8{
	FaceNegX: {-1, 0, 0}, FacePosX: {1, 0, 0},
	FaceNegY: {0, -1, 0}, FacePosY: {0, 1, 0},
	FaceNegZ: {0, 0, -1}, FacePosZ: {0, 0, 1},
}

var faceOffset = [6][3]int{
	FaceNegX: {-1, 0, 0}, FacePosX: {1, 0, 0},
	FaceNegY: {0, -1, 0}, FacePosY: {0, 1, 0},
	FaceNegZ: {0, 0, -1}, FacePosZ: {0, 0, 1},
}

// NeighborAccessor resolves a voxel at a global coordinate outside the chunk
// being meshed, used to read across chunk edges. Returning (AirVoxel, false)
// for a not-yet-loaded neighbor is correct: the mesher treats that as
// transparent to avoid holes at the edges,
type NeighborAccessor func(worldX, y, worldZ int32) (chunkstore.Voxel, bool)

// BuildChunk meshes a single chunk. neighbor resolves voxels outside the
// chunk's own bounds (pos's four horizontal neighbors); it may be nil, in
// which case out-of-bounds reads are always treated as transparent air.
func BuildChunk(pos core.ChunkPos, c *chunkstore.Chunk, registry *chunkstore.BlockRegistry, neighbor NeighborAccessor) MeshBuffers {
	var verts []Vertex
	var indices []uint32

	baseX := pos.X * chunkstore.ChunkWidth
	baseZ := pos.Z * chunkstore.ChunkWidth

	at := func(x, y, z int) (chunkstore.Voxel, bool) {
		if chunkstore.InBounds(x, y, z) {
			return c.Voxel(x, y, z), true
		}
		if neighbor == nil {
			return chunkstore.AirVoxel, false
		}
		return neighbor(baseX+int32(x), int32(y), baseZ+int32(z))
	}

	// x fastest, then z, then y,
	for y := 0; y < chunkstore.ChunkHeight; y++ {
		for z := 0; z < chunkstore.ChunkWidth; z++ {
			for x := 0; x < chunkstore.ChunkWidth; x++ {
				v := c.Voxel(x, y, z)
				if !registry.Opaque(v.ID) {
					continue
				}
				for _, face := range faceOrder {
					off := faceOffset[face]
					nv, _ := at(x+off[0], y+off[1], z+off[2])
					if registry.Opaque(nv.ID) {
						continue
					}
					verts, indices = emitFace(verts, indices, x, y, z, face, v)
				}
			}
		}
	}

	return MeshBuffers{Vertices: verts, Indices: indices, Hash: contentHash(verts, indices)}
}

// quadLocalOffsets gives the 4 corner offsets of a unit quad for each face,
// in a fixed winding order so that two logically identical chunks always
// emit byte-identical triangle streams.
var quadLocalOffsets = [6][4][3]float32{
	FaceNegX: {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
	FacePosX: {{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
	FaceNegY: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	FacePosY: {{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}},
	FaceNegZ: {{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	FacePosZ: {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
}

func emitFace(verts []Vertex, indices []uint32, x, y, z int, face Face, v chunkstore.Voxel) ([]Vertex, []uint32) {
	n := faceNormal[face]
	packed := (v.LightSky << 4) | (v.LightBlock & 0xF)
	base := uint32(len(verts))
	for _, off := range quadLocalOffsets[face] {
		verts = append(verts, Vertex{
			X: float32(x) + off[0], Y: float32(y) + off[1], Z: float32(z) + off[2],
			NX: n[0], NY: n[1], NZ: n[2],
			BlockID:     v.ID,
			PackedLight: packed,
		})
	}
	indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	return verts, indices
}

// contentHash computes the mandated 256-bit BLAKE3 hash over the
// concatenated emitted triangle stream (vertex fields then index stream, in
// emission order). The BLAKE3 pass runs on every build; there is no
// pre-hash short-circuit. fasthash appears only in FastDigest, which callers
// use to compare two finished MeshBuffers cheaply.
func contentHash(verts []Vertex, indices []uint32) [32]byte {
	h := blake3.New(32, nil)
	buf := make([]byte, 4)
	for _, vx := range verts {
		binary.LittleEndian.PutUint32(buf, float32bits(vx.X))
		h.Write(buf)
		binary.LittleEndian.PutUint32(buf, float32bits(vx.Y))
		h.Write(buf)
		binary.LittleEndian.PutUint32(buf, float32bits(vx.Z))
		h.Write(buf)
		h.Write([]byte{byte(vx.NX), byte(vx.NY), byte(vx.NZ)})
		binary.LittleEndian.PutUint16(buf[:2], vx.BlockID)
		h.Write(buf[:2])
		h.Write([]byte{vx.PackedLight})
	}
	for _, idx := range indices {
		binary.LittleEndian.PutUint32(buf, idx)
		h.Write(buf)
	}
	var out [32]byte
	sum := h.Sum(nil)
	copy(out[:], sum)
	return out
}

func float32bits(f float32) uint32 {
	return math.Float32bits(f)
}

// FastDigest returns an fnv1a64 digest of m's BLAKE3 hash, a 64-bit key
// render caches can compare instead of the full 32-byte hash.
func FastDigest(m MeshBuffers) uint64 {
	return fnv1a.AddBytes64(fnv1a.Init64, m.Hash[:])
}
