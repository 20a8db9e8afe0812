// Region files (regions/r.<rx>.<rz>.bin) hold the opaque per-chunk voxel
// blobs for every loaded chunk in a 32x32-chunk region, one CRC32-checked
// entry per chunk. Grounded on the same buffer/reader framing as
// world.state, reusing oriumgames-pile's checksum-then-body layout idiom
// rather than its varint-prefixed format, since chunk blobs here are all
// the same fixed size.
package persist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

// RegionSize is the number of chunks along one axis of a region file.
const RegionSize = 32

// RegionPos identifies a region by its region-grid coordinates.
type RegionPos struct {
	X, Z int32
}

// regionOf maps a chunk position to the region that contains it, using
// floor division so negative coordinates land in the correct region.
func regionOf(p core.ChunkPos) RegionPos {
	return RegionPos{X: floorDiv(p.X, RegionSize), Z: floorDiv(p.Z, RegionSize)}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// RegionFileName returns the "r.<rx>.<rz>.bin" file name for pos.
func RegionFileName(pos RegionPos) string {
	return fmt.Sprintf("r.%d.%d.bin", pos.X, pos.Z)
}

// chunkVoxelBytes is the fixed on-disk size of one chunk's voxel array:
// ChunkVoxelCount voxels, each 6 bytes (u16 id, u16 state, u8 sky, u8
// block), matching chunkstore.Voxel's field layout.
const chunkVoxelBytes = chunkstore.ChunkVoxelCount * 6

func encodeVoxels(voxels [chunkstore.ChunkVoxelCount]chunkstore.Voxel) []byte {
	buf := make([]byte, 0, chunkVoxelBytes)
	var tmp [6]byte
	for _, v := range voxels {
		binary.LittleEndian.PutUint16(tmp[0:2], v.ID)
		binary.LittleEndian.PutUint16(tmp[2:4], v.State)
		tmp[4] = v.LightSky
		tmp[5] = v.LightBlock
		buf = append(buf, tmp[:]...)
	}
	return buf
}

func decodeVoxels(data []byte) ([chunkstore.ChunkVoxelCount]chunkstore.Voxel, error) {
	var out [chunkstore.ChunkVoxelCount]chunkstore.Voxel
	if len(data) != chunkVoxelBytes {
		return out, fmt.Errorf("persist: chunk blob is %d bytes, want %d (voxel count mismatch)", len(data), chunkVoxelBytes)
	}
	for i := range out {
		off := i * 6
		out[i] = chunkstore.Voxel{
			ID:         binary.LittleEndian.Uint16(data[off : off+2]),
			State:      binary.LittleEndian.Uint16(data[off+2 : off+4]),
			LightSky:   data[off+4],
			LightBlock: data[off+5],
		}
	}
	return out, nil
}

// regionEntryHeaderLen is chunk_x(4) + chunk_z(4) + crc32(4) + len(4).
const regionEntryHeaderLen = 16

// SaveRegion writes every chunk in storage whose position falls in region
// to regionsDir/r.<rx>.<rz>.bin, in ascending ChunkPos order, via
// writeAtomic.
func SaveRegion(regionsDir string, region RegionPos, storage *chunkstore.Storage) error {
	if err := os.MkdirAll(regionsDir, 0o755); err != nil {
		return fmt.Errorf("persist: create regions dir: %w", err)
	}
	positions := storage.IterPositions()
	sort.Slice(positions, func(i, j int) bool { return positions[i].Less(positions[j]) })

	var buf bytes.Buffer
	for _, pos := range positions {
		if regionOf(pos) != region {
			continue
		}
		chunk, ok := storage.Get(pos)
		if !ok {
			continue
		}
		body := encodeVoxels(chunk.Snapshot())
		writeRegionEntry(&buf, pos, body)
	}

	path := filepath.Join(regionsDir, RegionFileName(region))
	return writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func writeRegionEntry(buf *bytes.Buffer, pos core.ChunkPos, body []byte) {
	var header [regionEntryHeaderLen]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(pos.X))
	binary.LittleEndian.PutUint32(header[4:8], uint32(pos.Z))
	binary.LittleEndian.PutUint32(header[8:12], crc32.ChecksumIEEE(body))
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(body)))
	buf.Write(header[:])
	buf.Write(body)
}

// LoadRegion reads regionsDir/r.<rx>.<rz>.bin and restores every chunk it
// contains into storage via storage.EnsureChunk + SetVoxel. A chunk entry
// whose body length is not chunkVoxelBytes, or whose CRC32 does not match,
// is rejected with a descriptive error rather than silently accepted or
// causing a panic.
func LoadRegion(regionsDir string, region RegionPos, storage *chunkstore.Storage) error {
	path := filepath.Join(regionsDir, RegionFileName(region))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("persist: read region %s: %w", RegionFileName(region), err)
	}

	off := 0
	for off < len(data) {
		if len(data)-off < regionEntryHeaderLen {
			return fmt.Errorf("persist: region %s: truncated entry header at offset %d", RegionFileName(region), off)
		}
		cx := int32(binary.LittleEndian.Uint32(data[off : off+4]))
		cz := int32(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		wantCRC := binary.LittleEndian.Uint32(data[off+8 : off+12])
		bodyLen := binary.LittleEndian.Uint32(data[off+12 : off+16])
		off += regionEntryHeaderLen

		if uint64(off)+uint64(bodyLen) > uint64(len(data)) {
			return fmt.Errorf("persist: region %s: entry (%d,%d) body length %d exceeds file", RegionFileName(region), cx, cz, bodyLen)
		}
		body := data[off : off+int(bodyLen)]
		off += int(bodyLen)

		if crc32.ChecksumIEEE(body) != wantCRC {
			return fmt.Errorf("persist: region %s: entry (%d,%d) failed CRC32 check", RegionFileName(region), cx, cz)
		}
		voxels, err := decodeVoxels(body)
		if err != nil {
			return fmt.Errorf("persist: region %s: entry (%d,%d): %w", RegionFileName(region), cx, cz, err)
		}

		pos := core.ChunkPos{X: cx, Z: cz}
		chunk := storage.EnsureChunk(pos)
		for y := 0; y < chunkstore.ChunkHeight; y++ {
			for z := 0; z < chunkstore.ChunkWidth; z++ {
				for x := 0; x < chunkstore.ChunkWidth; x++ {
					chunk.SetVoxel(x, y, z, voxels[chunkstore.Index(x, y, z)])
				}
			}
		}
		// Loaded chunks still need their first mesh/light pass, matching a
		// freshly generated chunk's initial dirty state.
		chunk.MarkDirty(chunkstore.DirtyMesh | chunkstore.DirtyLight)
	}
	return nil
}

// LoadAllRegions scans regionsDir for every "r.<rx>.<rz>.bin" file and loads
// each into storage. A missing directory is not an error: a fresh world
// simply has none yet.
func LoadAllRegions(regionsDir string, storage *chunkstore.Storage) error {
	entries, err := os.ReadDir(regionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("persist: read regions dir: %w", err)
	}

	var regions []RegionPos
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		pos, ok := parseRegionFileName(e.Name())
		if !ok {
			continue
		}
		regions = append(regions, pos)
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].X != regions[j].X {
			return regions[i].X < regions[j].X
		}
		return regions[i].Z < regions[j].Z
	})

	for _, r := range regions {
		if err := LoadRegion(regionsDir, r, storage); err != nil {
			return err
		}
	}
	return nil
}

func parseRegionFileName(name string) (RegionPos, bool) {
	var x, z int32
	if n, err := fmt.Sscanf(name, "r.%d.%d.bin", &x, &z); n != 2 || err != nil {
		return RegionPos{}, false
	}
	return RegionPos{X: x, Z: z}, true
}

// SaveAllRegions partitions every loaded chunk in storage into its region
// and writes each region file once.
func SaveAllRegions(regionsDir string, storage *chunkstore.Storage) error {
	regions := make(map[RegionPos]struct{})
	for _, pos := range storage.IterPositions() {
		regions[regionOf(pos)] = struct{}{}
	}
	ordered := make([]RegionPos, 0, len(regions))
	for r := range regions {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].X != ordered[j].X {
			return ordered[i].X < ordered[j].X
		}
		return ordered[i].Z < ordered[j].Z
	})
	for _, r := range ordered {
		if err := SaveRegion(regionsDir, r, storage); err != nil {
			return err
		}
	}
	return nil
}
