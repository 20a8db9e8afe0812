package sim

import (
	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
	"github.com/0x4d44/mdcore/sim/fluid"
)

// storageFluidWorld adapts chunkstore.Storage + BlockRegistry to
// fluid.World, encoding a fluid cell's level and source bit into the low
// 5 bits of Voxel.State (level in bits 0-3, source flag in bit 4) so the
// fluid scheduler needs no storage of its own, keeping the invariant that
// a Chunk's voxel array is the single source of truth for content hashing
// and persistence.
type storageFluidWorld struct {
	storage  *chunkstore.Storage
	registry *chunkstore.BlockRegistry
	waterID  chunkstore.BlockId
	lavaID   chunkstore.BlockId
	airID    chunkstore.BlockId
}

func (s *Scheduler) fluidWorld() fluid.World {
	waterID, _ := s.cfg.Registry.ByName(chunkstore.NameWater)
	lavaID, _ := s.cfg.Registry.ByName(chunkstore.NameLava)
	airID, _ := s.cfg.Registry.ByName(chunkstore.NameAir)
	return &storageFluidWorld{
		storage:  s.cfg.Storage,
		registry: s.cfg.Registry,
		waterID:  waterID,
		lavaID:   lavaID,
		airID:    airID,
	}
}

func (w *storageFluidWorld) split(p fluid.Pos) (core.ChunkPos, int, int, int) {
	cx := floorDivI32(p.X, chunkstore.ChunkWidth)
	cz := floorDivI32(p.Z, chunkstore.ChunkWidth)
	return core.ChunkPos{X: cx, Z: cz}, int(p.X - cx*chunkstore.ChunkWidth), int(p.Y), int(p.Z - cz*chunkstore.ChunkWidth)
}

func (w *storageFluidWorld) FluidAt(p fluid.Pos) (fluid.Cell, bool) {
	cp, lx, ly, lz := w.split(p)
	c, ok := w.storage.Get(cp)
	if !ok || ly < 0 || ly >= chunkstore.ChunkHeight {
		return fluid.Cell{}, false
	}
	v := c.Voxel(lx, ly, lz)
	switch v.ID {
	case w.waterID:
		return fluid.Cell{Kind: fluid.Water, Level: uint8(v.State & 0xF), Source: v.State&0x10 != 0}, true
	case w.lavaID:
		return fluid.Cell{Kind: fluid.Lava, Level: uint8(v.State & 0xF), Source: v.State&0x10 != 0}, true
	default:
		return fluid.Cell{}, v.ID == w.airID
	}
}

func (w *storageFluidWorld) SetFluid(p fluid.Pos, c fluid.Cell) {
	cp, lx, ly, lz := w.split(p)
	chunk, ok := w.storage.Get(cp)
	if !ok {
		return
	}
	if c.Level == 0 {
		chunk.SetVoxel(lx, ly, lz, chunkstore.AirVoxel)
		return
	}
	id := w.waterID
	if c.Kind == fluid.Lava {
		id = w.lavaID
	}
	state := uint16(c.Level & 0xF)
	if c.Source {
		state |= 0x10
	}
	chunk.SetVoxel(lx, ly, lz, chunkstore.Voxel{ID: id, State: state})
}

func (w *storageFluidWorld) BlockIDAt(p fluid.Pos) chunkstore.BlockId {
	cp, lx, ly, lz := w.split(p)
	c, ok := w.storage.Get(cp)
	if !ok {
		return w.lavaID // unloaded neighbor: treat as solid, not air, so gravity flow halts at the chunk edge
	}
	return c.Voxel(lx, ly, lz).ID
}

func (w *storageFluidWorld) SetBlockID(p fluid.Pos, id chunkstore.BlockId) {
	cp, lx, ly, lz := w.split(p)
	if c, ok := w.storage.Get(cp); ok {
		c.SetVoxel(lx, ly, lz, chunkstore.Voxel{ID: id})
	}
}

func (w *storageFluidWorld) MarkDirty(p fluid.Pos, flags chunkstore.DirtyFlag) {
	cp, _, _, _ := w.split(p)
	if c, ok := w.storage.Get(cp); ok {
		c.MarkDirty(flags)
	}
}

func (w *storageFluidWorld) IDByName(name string) (chunkstore.BlockId, bool) {
	return w.registry.ByName(name)
}
